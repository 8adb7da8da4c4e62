package converter

import (
	"bytes"
	"encoding/json"
)

// Header is the read-once field name table shared by every Object of a run.
//
// Duplicate field names are allowed in the input. The resulting key keeps the
// position of its first occurrence and the value of its last one.
type Header struct {
	names []string
	keys  []string       // unique names, first-occurrence order
	index map[string]int // name -> column of its last occurrence
}

// NewHeader builds the lookup table for one run. The names slice is copied.
func NewHeader(names []string) *Header {
	h := &Header{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
	}
	for i, name := range h.names {
		if _, seen := h.index[name]; !seen {
			h.keys = append(h.keys, name)
		}
		h.index[name] = i
	}
	return h
}

// Names returns the header fields as read, duplicates included.
func (h *Header) Names() []string {
	return append([]string(nil), h.names...)
}

// Keys returns the unique field names in output order.
func (h *Header) Keys() []string {
	return append([]string(nil), h.keys...)
}

// Width is the number of cells every record must carry.
func (h *Header) Width() int {
	return len(h.names)
}

// Object is one converted record: the shared header plus the record's cells.
type Object struct {
	header *Header
	cells  []string
}

func newObject(h *Header, cells []string) Object {
	return Object{header: h, cells: cells}
}

// Get returns the cell for a field name.
func (o Object) Get(key string) (string, bool) {
	if o.header == nil {
		return "", false
	}
	i, ok := o.header.index[key]
	if !ok || i >= len(o.cells) {
		return "", false
	}
	return o.cells[i], true
}

// Keys returns the object's field names in header order.
func (o Object) Keys() []string {
	if o.header == nil {
		return nil
	}
	return o.header.Keys()
}

func (o Object) Len() int {
	if o.header == nil {
		return 0
	}
	return len(o.header.keys)
}

// MarshalJSON writes the keys in header order. HTML characters are left as is.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if o.header != nil {
		for n, key := range o.header.keys {
			if n > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(&buf, key); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
			v, _ := o.Get(key)
			if err := writeJSONString(&buf, v); err != nil {
				return nil, err
			}
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	var scratch bytes.Buffer
	enc := json.NewEncoder(&scratch)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(scratch.Bytes(), []byte("\n")))
	return nil
}

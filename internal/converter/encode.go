package converter

import (
	"bytes"
	"encoding/json"
	"io"
)

// Marshal renders the result set as a JSON array. An empty or nil set
// renders as []. The document has no trailing newline.
func Marshal(objects []Object, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, objects, pretty); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the result set to w as one JSON document. Nothing reaches w
// unless the whole set serialized.
func Encode(w io.Writer, objects []Object, pretty bool) error {
	if objects == nil {
		objects = []Object{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(objects); err != nil {
		return &SerializeError{Err: err}
	}
	if _, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

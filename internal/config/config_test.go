package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nconklindev/csv2json/internal/converter"
	"github.com/nconklindev/csv2json/internal/types"
)

func validConfig() Config {
	return Config{
		InputFile: "people.csv",
		Window:    types.All(),
		Format:    converter.FormatAuto,
		Delimiter: ',',
		LogFormat: "text",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"Valid file input", func(c *Config) {}, ""},
		{"Valid stdin input", func(c *Config) { c.InputFile = ""; c.Stdin = true }, ""},
		{"Both inputs", func(c *Config) { c.Stdin = true }, "mutually exclusive"},
		{"No input", func(c *Config) { c.InputFile = "" }, "is required"},
		{"Negative offset", func(c *Config) { c.Window.Offset = -1 }, "offset"},
		{"Negative limit", func(c *Config) { c.Window = types.Page(0, -5) }, "limit"},
		{"Zero limit", func(c *Config) { c.Window = types.Page(0, 0) }, ""},
		{"Bad format", func(c *Config) { c.Format = "json" }, "unsupported input format"},
		{"Bad delimiter", func(c *Config) { c.Delimiter = '\n' }, "invalid delimiter"},
		{"Bad log format", func(c *Config) { c.LogFormat = "xml" }, "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v; want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v; want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	c := validConfig()
	c.InputFile = ""
	c.Window.Offset = -1
	err := c.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"is required", "offset"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() = %v; missing %q", err, want)
		}
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected rune
		wantErr  bool
	}{
		{"Default", "", ',', false},
		{"Semicolon", ";", ';', false},
		{"Escaped tab", `\t`, '\t', false},
		{"Tab word", "TAB", '\t', false},
		{"Literal tab", "\t", '\t', false},
		{"Pipe", "|", '|', false},
		{"Unicode", "§", '§', false},
		{"Too long", ";;", 0, true},
		{"Quote", `"`, 0, true},
		{"Newline", "\n", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDelimiter(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDelimiter(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseDelimiter(%q) = %q; want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestReaderOptions(t *testing.T) {
	c := validConfig()
	c.Delimiter = ';'
	c.Sheet = "Data"
	c.LazyQuotes = true

	opts := c.ReaderOptions()
	if opts.Name != "people.csv" || opts.Delimiter != ';' || opts.Sheet != "Data" || !opts.LazyQuotes {
		t.Errorf("ReaderOptions() = %+v", opts)
	}
}

func TestLoadDefaults(t *testing.T) {
	env := map[string]string{
		EnvDelimiter: ";",
		EnvPretty:    "true",
		EnvLogFormat: "JSON",
		EnvFormat:    "CSV",
	}
	d, err := LoadDefaults(func(k string) string { return env[k] })
	if err != nil {
		t.Fatalf("LoadDefaults() error = %v", err)
	}
	expected := Defaults{Delimiter: ";", Pretty: true, LogFormat: "json", Format: "csv"}
	if d != expected {
		t.Errorf("LoadDefaults() = %+v; want %+v", d, expected)
	}
}

func TestLoadDefaultsEmptyEnv(t *testing.T) {
	d, err := LoadDefaults(func(string) string { return "" })
	if err != nil {
		t.Fatal(err)
	}
	expected := Defaults{Delimiter: ",", LogFormat: "text", Format: "auto"}
	if d != expected {
		t.Errorf("LoadDefaults() = %+v; want %+v", d, expected)
	}
}

func TestLoadDefaultsBadPretty(t *testing.T) {
	_, err := LoadDefaults(func(k string) string {
		if k == EnvPretty {
			return "sometimes"
		}
		return ""
	})
	if err == nil || !strings.Contains(err.Error(), EnvPretty) {
		t.Errorf("LoadDefaults() error = %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}

	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("CSV2JSON_TEST_DOTENV=from-file\nCSV2JSON_TEST_KEEP=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CSV2JSON_TEST_KEEP", "from-env")
	t.Setenv("CSV2JSON_TEST_DOTENV", "")
	os.Unsetenv("CSV2JSON_TEST_DOTENV")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("CSV2JSON_TEST_DOTENV"); got != "from-file" {
		t.Errorf("CSV2JSON_TEST_DOTENV = %q", got)
	}
	if got := os.Getenv("CSV2JSON_TEST_KEEP"); got != "from-env" {
		t.Errorf("CSV2JSON_TEST_KEEP = %q; existing env must win", got)
	}
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables consulted for flag defaults.
const (
	EnvDelimiter = "CSV2JSON_DELIMITER"
	EnvPretty    = "CSV2JSON_PRETTY"
	EnvLogFormat = "CSV2JSON_LOG_FORMAT"
	EnvFormat    = "CSV2JSON_FORMAT"
)

// Defaults are the flag defaults after applying the environment.
type Defaults struct {
	Delimiter string
	Pretty    bool
	LogFormat string
	Format    string
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// LoadDefaults reads the CSV2JSON_* variables through getenv.
func LoadDefaults(getenv func(string) string) (Defaults, error) {
	d := Defaults{
		Delimiter: ",",
		LogFormat: "text",
		Format:    "auto",
	}

	if v := strings.TrimSpace(getenv(EnvDelimiter)); v != "" {
		d.Delimiter = v
	}
	if v := strings.TrimSpace(getenv(EnvLogFormat)); v != "" {
		d.LogFormat = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv(EnvFormat)); v != "" {
		d.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv(EnvPretty)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return d, fmt.Errorf("%s: expected a boolean, got %q", EnvPretty, v)
		}
		d.Pretty = b
	}

	return d, nil
}

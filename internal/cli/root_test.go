package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type run struct {
	code   int
	stdout string
	stderr string
}

func execute(t *testing.T, stdin string, env map[string]string, args ...string) run {
	t.Helper()
	var stdout, stderr bytes.Buffer
	streams := Streams{
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(k string) string { return env[k] },
	}
	cmd := NewRootCommand(BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"}, streams)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	code := Run(cmd, &stderr)
	return run{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const people = "name,age\nAlice,30\nBob,25\n"

func TestRootScenarios(t *testing.T) {
	input := writeFile(t, "people.csv", people)

	tests := []struct {
		name     string
		stdin    string
		args     []string
		expected string
	}{
		{"File input", "", []string{"-i", input}, `[{"name":"Alice","age":"30"},{"name":"Bob","age":"25"}]` + "\n"},
		{"Stdin input", people, []string{"-"}, `[{"name":"Alice","age":"30"},{"name":"Bob","age":"25"}]` + "\n"},
		{"Window", people, []string{"-", "-s", "1", "-l", "1"}, `[{"name":"Bob","age":"25"}]` + "\n"},
		{"Long flags", people, []string{"-", "--offset=1", "--limit=1"}, `[{"name":"Bob","age":"25"}]` + "\n"},
		{"Limit zero", people, []string{"-", "-l", "0"}, "[]\n"},
		{"Offset past end", people, []string{"-", "-s", "9"}, "[]\n"},
		{"Pretty", "a\n1\n", []string{"-", "-p"}, "[\n  {\n    \"a\": \"1\"\n  }\n]\n"},
		{"Semicolons", "a;b\n1;2\n", []string{"-", "-d", ";"}, `[{"a":"1","b":"2"}]` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := execute(t, tt.stdin, nil, tt.args...)
			if r.code != ExitOK {
				t.Fatalf("exit = %d, stderr = %s", r.code, r.stderr)
			}
			if r.stdout != tt.expected {
				t.Errorf("stdout = %q; want %q", r.stdout, tt.expected)
			}
		})
	}
}

func TestRootOutputFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.json")

	r := execute(t, people, nil, "-", "-o", out)
	if r.code != ExitOK {
		t.Fatalf("exit = %d, stderr = %s", r.code, r.stderr)
	}
	if r.stdout != "" {
		t.Errorf("stdout should be empty, got %q", r.stdout)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var decoded []map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[1]["name"] != "Bob" {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestRootConversionErrors(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		wantErr string
	}{
		{"Shape mismatch", "name,age\nAlice,30,extra\n", "record 0 (line 2)"},
		{"Empty input", "", "reading header: empty input"},
		{"Invalid UTF-8", "a\n\xff\xfe\n", "record 0 (line 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out.json")
			r := execute(t, tt.stdin, nil, "-", "-o", out)
			if r.code != ExitFailure {
				t.Errorf("exit = %d; want %d", r.code, ExitFailure)
			}
			if !strings.Contains(r.stderr, "Error:") || !strings.Contains(r.stderr, tt.wantErr) {
				t.Errorf("stderr = %q; want %q", r.stderr, tt.wantErr)
			}
			if r.stdout != "" {
				t.Errorf("stdout = %q; want nothing", r.stdout)
			}
			if _, err := os.Stat(out); !os.IsNotExist(err) {
				t.Errorf("output file must not be created on failure")
			}
		})
	}
}

func TestRootMissingInputFile(t *testing.T) {
	r := execute(t, "", nil, "-i", filepath.Join(t.TempDir(), "missing.csv"))
	if r.code != ExitFailure {
		t.Errorf("exit = %d; want %d", r.code, ExitFailure)
	}
	if !strings.Contains(r.stderr, "open") {
		t.Errorf("stderr = %q", r.stderr)
	}
}

func TestRootUsageErrors(t *testing.T) {
	input := writeFile(t, "people.csv", people)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"No input", nil, "is required"},
		{"Both inputs", []string{"-", "-i", input}, "mutually exclusive"},
		{"Stray argument", []string{"people.csv"}, "unexpected argument"},
		{"Too many arguments", []string{"-", "-"}, "accepts at most 1 arg"},
		{"Negative limit", []string{"-", "-l", "-1"}, "limit must be >= 0"},
		{"Negative offset", []string{"-", "-s", "-3"}, "offset must be >= 0"},
		{"Non-numeric limit", []string{"-", "-l", "ten"}, "invalid argument"},
		{"Bad delimiter", []string{"-", "-d", ";;"}, "single character"},
		{"Bad format", []string{"-", "--format", "parquet"}, "unsupported input format"},
		{"Unknown flag", []string{"-", "--nope"}, "unknown flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := execute(t, people, nil, tt.args...)
			if r.code != ExitUsage {
				t.Errorf("exit = %d; want %d (stderr %q)", r.code, ExitUsage, r.stderr)
			}
			if !strings.Contains(r.stderr, tt.wantErr) {
				t.Errorf("stderr = %q; want %q", r.stderr, tt.wantErr)
			}
		})
	}
}

func TestRootEnvDefaults(t *testing.T) {
	env := map[string]string{"CSV2JSON_DELIMITER": "|", "CSV2JSON_PRETTY": "1"}

	r := execute(t, "a|b\n1|2\n", env, "-")
	if r.code != ExitOK {
		t.Fatalf("exit = %d, stderr = %s", r.code, r.stderr)
	}
	if r.stdout != "[\n  {\n    \"a\": \"1\",\n    \"b\": \"2\"\n  }\n]\n" {
		t.Errorf("stdout = %q", r.stdout)
	}

	r = execute(t, "a,b\n1,2\n", env, "-", "-d", ",", "--pretty=false")
	if r.stdout != `[{"a":"1","b":"2"}]`+"\n" {
		t.Errorf("flags should override env, stdout = %q", r.stdout)
	}

	r = execute(t, "a\n", map[string]string{"CSV2JSON_PRETTY": "maybe"}, "-")
	if r.code != ExitUsage {
		t.Errorf("bad env exit = %d; want %d", r.code, ExitUsage)
	}
}

func TestRootVerbose(t *testing.T) {
	r := execute(t, people, nil, "-", "-v")
	if r.code != ExitOK {
		t.Fatalf("exit = %d, stderr = %s", r.code, r.stderr)
	}
	for _, want := range []string{"parsed arguments", "reading CSV from stdin", "input opened", "format=csv", "header read", "conversion complete", "records=2", "run_id="} {
		if !strings.Contains(r.stderr, want) {
			t.Errorf("verbose stderr missing %q:\n%s", want, r.stderr)
		}
	}
	if !strings.HasPrefix(r.stdout, "[{") {
		t.Errorf("stdout polluted: %q", r.stdout)
	}
}

func TestRootQuietByDefault(t *testing.T) {
	r := execute(t, people, nil, "-")
	if r.stderr != "" {
		t.Errorf("stderr = %q; want nothing", r.stderr)
	}
}

func TestRootVersion(t *testing.T) {
	r := execute(t, "", nil, "--version")
	if r.code != ExitOK {
		t.Fatalf("exit = %d", r.code)
	}
	if r.stdout != "csv2json 1.2.3\ncommit: abc\nbuilt: today\n" {
		t.Errorf("stdout = %q", r.stdout)
	}
}

func TestRootLimitHelp(t *testing.T) {
	r := execute(t, "", nil, "--help")
	if r.code != ExitOK {
		t.Fatalf("exit = %d", r.code)
	}
	var line string
	for _, l := range strings.Split(r.stdout, "\n") {
		if strings.Contains(l, "--limit") {
			line = l
		}
	}
	if !strings.Contains(line, "all when unset") {
		t.Fatalf("--limit help = %q", line)
	}
	if strings.Contains(line, "(default") {
		t.Errorf("--limit help shows a default: %q", line)
	}
}

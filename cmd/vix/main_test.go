package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runVix(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	// Keep a stray vix.toml in the package directory out of the picture.
	args = append([]string{"-config", filepath.Join(t.TempDir(), "none.toml")}, args...)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersion(t *testing.T) {
	res := runVix(t, "", "-version")
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	if !strings.HasPrefix(res.stdout, "vix dev\n") {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestPrintFile(t *testing.T) {
	path := writeTemp(t, "a.txt", "one\r\ntwo\r\n")
	res := runVix(t, "", path)
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	if res.stdout != "one\r\ntwo\r\n" {
		t.Errorf("stdout = %q, want CRLF preserved", res.stdout)
	}
}

func TestInlineScriptToOutput(t *testing.T) {
	path := writeTemp(t, "a.txt", "world\n")
	out := filepath.Join(t.TempDir(), "out.txt")

	res := runVix(t, "", "-e", `doc.insert(0, "hello ")`, "-e", `doc.insert(doc.len(), "!")`, "-o", out, path)
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello world\n!" {
		t.Errorf("output = %q", got)
	}
	orig, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(orig) != "world\n" {
		t.Errorf("input changed to %q", orig)
	}
}

func TestScriptFileInPlace(t *testing.T) {
	path := writeTemp(t, "a.txt", "a\r\nb\r\n")
	lua := writeTemp(t, "edit.lua", `
for i = doc.line_count() - 2, 0, -1 do
  doc.insert(doc.offset(i, 0), "- ")
end
`)
	res := runVix(t, "", "-script", lua, "-w", path)
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "- a\r\n- b\r\n" {
		t.Errorf("file = %q", got)
	}
}

func TestScriptFromStdin(t *testing.T) {
	path := writeTemp(t, "a.txt", "x")
	res := runVix(t, `doc.replace(0, 1, "y")`, path)
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	if res.stdout != "y" {
		t.Errorf("stdout = %q, want y", res.stdout)
	}
}

func TestDumpAndQuery(t *testing.T) {
	path := writeTemp(t, "a.txt", "ab\ncd")

	res := runVix(t, "", "-e", `doc.insert(1, "X")`, "-dump", path)
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	if !gjson.Valid(res.stdout) {
		t.Fatalf("dump is not JSON: %s", res.stdout)
	}
	if got := gjson.Get(res.stdout, "pieces.#.origin").String(); got != `["original","original","added","original"]` {
		t.Errorf("origins = %s", got)
	}
	if got := gjson.Get(res.stdout, "length").Int(); got != 6 {
		t.Errorf("length = %d, want 6", got)
	}

	res = runVix(t, "", "-query", "line_count", path)
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	if res.stdout != "2\n" {
		t.Errorf("query stdout = %q, want 2", res.stdout)
	}

	res = runVix(t, "", "-query", "missing", path)
	if res.code != 1 || !strings.Contains(res.stderr, "matched nothing") {
		t.Errorf("bad query: exit %d, stderr %q", res.code, res.stderr)
	}
}

func TestLine(t *testing.T) {
	path := writeTemp(t, "a.txt", "zero\none\ntwo")
	res := runVix(t, "", "-line", "1", path)
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	if res.stdout != "one\n" {
		t.Errorf("stdout = %q, want one", res.stdout)
	}

	res = runVix(t, "", "-line", "9", path)
	if res.code != 1 {
		t.Errorf("out of range line: exit %d, want 1", res.code)
	}
}

func TestErrors(t *testing.T) {
	path := writeTemp(t, "a.txt", "abc")

	tests := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{"unknown flag", []string{"-nope"}, 2, "flag provided but not defined"},
		{"bad log level", []string{"-log-level", "loud", path}, 2, "invalid log level"},
		{"two files", []string{path, path}, 2, "at most one file"},
		{"in place without file", []string{"-w"}, 2, "-w requires a file"},
		{"script error", []string{"-e", `doc.delete(0, 99)`, path}, 1, "out of bounds"},
		{"read only", []string{"-R", "-e", `doc.insert(0, "x")`, path}, 1, "read-only"},
		{"missing script", []string{"-script", filepath.Join(t.TempDir(), "none.lua"), path}, 1, "none.lua"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runVix(t, "", tt.args...)
			if res.code != tt.code {
				t.Errorf("exit %d, want %d (stderr %q)", res.code, tt.code, res.stderr)
			}
			if !strings.Contains(res.stderr, tt.msg) {
				t.Errorf("stderr = %q, want it to mention %q", res.stderr, tt.msg)
			}
		})
	}
}

func TestWriteFlagsRejectPrintFlags(t *testing.T) {
	tests := []struct {
		name  string
		flags []string
		msg   string
	}{
		{"in place dump", []string{"-w", "-dump"}, "-w and -dump"},
		{"in place query", []string{"-w", "-query", "length"}, "-w and -query"},
		{"in place line", []string{"-w", "-line", "0"}, "-w and -line"},
		{"output dump", []string{"-o", "OUT", "-dump"}, "-o and -dump"},
		{"output query", []string{"-o", "OUT", "-query", "length"}, "-o and -query"},
		{"output line", []string{"-o", "OUT", "-line", "0"}, "-o and -line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "a.txt", "hello")
			out := filepath.Join(t.TempDir(), "out.txt")

			args := []string{"-e", `doc.insert(0, "X")`}
			for _, f := range tt.flags {
				if f == "OUT" {
					f = out
				}
				args = append(args, f)
			}
			args = append(args, path)

			res := runVix(t, "", args...)
			if res.code != 2 {
				t.Errorf("exit %d, want 2 (stderr %q)", res.code, res.stderr)
			}
			if !strings.Contains(res.stderr, tt.msg) {
				t.Errorf("stderr = %q, want it to mention %q", res.stderr, tt.msg)
			}
			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != "hello" {
				t.Errorf("input changed to %q", got)
			}
			if _, err := os.Stat(out); !os.IsNotExist(err) {
				t.Errorf("output file should not exist: %v", err)
			}
		})
	}
}

func TestConfigFile(t *testing.T) {
	cfgPath := writeTemp(t, "vix.toml", "[editor]\nline_ending = \"crlf\"\n")
	path := writeTemp(t, "a.txt", "a\nb\n")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", cfgPath, path}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if stdout.String() != "a\r\nb\r\n" {
		t.Errorf("stdout = %q, want CRLF from config", stdout.String())
	}

	bad := writeTemp(t, "bad.toml", "[editor]\ntab_width = 0\n")
	stderr.Reset()
	code = run(context.Background(), []string{"-config", bad, path}, strings.NewReader(""), &stdout, &stderr)
	if code != 1 || !strings.Contains(stderr.String(), "editor.tab_width") {
		t.Errorf("bad config: exit %d, stderr %q", code, stderr.String())
	}
}

func TestLogFile(t *testing.T) {
	cfgDir := t.TempDir()
	logPath := filepath.Join(cfgDir, "vix.log")
	cfgPath := filepath.Join(cfgDir, "vix.toml")
	if err := os.WriteFile(cfgPath, []byte("[logging]\nfile = \""+filepath.ToSlash(logPath)+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", cfgPath, "-e", `print("from lua")`}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "from lua") {
		t.Errorf("log file = %q", data)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr should be empty when logging to a file: %q", stderr.String())
	}
}

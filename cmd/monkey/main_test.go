package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "main.mk", "let sq = fn(x) { x * x }; sq(7)")

	var out bytes.Buffer
	if code := run([]string{"run", path}, &out); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, out.String())
	}
	if out.String() != "49\n" {
		t.Fatalf("expected 49, got %q", out.String())
	}

	out.Reset()
	if code := run([]string{"parse", path}, &out); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if out.String() != "let sq = fn(x) (x * x);sq(7)\n" {
		t.Fatalf("unexpected parse output %q", out.String())
	}
}

func TestRunFileErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeSource(t, dir, "bad.mk", "let = 1;")
	boom := writeSource(t, dir, "boom.mk", "1 / 0")

	var out bytes.Buffer
	if code := run([]string{"run", bad}, &out); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(out.String(), "bad.mk:1:5: expected next token to be IDENT, got = instead") {
		t.Fatalf("unexpected diagnostics %q", out.String())
	}

	out.Reset()
	if code := run([]string{"run", boom}, &out); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if out.String() != "ERROR: division by zero\n" {
		t.Fatalf("unexpected output %q", out.String())
	}

	out.Reset()
	if code := run([]string{"run"}, &out); code != 1 {
		t.Fatalf("expected exit 1 for missing file argument, got %d", code)
	}
}

func TestTokensAndDump(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "a.mk", "x")

	var out bytes.Buffer
	if code := run([]string{"tokens", path}, &out); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.HasSuffix(lines[0], "IDENT\t\"x\"") || !strings.Contains(lines[1], "EOF") {
		t.Fatalf("unexpected tokens output %q", out.String())
	}

	out.Reset()
	if code := run([]string{"dump", path}, &out); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.HasPrefix(out.String(), "kind: Program\n") {
		t.Fatalf("unexpected dump %q", out.String())
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "good.mk", "1 + 1")

	var out bytes.Buffer
	if code := run([]string{"check", dir}, &out); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, out.String())
	}
	if out.String() != "1 files checked, 0 with errors\n" {
		t.Fatalf("unexpected output %q", out.String())
	}

	writeSource(t, dir, "bad.mk", "if (")
	out.Reset()
	if code := run([]string{"check", dir}, &out); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.HasSuffix(out.String(), "2 files checked, 1 with errors\n") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

// Test that a missing source directory is skipped like Build does.
func TestCheckMissingDir(t *testing.T) {
	var out bytes.Buffer
	if code := run([]string{"check", filepath.Join(t.TempDir(), "src")}, &out); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, out.String())
	}
	if out.String() != "0 files checked, 0 with errors\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	if code := run([]string{"frobnicate"}, &out); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.HasPrefix(out.String(), "Unknown command: frobnicate\n") {
		t.Fatalf("unexpected output %q", out.String())
	}

	out.Reset()
	if code := run([]string{"version"}, &out); code != 0 || out.String() != "monkey v"+version+"\n" {
		t.Fatalf("unexpected version output %q", out.String())
	}
}

package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFakeCLI(t *testing.T, name, script string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestClaudeBackend_Success(t *testing.T) {
	writeFakeCLI(t, "claude", `echo '{"markers":[]}'`)
	b := NewClaude(5 * time.Second)
	out, err := b.Run(context.Background(), "summarize this")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "{\"markers\":[]}\n" {
		t.Errorf("out = %q", out)
	}
}

func TestBackend_NotAvailableWhenMissingFromPath(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	b := NewClaude(time.Second)
	_, err := b.Run(context.Background(), "hi")
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("err = %v, want %v", err, ErrBackendNotAvailable)
	}
}

func TestBackend_RateLimitedClassification(t *testing.T) {
	writeFakeCLI(t, "gemini", `echo "quota exceeded for this project" 1>&2; exit 1`)
	b := NewGemini(5 * time.Second)
	_, err := b.Run(context.Background(), "hi")
	var rl *BackendRateLimited
	if !errors.As(err, &rl) {
		t.Fatalf("err = %v, want *BackendRateLimited", err)
	}
}

func TestBackend_ExitCodeClassification(t *testing.T) {
	writeFakeCLI(t, "codex", `echo "boom" 1>&2; exit 3`)
	b := NewCodex(5 * time.Second)
	_, err := b.Run(context.Background(), "hi")
	var exitErr *BackendExit
	if !errors.As(err, &exitErr) {
		t.Fatalf("err = %v, want *BackendExit", err)
	}
	if exitErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", exitErr.ExitCode)
	}
}

func TestBackend_TimeoutClassification(t *testing.T) {
	writeFakeCLI(t, "claude", `sleep 2`)
	b := NewClaude(50 * time.Millisecond)
	_, err := b.Run(context.Background(), "hi")
	var timeoutErr *BackendTimeout
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("err = %v, want *BackendTimeout", err)
	}
}

func TestByName_UnknownBackend(t *testing.T) {
	_, err := ByName("not-a-backend", time.Second)
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestByName_KnownBackends(t *testing.T) {
	for _, name := range []string{"claude", "codex", "gemini"} {
		b, err := ByName(name, time.Second)
		if err != nil {
			t.Fatalf("ByName(%q): %v", name, err)
		}
		if b.Name() != name {
			t.Errorf("Name() = %q, want %q", b.Name(), name)
		}
	}
}

func TestParseCommand_SplitsArguments(t *testing.T) {
	argv, err := ParseCommand(`claude --print "hello world"`)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"claude", "--print", "hello world"}
	if len(argv) != len(want) {
		t.Fatalf("argv = %v, want %v", argv, want)
	}
	for i := range want {
		if argv[i] != want[i] {
			t.Errorf("argv[%d] = %q, want %q", i, argv[i], want[i])
		}
	}
}

// Package analyzer dispatches recording analysis prompts to an external
// LLM CLI (claude, codex, gemini), classifying the subprocess's exit
// status, stderr, and context deadline into typed errors.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
)

// Backend runs a prompt against one external analysis CLI and returns its
// raw text response.
type Backend interface {
	Name() string
	Run(ctx context.Context, prompt string) (string, error)
}

// BackendRateLimited is returned when the backend's stderr matches a
// known rate-limit pattern.
type BackendRateLimited struct {
	Backend string
	Detail  string
}

func (e *BackendRateLimited) Error() string {
	return fmt.Sprintf("analyzer: %s backend rate limited: %s", e.Backend, e.Detail)
}

// BackendTimeout is returned when the backend does not finish within the
// configured timeout.
type BackendTimeout struct {
	Backend string
	Timeout time.Duration
}

func (e *BackendTimeout) Error() string {
	return fmt.Sprintf("analyzer: %s backend timed out after %s", e.Backend, e.Timeout)
}

// BackendExit is returned when the backend CLI exits non-zero for a
// reason other than rate limiting.
type BackendExit struct {
	Backend  string
	ExitCode int
	Stderr   string
}

func (e *BackendExit) Error() string {
	return fmt.Sprintf("analyzer: %s backend exited %d: %s", e.Backend, e.ExitCode, strings.TrimSpace(e.Stderr))
}

// ErrBackendNotAvailable is returned when the backend's CLI binary isn't
// on PATH.
var ErrBackendNotAvailable = errors.New("analyzer: backend CLI not found in PATH")

// rateLimitMarkers are stderr substrings treated as a rate-limit signal
// rather than a generic failure.
var rateLimitMarkers = []string{
	"rate limit",
	"rate_limit",
	"429",
	"quota exceeded",
	"usage limit",
}

func parseRateLimit(stderr string) (string, bool) {
	lower := strings.ToLower(stderr)
	for _, marker := range rateLimitMarkers {
		if strings.Contains(lower, marker) {
			return strings.TrimSpace(stderr), true
		}
	}
	return "", false
}

// cliBackend is the shared shell-out implementation behind each named
// backend: only the binary name and its argv prefix differ.
type cliBackend struct {
	name    string
	command string
	argv    func(prompt string) []string
	timeout time.Duration
}

func (b cliBackend) Name() string { return b.name }

func (b cliBackend) Run(ctx context.Context, prompt string) (string, error) {
	path, err := exec.LookPath(b.command)
	if err != nil {
		return "", ErrBackendNotAvailable
	}

	timeout := b.timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, b.argv(prompt)...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	if ctx.Err() == context.DeadlineExceeded {
		return "", &BackendTimeout{Backend: b.name, Timeout: timeout}
	}

	if detail, limited := parseRateLimit(stderr.String()); limited {
		return "", &BackendRateLimited{Backend: b.name, Detail: detail}
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return "", &BackendExit{Backend: b.name, ExitCode: exitCode, Stderr: stderr.String()}
}

// NewClaude invokes `claude --print --output-format json -p <prompt>`,
// the CLI's non-interactive form.
func NewClaude(timeout time.Duration) Backend {
	return cliBackend{
		name:    "claude",
		command: "claude",
		timeout: timeout,
		argv: func(prompt string) []string {
			return []string{"--print", "--output-format", "json", "-p", prompt}
		},
	}
}

// NewCodex invokes `codex exec --full-auto <prompt>`. Codex has no native
// JSON output mode, so callers must extract structure from free text.
func NewCodex(timeout time.Duration) Backend {
	return cliBackend{
		name:    "codex",
		command: "codex",
		timeout: timeout,
		argv: func(prompt string) []string {
			return []string{"exec", "--full-auto", prompt}
		},
	}
}

// NewGemini invokes `gemini --output-format json <prompt>`.
func NewGemini(timeout time.Duration) Backend {
	return cliBackend{
		name:    "gemini",
		command: "gemini",
		timeout: timeout,
		argv: func(prompt string) []string {
			return []string{"--output-format", "json", prompt}
		},
	}
}

// Backends maps each supported config name to its constructor, used by
// the config "analyzer.backend" setting to pick an implementation.
var Backends = map[string]func(timeout time.Duration) Backend{
	"claude": NewClaude,
	"codex":  NewCodex,
	"gemini": NewGemini,
}

// ByName looks up a backend constructor by its config name, returning
// ErrBackendNotAvailable's sibling for unknown names.
func ByName(name string, timeout time.Duration) (Backend, error) {
	ctor, ok := Backends[name]
	if !ok {
		return nil, fmt.Errorf("analyzer: unknown backend %q", name)
	}
	return ctor(timeout), nil
}

// ParseCommand splits a raw backend override string into its argv form
// using shell-style quoting rules.
func ParseCommand(command string) ([]string, error) {
	return shlex.Split(command)
}

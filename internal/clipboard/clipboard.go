// Package clipboard copies recordings to the system clipboard, trying
// the available platform tools in priority order. A recording is always
// copied as its raw text content; no file reference is put on the
// clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Method identifies which external tool performed a copy.
type Method string

const (
	MethodPbcopy Method = "pbcopy"
	MethodWlCopy Method = "wl-copy"
	MethodXsel   Method = "xsel"
)

// ErrNoToolAvailable is returned when none of the platform's clipboard
// tools are installed.
var ErrNoToolAvailable = errors.New("clipboard: no tool available (install pbcopy, wl-copy, or xsel)")

// ErrFileNotFound is returned when CopyFile is asked to copy a path that
// does not exist.
var ErrFileNotFound = errors.New("clipboard: file not found")

// Result describes the outcome of a successful copy.
type Result struct {
	Method    Method
	SizeBytes int
}

// Message renders a user-facing summary of the copy, mirroring the
// teacher's user-facing single-line confirmation style.
func (r Result) Message(filename string) string {
	return fmt.Sprintf("Copied %s to clipboard via %s (%d bytes)", filename, r.Method, r.SizeBytes)
}

// tool is one platform clipboard backend: a binary name and the args that
// make it read content from stdin.
type tool struct {
	method Method
	bin    string
	args   []string
}

// platformTools lists the clipboard tools castrec supports, tried in
// priority order on every platform: xsel (X11), wl-copy (Wayland), then
// pbcopy (macOS).
var platformTools = []tool{
	{method: MethodXsel, bin: "xsel", args: []string{"--clipboard", "--input"}},
	{method: MethodWlCopy, bin: "wl-copy", args: nil},
	{method: MethodPbcopy, bin: "pbcopy", args: nil},
}

// CopyFile reads path and copies its content to the clipboard using the
// first available tool.
func CopyFile(path string) (Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{}, ErrFileNotFound
		}
		return Result{}, fmt.Errorf("clipboard: read %s: %w", path, err)
	}
	return CopyText(string(content))
}

// CopyText pipes text into the first available clipboard tool.
func CopyText(text string) (Result, error) {
	for _, t := range platformTools {
		binPath, err := exec.LookPath(t.bin)
		if err != nil {
			continue
		}
		if err := runTool(binPath, t.args, text); err != nil {
			continue // tool present but failed; try the next one
		}
		return Result{Method: t.method, SizeBytes: len(text)}, nil
	}
	return Result{}, ErrNoToolAvailable
}

func runTool(binPath string, args []string, text string) error {
	cmd := exec.Command(binPath, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	if _, err := stdin.Write([]byte(text)); err != nil {
		stdin.Close()
		cmd.Wait()
		return err
	}
	stdin.Close()
	return cmd.Wait()
}

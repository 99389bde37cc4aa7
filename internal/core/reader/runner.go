package reader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// Runner runs a text-extraction tool and returns its stdout. A failed run is
// reported as a *ToolError.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// stderrLimit caps how much tool stderr is kept on a ToolError.
const stderrLimit = 512

// popplerExit describes pdftotext's documented exit codes.
var popplerExit = map[int]string{
	1:  "error opening PDF file",
	2:  "error opening output file",
	3:  "PDF permissions forbid text extraction",
	99: "other error",
}

// ToolError is a failed external tool run. Its message carries the tail of the
// tool's stderr so the reason ends up in the report's diagnostic.
type ToolError struct {
	Tool     string
	ExitCode int // -1 when the tool did not run to completion
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	msg := e.Tool + ": " + e.Err.Error()
	if reason, ok := popplerExit[e.ExitCode]; ok && strings.HasPrefix(e.Tool, "pdftotext") {
		msg += " (" + reason + ")"
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

type execRunner struct {
	logger *slog.Logger
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	start := time.Now()
	tool := filepath.Base(name)

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		te := &ToolError{Tool: tool, ExitCode: -1, Stderr: stderrTail(errb.String()), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			te.ExitCode = exitErr.ExitCode()
		}
		r.logger.Warn("text extraction tool failed",
			"tool", tool,
			"exit_code", te.ExitCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return nil, te
	}

	r.logger.Debug("text extraction tool ok",
		"tool", tool,
		"args", strings.Join(args, " "),
		"duration_ms", time.Since(start).Milliseconds(),
		"stdout_bytes", out.Len(),
	)
	return out.Bytes(), nil
}

// stderrTail keeps the last stderrLimit bytes of s, cut on a rune boundary.
func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= stderrLimit {
		return s
	}
	cut := len(s) - stderrLimit
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return "..." + s[cut:]
}

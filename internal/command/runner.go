// Package command invokes the school-management command line tools that
// perform privileged mutations on behalf of the API.
package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"time"
)

// Runner executes a management tool and returns its raw output.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs tools from a fixed directory with a minimal, fixed
// environment so the invoked tools behave the same no matter how the API
// process was started.
type ExecRunner struct {
	dir    string
	logger *slog.Logger
}

// NewExecRunner constructs an ExecRunner resolving tools inside dir.
func NewExecRunner(dir string, logger *slog.Logger) *ExecRunner {
	return &ExecRunner{dir: dir, logger: logger}
}

var fixedEnv = []string{
	"TERM=xterm",
	"SHELL=/bin/bash",
	"PATH=/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin",
	"HOME=/root",
}

// Output runs a tool and returns its combined JSON output stream. The tools
// emit their JSON payload between "# JSON-begin" and "# JSON-end" markers on
// stderr; both streams are captured and the caller decodes what it needs.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, filepath.Join(r.dir, name), args...)
	cmd.Env = fixedEnv

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if r.logger != nil {
		r.logger.Debug("command finished",
			slog.String("tool", name),
			slog.Duration("elapsed", time.Since(start)))
	}
	if err != nil {
		return nil, fmt.Errorf("command: %s: %w", name, err)
	}
	if stderr.Len() > 0 {
		return stderr.Bytes(), nil
	}
	return stdout.Bytes(), nil
}

var (
	jsonBegin = []byte("# JSON-begin")
	jsonEnd   = []byte("# JSON-end")
)

// DecodeJSON extracts the payload between the JSON markers (when present)
// and unmarshals it into target. Output without markers is decoded as-is.
func DecodeJSON(output []byte, target any) error {
	if i := bytes.Index(output, jsonBegin); i >= 0 {
		output = output[i+len(jsonBegin):]
	}
	if i := bytes.Index(output, jsonEnd); i >= 0 {
		output = output[:i]
	}
	output = bytes.TrimSpace(output)
	if len(output) == 0 {
		return nil
	}
	return json.Unmarshal(output, target)
}

var _ Runner = (*ExecRunner)(nil)

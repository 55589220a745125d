package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/canonical/sunbeam-release/internal/log"
	"golang.org/x/term"
)

// Runner executes external tool invocations.
type Runner interface {
	// Output runs argv and returns its captured standard output.
	Output(ctx context.Context, argv []string) ([]byte, error)

	// Run runs argv. Interactive invocations inherit the process's terminal;
	// otherwise standard output is captured and copied to stdout when the
	// command completes.
	Run(ctx context.Context, argv []string, interactive bool, stdout io.Writer) error
}

// ToolError is returned when an external tool exits unsuccessfully or cannot
// be started.
type ToolError struct {
	Argv     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	cmd := strings.Join(e.Argv, " ")
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return fmt.Sprintf("%s: %v: %s", cmd, e.Err, msg)
	}
	return fmt.Sprintf("%s: %v", cmd, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// ExecRunner runs tools as local subprocesses.
type ExecRunner struct {
	// Stdin is attached to interactive commands (defaults to os.Stdin).
	Stdin *os.File
	// Stderr receives the stderr of interactive commands (defaults to os.Stderr).
	Stderr io.Writer
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, argv []string) ([]byte, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	log.Debug("ran tool", "argv", argv, "duration", time.Since(start), "error", err)
	if err != nil {
		return nil, newToolError(argv, stderr.String(), err)
	}
	return stdout.Bytes(), nil
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, argv []string, interactive bool, stdout io.Writer) error {
	if !interactive {
		out, err := r.Output(ctx, argv)
		if err != nil {
			return err
		}
		_, err = stdout.Write(out)
		return err
	}
	if len(argv) == 0 {
		return errors.New("empty command")
	}

	stdin := r.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	if !term.IsTerminal(int(stdin.Fd())) {
		log.Warn("stdin is not a terminal, interactive command may not be able to prompt", "argv", argv)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	err := cmd.Run()
	log.Debug("ran interactive tool", "argv", argv, "duration", time.Since(start), "error", err)
	if err != nil {
		return newToolError(argv, "", err)
	}
	return nil
}

func newToolError(argv []string, stderr string, err error) *ToolError {
	te := &ToolError{Argv: argv, ExitCode: -1, Stderr: stderr, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		te.ExitCode = exitErr.ExitCode()
	}
	return te
}

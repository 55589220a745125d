package promote

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/canonical/sunbeam-release/internal/log"
	"github.com/canonical/sunbeam-release/internal/tool"
)

// Executor runs promotion commands in order.
type Executor struct {
	Runner tool.Runner
	Tools  tool.Tools
	Stdout io.Writer

	// DryRun prints each command instead of running it.
	DryRun bool
	// KeepGoing runs the remaining commands after one fails.
	KeepGoing bool
}

// Execute runs cmds in order. Without KeepGoing it stops at the first
// failure; with it, every failure is returned joined. Cancelling ctx stops
// before the next command, even with KeepGoing.
func (e *Executor) Execute(ctx context.Context, cmds []tool.Command) error {
	var errs []error
	for _, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			log.Warn("promotion interrupted", "error", err)
			return errors.Join(append(errs, err)...)
		}
		line := e.Tools.String(cmd)
		if e.DryRun {
			fmt.Fprintln(e.Stdout, line)
			continue
		}

		fmt.Fprintf(e.Stdout, "Running cmd: %s\n", line)
		log.Info("running promotion", "command", line, "interactive", cmd.Interactive)
		err := e.Runner.Run(ctx, e.Tools.Resolve(cmd), cmd.Interactive, e.Stdout)
		if err == nil {
			continue
		}
		err = fmt.Errorf("running %s: %w", line, err)
		if !e.KeepGoing {
			return err
		}
		log.Error("promotion failed", "command", line, "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

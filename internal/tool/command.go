// Package tool invokes the external packaging CLIs (charmcraft, snap,
// snapcraft) that inspect and promote store channels.
package tool

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Names of the external tools driven by sunbeam-release.
const (
	Charmcraft = "charmcraft"
	Snap       = "snap"
	Snapcraft  = "snapcraft"
)

// Command is an invocation of an external tool, without the tool's own argv prefix.
type Command struct {
	Tool string
	Args []string

	// Interactive commands are attached to the terminal so that the tool can
	// prompt for confirmation; their output is not captured.
	Interactive bool
}

// Tools maps a tool name to the argv prefix used to invoke it,
// e.g. "charmcraft" → ["sudo", "charmcraft"].
type Tools map[string][]string

// DefaultTools invokes every tool by its own name from PATH.
func DefaultTools() Tools {
	return Tools{
		Charmcraft: {Charmcraft},
		Snap:       {Snap},
		Snapcraft:  {Snapcraft},
	}
}

// Set parses a shell-quoted argv prefix for name.
func (t Tools) Set(name, value string) error {
	argv, err := shellquote.Split(value)
	if err != nil {
		return fmt.Errorf("parsing %s command %q: %w", name, value, err)
	}
	if len(argv) == 0 {
		return fmt.Errorf("empty %s command", name)
	}
	t[name] = argv
	return nil
}

// Resolve returns the full argv for cmd.
func (t Tools) Resolve(cmd Command) []string {
	prefix, ok := t[cmd.Tool]
	if !ok || len(prefix) == 0 {
		prefix = []string{cmd.Tool}
	}
	argv := make([]string, 0, len(prefix)+len(cmd.Args))
	argv = append(argv, prefix...)
	return append(argv, cmd.Args...)
}

// String returns the space-joined argv for cmd.
func (t Tools) String(cmd Command) string {
	return strings.Join(t.Resolve(cmd), " ")
}

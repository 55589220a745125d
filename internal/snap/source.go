package snap

import (
	"context"
	"fmt"

	"github.com/canonical/sunbeam-release/internal/tool"
)

// InfoSource provides the channel map of a snap. The text parser behind
// CLISource can be swapped for a structured source without changing Decide.
type InfoSource interface {
	Channels(ctx context.Context, name string) (Channels, error)
}

// CLISource reads channel maps by running `snap info`.
type CLISource struct {
	Runner tool.Runner
	Tools  tool.Tools
}

// Channels implements InfoSource.
func (s *CLISource) Channels(ctx context.Context, name string) (Channels, error) {
	argv := s.Tools.Resolve(tool.Command{Tool: tool.Snap, Args: []string{"info", name}})
	out, err := s.Runner.Output(ctx, argv)
	if err != nil {
		return nil, err
	}
	channels, err := ParseInfo(string(out))
	if err != nil {
		return nil, fmt.Errorf("parsing info of snap %s: %w", name, err)
	}
	return channels, nil
}

package charm

import (
	"context"

	"github.com/canonical/sunbeam-release/internal/tool"
)

// StatusSource provides the channel status of a charm.
type StatusSource interface {
	Status(ctx context.Context, name string) ([]Track, error)
}

// CLISource reads charm status by running charmcraft.
type CLISource struct {
	Runner tool.Runner
	Tools  tool.Tools
}

// Status implements StatusSource.
func (s *CLISource) Status(ctx context.Context, name string) ([]Track, error) {
	argv := s.Tools.Resolve(tool.Command{
		Tool: tool.Charmcraft,
		Args: []string{"status", name, "--format", "json"},
	})
	out, err := s.Runner.Output(ctx, argv)
	if err != nil {
		return nil, err
	}
	return ParseStatus(name, out)
}

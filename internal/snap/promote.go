package snap

import (
	"fmt"

	"github.com/canonical/sunbeam-release/internal/channel"
	"github.com/canonical/sunbeam-release/internal/tool"
)

// Request describes a single promotion check.
type Request struct {
	Snap string
	From channel.Channel
	To   channel.Channel
}

// Decision is the outcome of a promotion check. Command is nil when nothing
// needs promoting; Reason says why.
type Decision struct {
	Command *tool.Command
	Reason  string
}

// Decide returns the snapcraft promote command needed to bring req.To up to
// req.From, if any.
//
// An empty or tracking source is never promoted. An empty or tracking target
// is always promoted into. Otherwise the revisions decide.
func Decide(channels Channels, req Request) Decision {
	from, to := req.From.String(), req.To.String()
	source, target := channels.Get(from), channels.Get(to)

	switch source.State {
	case Empty:
		return Decision{Reason: fmt.Sprintf("source channel %s is empty, skipping", from)}
	case Tracking:
		return Decision{Reason: fmt.Sprintf("source channel %s is tracking, skipping", from)}
	}

	var reason string
	switch target.State {
	case Empty:
		reason = fmt.Sprintf("target channel %s is empty, will promote", to)
	case Tracking:
		reason = fmt.Sprintf("target channel %s is tracking, will promote", to)
	default:
		if source.Revision == target.Revision {
			return Decision{Reason: fmt.Sprintf("source and target revision match (%s), skipping", source.Revision)}
		}
		reason = fmt.Sprintf("source revision %s != target revision %s, will promote", source.Revision, target.Revision)
	}

	return Decision{
		Command: &tool.Command{
			Tool:        tool.Snapcraft,
			Args:        []string{"promote", req.Snap, "--from-channel", from, "--to-channel", to},
			Interactive: true,
		},
		Reason: reason,
	}
}

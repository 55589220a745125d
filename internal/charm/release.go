package charm

import (
	"strconv"

	"github.com/juju/collections/set"

	"github.com/canonical/sunbeam-release/internal/channel"
	"github.com/canonical/sunbeam-release/internal/tool"
)

// Reasons reported when no release command is produced.
const (
	ReasonNoMapping      = "no build mapping with both source and target releases"
	ReasonSourceTracking = "source channel is tracking, skipping"
	ReasonRevisionMatch  = "source and target revision match, skipping"
	ReasonNoRevision     = "source channel has no revision, skipping"
	ReasonWillRelease    = "will release"
)

// Bases filters the build mappings considered for release.
type Bases struct {
	Channels      set.Strings
	Architectures set.Strings
}

// DefaultBases accepts Ubuntu 22.04 and 24.04 builds for amd64.
func DefaultBases() Bases {
	return Bases{
		Channels:      set.NewStrings("22.04", "24.04"),
		Architectures: set.NewStrings("amd64"),
	}
}

// Accepts reports whether b is one of the accepted bases.
func (bs Bases) Accepts(b *Base) bool {
	if b == nil {
		return false
	}
	return bs.Channels.Contains(b.Channel) && bs.Architectures.Contains(b.Architecture)
}

// Request describes a single promotion check.
type Request struct {
	Charm string
	From  channel.Channel
	To    channel.Channel
	Bases Bases
}

// Decision is the outcome of a promotion check. Command is nil when nothing
// needs releasing; Reason says why.
type Decision struct {
	Command *tool.Command
	Reason  string
}

// Decide compares the source and target releases of req.Charm and returns
// the charmcraft release command needed to promote the source revision.
//
// Mappings are examined in order. A mapping whose base is not accepted, or
// which lacks either release, or which needs no release, is passed over. The
// first mapping that needs a release decides, and later mappings are not
// examined.
func Decide(tracks []Track, req Request) Decision {
	reason := ReasonNoMapping
	from, to := req.From.String(), req.To.String()

	for _, t := range tracks {
		if t.Track != req.From.Track {
			continue
		}
		for _, m := range t.Mappings {
			if !req.Bases.Accepts(m.Base) {
				continue
			}
			source, ok := findRelease(m.Releases, from)
			if !ok {
				continue
			}
			target, ok := findRelease(m.Releases, to)
			if !ok {
				continue
			}

			switch {
			case source.Tracking():
				reason = ReasonSourceTracking
			case source.Revision == nil:
				reason = ReasonNoRevision
			case target.Revision != nil && *source.Revision == *target.Revision:
				reason = ReasonRevisionMatch
			default:
				return Decision{Command: releaseCommand(req.Charm, req.To, source), Reason: ReasonWillRelease}
			}
		}
	}
	return Decision{Reason: reason}
}

// findRelease returns the last release for ch, matching charmcraft's listing
// where a channel appears at most once per mapping.
func findRelease(releases []Release, ch string) (Release, bool) {
	var (
		found Release
		ok    bool
	)
	for _, r := range releases {
		if r.Channel == ch {
			found, ok = r, true
		}
	}
	return found, ok
}

func releaseCommand(charm string, to channel.Channel, source Release) *tool.Command {
	args := []string{
		"release", charm,
		"--channel", to.String(),
		"--revision", strconv.Itoa(*source.Revision),
	}
	for _, res := range source.Resources {
		args = append(args, "--resource", res.Name+":"+strconv.Itoa(res.Revision))
	}
	return &tool.Command{Tool: tool.Charmcraft, Args: args}
}

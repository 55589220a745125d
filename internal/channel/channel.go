// Package channel describes store channels and the fixed promotion workflow
// between their risk levels.
package channel

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
)

// Risk is the stability tier of a channel within a track.
type Risk string

const (
	Edge      Risk = "edge"
	Beta      Risk = "beta"
	Candidate Risk = "candidate"
	Stable    Risk = "stable"
)

// Channel is a track and risk pair, written as "track/risk".
type Channel struct {
	Track string
	Risk  Risk
}

// New returns the channel for the given track and risk.
func New(track string, risk Risk) Channel {
	return Channel{Track: track, Risk: risk}
}

// Parse parses a "track/risk" string. Branches are not supported.
func Parse(s string) (Channel, error) {
	if s == "" {
		return Channel{}, errors.NotValidf("empty channel")
	}
	track, risk, ok := strings.Cut(s, "/")
	if !ok {
		return Channel{}, errors.NotValidf("channel %q without track", s)
	}
	if track == "" {
		return Channel{}, errors.NotValidf("track in channel %q", s)
	}
	if strings.Contains(risk, "/") {
		return Channel{}, errors.Errorf("channel is malformed and has too many components %q", s)
	}
	if !DefaultWorkflow.Contains(Risk(risk)) {
		return Channel{}, errors.NotValidf("risk in channel %q", s)
	}
	return Channel{Track: track, Risk: Risk(risk)}, nil
}

func (c Channel) String() string {
	return fmt.Sprintf("%s/%s", c.Track, c.Risk)
}

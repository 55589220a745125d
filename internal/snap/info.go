// Package snap reads snap channel maps from `snap info` and decides whether
// a revision should be promoted from one risk to the next.
package snap

import (
	"errors"
	"strings"
)

// ErrNoChannels is returned when `snap info` output has no channels section.
var ErrNoChannels = errors.New("no channels section in snap info output")

// State is the kind of content a channel holds.
type State int

const (
	// Empty channels have nothing released ("--").
	Empty State = iota
	// Tracking channels follow the channel above them ("^").
	Tracking
	// Released channels hold a concrete version and revision.
	Released
)

func (s State) String() string {
	switch s {
	case Tracking:
		return "tracking"
	case Released:
		return "released"
	default:
		return "empty"
	}
}

// Channel is the state of one channel in a snap's channel map.
type Channel struct {
	State    State
	Version  string
	Revision string
}

// Channels maps a channel name such as "2024.1/edge" to its state.
// Channels missing from the map are empty.
type Channels map[string]Channel

// Get returns the state of name, which is Empty when name is not listed.
func (c Channels) Get(name string) Channel {
	return c[name]
}

// ParseInfo extracts the channel map from the human-readable output of
// `snap info <snap>`.
//
// The channels section starts at a line beginning with "channels:" and ends at
// the first blank or unindented line. Each indented line has one of the forms
//
//	<channel>: --
//	<channel>: ^
//	<channel>: <version> <date> (<revision>) <size> <notes>
//
// Lines with fewer than two fields are ignored. A released line without a
// parenthesised revision is kept with an empty revision.
func ParseInfo(output string) (Channels, error) {
	channels := Channels{}
	inSection := false

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if !inSection {
			if strings.HasPrefix(line, "channels:") {
				inSection = true
			}
			continue
		}
		if strings.TrimSpace(line) == "" || !strings.HasPrefix(line, " ") {
			break
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		name := strings.TrimRight(fields[0], ":")
		switch fields[1] {
		case "--":
			channels[name] = Channel{State: Empty}
		case "^":
			channels[name] = Channel{State: Tracking}
		default:
			channels[name] = Channel{
				State:    Released,
				Version:  fields[1],
				Revision: revision(fields),
			}
		}
	}
	if !inSection {
		return nil, ErrNoChannels
	}
	return channels, nil
}

func revision(fields []string) string {
	for _, f := range fields {
		if len(f) >= 2 && strings.HasPrefix(f, "(") && strings.HasSuffix(f, ")") {
			return strings.Trim(f, "()")
		}
	}
	return ""
}

// Package charm reads charm channel status from charmcraft and decides
// whether a revision should be released from one risk to the next.
package charm

import (
	"encoding/json"
	"fmt"
)

// StatusTracking is the status of a release that follows the channel above
// it and has no revision of its own.
const StatusTracking = "tracking"

// Track is the status of every channel in one track of a charm, as reported
// by `charmcraft status <charm> --format json`.
type Track struct {
	Track    string    `json:"track"`
	Mappings []Mapping `json:"mappings"`
}

// Mapping holds the releases built for one base.
type Mapping struct {
	Base     *Base     `json:"base"`
	Releases []Release `json:"releases"`
}

// Base identifies the build base of a mapping.
type Base struct {
	Name         string `json:"name"`
	Channel      string `json:"channel"`
	Architecture string `json:"architecture"`
}

// Release is the state of one channel within a mapping.
type Release struct {
	Channel   string     `json:"channel"`
	Status    string     `json:"status"`
	Version   string     `json:"version,omitempty"`
	Revision  *int       `json:"revision"`
	Resources []Resource `json:"resources"`
}

// Resource is a resource revision attached to a released charm revision.
type Resource struct {
	Name     string `json:"name"`
	Revision int    `json:"revision"`
}

// Tracking reports whether the release follows another channel.
func (r Release) Tracking() bool {
	return r.Status == StatusTracking
}

// ParseError reports charmcraft output that is not a status document.
type ParseError struct {
	Charm string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing status of charm %s: %v", e.Charm, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseStatus decodes charmcraft status JSON for the named charm.
func ParseStatus(name string, data []byte) ([]Track, error) {
	var tracks []Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, &ParseError{Charm: name, Err: err}
	}
	return tracks, nil
}

// Package catalog describes which charms and snaps are promoted, and which
// store track each of them uses in every distribution release.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/juju/naturalsort"
	"gopkg.in/yaml.v3"

	"github.com/canonical/sunbeam-release/internal/log"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Kind is the packaging format of a family.
type Kind string

const (
	KindCharm Kind = "charm"
	KindSnap  Kind = "snap"
)

// Catalog is the full set of promotable packages.
type Catalog struct {
	Bases    Bases                        `yaml:"bases"`
	Releases map[string]map[string]string `yaml:"releases"`
	Families []Family                     `yaml:"families"`
}

// Bases lists the charm build bases considered for release.
type Bases struct {
	Channels      []string `yaml:"channels"`
	Architectures []string `yaml:"architectures"`
}

// Family is a group of packages of one kind sharing a track key.
type Family struct {
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind"`
	// Track is the key looked up in a release's track map.
	Track string `yaml:"track"`
	// Optional families are skipped for releases without their track.
	Optional bool     `yaml:"optional,omitempty"`
	Packages []string `yaml:"packages"`
}

// Entry is one package to check for a given distribution release.
type Entry struct {
	Kind    Kind
	Family  string
	Package string
	Track   string
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every family is well formed and that every required
// family has a track in every release.
func (c *Catalog) Validate() error {
	if len(c.Releases) == 0 {
		return errors.New("no releases defined")
	}
	if len(c.Bases.Channels) == 0 || len(c.Bases.Architectures) == 0 {
		return errors.New("bases must list at least one channel and one architecture")
	}

	var errs []error
	seen := make(map[string]bool, len(c.Families))
	for i, f := range c.Families {
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("families[%d]: name is required", i))
			continue
		}
		if seen[f.Name] {
			errs = append(errs, fmt.Errorf("family %s: defined more than once", f.Name))
		}
		seen[f.Name] = true

		if f.Kind != KindCharm && f.Kind != KindSnap {
			errs = append(errs, fmt.Errorf("family %s: unknown kind %q (want %s or %s)", f.Name, f.Kind, KindCharm, KindSnap))
		}
		if f.Track == "" {
			errs = append(errs, fmt.Errorf("family %s: track is required", f.Name))
		}
		if len(f.Packages) == 0 {
			errs = append(errs, fmt.Errorf("family %s: no packages", f.Name))
		}
		if f.Optional || f.Track == "" {
			continue
		}
		for _, release := range c.ReleaseNames() {
			if _, ok := c.Releases[release][f.Track]; !ok {
				errs = append(errs, fmt.Errorf("family %s: release %s has no %s track", f.Name, release, f.Track))
			}
		}
	}
	return errors.Join(errs...)
}

// ReleaseNames returns the distribution release names in natural order.
func (c *Catalog) ReleaseNames() []string {
	names := make([]string, 0, len(c.Releases))
	for name := range c.Releases {
		names = append(names, name)
	}
	naturalsort.Sort(names)
	return names
}

// HasRelease reports whether release is defined.
func (c *Catalog) HasRelease(release string) bool {
	_, ok := c.Releases[release]
	return ok
}

// Tracks returns the track map of release as sorted key/track pairs.
func (c *Catalog) Tracks(release string) [][2]string {
	tracks := c.Releases[release]
	keys := make([]string, 0, len(tracks))
	for k := range tracks {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2]string{k, tracks[k]})
	}
	return pairs
}

// Entries lists the packages to check for release, in catalog order.
// Optional families without a track for release are left out.
func (c *Catalog) Entries(release string) ([]Entry, error) {
	tracks, ok := c.Releases[release]
	if !ok {
		return nil, fmt.Errorf("unknown release %q", release)
	}

	var entries []Entry
	for _, f := range c.Families {
		track, ok := tracks[f.Track]
		if !ok {
			if f.Optional {
				log.Debug("skipping family without track", "family", f.Name, "release", release, "track_key", f.Track)
				continue
			}
			return nil, fmt.Errorf("family %s: release %s has no %s track", f.Name, release, f.Track)
		}
		for _, pkg := range f.Packages {
			entries = append(entries, Entry{Kind: f.Kind, Family: f.Name, Package: pkg, Track: track})
		}
	}
	return entries, nil
}

// Package doctor prints diagnostics about the environment sunbeam-release
// runs in: the external tools it drives and the catalog it promotes.
package doctor

import (
	"fmt"
	"io"

	"github.com/canonical/sunbeam-release/internal/ui"
)

// Section is one block of diagnostic output.
type Section interface {
	// Name returns the section title.
	Name() string

	// Print writes the section's diagnostics to w. An error means the
	// section found a problem or could not be generated.
	Print(w io.Writer) error
}

// Registry holds sections in registration order.
type Registry struct {
	sections []Section
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a section to the registry.
func (r *Registry) Register(s Section) {
	r.sections = append(r.sections, s)
}

// Sections returns all registered sections.
func (r *Registry) Sections() []Section {
	return r.sections
}

// Run prints every section to w and returns how many reported a problem.
func (r *Registry) Run(w io.Writer) int {
	problems := 0
	for _, s := range r.sections {
		ui.Section(w, s.Name())
		if err := s.Print(w); err != nil {
			fmt.Fprintf(w, "%s Error: %v\n", ui.FailTag(), err)
			problems++
		}
		fmt.Fprintln(w)
	}
	return problems
}

package channel

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
)

// Workflow is an ordered promotion path over risk levels, least stable first.
type Workflow []Risk

// DefaultWorkflow is edge → beta → candidate → stable.
var DefaultWorkflow = Workflow{Edge, Beta, Candidate, Stable}

// Contains reports whether r is part of the workflow.
func (w Workflow) Contains(r Risk) bool {
	for _, risk := range w {
		if risk == r {
			return true
		}
	}
	return false
}

// Next returns the risk that r promotes into.
// The last risk of the workflow has no successor.
func (w Workflow) Next(r Risk) (Risk, bool) {
	for i, risk := range w {
		if risk == r && i+1 < len(w) {
			return w[i+1], true
		}
	}
	return "", false
}

// Sources returns every risk that can be promoted from, in workflow order.
func (w Workflow) Sources() []Risk {
	if len(w) == 0 {
		return nil
	}
	return append([]Risk(nil), w[:len(w)-1]...)
}

// Target validates source as a promotion source and returns its target risk.
func (w Workflow) Target(source string) (Risk, error) {
	next, ok := w.Next(Risk(source))
	if !ok {
		names := make([]string, 0, len(w))
		for _, r := range w.Sources() {
			names = append(names, string(r))
		}
		return "", errors.NewNotValid(nil, fmt.Sprintf("source %s not supported - must be one of %s", source, strings.Join(names, ",")))
	}
	return next, nil
}

// Package promote checks every package in a catalog for a pending promotion
// and runs (or prints) the resulting commands.
package promote

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/canonical/sunbeam-release/internal/catalog"
	"github.com/canonical/sunbeam-release/internal/channel"
	"github.com/canonical/sunbeam-release/internal/charm"
	"github.com/canonical/sunbeam-release/internal/log"
	"github.com/canonical/sunbeam-release/internal/snap"
	"github.com/canonical/sunbeam-release/internal/tool"
)

// Result is the outcome of checking one catalog entry.
type Result struct {
	Entry catalog.Entry
	From  channel.Channel
	To    channel.Channel

	// Command is nil when nothing needs promoting or the check failed.
	Command *tool.Command
	// Reason explains the decision.
	Reason string
	// Err is set when metadata could not be fetched or parsed.
	Err error
}

// Planner checks catalog entries against the store.
type Planner struct {
	Catalog  *catalog.Catalog
	Charms   charm.StatusSource
	Snaps    snap.InfoSource
	Workflow channel.Workflow
	Bases    charm.Bases

	// Jobs bounds how many packages are checked at once. Values below one
	// check packages one at a time.
	Jobs int

	// FailFast stops planning at the first failed check. Otherwise failures
	// are recorded in their Result and the remaining packages are checked.
	FailFast bool

	// OnResult, if set, is called with each result in catalog order as soon
	// as it and every result before it are known.
	OnResult func(Result)
}

// Plan checks every package of release for a promotion out of source.
//
// An unknown source or release is reported before any package is checked.
// Results are returned in catalog order. With FailFast, Plan returns the
// results known so far along with the first check error.
func (p *Planner) Plan(ctx context.Context, release, source string) ([]Result, error) {
	workflow := p.Workflow
	if workflow == nil {
		workflow = channel.DefaultWorkflow
	}
	target, err := workflow.Target(source)
	if err != nil {
		return nil, err
	}
	entries, err := p.Catalog.Entries(release)
	if err != nil {
		return nil, err
	}
	log.Debug("planning promotions", "release", release, "source", source, "target", target, "packages", len(entries))

	jobs := p.Jobs
	if jobs < 1 {
		jobs = 1
	}
	emit := newEmitter(len(entries), p.OnResult)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, entry := range entries {
		i, entry := i, entry
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			r := p.check(gctx, entry, channel.Risk(source), target)
			emit.complete(i, r)
			if r.Err != nil && p.FailFast {
				return r.Err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return emit.emitted(), err
	}
	if err := ctx.Err(); err != nil {
		return emit.emitted(), err
	}
	return emit.emitted(), nil
}

func (p *Planner) check(ctx context.Context, e catalog.Entry, source, target channel.Risk) Result {
	r := Result{
		Entry: e,
		From:  channel.New(e.Track, source),
		To:    channel.New(e.Track, target),
	}

	switch e.Kind {
	case catalog.KindCharm:
		tracks, err := p.Charms.Status(ctx, e.Package)
		if err != nil {
			r.Err = fmt.Errorf("checking charm %s: %w", e.Package, err)
			break
		}
		d := charm.Decide(tracks, charm.Request{Charm: e.Package, From: r.From, To: r.To, Bases: p.Bases})
		r.Command, r.Reason = d.Command, d.Reason
	case catalog.KindSnap:
		channels, err := p.Snaps.Channels(ctx, e.Package)
		if err != nil {
			r.Err = fmt.Errorf("checking snap %s: %w", e.Package, err)
			break
		}
		d := snap.Decide(channels, snap.Request{Snap: e.Package, From: r.From, To: r.To})
		r.Command, r.Reason = d.Command, d.Reason
	default:
		r.Err = fmt.Errorf("package %s: unknown kind %q", e.Package, e.Kind)
	}

	logger := log.With("package", e.Package, "kind", e.Kind)
	if r.Err != nil {
		logger.Warn("check failed", "error", r.Err)
	} else {
		logger.Debug("checked package", "from", r.From, "to", r.To, "reason", r.Reason)
	}
	return r
}

// emitter hands out results in index order while checks complete in any order.
type emitter struct {
	mu      sync.Mutex
	results []Result
	done    []bool
	next    int
	fn      func(Result)
}

func newEmitter(n int, fn func(Result)) *emitter {
	return &emitter{results: make([]Result, n), done: make([]bool, n), fn: fn}
}

func (e *emitter) complete(i int, r Result) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.results[i] = r
	e.done[i] = true
	for e.next < len(e.done) && e.done[e.next] {
		if e.fn != nil {
			e.fn(e.results[e.next])
		}
		e.next++
	}
}

// emitted returns the contiguous prefix of completed results.
func (e *emitter) emitted() []Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.results[:e.next]
}

// Commands returns the commands of results, in order.
func Commands(results []Result) []tool.Command {
	var cmds []tool.Command
	for _, r := range results {
		if r.Command != nil {
			cmds = append(cmds, *r.Command)
		}
	}
	return cmds
}

// Failed returns the results whose check failed.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

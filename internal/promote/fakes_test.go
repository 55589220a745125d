package promote

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/canonical/sunbeam-release/internal/charm"
	"github.com/canonical/sunbeam-release/internal/snap"
)

type fakeCharms struct {
	mu     sync.Mutex
	calls  []string
	status map[string][]charm.Track
	errs   map[string]error
	delay  map[string]time.Duration
}

func (f *fakeCharms) Status(ctx context.Context, name string) ([]charm.Track, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	d := f.delay[name]
	f.mu.Unlock()
	if d > 0 {
		time.Sleep(d)
	}
	if err := f.errs[name]; err != nil {
		return nil, err
	}
	return f.status[name], nil
}

type fakeSnaps struct {
	mu       sync.Mutex
	calls    []string
	channels map[string]snap.Channels
	errs     map[string]error
}

func (f *fakeSnaps) Channels(ctx context.Context, name string) (snap.Channels, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if err := f.errs[name]; err != nil {
		return nil, err
	}
	ch, ok := f.channels[name]
	if !ok {
		return nil, fmt.Errorf("no snap %s", name)
	}
	return ch, nil
}

type runCall struct {
	argv        []string
	interactive bool
}

type fakeRunner struct {
	calls []runCall
	out   string
	fail  map[string]error
}

func (f *fakeRunner) Output(ctx context.Context, argv []string) ([]byte, error) {
	return nil, fmt.Errorf("unexpected Output %v", argv)
}

func (f *fakeRunner) Run(ctx context.Context, argv []string, interactive bool, stdout io.Writer) error {
	f.calls = append(f.calls, runCall{argv: argv, interactive: interactive})
	if err := f.fail[argv[2]]; err != nil {
		return err
	}
	if !interactive && f.out != "" {
		io.WriteString(stdout, f.out)
	}
	return nil
}

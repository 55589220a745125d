package promote

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/sunbeam-release/internal/tool"
)

var testCommands = []tool.Command{
	{Tool: tool.Charmcraft, Args: []string{"release", "keystone-k8s", "--channel", "2024.1/stable", "--revision", "12", "--resource", "keystone-image:4"}},
	{Tool: tool.Snapcraft, Args: []string{"promote", "openstack", "--from-channel", "2024.1/candidate", "--to-channel", "2024.1/stable"}, Interactive: true},
	{Tool: tool.Charmcraft, Args: []string{"release", "glance-k8s", "--channel", "2024.1/stable", "--revision", "3"}},
}

func TestExecuteDryRun(t *testing.T) {
	runner := &fakeRunner{}
	var stdout bytes.Buffer
	e := &Executor{Runner: runner, Tools: tool.DefaultTools(), Stdout: &stdout, DryRun: true}

	require.NoError(t, e.Execute(context.Background(), testCommands))
	assert.Empty(t, runner.calls)
	assert.Equal(t,
		"charmcraft release keystone-k8s --channel 2024.1/stable --revision 12 --resource keystone-image:4\n"+
			"snapcraft promote openstack --from-channel 2024.1/candidate --to-channel 2024.1/stable\n"+
			"charmcraft release glance-k8s --channel 2024.1/stable --revision 3\n",
		stdout.String())
}

func TestExecute(t *testing.T) {
	runner := &fakeRunner{out: "Revision 12 of charm 'keystone-k8s' released\n"}
	var stdout bytes.Buffer
	tools := tool.DefaultTools()
	require.NoError(t, tools.Set(tool.Charmcraft, "sudo charmcraft"))
	e := &Executor{Runner: runner, Tools: tools, Stdout: &stdout}

	require.NoError(t, e.Execute(context.Background(), testCommands[:2]))
	require.Len(t, runner.calls, 2)
	assert.Equal(t, []string{"sudo", "charmcraft", "release", "keystone-k8s", "--channel", "2024.1/stable", "--revision", "12", "--resource", "keystone-image:4"}, runner.calls[0].argv)
	assert.False(t, runner.calls[0].interactive)
	assert.Equal(t, "snapcraft", runner.calls[1].argv[0])
	assert.True(t, runner.calls[1].interactive)

	out := stdout.String()
	assert.Contains(t, out, "Running cmd: sudo charmcraft release keystone-k8s")
	assert.Contains(t, out, "Revision 12 of charm 'keystone-k8s' released\n")
	assert.Contains(t, out, "Running cmd: snapcraft promote openstack")
}

func TestExecuteStopsAtFirstFailure(t *testing.T) {
	runner := &fakeRunner{fail: map[string]error{"openstack": errors.New("exit status 1")}}
	var stdout bytes.Buffer
	e := &Executor{Runner: runner, Tools: tool.DefaultTools(), Stdout: &stdout}

	err := e.Execute(context.Background(), testCommands)
	assert.ErrorContains(t, err, "running snapcraft promote openstack")
	assert.Len(t, runner.calls, 2)
}

func TestExecuteKeepGoing(t *testing.T) {
	runner := &fakeRunner{fail: map[string]error{
		"keystone-k8s": errors.New("permission denied"),
		"openstack":    errors.New("exit status 1"),
	}}
	var stdout bytes.Buffer
	e := &Executor{Runner: runner, Tools: tool.DefaultTools(), Stdout: &stdout, KeepGoing: true}

	err := e.Execute(context.Background(), testCommands)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.Contains(t, err.Error(), "exit status 1")
	assert.Len(t, runner.calls, 3)
}

func TestExecuteNothing(t *testing.T) {
	runner := &fakeRunner{}
	var stdout bytes.Buffer
	e := &Executor{Runner: runner, Tools: tool.DefaultTools(), Stdout: &stdout}

	assert.NoError(t, e.Execute(context.Background(), nil))
	assert.Empty(t, stdout.String())
}

// cancelAfterFirst cancels the run once the first command has been started.
type cancelAfterFirst struct {
	fakeRunner
	cancel context.CancelFunc
}

func (r *cancelAfterFirst) Run(ctx context.Context, argv []string, interactive bool, stdout io.Writer) error {
	defer r.cancel()
	return r.fakeRunner.Run(ctx, argv, interactive, stdout)
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &fakeRunner{}
	var stdout bytes.Buffer
	e := &Executor{Runner: runner, Tools: tool.DefaultTools(), Stdout: &stdout, KeepGoing: true}

	err := e.Execute(ctx, testCommands)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, runner.calls)
	assert.Empty(t, stdout.String())
}

func TestExecuteCancelledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := &cancelAfterFirst{
		fakeRunner: fakeRunner{fail: map[string]error{"keystone-k8s": errors.New("permission denied")}},
		cancel:     cancel,
	}
	var stdout bytes.Buffer
	e := &Executor{Runner: runner, Tools: tool.DefaultTools(), Stdout: &stdout, KeepGoing: true}

	err := e.Execute(ctx, testCommands)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "permission denied")
	assert.Len(t, runner.calls, 1)
	assert.NotContains(t, stdout.String(), "Running cmd: snapcraft promote openstack")
}

package doctor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/sunbeam-release/internal/catalog"
	"github.com/canonical/sunbeam-release/internal/tool"
	"github.com/canonical/sunbeam-release/internal/ui"
)

type versionRunner struct {
	calls [][]string
}

func (r *versionRunner) Output(ctx context.Context, argv []string) ([]byte, error) {
	r.calls = append(r.calls, argv)
	switch argv[0] {
	case "charmcraft":
		return []byte("3.2.1\n"), nil
	case "snap":
		return []byte("snap    2.65\nsnapd   2.65\n"), nil
	}
	return nil, errors.New("exit status 1")
}

func (r *versionRunner) Run(ctx context.Context, argv []string, interactive bool, stdout io.Writer) error {
	return errors.New("unexpected Run")
}

func TestToolsSection(t *testing.T) {
	ui.SetColorEnabled(false)
	runner := &versionRunner{}
	s := &ToolsSection{
		Runner: runner,
		Tools:  tool.DefaultTools(),
		LookPath: func(name string) (string, error) {
			if name == "snapcraft" {
				return "", exec.ErrNotFound
			}
			return "/usr/bin/" + name, nil
		},
	}

	var buf bytes.Buffer
	err := s.Print(&buf)
	assert.EqualError(t, err, "missing tools: snapcraft")

	out := buf.String()
	assert.Contains(t, out, "3.2.1")
	assert.Contains(t, out, "snap    2.65")
	assert.Contains(t, out, "not found")
	assert.Equal(t, [][]string{{"charmcraft", "version"}, {"snap", "version"}}, runner.calls)
}

func TestToolsSectionVersionFailure(t *testing.T) {
	tools := tool.DefaultTools()
	require.NoError(t, tools.Set(tool.Snapcraft, "/opt/snapcraft"))
	s := &ToolsSection{
		Runner:   &versionRunner{},
		Tools:    tools,
		LookPath: func(name string) (string, error) { return name, nil },
	}

	var buf bytes.Buffer
	require.NoError(t, s.Print(&buf))
	assert.Contains(t, buf.String(), "/opt/snapcraft")
	assert.Contains(t, buf.String(), "unknown")
}

func TestCatalogSection(t *testing.T) {
	s := &CatalogSection{Catalog: catalog.Default()}

	var buf bytes.Buffer
	require.NoError(t, s.Print(&buf))
	out := buf.String()
	assert.Contains(t, out, "built-in")
	assert.Contains(t, out, "antelope, bobcat, caracal")
	assert.Contains(t, out, "22.04, 24.04 (amd64)")
}

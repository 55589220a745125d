package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolsResolve(t *testing.T) {
	tools := DefaultTools()
	cmd := Command{Tool: Charmcraft, Args: []string{"release", "keystone-k8s", "--revision", "5"}}

	assert.Equal(t, []string{"charmcraft", "release", "keystone-k8s", "--revision", "5"}, tools.Resolve(cmd))
	assert.Equal(t, "charmcraft release keystone-k8s --revision 5", tools.String(cmd))
}

func TestToolsSetPrefix(t *testing.T) {
	tools := DefaultTools()
	require.NoError(t, tools.Set(Snapcraft, `sudo -E "/opt/snap craft/bin/snapcraft"`))

	cmd := Command{Tool: Snapcraft, Args: []string{"promote", "openstack"}}
	assert.Equal(t, []string{"sudo", "-E", "/opt/snap craft/bin/snapcraft", "promote", "openstack"}, tools.Resolve(cmd))
}

func TestToolsSetInvalid(t *testing.T) {
	tools := DefaultTools()
	assert.Error(t, tools.Set(Snap, `"unterminated`))
	assert.Error(t, tools.Set(Snap, "   "))
	assert.Equal(t, []string{"snap"}, tools[Snap])
}

func TestToolsResolveUnknownTool(t *testing.T) {
	cmd := Command{Tool: "juju", Args: []string{"status"}}
	assert.Equal(t, []string{"juju", "status"}, Tools{}.Resolve(cmd))
}

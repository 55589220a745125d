package doctor

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/gosuri/uitable"

	"github.com/canonical/sunbeam-release/internal/catalog"
	"github.com/canonical/sunbeam-release/internal/tool"
	"github.com/canonical/sunbeam-release/internal/ui"
)

// versionArgs are the arguments that make each tool print its version.
var versionArgs = map[string][]string{
	tool.Charmcraft: {"version"},
	tool.Snap:       {"version"},
	tool.Snapcraft:  {"--version"},
}

var toolOrder = []string{tool.Charmcraft, tool.Snap, tool.Snapcraft}

// ToolsSection reports whether each external tool can be found and which
// version it is.
type ToolsSection struct {
	Runner tool.Runner
	Tools  tool.Tools
	// LookPath defaults to exec.LookPath.
	LookPath func(string) (string, error)
}

func (s *ToolsSection) Name() string { return "Tools" }

func (s *ToolsSection) Print(w io.Writer) error {
	lookPath := s.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("TOOL", "", "COMMAND", "VERSION")

	var missing []string
	for _, name := range toolOrder {
		argv := s.Tools.Resolve(tool.Command{Tool: name, Args: versionArgs[name]})
		command := strings.Join(argv[:len(argv)-len(versionArgs[name])], " ")

		if _, err := lookPath(argv[0]); err != nil {
			table.AddRow(name, ui.FailTag(), command, "not found")
			missing = append(missing, name)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		out, err := s.Runner.Output(ctx, argv)
		cancel()
		version := firstLine(string(out))
		if err != nil {
			version = "unknown"
		}
		table.AddRow(name, ui.OKTag(), command, version)
	}
	fmt.Fprintln(w, table)

	if len(missing) > 0 {
		return fmt.Errorf("missing tools: %s", strings.Join(missing, ", "))
	}
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}

// CatalogSection summarises the catalog in use.
type CatalogSection struct {
	Catalog *catalog.Catalog
	// Path is the catalog file, empty for the built-in catalog.
	Path string
}

func (s *CatalogSection) Name() string { return "Catalog" }

func (s *CatalogSection) Print(w io.Writer) error {
	source := s.Path
	if source == "" {
		source = "built-in"
	}

	charms, snaps := 0, 0
	for _, f := range s.Catalog.Families {
		switch f.Kind {
		case catalog.KindCharm:
			charms += len(f.Packages)
		case catalog.KindSnap:
			snaps += len(f.Packages)
		}
	}

	table := uitable.New()
	table.AddRow("Source:", source)
	table.AddRow("Releases:", strings.Join(s.Catalog.ReleaseNames(), ", "))
	table.AddRow("Families:", len(s.Catalog.Families))
	table.AddRow("Charms:", charms)
	table.AddRow("Snaps:", snaps)
	table.AddRow("Bases:", fmt.Sprintf("%s (%s)",
		strings.Join(s.Catalog.Bases.Channels, ", "),
		strings.Join(s.Catalog.Bases.Architectures, ", ")))
	fmt.Fprintln(w, table)
	return nil
}

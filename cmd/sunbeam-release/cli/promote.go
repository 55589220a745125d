package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/juju/collections/set"
	"github.com/spf13/cobra"

	"github.com/canonical/sunbeam-release/internal/catalog"
	"github.com/canonical/sunbeam-release/internal/channel"
	"github.com/canonical/sunbeam-release/internal/charm"
	"github.com/canonical/sunbeam-release/internal/log"
	"github.com/canonical/sunbeam-release/internal/promote"
	"github.com/canonical/sunbeam-release/internal/snap"
	"github.com/canonical/sunbeam-release/internal/ui"
)

// promoteOptions holds the flags of the promote command.
type promoteOptions struct {
	Source      string
	Release     string
	CatalogPath string
	DryRun      bool
	Jobs        int
	FailFast    bool
	KeepGoing   bool
}

var promoteFlags promoteOptions

var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Promote charms and snaps between channels",
	Long: `Promote every charm and snap of a Sunbeam release from the source risk to
the next risk of the workflow edge → beta → candidate → stable.

Each package is checked with 'charmcraft status' or 'snap info'. A package is
promoted when its source channel holds a revision that differs from the
target channel. Charms are released with 'charmcraft release', carrying the
source revision's resources; snaps are promoted with 'snapcraft promote',
which asks for confirmation on the terminal.

A package whose check fails is reported and the remaining packages are still
checked; the command exits non-zero afterwards. Use --fail-fast to stop at the
first failed check.

Use --dry-run to print the commands without running them.`,
	Example: `  sunbeam-release promote --source candidate --release caracal --dry-run
  sunbeam-release promote --source edge --release caracal --jobs 8`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := promoteFlags
		if !cmd.Flags().Changed("release") {
			opts.Release = globalCfg.DefaultRelease
		}
		if !cmd.Flags().Changed("jobs") {
			opts.Jobs = globalCfg.Jobs
		}
		return runPromote(cmd.Context(), opts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(promoteCmd)

	sources := make([]string, 0, len(channel.DefaultWorkflow))
	for _, r := range channel.DefaultWorkflow.Sources() {
		sources = append(sources, string(r))
	}
	f := promoteCmd.Flags()
	f.StringVar(&promoteFlags.Source, "source", string(channel.Candidate),
		fmt.Sprintf("source channel for promotion (%s)", strings.Join(sources, ", ")))
	f.StringVar(&promoteFlags.Release, "release", "", "Sunbeam release for tracks (default from config, antelope)")
	f.StringVar(&promoteFlags.CatalogPath, "catalog", "", "catalog file replacing the built-in package list")
	f.BoolVarP(&promoteFlags.DryRun, "dry-run", "d", false, "print the commands instead of running them")
	f.IntVarP(&promoteFlags.Jobs, "jobs", "j", 1, "number of packages to check at once")
	f.BoolVar(&promoteFlags.FailFast, "fail-fast", false, "stop at the first package whose check fails")
	f.BoolVar(&promoteFlags.KeepGoing, "keep-going", false, "run the remaining commands after one fails")
}

func runPromote(ctx context.Context, opts promoteOptions, stdout io.Writer) error {
	target, err := channel.DefaultWorkflow.Target(opts.Source)
	if err != nil {
		return err
	}

	cat, catalogPath, err := loadCatalog(opts.CatalogPath)
	if err != nil {
		return err
	}
	if !cat.HasRelease(opts.Release) {
		return fmt.Errorf("release %s not supported - must be one of %s",
			opts.Release, strings.Join(cat.ReleaseNames(), ","))
	}

	tools, err := globalCfg.ToolSet()
	if err != nil {
		return err
	}
	runner := newRunner()

	batch := log.SetBatch(opts.Release, opts.Source)
	if catalogPath == "" {
		catalogPath = "built-in"
	}
	log.Info("promoting", "catalog", catalogPath, "dry_run", opts.DryRun, "jobs", opts.Jobs)
	ui.Progressf("%s %s → %s (%s)", ui.Bold("Sunbeam "+opts.Release), opts.Source, target, ui.Dim(batch))

	planner := &promote.Planner{
		Catalog:  cat,
		Charms:   &charm.CLISource{Runner: runner, Tools: tools},
		Snaps:    &snap.CLISource{Runner: runner, Tools: tools},
		Workflow: channel.DefaultWorkflow,
		Bases: charm.Bases{
			Channels:      set.NewStrings(cat.Bases.Channels...),
			Architectures: set.NewStrings(cat.Bases.Architectures...),
		},
		Jobs:     opts.Jobs,
		FailFast: opts.FailFast,
		OnResult: reportResult,
	}
	results, err := planner.Plan(ctx, opts.Release, opts.Source)
	if err != nil {
		return err
	}

	cmds := promote.Commands(results)
	if len(cmds) == 0 {
		ui.Progressf("Nothing to promote")
	}
	executor := &promote.Executor{
		Runner:    runner,
		Tools:     tools,
		Stdout:    stdout,
		DryRun:    opts.DryRun,
		KeepGoing: opts.KeepGoing,
	}
	execErr := executor.Execute(ctx, cmds)

	if failed := promote.Failed(results); len(failed) > 0 {
		names := make([]string, 0, len(failed))
		for _, r := range failed {
			names = append(names, r.Entry.Package)
		}
		checkErr := fmt.Errorf("%d package checks failed: %s", len(failed), strings.Join(names, ", "))
		if execErr != nil {
			return fmt.Errorf("%w; %w", execErr, checkErr)
		}
		return checkErr
	}
	return execErr
}

// loadCatalog returns the catalog named by path, the configured catalog, or
// the built-in one, along with the file it was read from.
func loadCatalog(path string) (*catalog.Catalog, string, error) {
	if path == "" {
		cat, err := globalCfg.LoadCatalog()
		return cat, globalCfg.Catalog, err
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cat, path, nil
}

func reportResult(r promote.Result) {
	ui.Progressf("Checking %s %s: %s->%s", r.Entry.Kind, r.Entry.Package, r.From, r.To)
	switch {
	case r.Err != nil:
		ui.Errorf("%v", r.Err)
	case r.Command != nil:
		ui.Progressf("  %s %s", ui.OKTag(), r.Reason)
	default:
		ui.Progressf("  %s %s", ui.SkipTag(), r.Reason)
	}
}

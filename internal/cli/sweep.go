package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type sweepOptions struct {
	dryRun bool
}

// NewSweepCommand creates the sweep command
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &sweepOptions{}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove items left behind by deleted containers",
		Long: `Deleting a container leaves its items in the store. Sweep removes
those items together with images that no longer have an owner.

Run it while the server is stopped: the database is locked by the
running server anyway.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "list orphaned items without removing anything")
	return cmd
}

func runSweep(cmd *cobra.Command, rootOpts *RootOptions, opts *sweepOptions) (err error) {
	e, err := open(cmd, rootOpts, opts.dryRun)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.Close(); err == nil {
			err = cerr
		}
	}()
	out := cmd.OutOrStdout()

	if opts.dryRun {
		orphans, err := e.stash.Orphans()
		if err != nil {
			return err
		}
		for _, item := range orphans {
			fmt.Fprintf(out, "%s %s %q\n", item.ContainerID, item.ID, item.Name)
		}
		fmt.Fprintf(out, "%d orphaned items\n", len(orphans))
		return nil
	}

	report, err := e.stash.SweepOrphans()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "removed %d items, %d item images, %d container images\n",
		report.Items, report.ItemImages, report.ContainerImages)
	return nil
}

package status

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sidkik/groovepush/cmd/util"
	"github.com/sidkik/groovepush/pkg/errors"
	"github.com/sidkik/groovepush/pkg/units"
)

// Mocked out for unit testing.
var (
	newSyncer                     = util.NewSyncer
	getWorkingDirectory           = os.Getwd
	stdout              io.Writer = os.Stdout
)

// New creates a new `status` command.
func New() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the changes that haven't been pushed",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := run(cmd.Context(), verbose); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"List the changed and deleted files")
	return cmd
}

func run(ctx context.Context, verbose bool) error {
	root, err := getWorkingDirectory()
	if err != nil {
		return errors.WithContext(err, "get working directory")
	}

	syncer, err := newSyncer(ctx)
	if err != nil {
		return err
	}

	status, err := syncer.Status(ctx, root)
	if err != nil {
		return errors.WithContext(err, "get status")
	}

	fmt.Fprintf(stdout, "Project: %s\n", status.Project)
	fmt.Fprintf(stdout, "Local files: %d\n", len(status.Files))
	fmt.Fprintf(stdout, "Total size: %s\n", units.FormatSize(status.TotalSize))

	if !status.Pushed {
		fmt.Fprintln(stdout, "Remote: not pushed yet")
		return nil
	}

	fmt.Fprintf(stdout, "Changed files: %d\n", len(status.Changed))
	fmt.Fprintf(stdout, "Deleted files: %d\n", len(status.Deleted))
	if verbose {
		for _, e := range status.Changed {
			fmt.Fprintf(stdout, "  modified: %s\n", e.Path)
		}
		for _, path := range status.Deleted {
			fmt.Fprintf(stdout, "  deleted:  %s\n", path)
		}
	}
	return nil
}

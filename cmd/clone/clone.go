package clone

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sidkik/groovepush/cmd/util"
	"github.com/sidkik/groovepush/pkg/errors"
)

// Mocked out for unit testing.
var (
	newSyncer                     = util.NewSyncer
	getWorkingDirectory           = os.Getwd
	stdout              io.Writer = os.Stdout
	stderr              io.Writer = os.Stderr
)

// New creates a new `clone` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "clone <project>",
		Short: "Restore the latest snapshot of a project into a new directory",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := run(cmd.Context(), args[0]); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
}

func run(ctx context.Context, project string) error {
	wd, err := getWorkingDirectory()
	if err != nil {
		return errors.WithContext(err, "get working directory")
	}

	syncer, err := newSyncer(ctx)
	if err != nil {
		return err
	}

	pp := util.NewProgressPrinter(stderr, fmt.Sprintf("Cloning %s", project))
	go pp.Run()
	result, err := syncer.Clone(ctx, project, wd)
	pp.Stop()

	switch {
	case errors.Is(err, errors.DestinationExists):
		return errors.NewFriendlyError("Directory already exists: %s", result.Root)
	case errors.Is(err, errors.HistoryNotFound):
		return errors.NewFriendlyError("Project %q not found.", project)
	case errors.Is(err, errors.SnapshotNotFound):
		return errors.NewFriendlyError("Project %q has no snapshots.", project)
	case errors.Is(err, errors.InvalidProjectName):
		return errors.NewFriendlyError("Invalid project name %q.", project)
	case err != nil:
		return errors.WithContext(err, "clone")
	}

	fmt.Fprintf(stdout, "Snapshot: %s\n", result.Snapshot.ID)
	if result.Snapshot.Message != "" {
		fmt.Fprintf(stdout, "Message: %s\n", result.Snapshot.Message)
	}
	fmt.Fprintf(stdout, "Files: %d\n", len(result.Snapshot.Files))
	fmt.Fprintf(stdout, "Cloned into %s\n", result.Root)
	return nil
}

package log

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sidkik/groovepush/cmd/util"
	"github.com/sidkik/groovepush/pkg/errors"
	"github.com/sidkik/groovepush/pkg/sync"
	"github.com/sidkik/groovepush/pkg/units"
)

// Mocked out for unit testing.
var (
	newSyncer                     = util.NewSyncer
	getWorkingDirectory           = os.Getwd
	stdout              io.Writer = os.Stdout
)

const createdAtLayout = "2006-01-02 15:04:05 UTC"

// New creates a new `log` command.
func New() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "log [project]",
		Short: "Show the snapshot history of a project",
		Long: "Show the most recent snapshots of a project, newest first.\n" +
			"The project defaults to the one in the current directory.",
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var project string
			if len(args) == 1 {
				project = args[0]
			}

			if err := run(cmd.Context(), project, limit); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "The number of snapshots to show")
	return cmd
}

func run(ctx context.Context, project string, limit int) error {
	if project == "" {
		wd, err := getWorkingDirectory()
		if err != nil {
			return errors.WithContext(err, "get working directory")
		}

		root, err := sync.CanonicalRoot(wd)
		if err != nil {
			return err
		}
		project = sync.ProjectName(root)
	}

	syncer, err := newSyncer(ctx)
	if err != nil {
		return err
	}

	snapshots, err := syncer.Log(ctx, project, limit)
	if errors.Is(err, errors.HistoryNotFound) {
		fmt.Fprintf(stdout, "No history found for project %q.\n", project)
		fmt.Fprintln(stdout, "Run `gp push` to create the first snapshot.")
		return nil
	}
	if err != nil {
		return errors.WithContext(err, "get history")
	}

	fmt.Fprintf(stdout, "Project: %s\n\n", project)
	if len(snapshots) == 0 {
		fmt.Fprintln(stdout, "No snapshots.")
		return nil
	}

	for _, snapshot := range snapshots {
		fmt.Fprintf(stdout, "snapshot %s\n", snapshot.ID)
		if snapshot.Message != "" {
			fmt.Fprintf(stdout, "Message: %s\n", snapshot.Message)
		}
		fmt.Fprintf(stdout, "Date:    %s\n", snapshot.CreatedAt.UTC().Format(createdAtLayout))
		fmt.Fprintf(stdout, "Files:   %d (%d changed)\n",
			snapshot.Meta.FileCount, snapshot.Meta.ChangedCount)
		fmt.Fprintf(stdout, "Size:    %s\n\n", units.FormatSize(snapshot.Meta.TotalSize))
	}
	return nil
}

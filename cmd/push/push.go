package push

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
	stderr              io.Writer = os.Stderr
)

// New creates a new `push` command.
func New() *cobra.Command {
	var opts sync.PushOptions
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Back up the project in the current directory",
		Long: "Upload the files that changed since the last push, and record\n" +
			"a snapshot of the project that can be restored with `gp checkout`.",
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := run(cmd.Context(), opts); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().StringVarP(&opts.Message, "message", "m", "",
		"A description of the snapshot")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false,
		"Show the files that would be uploaded without uploading them")
	return cmd
}

func run(ctx context.Context, opts sync.PushOptions) error {
	root, err := getWorkingDirectory()
	if err != nil {
		return errors.WithContext(err, "get working directory")
	}

	syncer, err := newSyncer(ctx)
	if err != nil {
		return err
	}

	pp := util.NewProgressPrinter(stderr, "Pushing")
	go pp.Run()
	result, err := syncer.Push(ctx, root, opts)
	pp.Stop()
	if err != nil {
		return errors.WithContext(err, fmt.Sprintf("push %s", result.Project))
	}

	printResult(stdout, result)
	return nil
}

func printResult(out io.Writer, result sync.PushResult) {
	fmt.Fprintf(out, "Project: %s\n", result.Project)
	fmt.Fprintf(out, "Files: %d (%s)\n", len(result.Scanned),
		units.FormatSize(sync.TotalSize(result.Scanned)))

	switch result.State {
	case sync.NoChanges:
		fmt.Fprintln(out, "No changes to push.")
	case sync.DryRun:
		sync.SortEntries(result.Changed)
		fmt.Fprintf(out, "Changed files: %d\n\n", len(result.Changed))
		fmt.Fprintln(out, "Dry run. The following files would be uploaded:")
		for _, e := range result.Changed {
			fmt.Fprintf(out, "  %s\n", e.Path)
		}
	case sync.Done:
		fmt.Fprintf(out, "Changed files: %d\n", len(result.Changed))
		fmt.Fprintf(out, "New blobs: %d\n\n", result.NewBlobs)
		fmt.Fprintf(out, "Snapshot: %s\n", result.Snapshot.ID)
		if result.Snapshot.Message != "" {
			fmt.Fprintf(out, "Message: %s\n", result.Snapshot.Message)
		}
	}
}

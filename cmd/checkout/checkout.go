package checkout

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sidkik/groovepush/cmd/util"
	"github.com/sidkik/groovepush/pkg/errors"
	"github.com/sidkik/groovepush/pkg/sync"
)

// Mocked out for unit testing.
var (
	newSyncer                     = util.NewSyncer
	getWorkingDirectory           = os.Getwd
	stdout              io.Writer = os.Stdout
	stderr              io.Writer = os.Stderr
)

// New creates a new `checkout` command.
func New() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "checkout <snapshot>",
		Short: "Restore the files in a snapshot",
		Long: "Restore the files in a snapshot. The snapshot may be identified\n" +
			"by its full id, or by a prefix such as `20240101`, in which case\n" +
			"the most recent matching snapshot is restored.\n\n" +
			"The project is named after the output directory, which defaults to\n" +
			"the current directory. Existing files are overwritten.",
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := run(cmd.Context(), args[0], output); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "",
		"The directory to restore into")
	return cmd
}

func run(ctx context.Context, ref, output string) error {
	if output == "" {
		wd, err := getWorkingDirectory()
		if err != nil {
			return errors.WithContext(err, "get working directory")
		}
		output = wd
	}

	root, err := sync.CanonicalRoot(output)
	if err != nil {
		return err
	}
	project := sync.ProjectName(root)

	syncer, err := newSyncer(ctx)
	if err != nil {
		return err
	}

	pp := util.NewProgressPrinter(stderr, fmt.Sprintf("Restoring %s", ref))
	go pp.Run()
	snapshot, err := syncer.Checkout(ctx, project, ref, root)
	pp.Stop()

	switch {
	case errors.Is(err, errors.HistoryNotFound):
		return errors.NewFriendlyError("No history found for project %q.", project)
	case errors.Is(err, errors.SnapshotNotFound):
		return errors.NewFriendlyError("Snapshot not found: %s", ref)
	case err != nil:
		return errors.WithContext(err, "checkout")
	}

	fmt.Fprintf(stdout, "Restored snapshot: %s\n", snapshot.ID)
	if snapshot.Message != "" {
		fmt.Fprintf(stdout, "Message: %s\n", snapshot.Message)
	}
	fmt.Fprintf(stdout, "Files: %d\n", len(snapshot.Files))
	fmt.Fprintf(stdout, "Directory: %s\n", root)
	return nil
}

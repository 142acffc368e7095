package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

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
)

// New creates a new `watch` command.
func New() *cobra.Command {
	var opts sync.WatchOptions
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Push the project in the current directory whenever it changes",
		Long: "Push the project in the current directory, and then push again\n" +
			"every time a tracked file changes. Runs until interrupted.",
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := run(cmd.Context(), opts); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().StringVarP(&opts.Message, "message", "m", "",
		"A description stored in every snapshot")
	cmd.Flags().DurationVar(&opts.PollInterval, "poll-interval", sync.DefaultPollInterval,
		"How often to push if file changes can't be watched")
	return cmd
}

func run(ctx context.Context, opts sync.WatchOptions) error {
	root, err := getWorkingDirectory()
	if err != nil {
		return errors.WithContext(err, "get working directory")
	}

	syncer, err := newSyncer(ctx)
	if err != nil {
		return err
	}

	opts.OnPush = func(result sync.PushResult, err error) {
		printPush(stdout, time.Now(), result, err)
	}
	fmt.Fprintf(stdout, "Watching %s. Press Ctrl-C to stop.\n", root)
	return syncer.Watch(ctx, root, opts)
}

func printPush(out io.Writer, now time.Time, result sync.PushResult, err error) {
	prefix := now.Format("15:04:05")
	switch {
	case err != nil:
		fmt.Fprintf(out, "%s Push failed: %s\n", prefix, errors.GetPrintableMessage(err))
	case result.State == sync.Done:
		fmt.Fprintf(out, "%s Pushed snapshot %s (%d changed files)\n",
			prefix, result.Snapshot.ID, len(result.Changed))
	}
}

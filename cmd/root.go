package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sidkik/groovepush/cmd/checkout"
	"github.com/sidkik/groovepush/cmd/clone"
	configCmd "github.com/sidkik/groovepush/cmd/config"
	"github.com/sidkik/groovepush/cmd/initialize"
	logCmd "github.com/sidkik/groovepush/cmd/log"
	"github.com/sidkik/groovepush/cmd/push"
	"github.com/sidkik/groovepush/cmd/status"
	"github.com/sidkik/groovepush/cmd/util"
	"github.com/sidkik/groovepush/cmd/version"
	"github.com/sidkik/groovepush/cmd/watch"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "GP_LOG_VERBOSE"

// Execute runs the main CLI process.
func Execute() {
	if os.Getenv(verboseLogKey) == "true" {
		log.SetLevel(log.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		util.HandleFatalError(err)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gp",
		Short: "GroovePush backs up music projects to object storage",
		Long: "GroovePush backs up music production projects. Each push uploads\n" +
			"the files that changed and records a snapshot that can be restored\n" +
			"later, on this machine or another.",
		SilenceUsage: true,

		// The call to rootCmd.Execute prints the error, so we silence errors
		// here to avoid double printing.
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		checkout.New(),
		clone.New(),
		configCmd.New(),
		initialize.New(),
		logCmd.New(),
		push.New(),
		status.New(),
		version.New(),
		watch.New(),
	)
	return rootCmd
}

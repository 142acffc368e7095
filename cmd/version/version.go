package version

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sidkik/groovepush/pkg/history"
	"github.com/sidkik/groovepush/pkg/version"
)

// Mocked out for unit testing.
var stdout io.Writer = os.Stdout

// New creates a new `version` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of GroovePush",
		Long: "Print the version of GroovePush, as a git commit hash, and the\n" +
			"version of the history format it writes.",
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			run()
		},
	}
}

func run() {
	fmt.Fprintf(stdout, "gp version:     %s\n", version.Version)
	fmt.Fprintf(stdout, "history format: v%d\n", history.SchemaVersion)
}

package initialize

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sidkik/groovepush/cmd/util"
	"github.com/sidkik/groovepush/pkg/config"
	"github.com/sidkik/groovepush/pkg/errors"
)

// Mocked out for unit testing.
var (
	getWorkingDirectory           = os.Getwd
	stdout              io.Writer = os.Stdout
)

// New creates a new `init` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Prepare the current directory for backups",
		Long: "Create the .gp metadata directory and a default .gp-ignore file\n" +
			"that excludes the temporary files created by common DAWs.\n" +
			"Existing files are left untouched.",
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			if err := run(); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
}

func run() error {
	root, err := getWorkingDirectory()
	if err != nil {
		return errors.WithContext(err, "get working directory")
	}

	if err := config.InitProject(root); err != nil {
		return errors.WithContext(err, "initialize project")
	}

	fmt.Fprintf(stdout, "Initialized GroovePush in %s\n", root)
	return nil
}

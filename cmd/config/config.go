package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sidkik/groovepush/cmd/util"
	"github.com/sidkik/groovepush/pkg/config"
	"github.com/sidkik/groovepush/pkg/errors"
)

// Mocked for unit testing.
var (
	stdout          io.Writer = os.Stdout
	stdin           io.Reader = os.Stdin
	parseUserConfig           = config.ParseUser
	writeUserConfig           = config.WriteUser
	getenv                    = os.Getenv
)

// New creates a new `config` command.
func New() *cobra.Command {
	var cliOpts config.Store
	var storeType string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Setup the GroovePush user configuration",
		Run: func(_ *cobra.Command, _ []string) {
			cliOpts.Type = config.StoreType(storeType)
			if err := SetupConfig(cliOpts); err != nil {
				err = errors.NewFriendlyError("Failed to setup configuration:\n%s", err)
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().StringVar(&storeType, "store", "",
		"Set the store type (fs, s3, or gcs). "+
			"Optional: If not set, `gp config` will interactively prompt.")
	cmd.Flags().StringVar(&cliOpts.Path, "path", "",
		"Set the directory of the fs store. "+
			"Optional: If not set, `gp config` will interactively prompt.")
	cmd.Flags().StringVar(&cliOpts.Bucket, "bucket", "",
		"Set the bucket of the s3 or gcs store. "+
			"Optional: If not set, `gp config` will interactively prompt.")
	cmd.Flags().StringVar(&cliOpts.Region, "region", "",
		"Set the region of the s3 store. "+
			"Optional: If not set, `gp config` will interactively prompt.")
	cmd.Flags().StringVar(&cliOpts.Endpoint, "endpoint", "",
		"Set a custom endpoint for S3-compatible services such as MinIO.")
	cmd.Flags().StringVar(&cliOpts.Prefix, "prefix", "",
		"Set a prefix for all keys written to the store.")

	// Setup the commands for querying the contents of the user config.
	type getterSpec struct {
		use, short string
		fn         func(config.User) string
	}

	getters := []getterSpec{
		{
			use:   "get-store",
			short: "Get the currently configured store type",
			fn:    func(cfg config.User) string { return string(cfg.Store.Type) },
		},
		{
			use:   "get-location",
			short: "Get where snapshots are stored",
			fn:    storeLocation,
		},
	}
	for _, getter := range getters {
		cmd.AddCommand(&cobra.Command{
			Use:   getter.use,
			Short: getter.short,
			Run: func(_ *cobra.Command, _ []string) {
				cfg, err := parseUserConfig()
				if err != nil {
					err = errors.WithContext(err, "read config")
					util.HandleFatalError(err)
				}

				fmt.Fprintln(stdout, getter.fn(cfg))
			},
		})
	}

	return cmd
}

func storeLocation(cfg config.User) string {
	var location string
	switch cfg.Store.Type {
	case config.StoreTypeS3:
		location = "s3://" + cfg.Store.Bucket
	case config.StoreTypeGCS:
		location = "gs://" + cfg.Store.Bucket
	default:
		return filepath.Join(cfg.Store.Path, filepath.FromSlash(cfg.Store.Prefix))
	}

	if cfg.Store.Prefix != "" {
		location += "/" + strings.Trim(cfg.Store.Prefix, "/")
	}
	return location
}

func SetupConfig(cliOpts config.Store) error {
	cfg, err := generateConfig(cliOpts)
	if err != nil {
		return errors.WithContext(err, "generate config")
	}

	if err := writeUserConfig(cfg); err != nil {
		return errors.WithContext(err, "write config")
	}

	path, err := config.GetUserConfigPath()
	if err != nil {
		return errors.WithContext(err, "get user config path")
	}

	fmt.Fprintf(stdout, "Wrote config to %s\n", path)
	return nil
}

func storeTypeValidationFn(storeType string) (string, bool) {
	switch config.StoreType(storeType) {
	case config.StoreTypeFS, config.StoreTypeS3, config.StoreTypeGCS:
		return "", true
	}
	return fmt.Sprintf("Unsupported store type %q. "+
		"Please pick one of fs, s3, or gcs.", storeType), false
}

type prompt struct {
	helpString, prompt, defaultAnswer, currAnswer string
	field                                         *string
	validationFn                                  func(string) (string, bool)
}

// generateConfig interacts with the user to decide what the user's desired
// configuration is.
// Fields set on the command line aren't prompted for. Fields that can only
// be set on the command line keep their current value.
func generateConfig(cliOpts config.Store) (config.User, error) {
	currConfig, err := parseUserConfig()
	if err != nil {
		currConfig = config.User{}
		log.WithError(err).Debug("Failed to read current config")
	}

	cfg := currConfig
	cfg.Store = cliOpts
	if cfg.Store.Endpoint == "" {
		cfg.Store.Endpoint = currConfig.Store.Endpoint
	}
	if cfg.Store.Prefix == "" {
		cfg.Store.Prefix = currConfig.Store.Prefix
	}

	storeType := string(cliOpts.Type)
	if storeType == "" {
		err := runPrompt(prompt{
			helpString: "Enter where snapshots should be stored.\n" +
				"Use `fs` for a local or network drive, `s3` for Amazon S3 or\n" +
				"an S3-compatible service, and `gcs` for Google Cloud Storage.",
			prompt:        "Store type",
			defaultAnswer: string(config.StoreTypeFS),
			currAnswer:    string(currConfig.Store.Type),
			field:         &storeType,
			validationFn:  storeTypeValidationFn,
		})
		if err != nil {
			return config.User{}, err
		}
	} else if msg, ok := storeTypeValidationFn(storeType); !ok {
		return config.User{}, errors.NewFriendlyError("%s", msg)
	}
	cfg.Store.Type = config.StoreType(storeType)

	var prompts []prompt
	switch cfg.Store.Type {
	case config.StoreTypeFS:
		if cliOpts.Path == "" {
			prompts = append(prompts, prompt{
				helpString:    "Enter the directory to store snapshots in.",
				prompt:        "Store directory",
				defaultAnswer: config.DefaultStorePath,
				currAnswer:    currConfig.Store.Path,
				field:         &cfg.Store.Path,
			})
		}
	case config.StoreTypeS3, config.StoreTypeGCS:
		if cliOpts.Bucket == "" {
			prompts = append(prompts, prompt{
				helpString:    "Enter the bucket to store snapshots in.",
				prompt:        "Bucket",
				defaultAnswer: config.DefaultBucket,
				currAnswer:    currConfig.Store.Bucket,
				field:         &cfg.Store.Bucket,
			})
		}
		if cfg.Store.Type == config.StoreTypeS3 && cliOpts.Region == "" {
			prompts = append(prompts, prompt{
				helpString:    "Enter the region of the bucket.",
				prompt:        "Region",
				defaultAnswer: guessRegion(),
				currAnswer:    currConfig.Store.Region,
				field:         &cfg.Store.Region,
			})
		}
	}

	for _, prompt := range prompts {
		if err := runPrompt(prompt); err != nil {
			return config.User{}, err
		}
	}
	return cfg, nil
}

func runPrompt(prompt prompt) error {
	for {
		resp, err := promptUser(prompt.helpString, prompt.prompt,
			prompt.defaultAnswer, prompt.currAnswer)
		if err != nil {
			return errors.WithContext(err, "read response")
		}

		if prompt.validationFn != nil {
			if validationErr, ok := prompt.validationFn(resp); !ok {
				fmt.Fprintln(stdout, validationErr)
				continue
			}
		}

		*prompt.field = resp
		return nil
	}
}

// guessRegion returns the region used by the AWS CLI if it's set in the
// environment.
func guessRegion() string {
	for _, env := range []string{"AWS_REGION", "AWS_DEFAULT_REGION"} {
		if region := getenv(env); region != "" {
			return region
		}
	}
	return config.DefaultRegion
}

func promptUser(helpString, prompt, defaultAnswer, currAnswer string) (string, error) {
	// Display a new line at the end to separate different fields to make it
	// look clearer.
	defer fmt.Fprintln(stdout)

	options := []string{}
	if defaultAnswer != "" {
		options = append(options, defaultAnswer)
	}
	if currAnswer != "" && currAnswer != defaultAnswer {
		options = append(options, currAnswer)
	}
	options = append(options, "(Enter manually)")

	fmt.Fprintln(stdout, helpString+"\n"+prompt+":")

	stdinReader := bufio.NewReader(stdin)

	if nOptions := len(options); nOptions > 1 {
		// defaultAnswer or currAnswer exists.
		fmt.Fprintln(stdout)
		for i, option := range options {
			if i == 0 {
				option = fmt.Sprintf("%s (recommended)", option)
			}
			fmt.Fprintf(stdout, "\t%d. %s\n", i+1, option)
		}
		fmt.Fprintln(stdout)

		for {
			fmt.Fprintf(stdout, "Please choose one [1-%d]: ", nOptions)
			choiceStr, err := stdinReader.ReadString('\n')
			if err != nil {
				return "", err
			}

			var choice int
			choiceStr = strings.TrimRight(choiceStr, "\n")

			// Default to the first choice if user doesn't enter anything.
			if choiceStr == "" {
				choice = 1
			} else {
				choice, err = strconv.Atoi(choiceStr)
				if err != nil || choice < 1 || choice > nOptions {
					// Try again if the input is invalid.
					continue
				}
			}

			if choice == nOptions {
				// Enter manually.
				break
			}

			return options[choice-1], nil
		}
	}

	fmt.Fprint(stdout, "Please enter manually: ")
	resp, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", err
	}

	return strings.TrimRight(resp, "\n"), nil
}

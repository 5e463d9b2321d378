package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cisagov/gophish-test/filepathparser"
	"github.com/cisagov/gophish-test/gophish"
	"github.com/cisagov/gophish-test/orchestrator"
	"github.com/cisagov/gophish-test/prompt"
)

// Version is overridden at build time with -ldflags "-X .../cmd.Version=...".
var Version = "0.1.0"

// PrompterFactory opens the source of operator input. The returned function
// releases it.
type PrompterFactory func(cmd *cobra.Command) (prompt.IPrompter, func() error, error)

func consolePrompter(cmd *cobra.Command) (prompt.IPrompter, func() error, error) {
	console, err := prompt.NewConsolePrompter(os.Stdin, cmd.OutOrStdout())
	if err != nil {
		return nil, nil, err
	}
	return console, console.Close, nil
}

func NewRootCommand(prompterFactory PrompterFactory) *cobra.Command {
	config := viper.New()

	rootCmd := &cobra.Command{
		Use:   "gophish-test [--log-level=LEVEL] ASSESSMENT_ID SERVER API_KEY",
		Short: "Send a duplicate of a GoPhish assessment to custom targets as a test",
		Long: `Send a duplicate assessment from GoPhish to custom targets as a test.

Every campaign named "<ASSESSMENT_ID>-..." is copied to a "Test-" campaign that
reuses the original landing page, email template, sending profile and URL. All
copies are sent to a single group, "Test-<ASSESSMENT_ID>-G1", built from the
targets entered at the prompt. Enter "done" as a first name to finish.

NOTE: the test campaigns are exact copies of the real assessment and are sent
immediately to the targets provided.

Examples:
  gophish-test RV1234 https://gophish.local:3333 0123456789abcdef
  gophish-test --log-level=debug --confirm RV1234 https://gophish.local:3333 0123456789abcdef`,
		Version:       Version,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(cmd, config, prompterFactory, args[0], args[1], args[2]); err != nil {
				return &loggedError{err: err}
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", `Log level: "debug", "info", "warning", "error" or "critical"`)
	rootCmd.PersistentFlags().Bool("structured-logs", false, "Write logs as JSON")
	rootCmd.PersistentFlags().Bool("insecure", true, "Skip TLS certificate verification (GoPhish uses a self-signed certificate by default)")
	rootCmd.PersistentFlags().Bool("confirm", false, "Ask for confirmation before creating the test group and campaigns")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Optional YAML config file providing flag defaults")

	for _, name := range []string{"log-level", "structured-logs", "insecure", "confirm"} {
		config.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
	config.SetEnvPrefix("GOPHISH_TEST")
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	config.AutomaticEnv()

	return rootCmd
}

func run(cmd *cobra.Command, config *viper.Viper, prompterFactory PrompterFactory, assessmentID string, server string, apiKey string) error {
	bootstrapLogger := newLogger(cmd.ErrOrStderr(), logrus.InfoLevel, false)

	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		configPath, err := filepathparser.ParseFilePath(configFile)
		if err != nil {
			bootstrapLogger.Errorf("Error getting config file path: %v", err)
			return err
		}
		config.SetConfigFile(configPath)
		if err := config.ReadInConfig(); err != nil {
			bootstrapLogger.Errorf("Error reading config file %s: %v", configPath, err)
			return err
		}
	}

	logLevel, err := parseLogLevel(config.GetString("log-level"))
	if err != nil {
		logCritical(bootstrapLogger, err)
		return err
	}
	log := newLogger(cmd.ErrOrStderr(), logLevel, config.GetBool("structured-logs"))

	for key, value := range config.AllSettings() {
		log.Debugf("Command Flag: %s = %v", key, value)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	gophishClient, err := gophish.NewClient(server, apiKey, config.GetBool("insecure"), log)
	if err != nil {
		logCritical(log, err)
		return err
	}
	if err := gophishClient.Connect(ctx); err != nil {
		logCritical(log, err)
		return err
	}

	prompter, closePrompter, err := prompterFactory(cmd)
	if err != nil {
		log.Error(err)
		return err
	}
	defer closePrompter()

	testCampaignClient := orchestrator.NewTestCampaignClient(
		gophishClient,
		prompt.NewInputClient(prompter, log),
		config.GetBool("confirm"),
		log,
	)

	result, err := testCampaignClient.Run(ctx, assessmentID)
	if err != nil {
		log.Errorf("Test campaigns for %s failed: %v", assessmentID, err)
		return err
	}
	if len(result.Campaigns) > 0 {
		log.Infof("Created %d test campaigns sending to group %s", len(result.Campaigns), result.GroupName)
	}
	return nil
}

// loggedError marks a failure that run has already reported through the logger.
type loggedError struct {
	err error
}

func (e *loggedError) Error() string { return e.err.Error() }

func (e *loggedError) Unwrap() error { return e.err }

// reportError prints errors that were not logged, such as argument errors.
func reportError(output io.Writer, err error) {
	if errors.As(err, new(*loggedError)) {
		return
	}
	fmt.Fprintln(output, "Error:", err)
}

func Execute() {
	if err := NewRootCommand(consolePrompter).Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

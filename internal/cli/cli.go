package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pfrederiksen/apex-rankmap/internal/config"
	"github.com/pfrederiksen/apex-rankmap/internal/logger"
	"github.com/pfrederiksen/apex-rankmap/internal/pipeline"
	"github.com/pfrederiksen/apex-rankmap/internal/scraper"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version is reported by --version
var Version = "dev"

var (
	flagConfig      string
	flagEnvFile     string
	flagWebhookURL  string
	flagNotifier    string
	flagFormat      string
	flagDryRun      bool
	flagVerifyImage bool
	flagVerbose     bool
	flagLogJSON     bool
	flagTimeout     time.Duration
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apex-rankmap",
		Short: "Post the current Apex Legends ranked map to Discord",
		Long: `A CLI tool that scrapes the current and next Apex Legends ranked
Battle Royale map from Apex Legends Status and posts them to a Discord webhook.
Intended to be run on a schedule; every run sends exactly one notification.`,
		Version:       Version,
		RunE:          runNotify,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Define flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	flags.StringVar(&flagEnvFile, "env-file", ".env", "Path to a .env file (ignored if missing)")
	flags.BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")
	flags.BoolVar(&flagLogJSON, "log-json", false, "Write logs as JSON lines")

	cmd.Flags().StringVar(&flagWebhookURL, "webhook-url", "", "Discord webhook URL (overrides "+config.EnvWebhookURL+")")
	cmd.Flags().StringVar(&flagNotifier, "notifier", config.NotifierDiscord, "Notification channel: discord, twitter or dryrun")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the webhook payload instead of posting it")
	cmd.Flags().BoolVar(&flagVerifyImage, "verify-image", false, "Check map image candidates over the network")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", scraper.Timeout, "Timeout for each page fetch and delivery")

	cmd.AddCommand(newImageCmd())

	return cmd
}

// runNotify is the main command logic
func runNotify(cmd *cobra.Command, args []string) error {
	// Validate format
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	setupLogging(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	runner := pipeline.New(cfg, pipeline.WithOutput(out))

	result, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	// The dry-run payload is the output
	if result.Notifier == config.NotifierDryRun {
		return nil
	}

	if err := WriteOutput(out, result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func setupLogging(cmd *cobra.Command) {
	logger.SetDefault(logger.Setup(flagVerbose, flagLogJSON, cmd.ErrOrStderr()))
}

// loadConfig resolves configuration and applies the flags the user set
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: flagConfig,
		EnvFile:    flagEnvFile,
	})
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("webhook-url") {
		cfg.WebhookURL = strings.TrimSpace(flagWebhookURL)
	}
	if flags.Changed("notifier") {
		cfg.Notifier = strings.ToLower(strings.TrimSpace(flagNotifier))
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = flagDryRun
	}
	if flags.Changed("verify-image") {
		cfg.VerifyImage = flagVerifyImage
	}
	if flags.Changed("timeout") {
		cfg.Timeout = flagTimeout
	}

	logger.Debug("Configuration loaded", logger.Fields{
		"notifier":     cfg.Notifier,
		"dry_run":      cfg.DryRun,
		"verify_image": cfg.VerifyImage,
		"timeout":      cfg.Timeout.String(),
		"ranked_url":   cfg.RankedURL,
	})

	return cfg, nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}

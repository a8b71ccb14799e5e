package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pfrederiksen/apex-rankmap/internal/mapimage"
	"github.com/pfrederiksen/apex-rankmap/internal/mapnames"
	"github.com/pfrederiksen/apex-rankmap/internal/rotation"
	"github.com/pfrederiksen/apex-rankmap/internal/scraper"
	"gopkg.in/yaml.v3"
)

// Notifier channels
const (
	NotifierDiscord = "discord"
	NotifierTwitter = "twitter"
	NotifierDryRun  = "dryrun"
)

// Environment variables
const (
	EnvWebhookURL   = "DISCORD_WEBHOOK_URL"
	EnvNotifier     = "APEX_RANKMAP_NOTIFIER"
	EnvVerifyImage  = "APEX_RANKMAP_VERIFY_IMAGE"
	EnvTimeout      = "APEX_RANKMAP_TIMEOUT"
	EnvUserAgent    = "APEX_RANKMAP_USER_AGENT"
	EnvMapNamesFile = "APEX_RANKMAP_MAP_NAMES"
)

var (
	// ErrConfiguration is the parent of every configuration failure
	ErrConfiguration = errors.New("configuration error")

	// ErrMissingWebhookURL is returned when no webhook endpoint is configured
	ErrMissingWebhookURL = fmt.Errorf("%w: %s is not set", ErrConfiguration, EnvWebhookURL)
)

// Twitter holds the credentials of the Twitter channel
type Twitter struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// Config is the fully resolved run configuration
type Config struct {
	WebhookURL string
	Notifier   string
	DryRun     bool

	RankedURL   string
	AllModesURL string
	AssetURL    string
	UserAgent   string
	Timeout     time.Duration

	VerifyImage       bool
	ImageCheckTimeout time.Duration

	Rotation rotation.Options

	MapNamesFile string
	MapNames     map[string]string

	Twitter Twitter
}

// fileConfig is the YAML schema
type fileConfig struct {
	WebhookURL string `yaml:"webhookURL"`
	Notifier   string `yaml:"notifier"`
	UserAgent  string `yaml:"userAgent"`

	Timeout time.Duration `yaml:"timeout"`

	Sources struct {
		Ranked   string `yaml:"ranked"`
		AllModes string `yaml:"allModes"`
		Assets   string `yaml:"assets"`
	} `yaml:"sources"`

	Image struct {
		Verify  *bool         `yaml:"verify"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"image"`

	Rotation *rotation.Options `yaml:"rotation"`

	MapNamesFile string            `yaml:"mapNamesFile"`
	MapNames     map[string]string `yaml:"mapNames"`
}

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	// ConfigFile is an optional YAML file. Empty means none.
	ConfigFile string
	// EnvFile is loaded into the environment if it exists. Existing
	// variables are not overridden.
	EnvFile string
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Notifier:          NotifierDiscord,
		RankedURL:         scraper.RankedURL,
		AllModesURL:       scraper.AllModesURL,
		AssetURL:          mapimage.AssetBaseURL,
		UserAgent:         scraper.UserAgent,
		Timeout:           scraper.Timeout,
		ImageCheckTimeout: mapimage.CheckTimeout,
		Rotation:          rotation.DefaultOptions(),
	}
}

// Load resolves the configuration. It performs no network activity and does
// not validate; call Validate once flags have been applied.
func Load(opts LoadOptions) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: loading %s: %v", ErrConfiguration, opts.EnvFile, err)
		}
	}

	cfg := Default()

	if opts.ConfigFile != "" {
		if err := cfg.applyFile(opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: reading config file: %v", ErrConfiguration, err)
	}

	var fc fileConfig
	// Start from the current rotation options so omitted keys keep their defaults
	opts := c.Rotation
	fc.Rotation = &opts
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: parsing config file: %v", ErrConfiguration, err)
	}

	setString(&c.WebhookURL, fc.WebhookURL)
	setString(&c.Notifier, fc.Notifier)
	setString(&c.UserAgent, fc.UserAgent)
	setString(&c.RankedURL, fc.Sources.Ranked)
	setString(&c.AllModesURL, fc.Sources.AllModes)
	setString(&c.AssetURL, fc.Sources.Assets)
	setString(&c.MapNamesFile, fc.MapNamesFile)

	if fc.Timeout > 0 {
		c.Timeout = fc.Timeout
	}
	if fc.Image.Verify != nil {
		c.VerifyImage = *fc.Image.Verify
	}
	if fc.Image.Timeout > 0 {
		c.ImageCheckTimeout = fc.Image.Timeout
	}
	if fc.Rotation != nil {
		c.Rotation = *fc.Rotation
	}
	if len(fc.MapNames) > 0 {
		c.MapNames = fc.MapNames
	}

	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.WebhookURL, strings.TrimSpace(os.Getenv(EnvWebhookURL)))
	setString(&c.Notifier, strings.TrimSpace(os.Getenv(EnvNotifier)))
	setString(&c.UserAgent, os.Getenv(EnvUserAgent))
	setString(&c.MapNamesFile, os.Getenv(EnvMapNamesFile))

	if v := strings.TrimSpace(os.Getenv(EnvVerifyImage)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrConfiguration, EnvVerifyImage, err)
		}
		c.VerifyImage = b
	}

	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrConfiguration, EnvTimeout, err)
		}
		c.Timeout = d
	}

	setString(&c.Twitter.APIKey, os.Getenv("TWITTER_API_KEY"))
	setString(&c.Twitter.APISecret, os.Getenv("TWITTER_API_SECRET"))
	setString(&c.Twitter.AccessToken, os.Getenv("TWITTER_ACCESS_TOKEN"))
	setString(&c.Twitter.AccessSecret, os.Getenv("TWITTER_ACCESS_SECRET"))

	return nil
}

// Validate checks that everything the selected channel needs is present.
// It must run before any network activity.
func (c *Config) Validate() error {
	if c.DryRun {
		c.Notifier = NotifierDryRun
	}

	switch c.Notifier {
	case NotifierDiscord:
		if c.WebhookURL == "" {
			return ErrMissingWebhookURL
		}
		u, err := url.Parse(c.WebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: invalid webhook URL", ErrConfiguration)
		}
	case NotifierTwitter:
		if c.Twitter.APIKey == "" || c.Twitter.APISecret == "" || c.Twitter.AccessToken == "" || c.Twitter.AccessSecret == "" {
			return fmt.Errorf("%w: missing required Twitter credentials", ErrConfiguration)
		}
	case NotifierDryRun:
	default:
		return fmt.Errorf("%w: unknown notifier %q (must be %s, %s or %s)",
			ErrConfiguration, c.Notifier, NotifierDiscord, NotifierTwitter, NotifierDryRun)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrConfiguration)
	}

	return nil
}

// Names builds the localization table: the default table, overlaid by the
// map names file if any, overlaid by inline entries.
func (c *Config) Names() (*mapnames.Table, error) {
	table := mapnames.Default()
	if c.MapNamesFile != "" {
		loaded, err := mapnames.LoadFile(c.MapNamesFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		table = loaded
	}
	if len(c.MapNames) > 0 {
		table = table.With(c.MapNames)
	}
	return table, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

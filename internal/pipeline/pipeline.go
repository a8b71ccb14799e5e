package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pfrederiksen/apex-rankmap/internal/config"
	"github.com/pfrederiksen/apex-rankmap/internal/discord"
	"github.com/pfrederiksen/apex-rankmap/internal/logger"
	"github.com/pfrederiksen/apex-rankmap/internal/mapimage"
	"github.com/pfrederiksen/apex-rankmap/internal/mapnames"
	"github.com/pfrederiksen/apex-rankmap/internal/notifier"
	"github.com/pfrederiksen/apex-rankmap/internal/rotation"
	"github.com/pfrederiksen/apex-rankmap/internal/scraper"
)

// Metric names recorded by Run
const (
	MetricFetchPrimary   = "fetch.primary"
	MetricFetchFallback  = "fetch.fallback"
	MetricImageResolve   = "image.resolve"
	MetricDeliver        = "webhook.deliver"
	MetricFallbackUsed   = "rotation.fallback_used"
	MetricImageMissing   = "image.missing"
	MetricDeliveryFailed = "delivery.failed"
	MetricDeliverySent   = "delivery.sent"
)

// PageFetcher is satisfied by *scraper.Scraper
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// NotifierFactory builds the delivery channel once configuration is valid
type NotifierFactory func(cfg *config.Config, names *mapnames.Table) (notifier.Notifier, error)

// Result describes a completed run
type Result struct {
	Rotation *rotation.Rotation `json:"rotation"`
	ImageURL string             `json:"image_url,omitempty"`
	Notifier string             `json:"notifier"`
	SentAt   time.Time          `json:"sent_at"`
}

// Runner executes the pipeline. Collaborators not supplied through options
// are built from the configuration when Run starts.
type Runner struct {
	cfg         *config.Config
	fetcher     PageFetcher
	checker     mapimage.Checker
	newNotifier NotifierFactory
	out         io.Writer
	now         func() time.Time
	metrics     *logger.Metrics
}

// Option configures a Runner
type Option func(*Runner)

// WithFetcher replaces the HTTP page fetcher
func WithFetcher(f PageFetcher) Option {
	return func(r *Runner) {
		r.fetcher = f
	}
}

// WithChecker replaces the image existence checker. It is only consulted
// when image verification is enabled.
func WithChecker(c mapimage.Checker) Option {
	return func(r *Runner) {
		r.checker = c
	}
}

// WithNotifierFactory replaces the channel constructor
func WithNotifierFactory(f NotifierFactory) Option {
	return func(r *Runner) {
		r.newNotifier = f
	}
}

// WithOutput sets where the dry-run channel writes its payload
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

// WithClock sets the time source used for the notification timestamp
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// WithMetrics sets the metrics tracker
func WithMetrics(m *logger.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// New creates a runner for cfg
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:     cfg,
		out:     os.Stdout,
		now:     time.Now,
		metrics: logger.NewMetrics(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.newNotifier == nil {
		r.newNotifier = r.defaultNotifier
	}
	return r
}

// Metrics returns the tracker the runner records into
func (r *Runner) Metrics() *logger.Metrics {
	return r.metrics
}

// Run executes one cycle. Fetch, extraction and delivery errors are
// returned unmodified so callers can inspect them with errors.As.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}

	names, err := r.cfg.Names()
	if err != nil {
		return nil, err
	}

	channel, err := r.newNotifier(r.cfg, names)
	if err != nil {
		return nil, err
	}

	fetcher := r.fetcher
	if fetcher == nil {
		fetcher = r.scraper()
	}

	rot, err := rotation.Extract(ctx, r.source(fetcher, r.cfg.RankedURL, MetricFetchPrimary), r.fallbackSource(fetcher), r.cfg.Rotation)
	if err != nil {
		logger.Error("Rotation extraction failed", logger.Fields{"url": r.cfg.RankedURL}, err)
		return nil, err
	}

	logger.Info("Rotation extracted", logger.Fields{
		"source":   rot.Source,
		"current":  rot.Current.Name,
		"has_next": rot.HasNext(),
	})

	imageURL := r.resolveImage(ctx, rot.Current.Name)

	note := notifier.Notification{
		Rotation: rot,
		ImageURL: imageURL,
		At:       r.now(),
	}

	err = r.metrics.Time(MetricDeliver, func() error {
		return channel.Notify(ctx, note)
	})
	if err != nil {
		r.metrics.IncrCounter(MetricDeliveryFailed)
		logger.Error("Notification delivery failed", logger.Fields{"notifier": r.cfg.Notifier}, err)
		return nil, err
	}
	r.metrics.IncrCounter(MetricDeliverySent)

	logger.Info("Notification delivered", logger.Fields{"notifier": r.cfg.Notifier})
	logger.Debug("Run metrics", logger.Fields{"metrics": r.metrics.GetSnapshot()})

	return &Result{
		Rotation: rot,
		ImageURL: imageURL,
		Notifier: r.cfg.Notifier,
		SentAt:   note.At,
	}, nil
}

func (r *Runner) source(fetcher PageFetcher, url, metric string) rotation.PageSource {
	return func(ctx context.Context) (string, error) {
		logger.Debug("Fetching page", logger.Fields{"url": url})

		var page string
		err := r.metrics.Time(metric, func() error {
			var err error
			page, err = fetcher.FetchPage(ctx, url)
			return err
		})
		if err != nil {
			logger.Error("Page fetch failed", logger.Fields{"url": url}, err)
			return "", err
		}
		return page, nil
	}
}

func (r *Runner) fallbackSource(fetcher PageFetcher) rotation.PageSource {
	fetch := r.source(fetcher, r.cfg.AllModesURL, MetricFetchFallback)
	return func(ctx context.Context) (string, error) {
		r.metrics.IncrCounter(MetricFallbackUsed)
		logger.Warn("Ranked page yielded no rotation, trying all-modes page", logger.Fields{
			"url": r.cfg.AllModesURL,
		})
		return fetch(ctx)
	}
}

func (r *Runner) resolveImage(ctx context.Context, mapName string) string {
	var checker mapimage.Checker
	if r.cfg.VerifyImage {
		checker = r.checker
		if checker == nil {
			checker = r.scraper()
		}
	}

	resolver := mapimage.NewResolver(r.cfg.AssetURL, checker)
	resolver.SetTimeout(r.cfg.ImageCheckTimeout)
	resolver.OnMiss = func(url string, status int, err error) {
		fields := logger.Fields{"url": url, "status": status}
		if err != nil {
			fields["error"] = err.Error()
		}
		logger.Debug("Image candidate rejected", fields)
	}

	var imageURL string
	_ = r.metrics.Time(MetricImageResolve, func() error {
		imageURL = resolver.ResolveURL(ctx, mapName)
		return nil
	})

	if imageURL == "" {
		r.metrics.IncrCounter(MetricImageMissing)
		logger.Warn("No map image found, sending without image", logger.Fields{"map": mapName})
	}
	return imageURL
}

func (r *Runner) scraper() *scraper.Scraper {
	return scraper.New(
		scraper.WithTimeout(r.cfg.Timeout),
		scraper.WithUserAgent(r.cfg.UserAgent),
	)
}

func (r *Runner) defaultNotifier(cfg *config.Config, names *mapnames.Table) (notifier.Notifier, error) {
	return NewNotifier(cfg, names, r.out)
}

// NewNotifier builds the channel selected by cfg.Notifier. Dry runs write
// the payload to out.
func NewNotifier(cfg *config.Config, names *mapnames.Table, out io.Writer) (notifier.Notifier, error) {
	switch cfg.Notifier {
	case config.NotifierDiscord:
		client, err := discord.NewClient(cfg.WebhookURL)
		if err != nil {
			return nil, err
		}
		client.SetTimeout(cfg.Timeout)
		return notifier.NewWebhookNotifier(client, names), nil
	case config.NotifierTwitter:
		return notifier.NewTwitterNotifier(notifier.TwitterCredentials{
			APIKey:       cfg.Twitter.APIKey,
			APISecret:    cfg.Twitter.APISecret,
			AccessToken:  cfg.Twitter.AccessToken,
			AccessSecret: cfg.Twitter.AccessSecret,
		}, names)
	case config.NotifierDryRun:
		return notifier.NewDryRunNotifier(out, names), nil
	default:
		return nil, fmt.Errorf("%w: unknown notifier %q", config.ErrConfiguration, cfg.Notifier)
	}
}

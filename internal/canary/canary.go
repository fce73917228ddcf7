package canary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/fx"

	"github.com/vankhoa205/tweet-extractor-service/internal/alert"
	"github.com/vankhoa205/tweet-extractor-service/internal/domain"
	"github.com/vankhoa205/tweet-extractor-service/internal/extractor"
	"github.com/vankhoa205/tweet-extractor-service/pkg/config"
	"github.com/vankhoa205/tweet-extractor-service/pkg/formatter"
	"github.com/vankhoa205/tweet-extractor-service/pkg/logger"
)

// runTimeout bounds one canary extraction, retries included.
const runTimeout = 5 * time.Minute

type Opts struct {
	fx.In

	LC        fx.Lifecycle
	Config    *config.Config
	Logger    logger.Logger
	Extractor extractor.Client
	Alert     alert.Client
}

// Canary periodically extracts a known-good post and raises an alert when
// the extraction fails or comes back with holes. Selector drift shows up
// here before users report it.
type Canary struct {
	cfg       *config.Config
	logger    logger.Logger
	extractor extractor.Client
	alert     alert.Client
	scheduler gocron.Scheduler
}

func New(opts Opts) (*Canary, error) {
	c := &Canary{
		cfg:       opts.Config,
		logger:    opts.Logger.WithComponent("canary"),
		extractor: opts.Extractor,
		alert:     opts.Alert,
	}

	if opts.Config.Canary.URL == "" {
		c.logger.Info("Canary disabled, no url configured")
		return c, nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(opts.Config.Canary.Interval),
		gocron.NewTask(c.run),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule canary: %w", err)
	}
	c.scheduler = scheduler

	opts.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			c.scheduler.Start()
			c.logger.Info("Canary started",
				"url", opts.Config.Canary.URL,
				"interval", opts.Config.Canary.Interval,
			)
			return nil
		},
		OnStop: func(context.Context) error {
			return c.scheduler.Shutdown()
		},
	})

	return c, nil
}

func (c *Canary) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	url := c.cfg.Canary.URL
	c.logger.Info("Running canary extraction", "url", url)

	record, err := c.extractor.Extract(ctx, url)
	if err != nil {
		c.logger.Error("Canary extraction failed", "url", url, "error", err)
		c.notify(fmt.Sprintf("Canary extraction failed for %s: %v", url, err))
		return
	}

	if missing := missingFields(record); len(missing) > 0 {
		c.logger.Warn("Canary extraction came back incomplete, selectors may have drifted",
			"url", url,
			"missing", strings.Join(missing, ", "),
		)
		c.notify(fmt.Sprintf("Canary extraction for %s is missing fields: %s", url, strings.Join(missing, ", ")))
		return
	}

	var likes int64
	if record.Metrics.Likes != nil {
		likes = *record.Metrics.Likes
	}
	c.logger.Info("Canary extraction succeeded",
		"url", url,
		"author", record.Author,
		"likes", formatter.FormatNumber(likes),
		"images", len(record.Images),
	)
}

func (c *Canary) notify(text string) {
	if err := c.alert.Send(text); err != nil {
		c.logger.Error("Failed to send canary alert", "error", err)
	}
}

// missingFields lists fields a healthy reference post must carry. The
// canary URL should point at a post with visible engagement counts.
func missingFields(rec *domain.PostRecord) []string {
	var missing []string
	if rec.AuthorName == "" {
		missing = append(missing, "author_name")
	}
	if rec.Text == "" {
		missing = append(missing, "text")
	}
	if rec.Metrics.Likes == nil {
		missing = append(missing, "likes")
	}
	if rec.PublishedAt == nil {
		missing = append(missing, "published_at")
	}
	return missing
}

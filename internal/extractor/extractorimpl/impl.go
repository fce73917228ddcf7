package extractorimpl

import (
	"go.uber.org/fx"

	"github.com/vankhoa205/tweet-extractor-service/internal/browser"
	"github.com/vankhoa205/tweet-extractor-service/internal/extractor"
	"github.com/vankhoa205/tweet-extractor-service/pkg/config"
	"github.com/vankhoa205/tweet-extractor-service/pkg/logger"
	"github.com/vankhoa205/tweet-extractor-service/pkg/retry"
)

type Opts struct {
	fx.In

	Config   *config.Config
	Logger   logger.Logger
	Sessions browser.Factory
}

type Impl struct {
	cfg      *config.Config
	logger   logger.Logger
	sessions browser.Factory
	retryCfg retry.Config
}

var _ extractor.Client = (*Impl)(nil)

func New(opts Opts) extractor.Client {
	return &Impl{
		cfg:      opts.Config,
		logger:   opts.Logger.WithComponent("extractor"),
		sessions: opts.Sessions,
		retryCfg: retry.Config{
			MaxAttempts:     opts.Config.Extractor.MaxAttempts,
			InitialInterval: opts.Config.Extractor.RetryInitialInterval,
			MaxInterval:     opts.Config.Extractor.RetryMaxInterval,
			Multiplier:      opts.Config.Extractor.RetryMultiplier,
		},
	}
}

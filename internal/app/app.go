package app

import (
	"go.uber.org/fx"

	"github.com/vankhoa205/tweet-extractor-service/internal/alert/alertimpl"
	"github.com/vankhoa205/tweet-extractor-service/internal/browser/playwrightimpl"
	"github.com/vankhoa205/tweet-extractor-service/internal/canary"
	"github.com/vankhoa205/tweet-extractor-service/internal/extractor/extractorimpl"
	"github.com/vankhoa205/tweet-extractor-service/internal/server"
	"github.com/vankhoa205/tweet-extractor-service/pkg/config"
	"github.com/vankhoa205/tweet-extractor-service/pkg/logger"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
	),
	fx.Provide(
		playwrightimpl.New,
		extractorimpl.New,
		alertimpl.New,
		server.New,
		canary.New,
	),
	fx.Invoke(
		func(*server.Server) {},
		func(*canary.Canary) {},
	),
)

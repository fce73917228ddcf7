package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

// Logger is the logging facade used across the service. Arguments follow
// the slog convention of alternating keys and values.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	WithComponent(name string) Logger
}

type Opts struct {
	Env       string
	SentryDSN string
}

type Impl struct {
	sl *slog.Logger
}

var _ Logger = (*Impl)(nil)

// New builds the logger: human-readable console output in development,
// JSON in production, with error-level records fanned out to Sentry when a
// DSN is configured.
func New(opts Opts) *Impl {
	var zl zerolog.Logger
	if opts.Env == "production" {
		zl = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}

	handlers := []slog.Handler{
		slogzerolog.Option{Level: slog.LevelDebug, Logger: &zl}.NewZerologHandler(),
	}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              opts.SentryDSN,
			Environment:      opts.Env,
			AttachStacktrace: true,
		})
		if err != nil {
			zl.Warn().Err(err).Msg("Sentry init failed, error reporting disabled")
		} else {
			handlers = append(handlers,
				slogsentry.Option{Level: slog.LevelError}.NewSentryHandler(context.Background()))
		}
	}

	return &Impl{sl: slog.New(slogmulti.Fanout(handlers...))}
}

func (i *Impl) Debug(msg string, args ...any) { i.sl.Debug(msg, args...) }

func (i *Impl) Info(msg string, args ...any) { i.sl.Info(msg, args...) }

func (i *Impl) Warn(msg string, args ...any) { i.sl.Warn(msg, args...) }

func (i *Impl) Error(msg string, args ...any) { i.sl.Error(msg, args...) }

// WithComponent returns a child logger tagged with a component name.
func (i *Impl) WithComponent(name string) Logger {
	return &Impl{sl: i.sl.With("component", name)}
}

// Printf satisfies fx.Printer so fx lifecycle events flow through here.
func (i *Impl) Printf(format string, args ...interface{}) {
	i.sl.Debug(fmt.Sprintf(format, args...))
}

// Flush drains buffered Sentry events; call before process exit.
func (i *Impl) Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}

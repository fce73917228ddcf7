package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/fx"

	"github.com/vankhoa205/tweet-extractor-service/internal/extractor"
	"github.com/vankhoa205/tweet-extractor-service/internal/ratelimit"
	"github.com/vankhoa205/tweet-extractor-service/pkg/config"
	"github.com/vankhoa205/tweet-extractor-service/pkg/logger"
)

type Opts struct {
	fx.In

	LC        fx.Lifecycle
	Config    *config.Config
	Logger    logger.Logger
	Extractor extractor.Client
}

// Server exposes the extraction API over HTTP.
type Server struct {
	cfg       *config.Config
	logger    logger.Logger
	extractor extractor.Client
	limiter   ratelimit.Limiter
	http      *http.Server
}

func New(opts Opts) *Server {
	s := &Server{
		cfg:       opts.Config,
		logger:    opts.Logger.WithComponent("server"),
		extractor: opts.Extractor,
	}

	if opts.Config.RateLimit.PerMinute > 0 {
		s.limiter = ratelimit.NewInMemoryLimiter(
			opts.Config.RateLimit.PerMinute,
			time.Minute,
			opts.Config.RateLimit.Burst,
		)
	}

	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Config.App.Port),
		Handler:      s.routes(),
		ReadTimeout:  opts.Config.HTTP.ReadTimeout,
		WriteTimeout: opts.Config.HTTP.WriteTimeout,
		IdleTimeout:  opts.Config.HTTP.IdleTimeout,
	}

	opts.LC.Append(fx.Hook{
		OnStart: s.start,
		OnStop:  s.stop,
	})

	return s
}

func (s *Server) routes() http.Handler {
	router := mux.NewRouter()
	router.Use(s.requestID, s.accessLog, s.recoverPanics, s.rateLimit)

	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/extract", s.handleExtract).Methods(http.MethodPost)
	router.HandleFunc("/extract-batch", s.handleExtractBatch).Methods(http.MethodPost)

	return router
}

// start binds the listener synchronously so a taken port fails startup
// instead of surfacing later from a goroutine.
func (s *Server) start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}

	s.logger.Info("HTTP server listening", "addr", s.http.Addr)
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped unexpectedly", "error", err)
		}
	}()
	return nil
}

func (s *Server) stop(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.http.Shutdown(ctx)
}

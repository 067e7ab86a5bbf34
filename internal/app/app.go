package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/heartmarshall/wordclass/internal/adapter/provider/llm"
	"github.com/heartmarshall/wordclass/internal/auth"
	"github.com/heartmarshall/wordclass/internal/config"
	"github.com/heartmarshall/wordclass/internal/service/catalog"
	"github.com/heartmarshall/wordclass/internal/service/quiz"
	"github.com/heartmarshall/wordclass/internal/service/roster"
	"github.com/heartmarshall/wordclass/internal/service/stats"
	"github.com/heartmarshall/wordclass/internal/service/study"
	"github.com/heartmarshall/wordclass/internal/transport/middleware"
	"github.com/heartmarshall/wordclass/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects the
// stores, builds the services and serves the HTTP API until ctx is done.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("store_backend", cfg.Store.BackendName()),
	)

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	// Change listeners run until shutdown.
	listenCtx, stopListeners := context.WithCancel(ctx)
	var wg sync.WaitGroup
	for _, listen := range st.listeners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := listen(listenCtx); err != nil {
				logger.Error("change listener stopped", slog.String("error", err.Error()))
			}
		}()
	}
	defer func() {
		stopListeners()
		wg.Wait()
	}()

	handler, cleanup, err := buildHandler(ctx, cfg, st, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	return serve(ctx, cfg.Server, handler, logger)
}

// buildHandler wires the services and the middleware chain over st.
func buildHandler(ctx context.Context, cfg *config.Config, st *stores, logger *slog.Logger) (http.Handler, func(), error) {
	provider, err := llm.NewProvider(ctx, cfg.LLM.ProviderConfig(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("llm provider: %w", err)
	}
	if provider == nil {
		logger.Info("ai generation disabled")
	}

	quizService := quiz.NewService(logger, provider, quiz.Config{MaxTokens: cfg.LLM.MaxTokens})

	catalogService := catalog.NewService(logger, st.words, nil)
	if provider != nil {
		catalogService = catalog.NewService(logger, st.words, quizService)
	}

	statsService := stats.NewService(logger, st.stats, stats.Config{
		Timezone:     cfg.SRS.Timezone,
		StoreTimeout: cfg.Store.Timeout,
	})

	studyService := study.NewService(logger, st.progress, st.words, st.roster, statsService, study.Config{
		LearnedThreshold: cfg.SRS.LearnedThreshold,
		IncorrectDelay:   cfg.SRS.IncorrectDelay,
		StoreTimeout:     cfg.Store.Timeout,
	})

	rosterService := roster.NewService(logger, st.roster)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTTL)
	limiter := middleware.NewRateLimiter(5 * time.Minute)

	api := rest.NewAPI(logger, rest.Deps{
		Study:   studyService,
		Stats:   statsService,
		Catalog: catalogService,
		Quiz:    quizService,
		Roster:  rosterService,
		Health:  rest.NewHealthHandler(BuildVersion(), st.checks...),
	})

	handler := middleware.Chain(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(jwtManager),
		limiter.Limit(cfg.Server.RateLimit),
		middleware.Logger(logger),
		middleware.MaxBodyBytes(cfg.Server.MaxBodyBytes),
	)(api)

	cleanup := func() {
		limiter.Stop()
		studyService.Close()
	}
	return handler, cleanup, nil
}

// serve runs the HTTP server until ctx is done, then drains in-flight
// requests within the shutdown timeout.
func serve(ctx context.Context, cfg config.ServerConfig, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

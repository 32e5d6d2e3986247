package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/product-page/internal/domain/product"
	"github.com/xenking/product-page/internal/handler"
	"github.com/xenking/product-page/internal/session"
	"github.com/xenking/product-page/pkg/health"
	"github.com/xenking/product-page/pkg/httpmiddleware"
)

const serviceName = "product-page"

// NewStore builds the session store for cfg.
func NewStore(cfg *Config, t httpmiddleware.Telemetry) *session.Store {
	p := product.Default()
	p.OnSale = cfg.OnSale

	return session.NewStore(
		session.StoreConfig{TTL: cfg.Session.TTL, Capacity: cfg.Session.Capacity},
		session.PageConfig{
			Product:       p,
			Premium:       cfg.Premium,
			ShippingFee:   cfg.Fee(),
			MeterProvider: t.MeterProvider(),
		},
	)
}

// NewHealth registers the liveness checks of the server. Readiness follows
// the manual flag only: a full session store refuses new sessions but keeps
// serving the existing ones.
func NewHealth() *health.Health {
	h := health.New()
	h.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	return h
}

// NewRouter builds the page routes, the probes and the middleware chain.
func NewRouter(ctx context.Context, cfg *Config, store *session.Store, healthSvc *health.Health, t httpmiddleware.Telemetry) http.Handler {
	h := handler.New(store, handler.Config{
		CookieName:   cfg.Cookie.Name,
		SecureCookie: cfg.Cookie.Secure,
	})

	router := h.Routes()
	router.Get("/livez", healthSvc.LiveEndpoint)
	router.Get("/readyz", healthSvc.ReadyEndpoint)

	routeFinder := httpmiddleware.MakeRouteFinder(router)
	middlewares := []httpmiddleware.Middleware{
		httpmiddleware.InjectLogger(zctx.From(ctx)),
		httpmiddleware.Recovery(),
		httpmiddleware.RequestID(),
		httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
	}
	if cfg.GzipLevel != 0 {
		middlewares = append(middlewares, httpmiddleware.Gzip(cfg.GzipLevel))
	}
	middlewares = append(middlewares,
		httpmiddleware.Instrument(serviceName, routeFinder, t),
		httpmiddleware.LogRequests(routeFinder),
		httpmiddleware.Labeler(routeFinder),
	)

	return httpmiddleware.Wrap(router, middlewares...)
}

// Run creates all dependencies, starts the HTTP server and the session
// janitor, and handles graceful shutdown. It is the single wiring point for
// the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.Bool("premium", cfg.Premium),
		zap.Bool("on_sale", cfg.OnSale),
		zap.Duration("session_ttl", cfg.Session.TTL),
	)
	ctx = zctx.Base(ctx, lg)

	store := NewStore(cfg, m)
	healthSvc := NewHealth()

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           NewRouter(ctx, cfg, store, healthSvc, m),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return store.Run(gctx, cfg.Session.SweepInterval)
	})
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	g.Go(func() error {
		// Graceful shutdown: wait for cancellation, drain, then stop.
		<-gctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})

	healthSvc.SetReady(true)
	return g.Wait()
}

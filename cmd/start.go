package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"tracker-comparer/core/fetch"
	"tracker-comparer/core/loader"
	"tracker-comparer/core/logger"
	"tracker-comparer/core/metrics"
	"tracker-comparer/core/middleware/auth"
	"tracker-comparer/core/middleware/rayid"
	"tracker-comparer/feature/compare"
	"tracker-comparer/feature/health"
	"tracker-comparer/feature/health/checks"
	"tracker-comparer/feature/preferences"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	_ "tracker-comparer/docs/swagger"
)

// @title Tracker Comparer API
// @version 1.0
// @description API for comparing achievement progress across tracking services.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the tracker comparer server",
	Long:  `Starts the HTTP API: comparisons, exports, preferences and health checks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadBootstrap(true, true)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()
		zap.ReplaceGlobals(rt.logger)

		app, err := newServer(rt)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		addr := rt.cfg.Server.Addr()
		failed := make(chan error, 1)
		go func() {
			rt.logger.Info("Starting server", zap.String("addr", addr))
			failed <- app.Listen(addr)
		}()

		select {
		case err := <-failed:
			return err
		case <-ctx.Done():
		}
		rt.logger.Info("Shutting down server")
		return app.ShutdownWithTimeout(10 * time.Second)
	},
}

// newServer wires every feature behind the shared middleware chain.
func newServer(rt *bootstrap) (*fiber.App, error) {
	cfg, logg := rt.cfg, rt.logger

	var rec *metrics.Recorder
	if cfg.Server.Metrics {
		rec = metrics.New()
	}

	prefsFeature := preferences.NewFeature(rt.db, logg)
	opts := []compare.Option{compare.WithMetrics(rec)}
	if rt.store != nil {
		opts = append(opts, compare.WithStorage(rt.store, cfg.Storage.Bucket))
	}
	if store := prefsFeature.Store(); store != nil {
		opts = append(opts, compare.WithPreferences(store))
	}
	compareSvc := compare.NewService(cfg.Compare, cfg.Fetch, cfg.Cookies, logg, opts...)

	probe := fetch.New(cfg.Fetch, fetch.WithLogger(logg), fetch.WithMetrics(rec))
	healthSvc := health.NewService(rt.store, cfg.Storage.Bucket, cfg.Storage.Region, rt.db, probe, checks.DefaultTargets(), logg)

	mgr := loader.NewManager(logg)
	mgr.Register(health.NewFeature(healthSvc))
	mgr.Register(compare.NewFeature(compareSvc))
	mgr.Register(prefsFeature)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           cfg.Server.ReadTimeout(),
	})

	// rayid runs first so the request log carries the id.
	app.Use(rayid.New())
	app.Use(requestLog(logg))

	app.Get("/swagger/*", swagger.HandlerDefault)
	if rec != nil {
		serve := fasthttpadaptor.NewFastHTTPHandler(rec.Handler())
		app.Get("/metrics", func(c *fiber.Ctx) error {
			serve(c.Context())
			return nil
		})
	}

	app.Use(auth.New(auth.Config{
		ApiKey: cfg.Server.ApiKey,
		Skip:   []string{"/health", "/metrics", "/swagger"},
	}))

	if err := mgr.LoadAll(app); err != nil {
		return nil, err
	}
	return app, nil
}

func requestLog(logg *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		l := logger.WithRayID(logg, c)
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("took", time.Since(start)),
		}
		if err != nil {
			l.Error("Request failed", append(fields, zap.Error(err))...)
			return err
		}
		l.Info("Request", fields...)
		return nil
	}
}

func init() {
	RootCmd.AddCommand(startCmd)
}

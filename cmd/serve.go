package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"dormitory-manager/core/loader"
	"dormitory-manager/core/logger"
	"dormitory-manager/core/middleware/rayid"
	"dormitory-manager/feature/backup"
	"dormitory-manager/feature/dormitory"
	"dormitory-manager/feature/integrity"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "dormitory-manager/docs/swagger"
)

// @title Dormitory Manager API
// @version 1.0
// @description API for managing dormitory rooms, dormers and payments.
// @host localhost:8080
// @BasePath /

// serveCmd exposes the dormitory over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		cfg := a.cfg
		logg := a.logger

		integritySvc, err := a.integrity()
		if err != nil {
			return err
		}
		var backupSvc *backup.Service
		if cfg.Storage.Enabled {
			if backupSvc, err = a.backup(); err != nil {
				return err
			}
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			Immutable:             true,
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
		})

		mgr := loader.NewManager(logg)
		mgr.Register(dormitory.NewFeature(a.svc, cfg.Server.IsFeatureEnabled("dormitory")))
		mgr.Register(integrity.NewFeature(integritySvc, cfg.Server.IsFeatureEnabled("integrity")))
		mgr.Register(backup.NewFeature(backupSvc, cfg.Server.IsFeatureEnabled("backup")))

		// RayID first so every later log line carries it.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			start := time.Now()
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			l.Info("Request completed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("duration", time.Since(start)),
			)
			return err
		})

		if cfg.Server.Swagger {
			app.Get("/swagger/*", swagger.HandlerDefault)
		}

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		errc := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			errc <- app.Listen(cfg.Server.Addr())
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err := <-errc:
			return err
		case <-quit:
		case <-cmd.Context().Done():
		}

		logg.Info("Shutting down server...")
		timeout := time.Duration(cfg.Server.ShutdownSeconds) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		return app.ShutdownWithTimeout(timeout)
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

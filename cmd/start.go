package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"stock-importer/core/database"
	"stock-importer/core/loader"
	"stock-importer/core/logger"
	"stock-importer/core/middleware/auth"
	"stock-importer/core/middleware/rayid"
	"stock-importer/feature/imports"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "stock-importer/docs/swagger"
)

var migrateOnStart bool

// @title Stock Importer API
// @version 1.0
// @description API for importing marketplace spreadsheets and emitting stock movements.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the import server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		env, err := bootstrap()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer env.close()
		logg := env.log
		zap.ReplaceGlobals(logg)

		if migrateOnStart {
			if err := database.Migrate(env.db, imports.Models()...); err != nil {
				logg.Fatal("Failed to migrate schema", zap.Error(err))
			}
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             env.cfg.Server.BodyLimit(),
		})

		mgr := loader.NewManager()
		mgr.Register(env.feature)

		// RayID first so every later log line carries it.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Public endpoints
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		if !env.cfg.Server.IsProtected() {
			logg.Warn("API key is empty, requests are not authenticated")
		}
		app.Use(auth.New(auth.Config{
			ApiKey: env.cfg.Server.ApiKey,
			Skip:   []string{"/swagger", "/metrics"},
		}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", env.cfg.Server.Port))
			if err := app.Listen(":" + env.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	startCmd.Flags().BoolVar(&migrateOnStart, "migrate", true, "Migrate the schema before serving")
	RootCmd.AddCommand(startCmd)
}

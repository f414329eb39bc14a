package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"diffing-research/core/config"
	"diffing-research/core/loader"
	"diffing-research/core/logger"
	"diffing-research/core/metrics"
	"diffing-research/core/middleware/auth"
	"diffing-research/core/middleware/rayid"

	"diffing-research/feature/board"
	"diffing-research/feature/catalog"
	"diffing-research/feature/diffing"
	"diffing-research/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "diffing-research/docs/swagger"
)

// @title Diffing Research API
// @version 1.0
// @description Staged list diffing and reconciliation over TMDB movie boards.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the diffing server",
	Long:  `Starts the HTTP server, loads every board from the catalog and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (Optional page cache)
		db := connectDatabase(cfg, logg)

		// 4. Catalog
		svc := newCatalog(cfg, db, logg)

		// 5. Storage (Optional snapshot archive)
		store, err := connectStorage(ctx, cfg)
		if err != nil {
			logg.Fatal("Failed to initialize storage", zap.Error(err))
		}
		var archive *catalog.Archive
		var archiver board.Archiver
		if store != nil {
			archive = catalog.NewArchive(store, cfg.Storage.Bucket)
			archiver = archive
			logg.Info("Archiving snapshots", zap.String("bucket", cfg.Storage.Bucket))
		}

		// 6. Boards
		registry, err := board.NewRegistry(cfg.Board, svc, archiver, cfg.Storage.Retention, logg)
		if err != nil {
			logg.Fatal("Failed to create boards", zap.Error(err))
		}
		registry.Start()
		defer registry.Stop()

		go func() {
			if err := registry.LoadAll(ctx); err != nil {
				logg.Warn("Initial board load failed", zap.Error(err))
			}
		}()

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		// Feature Loader
		mgr := loader.NewManager()
		mgr.Register(catalog.NewFeature(svc, archive))
		mgr.Register(board.NewFeature(registry))
		mgr.Register(diffing.NewFeature(logg))
		mgr.Register(integrity.NewFeature(integrity.NewService(store, cfg.Storage.Bucket, cfg.Storage.Region, db, logg)))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Zap + RayID)
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

		// 3. Auth (metrics and docs stay public)
		app.Use(auth.New(auth.Config{
			ApiKey:         cfg.Server.ApiKey,
			PublicPrefixes: []string{"/metrics", "/swagger"},
		}))

		// 4. Public endpoints
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

		// 5. Load Features
		loaded, err := mgr.LoadAll(app)
		if err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

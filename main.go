package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geomarket/auth"
	"geomarket/checkout"
	"geomarket/config"
	"geomarket/controllers"
	"geomarket/gemini"
	"geomarket/history"
	"geomarket/logging"
	"geomarket/marketplace"
	"geomarket/messaging"
	"geomarket/middleware"
	"geomarket/payment"
	"geomarket/routes"
	"geomarket/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "geomarket",
		Short:        "Specimen identification and marketplace backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Write the starter listings to the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context())
		},
	})
	return root
}

// bootstrap loads configuration, the logger and the store shared by every
// command.
func bootstrap(ctx context.Context) (*config.Config, *zap.Logger, storage.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := storage.Open(ctx, storage.Options{
		Driver:   cfg.StoreDriver,
		DSN:      cfg.StoreDSN,
		DataDir:  cfg.DataDir,
		RedisURL: cfg.RedisURL,
	}, log)
	if err != nil {
		log.Error("Failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
		return nil, nil, nil, err
	}
	log.Info("Store ready", zap.String("driver", cfg.StoreDriver))
	return cfg, log, store, nil
}

func runSeed(ctx context.Context) error {
	_, log, store, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := marketplace.NewCatalog(store, log).Seed(ctx); err != nil {
		log.Error("Failed to seed listings", zap.Error(err))
		return err
	}
	log.Info("Starter listings written")
	return nil
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, store, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer log.Sync()

	var analyzer controllers.Analyzer
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.New(ctx, gemini.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel}, log)
		if err != nil {
			return err
		}
		analyzer = client
	} else {
		log.Warn("GEMINI_API_KEY is not set, specimen analysis is disabled")
	}

	var tokenizer payment.Tokenizer
	if stripe := payment.NewStripeTokenizer(cfg.StripeSecretKey, cfg.StripeAPIURL, log); stripe != nil {
		tokenizer = stripe
	} else {
		log.Warn("STRIPE_SECRET_KEY is not set, checkout payment is disabled")
	}

	authService := auth.NewService(store, log, []byte(cfg.JWTSecret), cfg.SessionLifetime)
	catalog := marketplace.NewCatalog(store, log)
	messages := messaging.NewService(store, log)
	hist := history.NewService(store, log)

	app := fiber.New(fiber.Config{
		AppName:               "GeoMarket",
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: cfg.IsProduction(),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
		AllowHeaders: "Content-Type, Authorization",
	}))
	app.Use(logger.New())

	requireAuth := middleware.JWTMiddleware(authService, log)
	routes.RegisterAuthRoutes(app, controllers.NewAuthController(authService, log), requireAuth)
	routes.RegisterSpecimenRoutes(app, controllers.NewSpecimenController(analyzer, hist, log), requireAuth)
	routes.RegisterListingRoutes(app, controllers.NewListingController(catalog, log), requireAuth)
	routes.RegisterCheckoutRoutes(app, controllers.NewCheckoutController(catalog, messages, tokenizer, checkout.DefaultDelays, log), requireAuth)
	routes.RegisterMessageRoutes(app, controllers.NewMessageController(catalog, messages, log), requireAuth)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "GeoMarket backend is running", "env": cfg.AppEnv})
	})

	errc := make(chan error, 1)
	go func() {
		log.Info("Server running", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		errc <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Info("Shutting down")
		return app.ShutdownWithTimeout(5 * time.Second)
	}
}

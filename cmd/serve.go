package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gilanghuda/goal-tracker-backend/app/controllers"
	"github.com/gilanghuda/goal-tracker-backend/app/queries"
	"github.com/gilanghuda/goal-tracker-backend/pkg/config"
	"github.com/gilanghuda/goal-tracker-backend/pkg/database"
	"github.com/gilanghuda/goal-tracker-backend/pkg/logger"
	"github.com/gilanghuda/goal-tracker-backend/pkg/middleware"
	"github.com/gilanghuda/goal-tracker-backend/pkg/routes"
	"github.com/gilanghuda/goal-tracker-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log, err := logger.New(cfg.App.Debug)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, err := database.Open(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		if cfg.DB.AutoMigrate {
			applied, err := database.Migrate(ctx, db)
			if err != nil {
				return err
			}
			log.Info("migrations applied", zap.Strings("migrations", applied))
		}

		users := &queries.UserQueries{DB: db}
		tokens := &queries.TokenQueries{DB: db}
		issuer := utils.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())

		ctl := controllers.New(controllers.Controller{
			Users:  users,
			Tokens: tokens,
			Goals:  &queries.GoalsQueries{DB: db},
			Tasks:  &queries.TaskQueries{DB: db},
			Issuer: issuer,
			Turnstile: utils.TurnstileRule{
				Verifier: utils.NewTurnstileVerifier(cfg.Turnstile, log),
				Message:  cfg.Turnstile.ErrorMessage,
			},
			HoneypotField: cfg.Turnstile.HoneypotField,
			Log:           log,
			Location:      cfg.App.Location(),
		})

		app := newApp(cfg, log)
		routes.Register(app, ctl, middleware.Auth{
			Issuer: issuer,
			Tokens: tokens,
			Users:  users,
			Log:    log,
		}, cfg.App.RateLimitPerMinute)

		errCh := make(chan error, 1)
		go func() {
			log.Info("HTTP server listening", zap.String("addr", cfg.App.Addr()))
			errCh <- app.Listen(cfg.App.Addr())
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("listen: %w", err)
		case <-ctx.Done():
		}

		timeout := time.Duration(cfg.App.ShutdownTimeout) * time.Second
		if err := app.ShutdownWithTimeout(timeout); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
		log.Info("HTTP server shut down")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// newApp builds the fiber app with the middleware every route shares. Errors
// that escape a handler are rendered as {"message": ...}.
func newApp(cfg *config.Config, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "goal-tracker",
		ErrorHandler: errorHandler(log),
	})

	app.Use(fiberrecover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.App.CORSAllowOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	return app
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "サーバーエラーが発生しました。"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			if code != fiber.StatusInternalServerError {
				msg = fe.Message
			}
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.Error(err),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
			)
		}
		return c.Status(code).JSON(fiber.Map{
			"message": msg,
		})
	}
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/cobra"

	"pagechat/config"
	"pagechat/handlers"
	"pagechat/logger"
)

func newServeCmd(load func() (*app, error)) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the HTTP API: POST /api/chat for completions over supplied contexts,
plus endpoints to scrape pages, ask questions and manage the cache and history.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close()

			if a.cfg.Answer.Mode == config.ModeProxy {
				return errors.New("serve cannot use answer.mode proxy: the server is the proxy endpoint")
			}
			if port == 0 {
				port = a.cfg.Server.Port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a, port)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (overrides server.port)")
	return cmd
}

func newServer(a *app) *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:               "pagechat",
		ReadTimeout:           a.cfg.Server.ReadTimeout,
		DisableStartupMessage: true,
	})

	// Middleware
	server.Use(fiberlogger.New()) // Add basic request logging

	handlers.SetupRoutes(server, handlers.New(a.session, a.engine, a.metrics, a.log))

	server.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("pagechat API is running. Use the /api endpoints.")
	})
	return server
}

func serve(ctx context.Context, a *app, port int) error {
	server := newServer(a)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Starting server",
			logger.Int("port", port),
			logger.String("strategy", a.engine.Strategy().Name()))
		errCh <- server.Listen(fmt.Sprintf(":%d", port))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.ShutdownWithContext(shutdownCtx)
}

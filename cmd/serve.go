package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	portfolioHttp "github.com/glbter/distributed-systems/advisor/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the advisor HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runServe(ctx)
	},
}

func runServe(ctx context.Context) error {
	e, err := newEngine()
	if err != nil {
		return err
	}

	handler := portfolioHttp.PortfolioHandler{
		Logger:          logger,
		PortfolioEngine: e,
	}

	if settings.RabbitURL != "" {
		async, closeAsync, err := connectAsync(ctx, settings.RabbitURL)
		if err != nil {
			return err
		}
		defer closeAsync()
		handler.PortfolioEngineAsync = async
	} else {
		logger.Info("RABBIT_URL is empty, async simulation disabled")
	}

	srv := &http.Server{
		Addr:              settings.HTTPAddr,
		Handler:           portfolioHttp.NewRouter(handler, settings.RequestTimeout),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server is starting", zap.String("addr", settings.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	logger.Info("server stopped")

	return nil
}

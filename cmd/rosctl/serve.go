package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pior/routeros"
	"github.com/pior/routeros/internal/httpapi"
	"github.com/pior/routeros/internal/promexporter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the router API over HTTP",
	Long: `Serve the router API over HTTP.

GET /api/v1/users returns the hotspot users, GET /metrics the Prometheus
metrics of the gateway.`,
	Args: cobra.NoArgs,
	RunE: serve,
}

func init() {
	serveCmd.Flags().String("listen", ":3000", "HTTP listen address")
	serveCmd.Flags().Bool("circuit-breaker", true, "stop dialing an unreachable router for a while")
}

func serve(cmd *cobra.Command, _ []string) error {
	config, err := sessionConfig()
	if err != nil {
		return err
	}
	if viper.GetBool("circuit-breaker") {
		config.NewCircuitBreaker = routeros.NewCircuitBreakerConfig(breakerMaxRequests, breakerInterval, breakerTimeout)
	}

	session := routeros.NewSession(config)
	defer session.Close()

	server := &http.Server{
		Addr:              viper.GetString("listen"),
		Handler:           httpapi.NewHandler(session, promexporter.NewExporter(session), slog.Default()).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("rosctl: listening", "addr", server.Addr, "router", config.Address)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("rosctl: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

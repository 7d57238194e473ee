package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deepgram/airelay/internal/api/v1/handlers"
	"github.com/deepgram/airelay/internal/config"
	"github.com/deepgram/airelay/internal/domain"
	"github.com/deepgram/airelay/internal/services"
	"github.com/deepgram/airelay/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == "" {
				port = config.GetPort()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svcs, err := services.InitializeServices(ctx)
			if err != nil {
				return err
			}
			defer svcs.Close()

			if err := svcs.GetRelayService().VerifyAssistant(ctx); err != nil {
				if !errors.Is(err, domain.ErrConfigurationMissing) {
					return err
				}
				l := logger.For(logger.APP)
				l.Warn().Msg("OPENAI_ASSISTANT_ID is not set - assistant prompts will fail with 503")
			}

			ln, err := net.Listen("tcp", ":"+port)
			if err != nil {
				return err
			}
			return serve(ctx, ln, newServer(svcs))
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on (default $PORT or 8088)")
	return cmd
}

func newServer(svcs *services.Services) *http.Server {
	return &http.Server{
		Handler:           handlers.NewRouter(svcs),
		ReadHeaderTimeout: 10 * time.Second,
		// a thread prompt may wait out the whole run timeout
		WriteTimeout: config.GetRunTimeout() + 30*time.Second,
		IdleTimeout:  2 * time.Minute,
	}
}

// serve runs srv on ln until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, ln net.Listener, srv *http.Server) error {
	l := logger.For(logger.APP)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		l.Info().Str("addr", ln.Addr().String()).Msg("Server starting")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		l.Info().Msg("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	l.Info().Msg("Server stopped")
	return nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"didclient/internal/devserver"
	"didclient/internal/logging"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		addr      string
		secret    string
		tokenTTL  time.Duration
		logLevel  string
		logFormat string
	)
	cmd := &cobra.Command{
		Use:   "identity-dev",
		Short: "Run the in-memory development identity service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(logging.Config{Level: logLevel, Format: logFormat, Output: os.Stderr})
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr: addr,
				Handler: devserver.New(devserver.Options{
					Secret:   []byte(secret),
					TokenTTL: tokenTTL,
					Logger:   log,
				}).Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			log.Info("identity service listening", "addr", addr, "token_ttl", tokenTTL)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("SECRET_KEY"), "token signing secret (default random)")
	cmd.Flags().DurationVar(&tokenTTL, "token-ttl", 0, "token lifetime, 0 for no expiry")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "text or json")
	return cmd
}

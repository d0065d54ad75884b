package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/set-night/skyvqa/internal/config"
	"github.com/set-night/skyvqa/internal/logging"
	"github.com/set-night/skyvqa/internal/proxy"
)

var proxyAddr string

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Run only the VQA proxy",
	Long: `Serves POST /api/proxy and forwards the form to NGROK_URL with the
upstream credentials injected. GET /healthz reports liveness.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		_, logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("setup logging: %w", err)
		}
		defer logCloser.Close()

		addr := cfg.ProxyAddr
		if proxyAddr != "" {
			addr = proxyAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := proxy.New(proxy.OptionsFromConfig(cfg))
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return srv.Start(addr) })
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	proxyCmd.Flags().StringVar(&proxyAddr, "addr", "", "listen address (default PROXY_ADDR)")
}

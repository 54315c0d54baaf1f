package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rvg-labs/stock-trading/internal/config"
	"github.com/rvg-labs/stock-trading/internal/gateway"
	"github.com/rvg-labs/stock-trading/internal/logger"
	"github.com/rvg-labs/stock-trading/internal/version"
	"github.com/rvg-labs/stock-trading/pkg/client"
)

const shutdownTimeout = 10 * time.Second

func gatewayAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadGatewayConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	if listen := cmd.String("listen"); listen != "" {
		cfg.Listen = listen
	}

	if upstream := cmd.String("upstream"); upstream != "" {
		cfg.Upstream = upstream
	}

	log, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	g := gateway.NewGateway(gateway.ClientSubscriber{
		Client: client.New(cfg.Upstream),
	}, log)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           g.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	log.Info("gateway started",
		zap.String("addr", cfg.Listen),
		zap.String("upstream", cfg.Upstream))

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func main() {
	cmd := &cli.Command{
		Name:    "gateway",
		Usage:   "Bridge the quote feed onto Server-Sent Events",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
			},
			&cli.StringFlag{
				Name:    "listen",
				Aliases: []string{"l"},
				Usage:   "Listen address, overrides the config file",
			},
			&cli.StringFlag{
				Name:    "upstream",
				Aliases: []string{"u"},
				Usage:   "Base URL of the streaming server",
			},
		},
		Action: gatewayAction,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

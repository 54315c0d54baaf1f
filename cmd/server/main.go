package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rvg-labs/stock-trading/internal/config"
	"github.com/rvg-labs/stock-trading/internal/logger"
	"github.com/rvg-labs/stock-trading/internal/quotestore"
	"github.com/rvg-labs/stock-trading/internal/server"
	"github.com/rvg-labs/stock-trading/internal/trading"
	"github.com/rvg-labs/stock-trading/internal/types"
	"github.com/rvg-labs/stock-trading/internal/version"
)

const shutdownTimeout = 10 * time.Second

// defaultQuotes seeds the store with a small starting universe so the
// server answers quote requests out of the box.
func defaultQuotes() []types.Quote {
	now := time.Now()

	return []types.Quote{
		{Symbol: "AAPL", Price: 150.5, Timestamp: now},
		{Symbol: "GOOGL", Price: 2500.5, Timestamp: now},
		{Symbol: "TSLA", Price: 300.0, Timestamp: now},
		{Symbol: "MSFT", Price: 420.5, Timestamp: now},
		{Symbol: "AMZN", Price: 185.3, Timestamp: now},
	}
}

func newStore(cfg config.StoreConfig, log *logger.Logger) (quotestore.Store, error) {
	if cfg.Backend == "duckdb" {
		return quotestore.NewDuckDBStore(cfg.Path, log)
	}

	return quotestore.NewMemoryStore(), nil
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadServerConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	if listen := cmd.String("listen"); listen != "" {
		cfg.Listen = listen
	}

	if backend := cmd.String("store"); backend != "" {
		cfg.Store.Backend = backend
	}

	if path := cmd.String("db-path"); path != "" {
		cfg.Store.Path = path
	}

	log, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := newStore(cfg.Store, log)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Seed(ctx, defaultQuotes()); err != nil {
		return err
	}

	service := trading.NewService(store, nil, trading.Config{
		FeedUpdates:  cfg.Feed.Updates,
		FeedInterval: time.Duration(cfg.Feed.Interval),
	}, log)

	srv := server.NewServer(service, log)
	if err := srv.Start(cfg.Listen); err != nil {
		return err
	}

	log.Info("server started",
		zap.String("addr", srv.Addr()),
		zap.String("store", cfg.Store.Backend))

	<-ctx.Done()

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func main() {
	cmd := &cli.Command{
		Name:    "server",
		Usage:   "Run the stock trading streaming server",
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
				Name:  "store",
				Usage: "Quote store backend: memory, duckdb",
			},
			&cli.StringFlag{
				Name:  "db-path",
				Usage: "DuckDB database file, empty for in-memory",
			},
		},
		Action: serveAction,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

package quotestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rvg-labs/stock-trading/internal/logger"
	"github.com/rvg-labs/stock-trading/internal/types"
	"github.com/rvg-labs/stock-trading/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBStore is a Store backed by a DuckDB database file. An empty path
// opens an in-memory database.
type DuckDBStore struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBStore opens the database at path and ensures the stocks table
// exists.
func NewDuckDBStore(path string, log *logger.Logger) (*DuckDBStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to open quote database", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS stocks (
			symbol VARCHAR PRIMARY KEY,
			price DOUBLE NOT NULL,
			last_updated TIMESTAMP NOT NULL
		);
	`)
	if err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to create stocks table", err)
	}

	return &DuckDBStore{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// GetQuote implements Store.
func (s *DuckDBStore) GetQuote(ctx context.Context, symbol string) (types.Quote, error) {
	query, args, err := s.sq.
		Select("symbol", "price", "last_updated").
		From("stocks").
		Where(squirrel.Eq{"symbol": symbol}).
		ToSql()
	if err != nil {
		return types.Quote{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build quote query", err)
	}

	var (
		quote       types.Quote
		lastUpdated time.Time
	)

	row := s.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&quote.Symbol, &quote.Price, &lastUpdated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Quote{}, errors.Newf(errors.ErrCodeSymbolNotFound, "no quote for symbol %s", symbol)
		}

		return types.Quote{}, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to query quote for %s", symbol)
	}

	quote.Timestamp = lastUpdated

	return quote, nil
}

// Seed implements Store.
func (s *DuckDBStore) Seed(ctx context.Context, quotes []types.Quote) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSeedFailed, "failed to begin seed transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	for _, quote := range quotes {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO stocks (symbol, price, last_updated) VALUES (?, ?, ?)`,
			quote.Symbol, quote.Price, quote.Timestamp,
		)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeSeedFailed, err, "failed to seed quote for %s", quote.Symbol)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeSeedFailed, "failed to commit seed transaction", err)
	}

	s.logger.Debug("seeded quote store", zap.Int("count", len(quotes)))

	return nil
}

// Close implements Store.
func (s *DuckDBStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close quote database: %w", err)
	}

	return nil
}

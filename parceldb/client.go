// Package parceldb keeps a queryable copy of the synthesized parcel table
// (no geometry) in SQLite. It backs the raw data table and its sorting.
package parceldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"talhoes.dashboard.org/internal/logging"
	"talhoes.dashboard.org/internal/models"
)

// Client is the main entry point for the library
type Client struct {
	config        Config
	DB            *sql.DB
	logger        *slog.Logger
	importRuntime atomic.Int64 // nanoseconds
}

// NewClient opens the database and applies the embedded schema.
func NewClient(config Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := createDB(config)
	if err != nil {
		return nil, fmt.Errorf("unable to create DB: %w", err)
	}
	if config.verbose {
		logger.Info("parcel tables created", slog.String("db_path", config.DBPath))
	}

	return &Client{
		config: config,
		DB:     db,
		logger: logger,
	}, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}

// ImportRuntime is how long the last ReplaceParcels call took.
func (c *Client) ImportRuntime() time.Duration {
	return time.Duration(c.importRuntime.Load())
}

// ReplaceParcels swaps the table contents for parcels in a single transaction.
func (c *Client) ReplaceParcels(ctx context.Context, parcels []models.Parcel) error {
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		c.importRuntime.Store(int64(elapsed))
		if c.config.verbose {
			logging.LogOperation(c.logger, "parcel_import_completed",
				slog.Int("parcels", len(parcels)),
				slog.Duration("duration", elapsed))
		}
	}()

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, "parcel_import")

	if _, err := tx.ExecContext(ctx, "DELETE FROM parcels"); err != nil {
		return fmt.Errorf("error clearing parcels: %w", err)
	}
	if err := insertParcelBatch(ctx, tx, parcels); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

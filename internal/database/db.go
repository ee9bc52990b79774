package database

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	_ "github.com/lib/pq"

	"github.com/Alias1177/fxsignal/models"
)

// DB represents a database connection
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ConnString builds the lib/pq connection string
func (p ConnectionParams) ConnString() string {
	sslMode := p.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, sslMode,
	)
}

// New creates a new database connection
func New(params ConnectionParams) (*DB, error) {
	db, err := sql.Open("postgres", params.ConnString())
	if err != nil {
		return nil, err
	}

	// Check connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS price_bars (
			symbol TEXT NOT NULL,
			timeframe TEXT NOT NULL,
			time TIMESTAMPTZ NOT NULL,
			open DOUBLE PRECISION NOT NULL,
			high DOUBLE PRECISION NOT NULL,
			low DOUBLE PRECISION NOT NULL,
			close DOUBLE PRECISION NOT NULL,
			tick_volume BIGINT NOT NULL DEFAULT 0,
			spread BIGINT NOT NULL DEFAULT 0,
			real_volume BIGINT NOT NULL DEFAULT 0,
			PRIMARY KEY (symbol, timeframe, time)
		)
	`)
	return err
}

// SaveBars upserts bars for a symbol and timeframe
func (db *DB) SaveBars(ctx context.Context, symbol, timeframe string, bars []models.PriceBar) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO price_bars (
			symbol, timeframe, time, open, high, low, close, tick_volume, spread, real_volume
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (symbol, timeframe, time)
		DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			tick_volume = EXCLUDED.tick_volume,
			spread = EXCLUDED.spread,
			real_volume = EXCLUDED.real_volume
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx,
			symbol, timeframe, b.Time.UTC(), b.Open, b.High, b.Low, b.Close, b.TickVolume, b.Spread, b.RealVolume,
		); err != nil {
			return fmt.Errorf("saving bar %s: %w", b.Time.Format(time.RFC3339), err)
		}
	}

	return tx.Commit()
}

// GetBars returns the latest count bars, oldest first
func (db *DB) GetBars(ctx context.Context, symbol, timeframe string, count int) ([]models.PriceBar, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT time, open, high, low, close, tick_volume, spread, real_volume
		FROM price_bars
		WHERE symbol = $1 AND timeframe = $2
		ORDER BY time DESC
		LIMIT $3
	`, symbol, timeframe, count)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []models.PriceBar
	for rows.Next() {
		var b models.PriceBar
		if err := rows.Scan(&b.Time, &b.Open, &b.High, &b.Low, &b.Close, &b.TickVolume, &b.Spread, &b.RealVolume); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.Reverse(bars)
	return bars, nil
}

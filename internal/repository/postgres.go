package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"propinsight/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresRepository reads stored listings
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		if !strings.Contains(dsn, "?") {
			dsn += "?prefer_simple_protocol=true"
		} else {
			dsn += "&prefer_simple_protocol=true"
		}
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewPostgresRepositoryFromDB(db, maxConn, maxIdleConn), nil
}

// NewPostgresRepositoryFromDB wraps an open connection pool
func NewPostgresRepositoryFromDB(db *sqlx.DB, maxConn, maxIdleConn int) *PostgresRepository {
	if maxConn > 0 {
		db.SetMaxOpenConns(maxConn)
	}
	if maxIdleConn > 0 {
		db.SetMaxIdleConns(maxIdleConn)
	}
	db.SetConnMaxLifetime(5 * time.Minute) // Shorter lifetime to avoid stale connections
	db.SetConnMaxIdleTime(2 * time.Minute) // Close idle connections sooner

	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping checks the database connection
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// GetListingByID retrieves a single completed listing by its listing ID.
// It returns nil, nil when no such listing exists.
func (r *PostgresRepository) GetListingByID(ctx context.Context, listingID int64) (*model.Listing, error) {
	var listing model.Listing
	query := `
		SELECT
			id, listing_id, title, price, bedrooms, area_sqft,
			unit_type, location, is_completed, updated_at
		FROM listing_info
		WHERE listing_id = $1 AND is_completed = true
	`
	err := r.db.GetContext(ctx, &listing, query, listingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &listing, nil
}

// ListLocations returns the distinct locations of completed listings, most
// common first. These are the region names a user can pick from.
func (r *PostgresRepository) ListLocations(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT location
		FROM listing_info
		WHERE is_completed = true AND location IS NOT NULL AND location <> ''
		GROUP BY location
		ORDER BY COUNT(*) DESC, location ASC
		LIMIT $1
	`
	var locations []string
	if err := r.db.SelectContext(ctx, &locations, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

package db

import (
	"context"
	"fmt"

	"github.com/steemit/citygroups/internal/models"
	"github.com/steemit/citygroups/pkg/config"
)

// Store is a listing store with a lifecycle
type Store interface {
	Insert(ctx context.Context, listing *models.CommunityListing) error
	GetByID(ctx context.Context, id string) (*models.CommunityListing, error)
	FindByStatus(ctx context.Context, status models.Status) ([]models.CommunityListing, error)
	UpdateStatus(ctx context.Context, id string, from, to models.Status) error
	Health(ctx context.Context) error
	Close() error
}

// PostgresStore is a ListingRepository bound to its connection
type PostgresStore struct {
	*ListingRepository
	conn *DB
}

// Health checks database health
func (s *PostgresStore) Health(ctx context.Context) error {
	return s.conn.Health(ctx)
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.conn.Close()
}

// Open opens the store selected by cfg.Driver
func Open(cfg *config.DatabaseConfig, logLevel string) (Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemoryStore(), nil
	case config.DriverPostgres:
		conn, err := New(cfg, logLevel)
		if err != nil {
			return nil, err
		}
		return &PostgresStore{
			ListingRepository: NewListingRepository(NewRepository(conn.DB)),
			conn:              conn,
		}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

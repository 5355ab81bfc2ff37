package db

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/steemit/citygroups/internal/models"
)

// MemoryStore keeps listings in process memory. It follows the same ordering
// and conflict rules as ListingRepository.
type MemoryStore struct {
	mu       sync.Mutex
	listings map[string]models.CommunityListing
	newID    func() string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		listings: make(map[string]models.CommunityListing),
		newID:    uuid.NewString,
	}
}

// Insert stores a copy of listing, assigning its id
func (s *MemoryStore) Insert(ctx context.Context, listing *models.CommunityListing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	listing.ID = s.newID()
	s.listings[listing.ID] = *listing
	return nil
}

// GetByID retrieves a listing by id
func (s *MemoryStore) GetByID(ctx context.Context, id string) (*models.CommunityListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, ok := s.listings[id]
	if !ok {
		return nil, nil
	}
	return &listing, nil
}

// FindByStatus retrieves every listing in the given status, newest first
func (s *MemoryStore) FindByStatus(ctx context.Context, status models.Status) ([]models.CommunityListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	listings := make([]models.CommunityListing, 0)
	for _, l := range s.listings {
		if l.Status == status {
			listings = append(listings, l)
		}
	}
	sort.Slice(listings, func(i, j int) bool {
		if !listings[i].CreatedAt.Equal(listings[j].CreatedAt) {
			return listings[i].CreatedAt.After(listings[j].CreatedAt)
		}
		return listings[i].ID < listings[j].ID
	})
	return listings, nil
}

// UpdateStatus moves a listing from one status to another under the store lock
func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, from, to models.Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, ok := s.listings[id]
	if !ok {
		return ErrNotFound
	}
	if listing.Status != from {
		return &StatusConflictError{ID: id, Current: listing.Status}
	}
	listing.Status = to
	s.listings[id] = listing
	return nil
}

// Len returns the number of stored listings
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listings)
}

// Health always succeeds for the in-memory store
func (s *MemoryStore) Health(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() error {
	return nil
}

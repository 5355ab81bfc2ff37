package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/steemit/citygroups/internal/models"
)

var (
	// ErrNotFound is returned when no listing has the requested id
	ErrNotFound = errors.New("listing not found")
	// ErrConflict is returned when a conditional status update finds another status
	ErrConflict = errors.New("listing status conflict")
)

// StatusConflictError reports the status a listing actually had when a
// conditional update expected a different one. It matches ErrConflict.
type StatusConflictError struct {
	ID      string
	Current models.Status
}

func (e *StatusConflictError) Error() string {
	return fmt.Sprintf("listing %s is %s", e.ID, e.Current)
}

// Is makes errors.Is(err, ErrConflict) hold
func (e *StatusConflictError) Is(target error) bool {
	return target == ErrConflict
}

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListingRepository provides listing-related database operations
type ListingRepository struct {
	*Repository
}

// NewListingRepository creates a new listing repository
func NewListingRepository(repo *Repository) *ListingRepository {
	return &ListingRepository{Repository: repo}
}

// Insert stores a new listing, assigning its id
func (r *ListingRepository) Insert(ctx context.Context, listing *models.CommunityListing) error {
	listing.ID = uuid.NewString()
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		listing.ID = ""
		return err
	}
	return nil
}

// GetByID retrieves a listing by id
func (r *ListingRepository) GetByID(ctx context.Context, id string) (*models.CommunityListing, error) {
	if _, err := uuid.Parse(id); err != nil {
		// Not a uuid, so the column cannot hold it
		return nil, nil
	}
	var listing models.CommunityListing
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

// FindByStatus retrieves every listing in the given status, newest first
func (r *ListingRepository) FindByStatus(ctx context.Context, status models.Status) ([]models.CommunityListing, error) {
	var listings []models.CommunityListing
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Order("id ASC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// UpdateStatus moves a listing from one status to another in a single
// conditional statement. It returns ErrNotFound when the id is unknown and a
// *StatusConflictError when the listing is no longer in status from.
func (r *ListingRepository) UpdateStatus(ctx context.Context, id string, from, to models.Status) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}

	res := r.db.WithContext(ctx).
		Model(&models.CommunityListing{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var current models.CommunityListing
	if err := r.db.WithContext(ctx).Select("status").Where("id = ?", id).First(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return &StatusConflictError{ID: id, Current: current.Status}
}

package listing

import (
	"context"
	"time"

	"github.com/steemit/citygroups/internal/models"
)

// Store is the record store the directory runs against. Implementations own
// the atomicity of UpdateStatus; see db.ListingRepository and db.MemoryStore.
type Store interface {
	Insert(ctx context.Context, listing *models.CommunityListing) error
	GetByID(ctx context.Context, id string) (*models.CommunityListing, error)
	FindByStatus(ctx context.Context, status models.Status) ([]models.CommunityListing, error)
	UpdateStatus(ctx context.Context, id string, from, to models.Status) error
}

// ApprovedCache holds the approved set between approvals. Snapshots are
// stored under the generation read before the store was queried, and
// InvalidateApproved advances the generation, so a snapshot taken before an
// approval is never served after it. A miss or any cache error falls through
// to the store.
type ApprovedCache interface {
	GetApproved(ctx context.Context) (listings []models.CommunityListing, generation int64, err error)
	SetApproved(ctx context.Context, generation int64, listings []models.CommunityListing, ttl time.Duration) error
	InvalidateApproved(ctx context.Context) error
}

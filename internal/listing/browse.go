package listing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/steemit/citygroups/internal/models"
	"github.com/steemit/citygroups/pkg/telemetry"
)

// ListApproved returns the approved set, newest first
func (s *Service) ListApproved(ctx context.Context) ([]models.CommunityListing, error) {
	var (
		generation int64
		fill       bool
	)
	if s.cache != nil {
		cached, gen, err := s.cache.GetApproved(ctx)
		switch {
		case err != nil:
			s.logger.Warn("Approved cache read failed", zap.Error(err))
		case cached != nil:
			return cached, nil
		default:
			generation, fill = gen, true
		}
	}

	listings, err := s.store.FindByStatus(ctx, models.StatusApproved)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "find_approved", Err: err}
	}
	if listings == nil {
		listings = []models.CommunityListing{}
	}

	if fill {
		// An approval since the read has moved the generation on; this
		// snapshot then lands under a key no reader uses.
		if err := s.cache.SetApproved(ctx, generation, listings, s.cacheTTL); err != nil {
			s.logger.Warn("Approved cache write failed", zap.Error(err))
		}
	}
	return listings, nil
}

// Browse runs a directory query over the approved set
func (s *Service) Browse(ctx context.Context, params Params) ([]models.CommunityListing, error) {
	ctx, span := telemetry.StartSpan(ctx, "listing.browse")
	defer span.End()
	span.SetAttributes(
		attribute.String("query.search", params.Search),
		attribute.String("query.sort_by", string(params.SortBy)),
	)

	if err := params.Validate(); err != nil {
		return nil, err
	}

	approved, err := s.ListApproved(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "approved set unavailable")
		return nil, err
	}

	result, err := Query(approved, params)
	if err != nil {
		return nil, err
	}

	telemetry.RecordQuery(ctx, string(params.SortBy), len(result))
	return result, nil
}

// Package listing implements the community directory: the moderation queue
// that moves submissions from pending to approved or rejected, and the query
// engine that filters and orders the approved set for browsing.
package listing

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/steemit/citygroups/internal/db"
	"github.com/steemit/citygroups/internal/models"
	"github.com/steemit/citygroups/pkg/logging"
	"github.com/steemit/citygroups/pkg/telemetry"
)

// DefaultCacheTTL is used when the service is built without a cache TTL
const DefaultCacheTTL = time.Minute

// Service runs moderation and browse operations against a record store
type Service struct {
	store    Store
	cache    ApprovedCache
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new directory service. cache may be nil.
func NewService(store Store, cache ApprovedCache, cacheTTL time.Duration, logger *zap.Logger) *Service {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	if logger == nil {
		logger = logging.WithComponent("listing")
	}
	return &Service{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit validates input and stores it as a new pending listing
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.CommunityListing, error) {
	ctx, span := telemetry.StartSpan(ctx, "listing.submit")
	defer span.End()
	logger := logging.WithContext(ctx, s.logger)

	if err := in.Validate(); err != nil {
		logger.Warn("Rejected submission", zap.Error(err))
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	// Validate guarantees the platform parses
	platform, _ := models.ParsePlatform(in.Platform)

	listing := &models.CommunityListing{
		Name:        in.Name,
		Platform:    platform,
		URL:         in.URL,
		City:        in.City,
		State:       in.State,
		MemberCount: in.MemberCount,
		PostsPerDay: in.PostsPerDay,
		Rating:      0,
		Status:      models.StatusPending,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.store.Insert(ctx, listing); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return nil, &StoreUnavailableError{Op: "insert", Err: err}
	}

	span.SetAttributes(attribute.String("listing.id", listing.ID))
	telemetry.RecordSubmission(ctx, platform.String())
	logger.Info("Listing submitted",
		zap.String("id", listing.ID),
		zap.String("name", listing.Name),
		zap.Stringer("platform", listing.Platform),
		zap.String("city", listing.City))

	return listing, nil
}

// ListPending returns every listing awaiting a decision
func (s *Service) ListPending(ctx context.Context) ([]models.CommunityListing, error) {
	ctx, span := telemetry.StartSpan(ctx, "listing.list_pending")
	defer span.End()

	listings, err := s.store.FindByStatus(ctx, models.StatusPending)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "find failed")
		return nil, &StoreUnavailableError{Op: "find_pending", Err: err}
	}
	if listings == nil {
		listings = []models.CommunityListing{}
	}
	return listings, nil
}

// Decide moves a pending listing to approved or rejected. Each listing can be
// decided once; any later decision fails with PreconditionFailedError.
func (s *Service) Decide(ctx context.Context, id string, decision models.Status) (*models.CommunityListing, error) {
	ctx, span := telemetry.StartSpan(ctx, "listing.decide",
		trace.WithAttributes(
			attribute.String("listing.id", id),
			attribute.String("listing.decision", decision.String()),
		))
	defer span.End()
	logger := logging.WithContext(ctx, s.logger).With(zap.String("id", id), zap.Stringer("decision", decision))

	if decision != models.StatusApproved && decision != models.StatusRejected {
		return nil, newValidationError("decision", "must be approved or rejected")
	}
	listing, err := s.store.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return nil, &StoreUnavailableError{Op: "get", Err: err}
	}
	if listing == nil {
		logger.Warn("Decision on unknown listing")
		return nil, &NotFoundError{ID: id}
	}
	if listing.Status != models.StatusPending {
		logger.Warn("Decision on listing that is not pending", zap.Stringer("current", listing.Status))
		return nil, &PreconditionFailedError{ID: id, Current: listing.Status}
	}

	if err := s.store.UpdateStatus(ctx, id, models.StatusPending, decision); err != nil {
		var conflict *db.StatusConflictError
		switch {
		case errors.As(err, &conflict):
			logger.Warn("Lost decision race", zap.Stringer("current", conflict.Current))
			return nil, &PreconditionFailedError{ID: id, Current: conflict.Current}
		case errors.Is(err, db.ErrNotFound):
			return nil, &NotFoundError{ID: id}
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, "update failed")
			return nil, &StoreUnavailableError{Op: "update_status", Err: err}
		}
	}
	listing.Status = decision

	if decision == models.StatusApproved {
		s.invalidateApproved(ctx)
	}

	telemetry.RecordDecision(ctx, decision.String())
	logger.Info("Listing decided")

	return listing, nil
}

// Approve moves a pending listing to approved
func (s *Service) Approve(ctx context.Context, id string) (*models.CommunityListing, error) {
	return s.Decide(ctx, id, models.StatusApproved)
}

// Reject moves a pending listing to rejected
func (s *Service) Reject(ctx context.Context, id string) (*models.CommunityListing, error) {
	return s.Decide(ctx, id, models.StatusRejected)
}

func (s *Service) invalidateApproved(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateApproved(ctx); err != nil {
		s.logger.Warn("Approved cache not invalidated", zap.Error(err))
	}
}

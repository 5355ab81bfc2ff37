package api

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/steemit/citygroups/internal/listing"
	"github.com/steemit/citygroups/internal/models"
)

// DirectoryAPI provides the public directory methods
type DirectoryAPI struct {
	svc *listing.Service
}

// NewDirectoryAPI creates a new directory API
func NewDirectoryAPI(svc *listing.Service) *DirectoryAPI {
	return &DirectoryAPI{svc: svc}
}

// Submit handles directory.submit
func (d *DirectoryAPI) Submit(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	var in listing.SubmitInput
	if err := decodeParams(params, &in); err != nil {
		return nil, err
	}
	return d.svc.Submit(ctx.Request.Context(), in)
}

type listParams struct {
	Search   string `json:"search"`
	Platform string `json:"platform"`
	SortBy   string `json:"sort_by"`
}

// List handles directory.list
func (d *DirectoryAPI) List(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	var p listParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	query, err := listing.ParseParams(p.Search, p.Platform, p.SortBy)
	if err != nil {
		return nil, err
	}

	listings, err := d.svc.Browse(ctx.Request.Context(), query)
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// ModerationAPI provides the moderation queue methods
type ModerationAPI struct {
	svc *listing.Service
}

// NewModerationAPI creates a new moderation API
func NewModerationAPI(svc *listing.Service) *ModerationAPI {
	return &ModerationAPI{svc: svc}
}

type decideParams struct {
	ID       string `json:"id"`
	Decision string `json:"decision"`
}

// ListPending handles moderation.list_pending
func (m *ModerationAPI) ListPending(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	return m.svc.ListPending(ctx.Request.Context())
}

// Decide handles moderation.decide
func (m *ModerationAPI) Decide(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	var p decideParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	decision, err := listing.ParseDecision(p.Decision)
	if err != nil {
		return nil, err
	}
	return m.svc.Decide(ctx.Request.Context(), p.ID, decision)
}

// Approve handles moderation.approve
func (m *ModerationAPI) Approve(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	return m.decideAs(ctx, params, models.StatusApproved)
}

// Reject handles moderation.reject
func (m *ModerationAPI) Reject(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	return m.decideAs(ctx, params, models.StatusRejected)
}

func (m *ModerationAPI) decideAs(ctx *gin.Context, params json.RawMessage, decision models.Status) (interface{}, error) {
	var p decideParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return m.svc.Decide(ctx.Request.Context(), p.ID, decision)
}

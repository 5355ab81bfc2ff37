package listing

import (
	"encoding/json"
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/steemit/citygroups/internal/models"
)

var urlPattern = regexp.MustCompile(`^https?://.+`)

// SubmitInput is a listing as submitted by a user
type SubmitInput struct {
	Name        string  `json:"name"`
	Platform    string  `json:"platform"`
	URL         string  `json:"url"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	MemberCount int64   `json:"member_count"`
	PostsPerDay float64 `json:"posts_per_day"`

	// Ignored whatever their JSON type: new listings always start pending
	// with a zero rating.
	Status json.RawMessage `json:"status,omitempty"`
	Rating json.RawMessage `json:"rating,omitempty"`
}

// Validate checks every submitted field and reports all failures at once
func (in SubmitInput) Validate() error {
	platforms := make([]interface{}, 0, 2)
	for _, name := range models.PlatformNames() {
		platforms = append(platforms, name)
	}

	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name,
			validation.Required.Error("is required"),
		),
		validation.Field(&in.Platform,
			validation.Required.Error("is required"),
			validation.In(platforms...).Error("must be facebook or reddit"),
		),
		validation.Field(&in.URL,
			validation.Required.Error("is required"),
			validation.Match(urlPattern).Error("must start with http:// or https://"),
		),
		validation.Field(&in.City,
			validation.Required.Error("is required"),
		),
		validation.Field(&in.MemberCount,
			validation.Min(int64(0)).Error("must not be negative"),
		),
		validation.Field(&in.PostsPerDay,
			validation.Min(0.0).Error("must not be negative"),
		),
	)
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if errors.As(err, &errs) {
		return fromValidationErrors(errs)
	}
	return newValidationError("input", err.Error())
}

// ParseDecision converts a decision name into the status it moves a listing to
func ParseDecision(s string) (models.Status, error) {
	status, err := models.ParseStatus(s)
	if err != nil || status == models.StatusPending {
		return 0, newValidationError("decision", "must be approved or rejected")
	}
	return status, nil
}

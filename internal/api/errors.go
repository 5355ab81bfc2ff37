package api

import (
	"errors"
	"fmt"

	"github.com/steemit/citygroups/internal/listing"
)

// Directory error codes, in the JSON-RPC server error range
const (
	ErrServerError        = -32000
	ErrStoreUnavailable   = -32003
	ErrNotFound           = -32004
	ErrPreconditionFailed = -32009
)

// Error represents an API error
type Error struct {
	Code    int
	Message string
	Data    interface{}
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
}

// toRPCError maps a service error onto a JSON-RPC error object
func toRPCError(err error) *JSONRPCError {
	var (
		apiErr      *Error
		validation  *listing.ValidationError
		notFound    *listing.NotFoundError
		precond     *listing.PreconditionFailedError
		unavailable *listing.StoreUnavailableError
	)

	switch {
	case errors.As(err, &apiErr):
		return &JSONRPCError{Code: apiErr.Code, Message: apiErr.Message, Data: apiErr.Data}
	case errors.As(err, &validation):
		return &JSONRPCError{Code: ErrInvalidParams, Message: "Invalid params", Data: validation.Fields}
	case errors.As(err, &notFound):
		return &JSONRPCError{Code: ErrNotFound, Message: "Not found", Data: map[string]string{"id": notFound.ID}}
	case errors.As(err, &precond):
		return &JSONRPCError{
			Code:    ErrPreconditionFailed,
			Message: "Precondition failed",
			Data:    map[string]string{"id": precond.ID, "status": precond.Current.String()},
		}
	case errors.As(err, &unavailable):
		return &JSONRPCError{Code: ErrStoreUnavailable, Message: "Store unavailable"}
	default:
		return &JSONRPCError{Code: ErrServerError, Message: "Server error", Data: err.Error()}
	}
}

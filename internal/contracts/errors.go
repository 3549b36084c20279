package contracts

import (
	"errors"
	"fmt"
)

// Business-rule sentinels. These are rejections, not faults: callers map
// them to a 4xx-equivalent response rather than retrying.
var (
	// ErrNoCompatibleProduct means no catalog entry satisfies the
	// requested product type and term.
	ErrNoCompatibleProduct = errors.New("no compatible product found for the requested parameters")

	// ErrUnknownProfile means a tier name outside
	// {Conservative, Moderate, Aggressive} was referenced.
	ErrUnknownProfile = errors.New("unknown risk profile")
)

// ValidationError reports malformed or out-of-range input, naming the
// offending field. Always caller-fixable; never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports that a referenced entity does not exist or does
// not belong to the caller's client.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

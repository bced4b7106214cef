package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// Storefront and tenancy
	ErrStoreNotFound       = errors.New("store not found")
	ErrChannelNotActivated = errors.New("channel is not activated for this store")
	ErrDomainNotFound      = errors.New("domain is not connected to any active store")
	ErrLookupFailed        = errors.New("domain lookup failed")
	ErrLoadFailed          = errors.New("failed to load storefront")

	// Upstream collaborators
	ErrUpstream       = errors.New("upstream service failed")
	ErrRateLimited    = errors.New("rate limit exceeded, please try again later")
	ErrQuotaExceeded  = errors.New("AI credits exhausted, please top up your balance")
	ErrNotConfigured  = errors.New("integration is not configured")
	ErrForbidden      = errors.New("forbidden")
	ErrCategoryCycle  = errors.New("category parent would create a cycle")
	ErrInvalidChannel = errors.New("unknown channel")
)

// ValidationError reports caller input that violates a precondition.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ChannelError names the channel that failed a gate so the UI can show channel specific guidance.
type ChannelError struct {
	Channel Channel
	Err     error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("%s channel: %v", e.Channel, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }

// Blank reports whether s is empty after trimming whitespace.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

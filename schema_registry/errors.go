package schema_registry

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRegistryUnavailable covers transport failures and 5xx responses.
	ErrRegistryUnavailable = errors.New("schema registry unavailable")

	// ErrIncompatibleSchema is returned when the registry rejects a schema
	// as incompatible with the subject's history.
	ErrIncompatibleSchema = errors.New("schema incompatible with registered versions")

	// ErrInvalidSchema is returned when the registry cannot parse a schema.
	ErrInvalidSchema = errors.New("schema rejected as invalid")

	// ErrSubjectNotFound is returned for lookups on unknown subjects.
	ErrSubjectNotFound = errors.New("subject not found")

	// ErrUnauthorized is returned for 401 and 403 responses.
	ErrUnauthorized = errors.New("schema registry credentials rejected")
)

// RegistryError is a non-2xx registry response.
type RegistryError struct {
	StatusCode int
	// ErrorCode is the registry's own error_code, e.g. 40401 or 409.
	ErrorCode int
	Message   string
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("schema registry returned status %d (error code %d): %s", e.StatusCode, e.ErrorCode, e.Message)
}

// Unwrap maps the status onto one of the package sentinels.
func (e *RegistryError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusConflict:
		return ErrIncompatibleSchema
	case e.StatusCode == http.StatusUnprocessableEntity:
		return ErrInvalidSchema
	case e.StatusCode == http.StatusNotFound:
		return ErrSubjectNotFound
	case e.StatusCode == http.StatusUnauthorized, e.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case e.StatusCode >= 500:
		return ErrRegistryUnavailable
	default:
		return nil
	}
}

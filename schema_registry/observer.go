package schema_registry

import (
	"errors"
	"time"

	"github.com/aalemi-dev/airflow-relay/observability"
)

// observeOperation reports a registry call against subject. ref is the
// schema id or version when known. Registry-side failures add the HTTP
// status and registry error code to metadata.
func (c *Client) observeOperation(operation, subject, ref string, duration time.Duration, err error, metadata map[string]interface{}) {
	if c == nil || c.observer == nil {
		return
	}

	var regErr *RegistryError
	if errors.As(err, &regErr) {
		if metadata == nil {
			metadata = make(map[string]interface{}, 2)
		}
		metadata["status"] = regErr.StatusCode
		metadata["error_code"] = regErr.ErrorCode
	}

	c.observer.ObserveOperation(observability.OperationContext{
		Component:   "schema_registry",
		Operation:   operation,
		Resource:    subject,
		SubResource: ref,
		Duration:    duration,
		Error:       err,
		Metadata:    metadata,
	})
}

package kafka

import (
	"errors"
	"strings"
)

// Producer error sentinels. TranslateError maps broker and transport
// errors onto them so callers can branch without parsing messages.
var (
	// ErrConnectionFailed is returned when connection to Kafka cannot be established
	ErrConnectionFailed = errors.New("connection failed")

	// ErrConnectionLost is returned when connection to Kafka is lost
	ErrConnectionLost = errors.New("connection lost")

	// ErrBrokerNotAvailable is returned when broker is not available
	ErrBrokerNotAvailable = errors.New("broker not available")

	// ErrAuthenticationFailed is returned when authentication fails
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrAuthorizationFailed is returned when authorization fails
	ErrAuthorizationFailed = errors.New("authorization failed")

	// ErrTopicNotFound is returned when topic doesn't exist
	ErrTopicNotFound = errors.New("topic not found")

	// ErrMessageTooLarge is returned when message exceeds size limits
	ErrMessageTooLarge = errors.New("message too large")

	// ErrLeaderNotAvailable is returned when leader is not available
	ErrLeaderNotAvailable = errors.New("leader not available")

	// ErrNotLeaderForPartition is returned when broker is not the leader for partition
	ErrNotLeaderForPartition = errors.New("not leader for partition")

	// ErrNotEnoughReplicas is returned when acks=all cannot be satisfied
	ErrNotEnoughReplicas = errors.New("not enough replicas")

	// ErrRequestTimedOut is returned when request times out
	ErrRequestTimedOut = errors.New("request timed out")

	// ErrNetworkError is returned for network-related errors
	ErrNetworkError = errors.New("network error")

	// ErrUnsupportedVersion is returned when version is not supported
	ErrUnsupportedVersion = errors.New("unsupported version")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid config")

	// ErrWriterNotInitialized is returned when writer is not initialized
	ErrWriterNotInitialized = errors.New("writer not initialized")

	// ErrWriterClosed is returned by Enqueue after GracefulShutdown
	ErrWriterClosed = errors.New("writer closed")

	// ErrContextCanceled is returned when context is canceled
	ErrContextCanceled = errors.New("context canceled")
)

// TranslateError converts Kafka-specific errors into the sentinels above.
// Errors that already wrap a sentinel, or match no known pattern, are
// returned unchanged.
func (k *KafkaClient) TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrWriterClosed) || errors.Is(err, ErrWriterNotInitialized) || errors.Is(err, ErrInvalidConfig) {
		return err
	}
	return translateByErrorMessage(strings.ToLower(err.Error()), err)
}

// translateByErrorMessage translates errors based on error message patterns
func translateByErrorMessage(errMsg string, originalErr error) error {
	switch {
	// Connection related
	case strings.Contains(errMsg, "connection refused"):
		return ErrConnectionFailed
	case strings.Contains(errMsg, "connection reset"),
		strings.Contains(errMsg, "connection closed"):
		return ErrConnectionLost
	case strings.Contains(errMsg, "broker not available"):
		return ErrBrokerNotAvailable

	// Authentication and authorization
	case strings.Contains(errMsg, "sasl authentication failed"),
		strings.Contains(errMsg, "authentication failed"):
		return ErrAuthenticationFailed
	case strings.Contains(errMsg, "authorization failed"):
		return ErrAuthorizationFailed

	// Topic errors
	case strings.Contains(errMsg, "topic not found"),
		strings.Contains(errMsg, "unknown topic"):
		return ErrTopicNotFound

	// Message errors
	case strings.Contains(errMsg, "message too large"),
		strings.Contains(errMsg, "record too large"),
		strings.Contains(errMsg, "message size too large"):
		return ErrMessageTooLarge

	// Leader and replica errors
	case strings.Contains(errMsg, "leader not available"):
		return ErrLeaderNotAvailable
	case strings.Contains(errMsg, "not leader for partition"):
		return ErrNotLeaderForPartition
	case strings.Contains(errMsg, "not enough replicas"):
		return ErrNotEnoughReplicas

	// Timeout errors
	case strings.Contains(errMsg, "request timed out"),
		strings.Contains(errMsg, "deadline exceeded"),
		strings.Contains(errMsg, "timeout"):
		return ErrRequestTimedOut

	// Network errors
	case strings.Contains(errMsg, "network"),
		strings.Contains(errMsg, "dial"):
		return ErrNetworkError

	// Version errors
	case strings.Contains(errMsg, "unsupported version"):
		return ErrUnsupportedVersion

	// Context errors
	case strings.Contains(errMsg, "context canceled"),
		strings.Contains(errMsg, "context cancelled"):
		return ErrContextCanceled

	default:
		return originalErr
	}
}

// IsRetryableError returns true if the error is retryable
func (k *KafkaClient) IsRetryableError(err error) bool {
	return isRetryable(err)
}

func isRetryable(err error) bool {
	switch {
	case errors.Is(err, ErrConnectionFailed),
		errors.Is(err, ErrConnectionLost),
		errors.Is(err, ErrBrokerNotAvailable),
		errors.Is(err, ErrLeaderNotAvailable),
		errors.Is(err, ErrNotLeaderForPartition),
		errors.Is(err, ErrNotEnoughReplicas),
		errors.Is(err, ErrRequestTimedOut),
		errors.Is(err, ErrNetworkError):
		return true
	default:
		return false
	}
}

// IsPermanentError returns true if the error is permanent and should not be retried
func (k *KafkaClient) IsPermanentError(err error) bool {
	switch {
	case errors.Is(err, ErrAuthenticationFailed),
		errors.Is(err, ErrAuthorizationFailed),
		errors.Is(err, ErrTopicNotFound),
		errors.Is(err, ErrMessageTooLarge),
		errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrUnsupportedVersion),
		errors.Is(err, ErrWriterClosed):
		return true
	default:
		return false
	}
}

// IsAuthenticationError returns true if the error is authentication-related
func (k *KafkaClient) IsAuthenticationError(err error) bool {
	return isAuthentication(err)
}

func isAuthentication(err error) bool {
	return errors.Is(err, ErrAuthenticationFailed) || errors.Is(err, ErrAuthorizationFailed)
}

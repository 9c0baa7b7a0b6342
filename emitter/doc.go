// Package emitter publishes Airflow events.
//
// Dispatcher.Publish runs one event through the whole path:
//
//	validate -> encode -> enqueue -> flush
//
// and returns only once the broker has acknowledged the record or the
// flush bound has passed. Errors keep their kind so the HTTP layer can
// tell a bad request from a failed publish:
//
//   - *record.ValidationError: the event does not match its shape
//   - *encoder.SchemaNotFoundError, *encoder.SchemaRegistrationError,
//     *encoder.SerializationError: encoding failed
//   - *PublishError: the producer refused the message
//   - *FlushTimeoutError: the broker did not acknowledge in time; the
//     record may still be delivered
//
// Nothing is retried here.
package emitter

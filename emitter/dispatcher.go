package emitter

import (
	"context"
	"time"

	"github.com/aalemi-dev/airflow-relay/encoder"
	"github.com/aalemi-dev/airflow-relay/kafka"
	"github.com/aalemi-dev/airflow-relay/observability"
	"github.com/aalemi-dev/airflow-relay/record"
	"github.com/aalemi-dev/airflow-relay/tracer"
)

// Event is one publish request.
type Event struct {
	Kind    record.Kind
	Version record.Version
	Fields  map[string]interface{}

	// Key overrides the key fields. When nil the key is projected from the
	// validated record.
	Key map[string]interface{}
	// NoKey publishes without a key, leaving partition choice to the
	// producer.
	NoKey bool

	Headers map[string]string
}

// Logger is the subset of logger.Logger the dispatcher writes to.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Dispatcher owns no state between calls beyond its collaborators, which
// are safe for concurrent use.
type Dispatcher struct {
	cfg       Config
	topics    *record.TopicTable
	encoder   encoder.Encoder
	publisher kafka.Publisher

	tracer   tracer.Tracer
	observer observability.Observer
	logger   Logger
}

// New returns a Dispatcher over the given collaborators.
func New(cfg Config, topics *record.TopicTable, enc encoder.Encoder, publisher kafka.Publisher) *Dispatcher {
	if cfg.FlushTimeout <= 0 {
		cfg.FlushTimeout = DefaultFlushTimeout
	}
	return &Dispatcher{
		cfg:       cfg,
		topics:    topics,
		encoder:   enc,
		publisher: publisher,
		tracer:    tracer.NewNoop(),
		observer:  observability.NewNoOpObserver(),
	}
}

// WithTracer sets the tracer and returns d.
func (d *Dispatcher) WithTracer(t tracer.Tracer) *Dispatcher {
	if t != nil {
		d.tracer = t
	}
	return d
}

// WithObserver sets the operation observer and returns d.
func (d *Dispatcher) WithObserver(o observability.Observer) *Dispatcher {
	d.observer = observability.OrNoOp(o)
	return d
}

// WithLogger sets the logger and returns d.
func (d *Dispatcher) WithLogger(l Logger) *Dispatcher {
	d.logger = l
	return d
}

// Mode reports the encoding mode in use.
func (d *Dispatcher) Mode() encoder.Mode {
	return d.encoder.Mode()
}

// Publish validates, encodes, enqueues and flushes ev. On success the
// broker has acknowledged the record and the validated record is returned.
func (d *Dispatcher) Publish(ctx context.Context, ev Event) (rec *record.Record, err error) {
	start := time.Now()
	ctx, span := d.tracer.StartSpan(ctx, "emitter.publish")
	defer span.End()

	var topic string
	var size int
	defer func() {
		span.RecordError(err)
		d.observer.ObserveOperation(observability.OperationContext{
			Component:   "emitter",
			Operation:   "publish",
			Resource:    topic,
			SubResource: ev.Version.String(),
			Duration:    time.Since(start),
			Error:       err,
			Size:        int64(size),
			Metadata: map[string]interface{}{
				"kind": ev.Kind.String(),
				"mode": d.encoder.Mode().String(),
			},
		})
	}()

	span.SetAttributes(map[string]interface{}{
		"airflow.kind":    ev.Kind.String(),
		"airflow.version": ev.Version.String(),
		"encoder.mode":    d.encoder.Mode().String(),
	})

	shape, err := record.Lookup(ev.Kind, ev.Version)
	if err != nil {
		return nil, err
	}
	rec, err = shape.Validate(ev.Fields)
	if err != nil {
		return nil, err
	}
	key, err := d.key(shape, rec, ev)
	if err != nil {
		return nil, err
	}

	topic, err = d.topics.Topic(ev.Kind, ev.Version)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(map[string]interface{}{"messaging.destination": topic})

	encoded, err := d.encoder.Encode(ctx, topic, ev.Version, rec, key)
	if err != nil {
		return nil, err
	}
	size = len(encoded.Value)

	err = d.publisher.Enqueue(ctx, kafka.Message{
		Topic:   topic,
		Key:     encoded.Key,
		Value:   encoded.Value,
		Headers: d.headers(ctx, ev.Headers),
	})
	if err != nil {
		err = &PublishError{Topic: topic, Err: err}
		d.logError(ctx, "failed to enqueue event", err, topic)
		return nil, err
	}

	if pending := d.publisher.Flush(d.cfg.FlushTimeout); pending > 0 {
		err = &FlushTimeoutError{Topic: topic, Pending: pending, Timeout: d.cfg.FlushTimeout}
		d.logError(ctx, "event delivery unconfirmed", err, topic)
		return nil, err
	}

	return rec, nil
}

func (d *Dispatcher) key(shape *record.Shape, rec *record.Record, ev Event) (*record.Record, error) {
	switch {
	case ev.NoKey:
		return nil, nil
	case ev.Key != nil:
		return shape.ValidateKey(ev.Key)
	default:
		return rec.Key(), nil
	}
}

// headers copies the caller's headers and adds trace context when enabled.
func (d *Dispatcher) headers(ctx context.Context, in map[string]string) map[string]string {
	out := make(map[string]string, len(in)+2)
	for k, v := range in {
		out[k] = v
	}
	if d.cfg.PropagateTraceHeaders {
		for k, v := range d.tracer.GetCarrier(ctx) {
			out[k] = v
		}
	}
	return out
}

func (d *Dispatcher) logError(ctx context.Context, msg string, err error, topic string) {
	if d.logger != nil {
		d.logger.ErrorWithContext(ctx, msg, err, map[string]interface{}{"topic": topic})
	}
}

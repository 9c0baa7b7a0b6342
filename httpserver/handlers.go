package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aalemi-dev/airflow-relay/emitter"
	"github.com/aalemi-dev/airflow-relay/encoder"
	"github.com/aalemi-dev/airflow-relay/record"
	"github.com/gin-gonic/gin"
)

// Publisher is the dispatcher surface the handlers call.
type Publisher interface {
	Publish(ctx context.Context, ev emitter.Event) (*record.Record, error)
}

type errorDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type handlers struct {
	publisher Publisher
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// fromParams serves the legacy shapes, which arrive as query or form
// parameters.
func (h *handlers) fromParams(kind record.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			h.reject(c, "query", "invalid form parameters", "value_error")
			return
		}
		fields := make(map[string]interface{}, len(c.Request.Form))
		for name, values := range c.Request.Form {
			if len(values) > 0 {
				fields[name] = values[0]
			}
		}
		h.publish(c, "query", emitter.Event{Kind: kind, Version: record.Legacy, Fields: fields})
	}
}

// fromBody serves the versioned shapes, which arrive as a JSON object.
func (h *handlers) fromBody(kind record.Kind, version record.Version) gin.HandlerFunc {
	return func(c *gin.Context) {
		dec := json.NewDecoder(c.Request.Body)
		dec.UseNumber()

		var fields map[string]interface{}
		if err := dec.Decode(&fields); err != nil || fields == nil {
			h.reject(c, "body", "request body must be a JSON object", "json_invalid")
			return
		}
		h.publish(c, "body", emitter.Event{Kind: kind, Version: version, Fields: fields})
	}
}

func (h *handlers) publish(c *gin.Context, loc string, ev emitter.Event) {
	ev.Headers = map[string]string{requestIDHeader: c.GetString(requestIDKey)}

	rec, err := h.publisher.Publish(c.Request.Context(), ev)
	if err != nil {
		_ = c.Error(err)

		var vErr *record.ValidationError
		if errors.As(err, &vErr) {
			details := make([]errorDetail, 0, len(vErr.Problems))
			for _, p := range vErr.Problems {
				details = append(details, errorDetail{Loc: []string{loc, p.Field}, Msg: p.Reason, Type: "value_error"})
			}
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": details})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": failureDetail(err)})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *handlers) reject(c *gin.Context, loc, msg, typ string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []errorDetail{{Loc: []string{loc}, Msg: msg, Type: typ}}})
}

func failureDetail(err error) string {
	var (
		timeout  *emitter.FlushTimeoutError
		notFound *encoder.SchemaNotFoundError
		regErr   *encoder.SchemaRegistrationError
		serErr   *encoder.SerializationError
	)
	switch {
	case errors.As(err, &timeout):
		return "Failed to flush messages to Kafka"
	case errors.As(err, &notFound):
		return "Schema not found for topic"
	case errors.As(err, &regErr):
		return "Failed to register schema: " + regErr.Err.Error()
	case errors.As(err, &serErr):
		return "Failed to serialize message: " + serErr.Err.Error()
	default:
		return err.Error()
	}
}

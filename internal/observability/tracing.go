package observability

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Span times one unit of work inside a request. Spans are kept in process
// and surface through the logs only.
type Span struct {
	TraceID   string            `json:"trace_id"`
	SpanID    string            `json:"span_id"`
	ParentID  string            `json:"parent_id,omitempty"`
	Operation string            `json:"operation"`
	StartTime time.Time         `json:"start_time"`
	EndTime   *time.Time        `json:"end_time,omitempty"`
	Duration  *time.Duration    `json:"duration,omitempty"`
	Tags      map[string]string `json:"tags,omitempty"`
	Status    SpanStatus        `json:"status"`
	Error     string            `json:"error,omitempty"`
}

type SpanStatus string

const (
	SpanStatusOK    SpanStatus = "OK"
	SpanStatusError SpanStatus = "ERROR"
)

type spanContextKey struct{}

// StartSpan opens a span as a child of the span in ctx, if any.
func StartSpan(ctx context.Context, operation string) (context.Context, *Span) {
	span := &Span{
		TraceID:   newID(),
		SpanID:    newID(),
		Operation: operation,
		StartTime: time.Now(),
		Status:    SpanStatusOK,
	}

	if parent := GetSpan(ctx); parent != nil {
		span.ParentID = parent.SpanID
		span.TraceID = parent.TraceID
	}

	return context.WithValue(ctx, spanContextKey{}, span), span
}

// Finish records the end time. Calling it again keeps the first end time.
func (s *Span) Finish() {
	if s.EndTime != nil {
		return
	}
	now := time.Now()
	duration := now.Sub(s.StartTime)
	s.EndTime = &now
	s.Duration = &duration
}

func (s *Span) SetTag(key, value string) {
	if s.Tags == nil {
		s.Tags = make(map[string]string)
	}
	s.Tags[key] = value
}

func (s *Span) SetError(err error) {
	s.Status = SpanStatusError
	if err != nil {
		s.Error = err.Error()
	}
}

// LogValue implements slog.LogValuer.
func (s *Span) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("operation", s.Operation),
		slog.String("trace_id", s.TraceID),
		slog.String("span_id", s.SpanID),
		slog.String("status", string(s.Status)),
	}
	if s.ParentID != "" {
		attrs = append(attrs, slog.String("parent_id", s.ParentID))
	}
	if s.Duration != nil {
		attrs = append(attrs, slog.Duration("duration", *s.Duration))
	}
	for k, v := range s.Tags {
		attrs = append(attrs, slog.String("tag."+k, v))
	}
	if s.Error != "" {
		attrs = append(attrs, slog.String("error", s.Error))
	}
	return slog.GroupValue(attrs...)
}

func GetSpan(ctx context.Context) *Span {
	if span, ok := ctx.Value(spanContextKey{}).(*Span); ok {
		return span
	}
	return nil
}

func newID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:16]
}

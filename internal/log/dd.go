package log

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// WithDD returns base enriched with Datadog correlation fields when ctx
// carries a span. IDs are rendered as decimal strings, which is what the
// Datadog log pipeline matches on.
func WithDD(ctx context.Context, base *zap.Logger, extra ...zap.Field) *zap.Logger {
	if sp, ok := tracer.SpanFromContext(ctx); ok && sp != nil {
		sc := sp.Context()
		extra = append(extra,
			zap.String("dd.trace_id", strconv.FormatUint(sc.TraceID(), 10)),
			zap.String("dd.span_id", strconv.FormatUint(sc.SpanID(), 10)),
		)
	}
	if id := RequestID(ctx); id != "" {
		extra = append(extra, zap.String("request_id", id))
	}
	return base.With(extra...)
}

// Ctx is WithDD over the process logger.
func Ctx(ctx context.Context, extra ...zap.Field) *zap.Logger {
	return WithDD(ctx, L(), extra...)
}

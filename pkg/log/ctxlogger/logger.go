package ctxlogger

import (
	"context"
	"sync/atomic"

	"github.com/smallbiznis/invoicer/pkg/telemetry/correlation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type taskKey struct{}

var serviceName atomic.Pointer[string]

// SetServiceName configures the service name added to every log entry.
func SetServiceName(name string) {
	serviceName.Store(&name)
}

// ForTask starts a correlated unit of work, such as a best-effort side
// effect, and returns a logger carrying its correlation and trace ids.
func ForTask(ctx context.Context, base *zap.Logger, task string) (context.Context, *zap.Logger) {
	ctx, _ = correlation.EnsureCorrelationID(ctx)
	if task != "" {
		ctx = context.WithValue(ctx, taskKey{}, task)
	}
	return ctx, WithContext(ctx, base)
}

// WithContext enriches the provided logger using metadata in the context.
func WithContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil || base == nil {
		return base
	}

	fields := make([]zap.Field, 0, 5)
	if cid := correlation.ExtractCorrelationID(ctx); cid != "" {
		fields = append(fields, zap.String("correlation_id", cid))
	}
	fields = append(fields, ExtractTrace(ctx)...)

	if namePtr := serviceName.Load(); namePtr != nil {
		fields = append(fields, zap.String("service_name", *namePtr))
	}
	if task, ok := ctx.Value(taskKey{}).(string); ok && task != "" {
		fields = append(fields, zap.String("task", task))
	}

	return base.With(fields...)
}

// ExtractTrace pulls tracing identifiers from the context span.
func ExtractTrace(ctx context.Context) []zap.Field {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}

package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var globalTracer trace.Tracer

// InitGlobalTracer initializes the global tracer for the application.
func InitGlobalTracer() {
	globalTracer = otel.Tracer("mindnotes")
}

// GetGlobalTracer returns the global tracer instance for the application.
func GetGlobalTracer() trace.Tracer {
	if globalTracer == nil {
		// Fallback to default tracer if not initialized
		globalTracer = otel.Tracer("mindnotes")
	}
	return globalTracer
}

// TraceFunction starts a new span with a descriptive name for the given service and function.
func TraceFunction(ctx context.Context, serviceName, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := GetGlobalTracer()
	spanName := fmt.Sprintf("%s.%s", serviceName, functionName)
	return tracer.Start(ctx, spanName, trace.WithAttributes(attributes...))
}

// TraceCatalogFunction starts a new span for a content catalog operation.
func TraceCatalogFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "catalog", functionName, attributes...)
}

// TraceDailySetFunction starts a new span for a daily set operation.
func TraceDailySetFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "dailyset", functionName, attributes...)
}

// TraceResponseFunction starts a new span for a response recording operation.
func TraceResponseFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "response", functionName, attributes...)
}

// TraceStreakFunction starts a new span for a streak calculation.
func TraceStreakFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "streak", functionName, attributes...)
}

// TraceReplenisherFunction starts a new span for a replenisher operation.
func TraceReplenisherFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "replenisher", functionName, attributes...)
}

// TraceWorkerFunction starts a new span for a worker function.
func TraceWorkerFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "worker", functionName, attributes...)
}

// TraceDatabaseFunction starts a new span for a database function.
func TraceDatabaseFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "database", functionName, attributes...)
}

// AttributeUserID returns a tracing attribute for a user ID.
func AttributeUserID(id int) attribute.KeyValue {
	return attribute.Int("user.id", id)
}

// AttributeItemID returns a tracing attribute for a content item ID.
func AttributeItemID(id int64) attribute.KeyValue {
	return attribute.Int64("item.id", id)
}

// AttributeDate returns a tracing attribute for a calendar date.
func AttributeDate(date time.Time) attribute.KeyValue {
	return attribute.String("date", date.Format("2006-01-02"))
}

// AttributeCategory returns a tracing attribute for a content category.
func AttributeCategory(category string) attribute.KeyValue {
	return attribute.String("category", category)
}

// AttributeCount returns a tracing attribute for a count value.
func AttributeCount(count int) attribute.KeyValue {
	return attribute.Int("count", count)
}

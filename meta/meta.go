// Package meta carries request and task scoped values through context.
package meta

import "context"

// ContextKey is a type for keys used in context values for metadata.
type ContextKey string

const (
	// TraceID identifies one request or task across components.
	TraceID ContextKey = "trace_id"

	// ResourceID is the resource being processed.
	ResourceID ContextKey = "resource_id"

	// OwnerID is the owner of the resource being processed.
	OwnerID ContextKey = "owner_id"

	// OperationID is the executed operation whose outputs are being converted.
	OperationID ContextKey = "operation_id"

	// TaskKind names the background task being handled.
	TaskKind ContextKey = "task_kind"

	// IPAddress contains the client's IP address.
	IPAddress ContextKey = "ip_address"

	// UserAgent contains the user agent string from the request.
	UserAgent ContextKey = "user_agent"

	// ServiceName identifies the name of current running service.
	ServiceName ContextKey = "service_name"

	// ServiceVersion indicates the version of the service.
	ServiceVersion ContextKey = "service_version"
)

//nolint:gochecknoglobals // fixed lookup order for extraction
var allKeys = []ContextKey{
	TraceID,
	ResourceID,
	OwnerID,
	OperationID,
	TaskKind,
	IPAddress,
	UserAgent,
	ServiceName,
	ServiceVersion,
}

// InjectMetaToContext adds the non-empty values of data to ctx.
func InjectMetaToContext(ctx context.Context, data map[ContextKey]string) context.Context {
	for k, v := range data {
		if v != "" {
			ctx = context.WithValue(ctx, k, v) //nolint:fatcontext // allow due to finite number of keys
		}
	}
	return ctx
}

// With is a shorthand for injecting a single key.
func With(ctx context.Context, key ContextKey, value string) context.Context {
	return InjectMetaToContext(ctx, map[ContextKey]string{key: value})
}

// ExtractMetaFromContext returns every known, non-empty metadata value found in ctx.
func ExtractMetaFromContext(ctx context.Context) map[ContextKey]string {
	data := make(map[ContextKey]string)
	for _, k := range allKeys {
		if v, ok := ctx.Value(k).(string); ok && v != "" {
			data[k] = v
		}
	}
	return data
}

// Find returns the value stored under key or an empty string.
func Find(ctx context.Context, key ContextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

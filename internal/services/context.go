package services

import "context"

type contextKey string

const (
	videoIDKey   contextKey = "video_id"
	sourceURLKey contextKey = "source_url"
	requestIDKey contextKey = "request_id"
)

// WithVideoID annotates context with the remote video identifier.
func WithVideoID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, videoIDKey, id)
}

// VideoIDFromContext extracts the video identifier if present.
func VideoIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(videoIDKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithSourceURL annotates context with the URL being processed.
func WithSourceURL(ctx context.Context, url string) context.Context {
	if url == "" {
		return ctx
	}
	return context.WithValue(ctx, sourceURLKey, url)
}

// SourceURLFromContext returns the source URL if present.
func SourceURLFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(sourceURLKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(requestIDKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

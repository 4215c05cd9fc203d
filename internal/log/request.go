package log

import "context"

type reqIDKey struct{}

// WithRequestID stores the request id for loggers and event headers
// further down the call chain.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reqIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(reqIDKey{}).(string)
	return id
}

package context

import (
	stdcontext "context"
	"strings"
)

type requestIDKey struct{}
type clientIPKey struct{}

func WithRequestID(ctx stdcontext.Context, requestID string) stdcontext.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return stdcontext.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx stdcontext.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey{}).(string)
	return value
}

func WithClientIP(ctx stdcontext.Context, ip string) stdcontext.Context {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return ctx
	}
	return stdcontext.WithValue(ctx, clientIPKey{}, ip)
}

func ClientIPFromContext(ctx stdcontext.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(clientIPKey{}).(string)
	return value
}

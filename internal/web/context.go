package web

import (
	"context"
	"net/http"
)

type contextKey string

const (
	viewerCtxKey    = contextKey("viewer")
	requestIDCtxKey = contextKey("request_id")
)

func AddValueToContext(r *http.Request, key contextKey, value any) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, key, value)
	return r.WithContext(ctx)
}

func GetValueFromContext[T any](r *http.Request, key contextKey) (T, bool) {
	val := r.Context().Value(key)
	if val == nil {
		var zero T
		return zero, false
	}
	tVal, ok := val.(T)

	if !ok {
		var zero T
		return zero, false
	}

	return tVal, true
}

package app

import (
	"context"
	"net/http"
)

const (
	SessionKeyUserId = "userId"
	SessionKeyRole   = "role"
)

type contextKey string

const userIdContextKey = contextKey("userId")

func contextSetUserId(r *http.Request, userId int) *http.Request {
	ctx := context.WithValue(r.Context(), userIdContextKey, userId)
	return r.WithContext(ctx)
}

// contextGetUserId returns the authenticated user's id. It panics when called
// from a handler that is not behind requireAuthentication.
func contextGetUserId(r *http.Request) int {
	userId, ok := r.Context().Value(userIdContextKey).(int)
	if !ok {
		panic("missing user id in request context")
	}

	return userId
}

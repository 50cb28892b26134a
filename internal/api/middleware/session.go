package middleware

import (
	"context"
	"net/http"
	"strings"

	"roomd/internal/api/apierr"
	"roomd/internal/model"
	"roomd/internal/services/identity"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Session creates middleware that resolves the request's session token to
// its claimed identity. Requests without a resolvable claim are rejected.
func Session(identityService *identity.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			ident, err := identityService.ResolveSession(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken extracts the session token from the request. EventSource
// clients cannot set headers, so a query parameter is accepted as well.
func ExtractToken(r *http.Request) string {
	if token := r.Header.Get("X-Session-Token"); token != "" {
		return token
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return r.URL.Query().Get("session_token")
}

// GetIdentity returns the resolved identity from the request context
func GetIdentity(ctx context.Context) *model.Identity {
	ident, _ := ctx.Value(identityContextKey).(*model.Identity)
	return ident
}

// MustGetIdentity returns the resolved identity or panics
func MustGetIdentity(ctx context.Context) *model.Identity {
	ident := GetIdentity(ctx)
	if ident == nil {
		panic("no identity in context - session middleware not applied?")
	}
	return ident
}

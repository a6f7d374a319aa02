// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"contentadmin/internal/auth"
	"contentadmin/internal/domain"
	"contentadmin/internal/httputil"
	"contentadmin/internal/models"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// ClaimsKey is the context key for the verified token claims.
	ClaimsKey contextKey = "claims"
)

// RevocationChecker reports whether a token ID has been revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RequireAuth verifies the bearer token and stores its claims in the
// request context. Requests without a valid, unrevoked token get a 401.
// revoked may be nil when no revocation store is configured.
func RequireAuth(tokens *auth.TokenIssuer, revoked RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "Authentication required. Please log in.")
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				var ue *domain.UnauthorizedError
				if errors.As(err, &ue) {
					httputil.RespondError(w, http.StatusUnauthorized, ue.Message)
					return
				}
				httputil.RespondErr(w, r, err)
				return
			}

			if revoked != nil && claims.ID != "" {
				isRevoked, err := revoked.IsRevoked(r.Context(), claims.ID)
				if err != nil {
					// Valkey down: the signature and expiry checks still hold.
					slog.Warn("revocation check failed", "error", err, "jti", claims.ID)
				} else if isRevoked {
					httputil.RespondError(w, http.StatusUnauthorized, "Token has been revoked.")
					return
				}
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns 403 unless the authenticated user has one of roles.
// Must be applied after RequireAuth.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromCtx(r.Context())
			if claims == nil {
				httputil.RespondError(w, http.StatusUnauthorized, "Authentication required. Please log in.")
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			httputil.RespondError(w, http.StatusForbidden, "Insufficient permissions for this action.")
		})
	}
}

// ClaimsFromCtx extracts the token claims from the request context.
// Returns nil if the request was not authenticated.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

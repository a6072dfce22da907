package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sakif/skill-tracker/internal/apperror"
)

// contextKey is an unexported type for context keys in this package, so
// no other package can read or shadow the claims value.
type contextKey string

const claimsKey contextKey = "claims"

// RequireAuth gates protected routes on a bearer token.
//
// The token is read from the Authorization header ("Bearer <token>").
// A missing token stops the chain with 401; a token that fails signature
// or expiry checks stops it with 403. On success the decoded claims are
// stored in the request context for downstream handlers.
//
// The check touches no shared mutable state and performs no store lookup:
// each request is judged independently on the token alone.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeAuthError(w, apperror.MissingToken())
				return
			}

			claims, err := tokens.Validate(raw)
			if err != nil {
				writeAuthError(w, apperror.InvalidToken("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext retrieves the verified token claims from the request
// context. Returns (nil, false) when the request was not admitted by
// RequireAuth.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok && claims != nil
}

// bearerToken extracts the credential from the Authorization header.
// The scheme comparison is case-insensitive.
func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}

	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// writeAuthError maps a token-taxonomy error to its status and emits the
// standard {error, message} shape without importing the handler package
// (which would create an import cycle). ErrMissingToken is the 401 case;
// everything else here is ErrInvalidToken and gets 403.
func writeAuthError(w http.ResponseWriter, appErr *apperror.AppError) {
	status, errType := http.StatusForbidden, "forbidden"
	if errors.Is(appErr, apperror.ErrMissingToken) {
		status, errType = http.StatusUnauthorized, "unauthorized"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errType,
		"message": appErr.Message,
	})
}

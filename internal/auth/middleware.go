package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey struct{}

var identityKey contextKey

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// Middleware verifies the bearer access token on every request and injects
// the resolved identity into the request context. A missing, malformed,
// expired, or forged token is rejected with the same 403 so the response
// carries no detail about why verification failed.
func Middleware(codec *TokenCodec, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			writeError(w, http.StatusForbidden, "invalid token")
			return
		}

		claims, err := codec.VerifyAccess(strings.TrimSpace(parts[1]))
		if err != nil {
			writeError(w, http.StatusForbidden, "invalid token")
			return
		}

		identity := Identity{ID: claims.UserID, Username: claims.Username}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
	})
}

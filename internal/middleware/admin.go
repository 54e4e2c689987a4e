package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"konstruksi-backend/internal/auth"
	"konstruksi-backend/internal/transport"
)

type adminSubjectKey struct{}

// AdminAuth gates the CMS routes. A request passes with the static admin key
// header or with a valid access cookie carrying the admin role.
func AdminAuth(adminKey string, manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey == "" && manager == nil {
				transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
				return
			}

			if adminKey != "" {
				if key := r.Header.Get("X-Admin-Key"); key != "" && subtle.ConstantTimeCompare([]byte(key), []byte(adminKey)) == 1 {
					ctx := context.WithValue(r.Context(), adminSubjectKey{}, "api-key")
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			if manager != nil {
				cookie, err := r.Cookie(auth.AccessCookieName)
				if err == nil && cookie.Value != "" {
					claims, err := manager.ParseKind(cookie.Value, auth.TokenAccess)
					if err == nil && claims.Role == auth.RoleAdmin {
						ctx := context.WithValue(r.Context(), adminSubjectKey{}, claims.Subject)
						next.ServeHTTP(w, r.WithContext(ctx))
						return
					}
				}
			}

			transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		})
	}
}

// AdminSubjectFromContext returns the authenticated admin username, or
// "api-key" for requests authorised by the static key.
func AdminSubjectFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(adminSubjectKey{}).(string); ok {
		return v
	}
	return ""
}

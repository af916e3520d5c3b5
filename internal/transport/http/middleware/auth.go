package middleware

import (
	"net/http"
	"strings"

	"hrms/internal/domain/auth"
	"hrms/internal/requestctx"
	"hrms/internal/transport/http/api"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authenticate parses an Authorization bearer token when present and
// attaches the claims to the request context. It never rejects by
// itself, route gates do that.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				token := strings.TrimPrefix(header, "Bearer ")
				if claims, err := verifier.Verify(token); err == nil {
					r = r.WithContext(requestctx.WithClaims(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests without valid claims.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestctx.GetClaims(r.Context()) == nil {
			api.Fail(w, http.StatusUnauthorized, "unauthorized",
				"authentication required", requestctx.GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePayrollManager allows only roles that may administer payroll.
func RequirePayrollManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := requestctx.GetClaims(r.Context())
		if claims == nil {
			api.Fail(w, http.StatusUnauthorized, "unauthorized",
				"authentication required", requestctx.GetRequestID(r.Context()))
			return
		}
		if !auth.CanManagePayroll(claims.Role) {
			api.Fail(w, http.StatusForbidden, "forbidden",
				"payroll administration requires an admin or hr role", requestctx.GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"hrms/internal/requestctx"
	"hrms/internal/transport/http/api"
)

// Recoverer converts panics into a 500 response instead of tearing down
// the connection.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						slog.Any("panic", rec),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())),
					)
					api.Fail(w, http.StatusInternalServerError, "internal_error",
						"internal server error", requestctx.GetRequestID(r.Context()))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

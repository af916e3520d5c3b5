package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"hrms/internal/requestctx"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns each request a correlation id, honouring one supplied
// by the caller, and echoes it back on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, requestID)
		ctx := requestctx.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

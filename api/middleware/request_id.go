package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/korzewarrior/smartkart/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with an id, echoed in the response header and
// attached to the request-scoped logger. The UI poll loop fires several
// requests a second, so correlating a snapshot with its log lines needs the
// id. Inbound ids are honored so a caller can thread its own.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, id)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, id)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

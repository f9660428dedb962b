package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/kiranshivaraju/medconsensus/internal/api/response"
)

// Recovery turns a handler panic into a 500 carrying the request ID so the
// caller can quote it. http.ErrAbortHandler is re-raised for net/http to
// abort the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rv := recover()
			if rv == nil {
				return
			}
			if rv == http.ErrAbortHandler {
				panic(rv)
			}

			id := GetRequestID(r.Context())
			slog.Error("panic recovered",
				"panic", rv,
				"stack", string(debug.Stack()),
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", id,
			)

			var details any
			if id != "" {
				details = map[string]string{"request_id": id}
			}
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "An unexpected error occurred", details)
		}()
		next.ServeHTTP(w, r)
	})
}

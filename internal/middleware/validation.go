package middleware

import (
	"mime"
	"net/http"
	"strings"
)

// RequireContentType returns a middleware that rejects requests carrying a
// body whose media type is not one of types. Requests without a body pass.
func RequireContentType(types ...string) func(http.Handler) http.Handler {
	accepted := make(map[string]bool, len(types))
	for _, t := range types {
		accepted[strings.ToLower(t)] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength == 0 || r.Method == http.MethodGet || r.Method == http.MethodDelete {
				next.ServeHTTP(w, r)
				return
			}

			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || !accepted[mediaType] {
				writeError(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE",
					"Content-Type must be one of: "+strings.Join(types, ", "))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

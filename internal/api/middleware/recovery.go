package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
	"github.com/xbeat/certicredia-sub000/internal/pkg/logger"
	"github.com/xbeat/certicredia-sub000/internal/pkg/utils"
)

// Recovery returns a middleware that recovers from panics
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error":      err,
						"stack":      string(debug.Stack()),
						"method":     r.Method,
						"path":       r.URL.Path,
						"request_id": GetRequestID(r),
					}).Error("Panic recovered")

					utils.WriteError(w, errors.Internal(
						"Internal server error",
						fmt.Errorf("panic: %v", err),
					))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

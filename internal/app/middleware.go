package app

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router) {
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			started := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, req)
			entry := log.WithFields(log.Fields{
				"method":   req.Method,
				"path":     req.URL.Path,
				"status":   rec.status,
				"duration": time.Since(started).String(),
			})
			if rec.status >= http.StatusInternalServerError {
				entry.Warn("request failed")
			} else {
				entry.Debug("request handled")
			}
		})
	})
}

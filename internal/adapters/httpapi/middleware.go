package httpapi

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const apiKeyHeader = "x-api-key"

// APIKeyAuth validates the x-api-key header with a constant-time compare.
// Missing key: 401; mismatched key: 403. The configured key never appears in
// responses or logs.
func APIKeyAuth(apiKey string, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get(apiKeyHeader)
			if presented == "" {
				logger.Warn("API request without API key", zap.String("path", r.URL.Path))
				writeError(w, http.StatusUnauthorized, "Missing API key")
				return
			}

			if subtle.ConstantTimeCompare([]byte(presented), []byte(apiKey)) != 1 {
				logger.Warn("Invalid API key attempt", zap.String("path", r.URL.Path))
				writeError(w, http.StatusForbidden, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger logs each request with a generated request ID.
func RequestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			requestID := uuid.NewString()

			w.Header().Set("X-Request-Id", requestID)
			next.ServeHTTP(w, r)

			logger.Info("Request handled",
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("elapsed", time.Since(started)))
		})
	}
}

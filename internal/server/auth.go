// Package server provides the HTTP API server, middleware, and handlers
// for Eventra.
package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/eventra-io/eventra/internal/actor"
	"github.com/eventra-io/eventra/internal/identity"
)

// AuthMiddleware validates X-Eventra-Key or Authorization: Bearer <key>
// and sets the acting identity in context. apiKeys maps key -> identity.
func AuthMiddleware(apiKeys map[string]identity.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-Eventra-Key")
			if key == "" {
				if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
					key = strings.TrimPrefix(auth, "Bearer ")
				}
			}
			if key == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid or missing API key")
				return
			}
			var id identity.Identity
			var found bool
			for k, candidate := range apiKeys {
				if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
					id = candidate
					found = true
					break
				}
			}
			if !found {
				writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid or missing API key")
				return
			}
			next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
		})
	}
}

// RateLimitMiddleware throttles per acting identity and returns 429
// with Retry-After when exceeded.
func RateLimitMiddleware(limiter *actor.Limiter) func(http.Handler) http.Handler {
	if limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identity.From(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.Allow(id) {
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":   "rate_limit_exceeded",
					"message": "too many requests for this actor",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeError writes a JSON error response. Defined here so
// AuthMiddleware can use it; handlers.go uses the same helper.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code, "message": message})
}

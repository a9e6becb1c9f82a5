package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// NewCORS allows the listed origins to read and trigger calculations.
// The API has no credentials, so cookies are never forwarded.
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	})
}

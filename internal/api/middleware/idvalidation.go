// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Fund-Investment-Results/internal/api/response"
	"github.com/ndewijer/Fund-Investment-Results/internal/validation"
)

// ValidateInvestmentID validates that the investmentId URL parameter is a positive integer.
// Returns 400 Bad Request if the investment ID is missing or invalid.
//
// Example usage in router:
//
//	r.Route("/{investmentId}", func(r chi.Router) {
//	    r.Use(middleware.ValidateInvestmentID)
//	    r.Get("/", handler.InvestmentFunds)
//	})
func ValidateInvestmentID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "investmentId")

		if raw == "" {
			response.RespondError(w, http.StatusBadRequest, "investment ID is required", "")
			return
		}

		if _, err := validation.ParseInvestmentID(raw); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid investment ID", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

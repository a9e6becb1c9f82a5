package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Fund-Investment-Results/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Fund-Investment-Results/internal/api/middleware"
	"github.com/ndewijer/Fund-Investment-Results/internal/config"
	"github.com/ndewijer/Fund-Investment-Results/internal/service"
)

// Services groups the services the HTTP API delegates to.
type Services struct {
	System     *service.SystemService
	Fund       *service.FundService
	Quotation  *service.QuotationService
	Investment *service.InvestmentService
	Result     *service.ResultService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(services.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/fund", func(r chi.Router) {
			fundHandler := handlers.NewFundHandler(services.Fund, services.Quotation)
			r.Get("/", fundHandler.Funds)
			r.Post("/", fundHandler.RegisterFunds)
			r.Put("/quotation", fundHandler.UpdateQuotations)

			r.Route("/{fundId}", func(r chi.Router) {
				r.Get("/quotation", fundHandler.Quotations)
				r.Put("/quotation", fundHandler.UpdateFundQuotations)
			})
		})

		r.Route("/investment", func(r chi.Router) {
			investmentHandler := handlers.NewInvestmentHandler(services.Investment, services.Result)
			r.Get("/", investmentHandler.Investments)
			r.Post("/", investmentHandler.ImportInvestments)
			r.Put("/result", investmentHandler.CalculateAllResults)

			r.Route("/{investmentId}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateInvestmentID)
				r.Get("/", investmentHandler.Investment)
				r.Put("/result", investmentHandler.CalculateResult)
				r.Get("/result", investmentHandler.Results)
			})
		})
	})

	return r
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Fund-Investment-Results/internal/api/request"
	"github.com/ndewijer/Fund-Investment-Results/internal/api/response"
	"github.com/ndewijer/Fund-Investment-Results/internal/apperrors"
	"github.com/ndewijer/Fund-Investment-Results/internal/service"
	"github.com/ndewijer/Fund-Investment-Results/internal/validation"
)

// FundHandler handles HTTP requests for fund and quotation endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the fund and quotation services.
type FundHandler struct {
	fundService      *service.FundService
	quotationService *service.QuotationService
}

// NewFundHandler creates a new FundHandler with the provided service dependencies.
func NewFundHandler(fundService *service.FundService, quotationService *service.QuotationService) *FundHandler {
	return &FundHandler{
		fundService:      fundService,
		quotationService: quotationService,
	}
}

// Funds handles GET requests to retrieve all funds with their last quotation date.
//
// Endpoint: GET /api/fund
// Response: 200 OK with array of model.FundListing
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) Funds(w http.ResponseWriter, r *http.Request) {
	funds, err := h.fundService.GetFunds(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveFunds.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, funds)
}

// RegisterFunds handles POST requests registering funds from their page URLs.
//
// Endpoint: POST /api/fund
// Request Body: array of fund URLs
// Response: 200 OK with model.FundRegistrationReport, 206 if any URL failed
// Error: 400 Bad Request if the body is invalid or empty
// Error: 500 Internal Server Error if registration fails
func (h *FundHandler) RegisterFunds(w http.ResponseWriter, r *http.Request) {
	urls, err := parseJSON[[]string](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	report, err := h.fundService.RegisterFunds(r.Context(), request.RegisterFundsRequest{FundsToCheckURLs: urls})
	if err != nil {
		if isValidationError(err) {
			response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRegisterFunds.Error(), err.Error())
		return
	}

	response.RespondJSON(w, importStatusCode(report.Status), report)
}

// Quotations handles GET requests to retrieve the stored quotations of a fund.
//
// Endpoint: GET /api/fund/{fundId}/quotation?start_date=YYYY-MM-DD
// Response: 200 OK with array of model.Quotation
// Error: 400 Bad Request if start_date is invalid
// Error: 404 Not Found if the fund is not registered
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) Quotations(w http.ResponseWriter, r *http.Request) {
	fundID := chi.URLParam(r, "fundId")

	startDate, _, err := validation.ParseDateRange(r.URL.Query().Get("start_date"), "")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDate.Error(), err.Error())
		return
	}

	quotations, err := h.quotationService.GetQuotations(r.Context(), fundID, startDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), fundID)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveQuotations.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, quotations)
}

// UpdateQuotations handles PUT requests downloading new quotations for every fund.
//
// Endpoint: PUT /api/fund/quotation
// Response: 200 OK with model.QuotationUpdateReport, 206 if any fund failed
// Error: 500 Internal Server Error if the funds cannot be listed
func (h *FundHandler) UpdateQuotations(w http.ResponseWriter, r *http.Request) {
	h.updateQuotations(w, r, "")
}

// UpdateFundQuotations handles PUT requests downloading new quotations for one fund.
//
// Endpoint: PUT /api/fund/{fundId}/quotation
// Response: 200 OK with model.QuotationUpdateReport, 206 if the fund failed
// Error: 404 Not Found if the fund is not registered
// Error: 500 Internal Server Error if the update cannot start
func (h *FundHandler) UpdateFundQuotations(w http.ResponseWriter, r *http.Request) {
	h.updateQuotations(w, r, chi.URLParam(r, "fundId"))
}

func (h *FundHandler) updateQuotations(w http.ResponseWriter, r *http.Request, fundID string) {
	report, err := h.quotationService.UpdateQuotations(r.Context(), fundID)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), fundID)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdateQuotations.Error(), err.Error())
		return
	}

	status := http.StatusOK
	if !report.Success {
		status = http.StatusPartialContent
	}
	response.RespondJSON(w, status, report)
}

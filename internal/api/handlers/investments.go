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

// InvestmentHandler handles HTTP requests for investment and result endpoints.
type InvestmentHandler struct {
	investmentService *service.InvestmentService
	resultService     *service.ResultService
}

// NewInvestmentHandler creates a new InvestmentHandler with the provided service dependencies.
func NewInvestmentHandler(investmentService *service.InvestmentService, resultService *service.ResultService) *InvestmentHandler {
	return &InvestmentHandler{
		investmentService: investmentService,
		resultService:     resultService,
	}
}

// Investments handles GET requests listing every investment with its funds.
//
// Endpoint: GET /api/investment
// Response: 200 OK with array of model.InvestmentFund
// Error: 500 Internal Server Error if retrieval fails
func (h *InvestmentHandler) Investments(w http.ResponseWriter, r *http.Request) {
	funds, err := h.investmentService.GetInvestmentFunds(r.Context(), nil)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveInvestments.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, funds)
}

// Investment handles GET requests listing the funds of one investment.
//
// Endpoint: GET /api/investment/{investmentId}
// Response: 200 OK with array of model.InvestmentFund
// Error: 400 Bad Request if the investment ID is invalid (validated by middleware)
// Error: 404 Not Found if the investment does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *InvestmentHandler) Investment(w http.ResponseWriter, r *http.Request) {
	investmentID, err := validation.ParseInvestmentID(chi.URLParam(r, "investmentId"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid investment ID", err.Error())
		return
	}

	funds, err := h.investmentService.GetInvestmentFunds(r.Context(), &investmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvestmentNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrInvestmentNotFound.Error(), investmentID)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveInvestments.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, funds)
}

// ImportInvestments handles POST requests importing an owner's investments and orders.
//
// Endpoint: POST /api/investment
// Request Body: request.ImportInvestmentsRequest
// Response: 200 OK with model.InvestmentImportReport, 206 if any order failed
// Error: 400 Bad Request if the body is invalid
// Error: 500 Internal Server Error if the import fails
func (h *InvestmentHandler) ImportInvestments(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.ImportInvestmentsRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	report, err := h.investmentService.ImportInvestments(r.Context(), req)
	if err != nil {
		if isValidationError(err) {
			response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToImportInvestments.Error(), err.Error())
		return
	}

	response.RespondJSON(w, importStatusCode(report.Status), report)
}

// CalculateAllResults handles PUT requests calculating the results of every investment.
//
// Endpoint: PUT /api/investment/result
// Response: model.CalculationReport with the status code of the most severe outcome
func (h *InvestmentHandler) CalculateAllResults(w http.ResponseWriter, r *http.Request) {
	report := h.resultService.CalculateAllResults(r.Context())
	response.RespondJSON(w, calculationStatusCode(report.Status), report)
}

// CalculateResult handles PUT requests calculating the results of one investment.
//
// Endpoint: PUT /api/investment/{investmentId}/result
// Response: model.CalculationOutcome; 200 for success or no_op, 206 partial_failure,
// 404 not_found, 500 retrieval_failure
// Error: 400 Bad Request if the investment ID is invalid (validated by middleware)
func (h *InvestmentHandler) CalculateResult(w http.ResponseWriter, r *http.Request) {
	investmentID, err := validation.ParseInvestmentID(chi.URLParam(r, "investmentId"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid investment ID", err.Error())
		return
	}

	outcome := h.resultService.CalculateResult(r.Context(), investmentID)
	response.RespondJSON(w, calculationStatusCode(outcome.Status), outcome)
}

// Results handles GET requests retrieving the stored results of an investment.
//
// Endpoint: GET /api/investment/{investmentId}/result?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
// Response: 200 OK with array of model.InvestmentResult
// Error: 400 Bad Request if the investment ID or the date range is invalid
// Error: 404 Not Found if the investment does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *InvestmentHandler) Results(w http.ResponseWriter, r *http.Request) {
	investmentID, err := validation.ParseInvestmentID(chi.URLParam(r, "investmentId"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid investment ID", err.Error())
		return
	}

	startDate, endDate, err := validation.ParseDateRange(
		r.URL.Query().Get("start_date"),
		r.URL.Query().Get("end_date"),
	)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDate.Error(), err.Error())
		return
	}

	results, err := h.resultService.GetResults(r.Context(), investmentID, startDate, endDate)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidDateRange):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDateRange.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInvestmentNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrInvestmentNotFound.Error(), investmentID)
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveResults.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, results)
}

package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrInvestmentNotFound indicates that an investment with the given ID does not exist.
	ErrInvestmentNotFound = errors.New("investment not found")

	// ErrFundNotFound indicates that a fund with the given ID does not exist.
	ErrFundNotFound = errors.New("fund not found")

	// ErrQuotationSourceNotFound indicates that the quotation source has no series for a fund.
	ErrQuotationSourceNotFound = errors.New("fund not found at quotation source")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidInvestmentID indicates that an investment ID is not a positive integer.
	ErrInvalidInvestmentID = errors.New("investment ID must be a positive integer")

	// ErrInvalidFundURL indicates that a fund URL cannot be turned into a fund.
	ErrInvalidFundURL = errors.New("invalid fund URL")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Validation errors for required fields
	ErrInvalidFundID = errors.New("fund ID is required")
	ErrInvalidOwner  = errors.New("owner is required")
	ErrInvalidDate   = errors.New("date must be in YYYY-MM-DD format")
	ErrEmptyRequest  = errors.New("request contains nothing to process")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// Fund operation errors
	ErrFailedToRetrieveFunds      = errors.New("failed to retrieve funds")
	ErrFailedToRetrieveQuotations = errors.New("failed to retrieve quotations")
	ErrFailedToRegisterFunds      = errors.New("failed to register funds")
	ErrFailedToUpdateQuotations   = errors.New("failed to update quotations")

	// Investment operation errors
	ErrFailedToRetrieveInvestments = errors.New("failed to retrieve investments")
	ErrFailedToImportInvestments   = errors.New("failed to import investments")
	ErrFailedToRetrieveResults     = errors.New("failed to retrieve investment results")

	// Quotation source errors
	ErrFailedToDownloadQuotation = errors.New("failed to download quotation")
)

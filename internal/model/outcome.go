package model

import "time"

// CalculationStatus classifies the outcome of an investment result calculation.
type CalculationStatus string

const (
	StatusSuccess          CalculationStatus = "success"
	StatusNoOp             CalculationStatus = "no_op"
	StatusPartialFailure   CalculationStatus = "partial_failure"
	StatusNotFound         CalculationStatus = "not_found"
	StatusRetrievalFailure CalculationStatus = "retrieval_failure"
)

// severity orders statuses from least to most severe for aggregation.
func (s CalculationStatus) severity() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusNoOp:
		return 1
	case StatusPartialFailure:
		return 2
	case StatusNotFound:
		return 3
	case StatusRetrievalFailure:
		return 4
	}
	return 4
}

// Worse returns the more severe of s and other.
func (s CalculationStatus) Worse(other CalculationStatus) CalculationStatus {
	if other.severity() > s.severity() {
		return other
	}
	return s
}

// CalculationOutcome describes what a calculation did for one investment.
type CalculationOutcome struct {
	InvestmentID   int64             `json:"investmentId"`
	Status         CalculationStatus `json:"status"`
	Message        string            `json:"message"`
	LastResultDate *time.Time        `json:"lastResultDate,omitempty"`
	RowsWritten    int               `json:"rowsWritten"`
	RowsDeleted    int64             `json:"rowsDeleted,omitempty"`
	SkippedOrders  int               `json:"skippedOrders,omitempty"`
	Details        string            `json:"details,omitempty"`
}

// CalculationReport aggregates the outcomes of a calculation over all investments.
// Status is the most severe individual status, or success when there was nothing to calculate.
type CalculationReport struct {
	RunID    string               `json:"runId"`
	Status   CalculationStatus    `json:"status"`
	Message  string               `json:"message,omitempty"`
	Outcomes []CalculationOutcome `json:"outcomes"`
}

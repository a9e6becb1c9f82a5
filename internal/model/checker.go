package model

// CheckReport summarises one checker pass: the quotation refresh followed by the
// recalculation of investments that have newer quotations than results.
type CheckReport struct {
	RunID        string                `json:"runId"`
	Status       CalculationStatus     `json:"status"`
	Quotations   QuotationUpdateReport `json:"quotations"`
	Calculations []CalculationOutcome  `json:"calculations"`
}

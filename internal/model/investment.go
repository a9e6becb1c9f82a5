package model

import "time"

// Investment is an owner's named set of orders across one or more funds.
type Investment struct {
	ID    int64  `json:"investmentId"`
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

// InvestmentOrder is a single buy (positive Value) or sell (negative Value) of a fund
// within an investment. (InvestmentID, FundID, Date) identifies an order.
type InvestmentOrder struct {
	InvestmentID   int64     `json:"investmentId"`
	InvestmentName string    `json:"investmentName"`
	Owner          string    `json:"owner"`
	FundID         string    `json:"fundId"`
	Date           time.Time `json:"date"`
	Value          float64   `json:"value"`
}

// InvestmentFund pairs an investment with one of its funds and the date of the newest
// result calculated for that pair. LastResultDate is nil when nothing has been calculated.
type InvestmentFund struct {
	InvestmentID   int64      `json:"investmentId"`
	InvestmentName string     `json:"investmentName"`
	Owner          string     `json:"owner"`
	FundID         string     `json:"fundId"`
	LastResultDate *time.Time `json:"lastResultDate"`
}

// Order import statuses.
const (
	OrderAdded         = "added"
	OrderAlreadyExists = "already_exists"
	OrderFailed        = "failed"
)

// OrderImport is the per-order result of an investment import.
type OrderImport struct {
	InvestmentID   int64   `json:"investmentId,omitempty"`
	InvestmentName string  `json:"investmentName"`
	FundID         string  `json:"fundId"`
	Date           string  `json:"date"`
	Value          float64 `json:"value"`
	Status         string  `json:"status"`
	Details        string  `json:"details,omitempty"`
}

// InvestmentImportReport summarises an investment import.
type InvestmentImportReport struct {
	Status string        `json:"status"`
	Orders []OrderImport `json:"orders"`
}

package analizy

import (
	"time"

	"github.com/shopspring/decimal"
)

// Response represents the raw JSON document returned by the quotation endpoint.
// Values come back either as JSON numbers or as numeric strings depending on the fund,
// decimal.Decimal accepts both.
type Response struct {
	ID       string `json:"id"`
	Currency string `json:"currency"`
	Series   []struct {
		Price []struct {
			Date  string          `json:"date"`
			Value decimal.Decimal `json:"value"`
		} `json:"price"`
	} `json:"series"`
}

// Price is a single downloaded daily quotation.
type Price struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// GetDate returns the quotation day.
func (p Price) GetDate() time.Time { return p.Date }

package model

import "time"

// Quotation is a fund's price on a given day, with the relative change against the
// nearest earlier-or-equal quotation one day, week, month and year before.
// A nil change means no quotation existed at or before the comparison date.
type Quotation struct {
	FundID        string    `json:"fundId"`
	Date          time.Time `json:"date"`
	Value         float64   `json:"value"`
	DailyChange   *float64  `json:"dailyChange"`
	WeeklyChange  *float64  `json:"weeklyChange"`
	MonthlyChange *float64  `json:"monthlyChange"`
	YearlyChange  *float64  `json:"yearlyChange"`
}

// GetDate returns the quotation day.
func (q Quotation) GetDate() time.Time { return q.Date }

// QuotationMap holds, per fund ID, the price of every quoted day.
// A missing day is a day without quotation (weekend, holiday, not yet published).
type QuotationMap map[string]map[time.Time]float64

// Price looks up the price of fundID on day.
func (m QuotationMap) Price(fundID string, day time.Time) (float64, bool) {
	prices, ok := m[fundID]
	if !ok {
		return 0, false
	}
	price, ok := prices[day]
	return price, ok
}

// Quotation update statuses reported per fund.
const (
	QuotationAdded          = "Quotation successfully added"
	QuotationNothingToAdd   = "No new quotation to add"
	QuotationDownloadFailed = "Failed to download quotation"
	QuotationInsertFailed   = "Failed to add quotation"
)

// QuotationUpdate is the result of refreshing the quotations of one fund.
type QuotationUpdate struct {
	FundID            string     `json:"fundId"`
	Status            string     `json:"status"`
	QuotationsAdded   int        `json:"quotationsAdded"`
	LastQuotationDate *time.Time `json:"lastQuotationDate,omitempty"`
	Details           string     `json:"details,omitempty"`
}

// QuotationUpdateReport summarises a quotation refresh over one or more funds.
// Success is true when no fund failed to download or insert.
type QuotationUpdateReport struct {
	Success bool              `json:"success"`
	Funds   []QuotationUpdate `json:"funds"`
}

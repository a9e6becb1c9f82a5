package model

import "time"

// InvestmentResult is the computed state of one fund within one investment on one day.
//
// Value is FundParticipationUnits times the fund's quotation on ResultDate.
// Each Last*Result is the change in unrealized gain (Value - FundInvestedMoney) since the
// nearest earlier-or-equal result of the same fund at the period's comparison date,
// or nil when no such result exists or nothing is invested.
type InvestmentResult struct {
	InvestmentID           int64     `json:"investmentId"`
	FundID                 string    `json:"fundId"`
	ResultDate             time.Time `json:"resultDate"`
	FundParticipationUnits float64   `json:"fundParticipationUnits"`
	FundInvestedMoney      float64   `json:"fundInvestedMoney"`
	FundValue              float64   `json:"fundValue"`
	LastDayResult          *float64  `json:"lastDayResult"`
	LastWeekResult         *float64  `json:"lastWeekResult"`
	LastMonthResult        *float64  `json:"lastMonthResult"`
	LastYearResult         *float64  `json:"lastYearResult"`
}

// GetDate returns the result day.
func (r InvestmentResult) GetDate() time.Time { return r.ResultDate }

// UnrealizedGain returns value minus invested money.
func (r InvestmentResult) UnrealizedGain() float64 {
	return r.FundValue - r.FundInvestedMoney
}

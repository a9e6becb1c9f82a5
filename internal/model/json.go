package model

import (
	"encoding/json"
	"time"

	"github.com/ndewijer/Fund-Investment-Results/internal/dates"
)

// Days are exchanged as "YYYY-MM-DD" strings, the same layout they are stored in.
// Each type below shadows its time fields with dates.JSONDay while encoding.

func (r InvestmentResult) MarshalJSON() ([]byte, error) {
	type plain InvestmentResult
	return json.Marshal(struct {
		plain
		ResultDate dates.JSONDay `json:"resultDate"`
	}{plain(r), dates.JSONDay(r.ResultDate)})
}

func (r *InvestmentResult) UnmarshalJSON(b []byte) error {
	type plain InvestmentResult
	aux := struct {
		*plain
		ResultDate dates.JSONDay `json:"resultDate"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.ResultDate = time.Time(aux.ResultDate)
	return nil
}

func (q Quotation) MarshalJSON() ([]byte, error) {
	type plain Quotation
	return json.Marshal(struct {
		plain
		Date dates.JSONDay `json:"date"`
	}{plain(q), dates.JSONDay(q.Date)})
}

func (q *Quotation) UnmarshalJSON(b []byte) error {
	type plain Quotation
	aux := struct {
		*plain
		Date dates.JSONDay `json:"date"`
	}{plain: (*plain)(q)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	q.Date = time.Time(aux.Date)
	return nil
}

func (o InvestmentOrder) MarshalJSON() ([]byte, error) {
	type plain InvestmentOrder
	return json.Marshal(struct {
		plain
		Date dates.JSONDay `json:"date"`
	}{plain(o), dates.JSONDay(o.Date)})
}

func (o *InvestmentOrder) UnmarshalJSON(b []byte) error {
	type plain InvestmentOrder
	aux := struct {
		*plain
		Date dates.JSONDay `json:"date"`
	}{plain: (*plain)(o)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	o.Date = time.Time(aux.Date)
	return nil
}

func (f InvestmentFund) MarshalJSON() ([]byte, error) {
	type plain InvestmentFund
	return json.Marshal(struct {
		plain
		LastResultDate *dates.JSONDay `json:"lastResultDate"`
	}{plain(f), (*dates.JSONDay)(f.LastResultDate)})
}

func (f *InvestmentFund) UnmarshalJSON(b []byte) error {
	type plain InvestmentFund
	aux := struct {
		*plain
		LastResultDate *dates.JSONDay `json:"lastResultDate"`
	}{plain: (*plain)(f)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	f.LastResultDate = (*time.Time)(aux.LastResultDate)
	return nil
}

func (l FundListing) MarshalJSON() ([]byte, error) {
	type plain FundListing
	return json.Marshal(struct {
		plain
		LastQuotationDate *dates.JSONDay `json:"lastQuotationDate"`
	}{plain(l), (*dates.JSONDay)(l.LastQuotationDate)})
}

func (l *FundListing) UnmarshalJSON(b []byte) error {
	type plain FundListing
	aux := struct {
		*plain
		LastQuotationDate *dates.JSONDay `json:"lastQuotationDate"`
	}{plain: (*plain)(l)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	l.LastQuotationDate = (*time.Time)(aux.LastQuotationDate)
	return nil
}

func (u QuotationUpdate) MarshalJSON() ([]byte, error) {
	type plain QuotationUpdate
	return json.Marshal(struct {
		plain
		LastQuotationDate *dates.JSONDay `json:"lastQuotationDate,omitempty"`
	}{plain(u), (*dates.JSONDay)(u.LastQuotationDate)})
}

func (u *QuotationUpdate) UnmarshalJSON(b []byte) error {
	type plain QuotationUpdate
	aux := struct {
		*plain
		LastQuotationDate *dates.JSONDay `json:"lastQuotationDate,omitempty"`
	}{plain: (*plain)(u)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	u.LastQuotationDate = (*time.Time)(aux.LastQuotationDate)
	return nil
}

func (o CalculationOutcome) MarshalJSON() ([]byte, error) {
	type plain CalculationOutcome
	return json.Marshal(struct {
		plain
		LastResultDate *dates.JSONDay `json:"lastResultDate,omitempty"`
	}{plain(o), (*dates.JSONDay)(o.LastResultDate)})
}

func (o *CalculationOutcome) UnmarshalJSON(b []byte) error {
	type plain CalculationOutcome
	aux := struct {
		*plain
		LastResultDate *dates.JSONDay `json:"lastResultDate,omitempty"`
	}{plain: (*plain)(o)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	o.LastResultDate = (*time.Time)(aux.LastResultDate)
	return nil
}

package model

import "time"

// Fund represents a monitored fund from the database.
// The ID, name and category are derived from the fund's source URL once, at registration.
type Fund struct {
	ID            string `json:"fundId"`
	Name          string `json:"name"`
	CategoryName  string `json:"categoryName"`
	CategoryShort string `json:"categoryShort"`
	URL           string `json:"url"`
}

// FundListing represents a fund together with the date of its newest stored quotation.
// LastQuotationDate is nil when no quotation has been ingested yet.
type FundListing struct {
	Fund
	LastQuotationDate *time.Time `json:"lastQuotationDate"`
}

// FundRegistrationStatus values describe the outcome of registering one fund URL.
const (
	FundAdded         = "added"
	FundAlreadyExists = "already_exists"
	FundFailed        = "failed"
)

// FundRegistration is the per-URL result of a fund registration request.
type FundRegistration struct {
	FundID  string `json:"fundId,omitempty"`
	URL     string `json:"url"`
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}

// FundRegistrationReport summarises a fund registration request.
// Status is "success" when every URL was added, "partial" when some URLs already
// existed and "failed" when at least one URL could not be processed.
type FundRegistrationReport struct {
	Status string             `json:"status"`
	Funds  []FundRegistration `json:"funds"`
}

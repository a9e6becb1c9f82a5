package request

// ImportInvestmentsRequest is an owner's investment configuration:
// investment name -> fund ID -> orders.
type ImportInvestmentsRequest struct {
	Owner       string                       `json:"Owner"`
	Investments map[string]InvestmentRequest `json:"Investments"`
}

// InvestmentRequest holds the orders of one investment keyed by fund ID.
type InvestmentRequest struct {
	Funds map[string][]OrderRequest `json:"Funds"`
}

// OrderRequest is a single order. A negative Money is a sell.
type OrderRequest struct {
	BuyDate string  `json:"BuyDate"`
	Money   float64 `json:"Money"`
}

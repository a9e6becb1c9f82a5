package request

// RegisterFundsRequest lists the fund pages to monitor.
// It is also the shape of the fund configuration file read by the worker.
type RegisterFundsRequest struct {
	FundsToCheckURLs []string `json:"FundsToCheckURLs"`
}

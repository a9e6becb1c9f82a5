package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/ndewijer/Fund-Investment-Results/internal/analizy"
	"github.com/ndewijer/Fund-Investment-Results/internal/dates"
	"github.com/ndewijer/Fund-Investment-Results/internal/repository"
	"github.com/ndewijer/Fund-Investment-Results/internal/service"
)

func NewTestFundService(t *testing.T, db *sql.DB) *service.FundService {
	t.Helper()

	return service.NewFundService(repository.NewFundRepository(db))
}

// NewTestQuotationService creates a QuotationService backed by the given quotation client.
// Pass a MockAnalizyClient to avoid network calls.
func NewTestQuotationService(t *testing.T, db *sql.DB, client analizy.Client) *service.QuotationService {
	t.Helper()

	return service.NewQuotationService(
		repository.NewFundRepository(db),
		repository.NewQuotationRepository(db),
		client,
	)
}

func NewTestInvestmentService(t *testing.T, db *sql.DB) *service.InvestmentService {
	t.Helper()

	return service.NewInvestmentService(
		repository.NewInvestmentRepository(db),
		repository.NewFundRepository(db),
	)
}

// NewTestResultService creates a ResultService whose notion of today is fixed to today.
//
// Example usage:
//
//	svc := testutil.NewTestResultService(t, db, "2024-01-31")
func NewTestResultService(t *testing.T, db *sql.DB, today string) *service.ResultService {
	t.Helper()

	return service.NewResultService(
		repository.NewInvestmentRepository(db),
		repository.NewQuotationRepository(db),
		repository.NewResultRepository(db),
		service.WithClock(FixedClock(today)),
	)
}

// NewTestCheckerService wires a CheckerService with a mock quotation client and a fixed clock.
func NewTestCheckerService(t *testing.T, db *sql.DB, client analizy.Client, today string) *service.CheckerService {
	t.Helper()

	return service.NewCheckerService(
		NewTestQuotationService(t, db, client),
		NewTestResultService(t, db, today),
		repository.NewInvestmentRepository(db),
		repository.NewFundRepository(db),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// Day parses a YYYY-MM-DD string and panics on malformed input.
//
// Example usage:
//
//	start := testutil.Day("2024-01-02")
func Day(s string) time.Time {
	d, err := dates.Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FixedClock returns a clock that always reports noon of the given day.
func FixedClock(today string) func() time.Time {
	noon := Day(today).Add(12 * time.Hour)
	return func() time.Time { return noon }
}

// MakeFundID generates a fund identifier in the quotation source's style.
//
// Example usage:
//
//	id := testutil.MakeFundID()
//	// Returns: "QWE42"
func MakeFundID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	const digits = "0123456789"
	result := make([]byte, 5)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		if i < 3 {
			result[i] = letters[rand.Intn(len(letters))]
		} else {
			result[i] = digits[rand.Intn(len(digits))]
		}
	}
	return string(result)
}

// MakeInvestmentName generates a unique investment name for testing.
//
// Example usage:
//
//	name := testutil.MakeInvestmentName("Pension")
//	// Returns: "Pension ABC123"
func MakeInvestmentName(base string) string {
	if base == "" {
		base = "Investment"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

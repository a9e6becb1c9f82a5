package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/ndewijer/Fund-Investment-Results/internal/analizy"
	"github.com/ndewijer/Fund-Investment-Results/internal/dates"
	"github.com/ndewijer/Fund-Investment-Results/internal/model"
)

// MockAnalizyClient is a mock implementation of analizy.Client for testing.
// Downloads run concurrently, so all state is guarded by a mutex.
type MockAnalizyClient struct {
	mu      sync.Mutex
	prices  map[string][]analizy.Price
	errors  map[string]error
	err     error
	queries map[string]int
}

// NewMockAnalizyClient creates a mock client that knows no funds.
// A fund without configured prices downloads as an empty history.
func NewMockAnalizyClient() *MockAnalizyClient {
	return &MockAnalizyClient{
		prices:  make(map[string][]analizy.Price),
		errors:  make(map[string]error),
		queries: make(map[string]int),
	}
}

// WithPrices configures the history returned for fundID.
func (m *MockAnalizyClient) WithPrices(fundID string, prices []analizy.Price) *MockAnalizyClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[fundID] = prices
	return m
}

// WithDailyPrices configures a weekday-only history for fundID from start through end,
// with price(day, i) quoting the i-th published day.
func (m *MockAnalizyClient) WithDailyPrices(fundID, start, end string, price func(day time.Time, i int) float64) *MockAnalizyClient {
	var prices []analizy.Price
	i := 0
	for day := Day(start); !day.After(Day(end)); day = dates.AddDays(day, 1) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		prices = append(prices, analizy.Price{Date: day, Value: price(day, i)})
		i++
	}
	return m.WithPrices(fundID, prices)
}

// WithFundError makes downloads of fundID fail with err.
func (m *MockAnalizyClient) WithFundError(fundID string, err error) *MockAnalizyClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[fundID] = err
	return m
}

// WithError makes every download fail with err.
func (m *MockAnalizyClient) WithError(err error) *MockAnalizyClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// DownloadQuotations implements analizy.Client.
func (m *MockAnalizyClient) DownloadQuotations(_ context.Context, fund model.Fund) ([]analizy.Price, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queries[fund.ID]++
	if m.err != nil {
		return nil, m.err
	}
	if err, ok := m.errors[fund.ID]; ok {
		return nil, err
	}
	prices := make([]analizy.Price, len(m.prices[fund.ID]))
	copy(prices, m.prices[fund.ID])
	return prices, nil
}

// QueryCount returns how many downloads were requested for fundID.
func (m *MockAnalizyClient) QueryCount(fundID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queries[fundID]
}

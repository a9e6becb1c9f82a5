// Package analizy downloads daily fund quotations from the analizy.pl quotation API.
package analizy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/ndewijer/Fund-Investment-Results/internal/apperrors"
	"github.com/ndewijer/Fund-Investment-Results/internal/config"
	"github.com/ndewijer/Fund-Investment-Results/internal/dates"
	"github.com/ndewijer/Fund-Investment-Results/internal/model"
)

// Client defines the interface for downloading fund quotations.
// This interface enables dependency injection and testing with mock implementations.
type Client interface {
	DownloadQuotations(ctx context.Context, fund model.Fund) ([]Price, error)
}

// QuotationClient fetches the full quotation history of a fund.
// Requests are throttled by a shared rate limiter and responses are cached per URL,
// so repeated refreshes within the cache TTL do not hit the remote API.
type QuotationClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	cache      *cache.Cache
}

// NewQuotationClient creates a client from cfg.
func NewQuotationClient(cfg config.AnalizyConfig) *QuotationClient {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &QuotationClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    cfg.BaseURL,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		cache:      cache.New(ttl, 2*ttl),
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *QuotationClient) WithHTTPClient(httpClient *http.Client) *QuotationClient {
	c.httpClient = httpClient
	return c
}

// QuotationURL returns the endpoint serving the quotations of fund.
func (c *QuotationClient) QuotationURL(fund model.Fund) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, fund.CategoryShort, fund.ID)
}

// DownloadQuotations returns every quotation the source publishes for fund,
// in ascending date order with one entry per day.
//
// Returns apperrors.ErrQuotationSourceNotFound when the source does not know the fund
// and an error wrapping apperrors.ErrFailedToDownloadQuotation for any other failure.
func (c *QuotationClient) DownloadQuotations(ctx context.Context, fund model.Fund) ([]Price, error) {
	url := c.QuotationURL(fund)

	if cached, ok := c.cache.Get(url); ok {
		return cached.([]Price), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToDownloadQuotation, err)
	}

	response, err := c.query(ctx, url)
	if err != nil {
		return nil, err
	}

	prices, err := ParseResponse(response)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(url, prices)
	log.Debug().Str("fund_id", fund.ID).Int("quotations", len(prices)).Msg("downloaded quotations")
	return prices, nil
}

// ParseResponse converts a raw response into day-granular prices sorted by date.
// When the source repeats a day the later entry wins.
func ParseResponse(response Response) ([]Price, error) {
	if len(response.Series) == 0 {
		return nil, fmt.Errorf("%w: response for %q has no quotation series",
			apperrors.ErrQuotationSourceNotFound, response.ID)
	}

	byDay := make(map[time.Time]float64, len(response.Series[0].Price))
	for _, entry := range response.Series[0].Price {
		day, err := parseDate(entry.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToDownloadQuotation, err)
		}
		byDay[day] = entry.Value.InexactFloat64()
	}

	prices := make([]Price, 0, len(byDay))
	for day, value := range byDay {
		prices = append(prices, Price{Date: day, Value: value})
	}
	sort.Slice(prices, func(i, j int) bool {
		return prices[i].Date.Before(prices[j].Date)
	})
	return prices, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{dates.Layout, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return dates.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised quotation date %q", s)
}

func (c *QuotationClient) query(ctx context.Context, url string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToDownloadQuotation, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToDownloadQuotation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Response{}, apperrors.ErrQuotationSourceNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("%w: unexpected status %d", apperrors.ErrFailedToDownloadQuotation, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToDownloadQuotation, err)
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return Response{}, fmt.Errorf("%w: malformed response at offset %d", apperrors.ErrFailedToDownloadQuotation, syntaxErr.Offset)
		}
		return Response{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToDownloadQuotation, err)
	}

	return response, nil
}

package testutil

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/Fund-Investment-Results/internal/dates"
	"github.com/ndewijer/Fund-Investment-Results/internal/model"
)

// FundBuilder provides a fluent interface for creating test funds.
//
// Example usage:
//
//	// Simple creation with defaults
//	fund := testutil.NewFund().Build(t, db)
//
//	// Customized fund
//	fund := testutil.NewFund().
//	    WithID("ALL01").
//	    WithCategory("fundusze-inwestycyjne-otwarte").
//	    Build(t, db)
type FundBuilder struct {
	ID       string
	Slug     string
	Category string
}

// NewFund creates a FundBuilder with sensible defaults.
func NewFund() *FundBuilder {
	return &FundBuilder{
		ID:       MakeFundID(),
		Slug:     "test-fund",
		Category: "fundusze-inwestycyjne-otwarte",
	}
}

// WithID sets a custom fund ID.
func (b *FundBuilder) WithID(id string) *FundBuilder {
	b.ID = id
	return b
}

// WithSlug sets the name slug of the fund URL.
func (b *FundBuilder) WithSlug(slug string) *FundBuilder {
	b.Slug = slug
	return b
}

// WithCategory sets the category segment of the fund URL.
func (b *FundBuilder) WithCategory(category string) *FundBuilder {
	b.Category = category
	return b
}

// URL returns the page URL the builder's fund is derived from.
func (b *FundBuilder) URL() string {
	return "https://www.analizy.pl/" + b.Category + "/" + b.ID + "/" + b.Slug
}

// Build creates the fund in the database and returns it.
func (b *FundBuilder) Build(t *testing.T, db *sql.DB) model.Fund {
	t.Helper()

	var short strings.Builder
	for _, word := range strings.Split(b.Category, "-") {
		if word != "" {
			short.WriteByte(word[0])
		}
	}

	fund := model.Fund{
		ID:            b.ID,
		Name:          strings.ReplaceAll(b.Slug, "-", " "),
		CategoryName:  strings.ReplaceAll(b.Category, "-", " "),
		CategoryShort: short.String(),
		URL:           b.URL(),
	}

	query := `
		INSERT INTO fund (id, name, category_name, category_short, url)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := db.Exec(query, fund.ID, fund.Name, fund.CategoryName, fund.CategoryShort, fund.URL)
	if err != nil {
		t.Fatalf("Failed to create test fund: %v", err)
	}

	return fund
}

// InvestmentBuilder provides a fluent interface for creating test investments with orders.
//
// Example usage:
//
//	inv := testutil.NewInvestment().
//	    WithOrder(fund.ID, "2024-01-02", 1000).
//	    WithOrder(fund.ID, "2024-02-01", -250).
//	    Build(t, db)
type InvestmentBuilder struct {
	Name   string
	Owner  string
	Orders []model.InvestmentOrder
}

// NewInvestment creates an InvestmentBuilder with sensible defaults.
func NewInvestment() *InvestmentBuilder {
	return &InvestmentBuilder{
		Name:  MakeInvestmentName("Investment"),
		Owner: "Test Owner",
	}
}

// WithName sets a custom name.
func (b *InvestmentBuilder) WithName(name string) *InvestmentBuilder {
	b.Name = name
	return b
}

// WithOwner sets a custom owner.
func (b *InvestmentBuilder) WithOwner(owner string) *InvestmentBuilder {
	b.Owner = owner
	return b
}

// WithOrder adds an order; a negative value is a sell.
func (b *InvestmentBuilder) WithOrder(fundID, date string, value float64) *InvestmentBuilder {
	b.Orders = append(b.Orders, model.InvestmentOrder{FundID: fundID, Date: Day(date), Value: value})
	return b
}

// Build creates the investment and its orders in the database and returns the investment.
func (b *InvestmentBuilder) Build(t *testing.T, db *sql.DB) model.Investment {
	t.Helper()

	res, err := db.Exec(`INSERT INTO investment (name, owner) VALUES (?, ?)`, b.Name, b.Owner)
	if err != nil {
		t.Fatalf("Failed to create test investment: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read investment id: %v", err)
	}

	for _, o := range b.Orders {
		AddOrder(t, db, id, o.FundID, dates.Format(o.Date), o.Value)
	}

	return model.Investment{ID: id, Name: b.Name, Owner: b.Owner}
}

// AddOrder inserts a single order for an existing investment.
func AddOrder(t *testing.T, db *sql.DB, investmentID int64, fundID, date string, value float64) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO investment_order (investment_id, fund_id, date, value) VALUES (?, ?, ?, ?)`,
		investmentID, fundID, date, value,
	)
	if err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}
}

// QuotationsBuilder provides a fluent interface for creating a fund's quotation history.
//
// Example usage:
//
//	testutil.NewQuotations(fund.ID).
//	    From("2024-01-01").Through("2024-01-31").
//	    WeekdaysOnly().
//	    WithPrice(func(day time.Time, i int) float64 { return 100 + float64(i) }).
//	    Build(t, db)
type QuotationsBuilder struct {
	FundID       string
	Start        time.Time
	End          time.Time
	SkipWeekends bool
	Price        func(day time.Time, i int) float64
}

// NewQuotations creates a QuotationsBuilder with a constant price of 100.
func NewQuotations(fundID string) *QuotationsBuilder {
	return &QuotationsBuilder{
		FundID: fundID,
		Price:  func(time.Time, int) float64 { return 100 },
	}
}

// From sets the first quoted day.
func (b *QuotationsBuilder) From(date string) *QuotationsBuilder {
	b.Start = Day(date)
	return b
}

// Through sets the last quoted day (inclusive).
func (b *QuotationsBuilder) Through(date string) *QuotationsBuilder {
	b.End = Day(date)
	return b
}

// WeekdaysOnly leaves Saturdays and Sundays unquoted.
func (b *QuotationsBuilder) WeekdaysOnly() *QuotationsBuilder {
	b.SkipWeekends = true
	return b
}

// WithConstantPrice quotes every day at price.
func (b *QuotationsBuilder) WithConstantPrice(price float64) *QuotationsBuilder {
	b.Price = func(time.Time, int) float64 { return price }
	return b
}

// WithPrice sets a price function; i counts the quoted days from zero.
func (b *QuotationsBuilder) WithPrice(price func(day time.Time, i int) float64) *QuotationsBuilder {
	b.Price = price
	return b
}

// Build inserts the quotations and returns them in ascending order.
// Change columns are left NULL.
func (b *QuotationsBuilder) Build(t *testing.T, db *sql.DB) []model.Quotation {
	t.Helper()

	var quotations []model.Quotation
	i := 0
	for day := b.Start; !day.After(b.End); day = dates.AddDays(day, 1) {
		if b.SkipWeekends && (day.Weekday() == time.Saturday || day.Weekday() == time.Sunday) {
			continue
		}
		q := model.Quotation{FundID: b.FundID, Date: day, Value: b.Price(day, i)}
		AddQuotation(t, db, q.FundID, dates.Format(day), q.Value)
		quotations = append(quotations, q)
		i++
	}
	return quotations
}

// AddQuotation inserts a single quotation.
func AddQuotation(t *testing.T, db *sql.DB, fundID, date string, value float64) {
	t.Helper()

	_, err := db.Exec(`INSERT INTO quotation (fund_id, date, value) VALUES (?, ?, ?)`, fundID, date, value)
	if err != nil {
		t.Fatalf("Failed to create test quotation: %v", err)
	}
}

// AddResult inserts a result row directly, bypassing the calculation.
func AddResult(t *testing.T, db *sql.DB, r model.InvestmentResult) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO investment_result (investment_id, fund_id, result_date, fund_participation_units,
			fund_invested_money, fund_value)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.InvestmentID, r.FundID, dates.Format(r.ResultDate), r.FundParticipationUnits, r.FundInvestedMoney, r.FundValue)
	if err != nil {
		t.Fatalf("Failed to create test result: %v", err)
	}
}

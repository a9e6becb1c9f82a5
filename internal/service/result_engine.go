package service

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Fund-Investment-Results/internal/dates"
	"github.com/ndewijer/Fund-Investment-Results/internal/model"
)

// staleTolerance is the largest difference between persisted and recomputed invested
// money that is still attributed to floating point noise.
const staleTolerance = 1e-6

// OrderBook is the per-day view of an investment's orders.
type OrderBook struct {
	// EarliestDate is the date of the first order.
	EarliestDate time.Time
	// FundIDs is every fund the investment ever ordered, sorted.
	FundIDs []string
	// ByDate sums the money moved into (positive) or out of (negative) each fund per day.
	ByDate map[time.Time]map[string]float64
}

// aggregateOrders groups orders by day and fund. orders must be in ascending date order.
func aggregateOrders(orders []model.InvestmentOrder) OrderBook {
	book := OrderBook{ByDate: make(map[time.Time]map[string]float64)}
	seen := make(map[string]struct{})

	for i, order := range orders {
		day := dates.Day(order.Date)
		if i == 0 {
			book.EarliestDate = day
		}
		if _, ok := book.ByDate[day]; !ok {
			book.ByDate[day] = make(map[string]float64)
		}
		book.ByDate[day][order.FundID] += order.Value

		if _, ok := seen[order.FundID]; !ok {
			seen[order.FundID] = struct{}{}
			book.FundIDs = append(book.FundIDs, order.FundID)
		}
	}

	sort.Strings(book.FundIDs)
	return book
}

// position is what an investment holds of one fund.
type position struct {
	units    float64
	invested float64
}

// calculationEngine replays an investment day by day and produces one result per fund
// for every day the fund is quoted.
type calculationEngine struct {
	investmentID int64
	book         OrderBook
	quotations   model.QuotationMap
	logger       *zerolog.Logger

	positions map[string]*position
	// history holds, per fund, persisted rows followed by the rows of this run.
	// It only backs the comparison lookups.
	history map[string]*dates.Series[model.InvestmentResult]

	results       []model.InvestmentResult
	skippedOrders int
}

func newCalculationEngine(investmentID int64, book OrderBook, quotations model.QuotationMap, logger *zerolog.Logger) *calculationEngine {
	e := &calculationEngine{
		investmentID: investmentID,
		book:         book,
		quotations:   quotations,
		logger:       logger,
		positions:    make(map[string]*position, len(book.FundIDs)),
		history:      make(map[string]*dates.Series[model.InvestmentResult], len(book.FundIDs)),
	}
	for _, fundID := range book.FundIDs {
		e.positions[fundID] = &position{}
		e.history[fundID] = dates.NewSeries[model.InvestmentResult](nil)
	}
	return e
}

// seed loads persisted rows, all dated on or before the checkpoint, in ascending date order.
// Each fund resumes from its latest row; funds without rows start from zero.
func (e *calculationEngine) seed(persisted []model.InvestmentResult) {
	for _, row := range persisted {
		series, ok := e.history[row.FundID]
		if !ok {
			// fund no longer has orders
			continue
		}
		series.Append(row)
	}
	for fundID, series := range e.history {
		if last, ok := series.Last(); ok {
			e.positions[fundID] = &position{
				units:    last.FundParticipationUnits,
				invested: last.FundInvestedMoney,
			}
		}
	}
}

// staleFunds returns the funds whose stored history cannot be resumed at checkpoint.
// A fund is stale when its seeded invested money disagrees with the priceable orders
// dated on or before checkpoint, or when it has no stored rows although it was quoted
// between the first order and checkpoint. The latter happens when a fund receives its
// first order after the checkpoint: a full run gives it a row on every quoted day.
func (e *calculationEngine) staleFunds(checkpoint time.Time) []string {
	expected := make(map[string]float64, len(e.book.FundIDs))
	for day, deltas := range e.book.ByDate {
		if day.After(checkpoint) {
			continue
		}
		for fundID, delta := range deltas {
			if _, ok := e.orderPrice(fundID, day); ok {
				expected[fundID] += delta
			}
		}
	}

	var stale []string
	for _, fundID := range e.book.FundIDs {
		switch {
		case math.Abs(e.positions[fundID].invested-expected[fundID]) > staleTolerance:
			stale = append(stale, fundID)
		case e.history[fundID].Len() == 0 && e.quotedBetween(fundID, e.book.EarliestDate, checkpoint):
			stale = append(stale, fundID)
		}
	}
	return stale
}

// quotedBetween reports whether fundID has a quotation within [from, to].
func (e *calculationEngine) quotedBetween(fundID string, from, to time.Time) bool {
	for day := range e.quotations[fundID] {
		if !day.Before(from) && !day.After(to) {
			return true
		}
	}
	return false
}

// run simulates every day from start through today inclusive.
func (e *calculationEngine) run(start, today time.Time) {
	for day := start; !day.After(today); day = dates.AddDays(day, 1) {
		e.applyOrders(day)

		targets := dates.Horizons(day)
		for _, fundID := range e.book.FundIDs {
			price, ok := e.quotations.Price(fundID, day)
			if !ok {
				continue
			}
			result := e.buildResult(fundID, day, price, targets)
			e.results = append(e.results, result)
			e.history[fundID].Append(result)
		}
	}
}

// applyOrders converts the day's orders into units at the day's price.
// An order on a day without quotation cannot be priced and is skipped.
func (e *calculationEngine) applyOrders(day time.Time) {
	deltas, ok := e.book.ByDate[day]
	if !ok {
		return
	}

	for _, fundID := range e.book.FundIDs {
		delta, ok := deltas[fundID]
		if !ok {
			continue
		}
		price, ok := e.orderPrice(fundID, day)
		if !ok {
			e.skippedOrders++
			e.logger.Warn().
				Int64("investment_id", e.investmentID).
				Str("fund_id", fundID).
				Str("date", dates.Format(day)).
				Float64("value", delta).
				Msg("order skipped: no quotation on order date")
			continue
		}
		pos := e.positions[fundID]
		pos.units += delta / price
		pos.invested += delta
	}
}

// orderPrice returns the price an order on day executes at.
func (e *calculationEngine) orderPrice(fundID string, day time.Time) (float64, bool) {
	price, ok := e.quotations.Price(fundID, day)
	if !ok || price == 0 {
		return 0, false
	}
	return price, true
}

func (e *calculationEngine) buildResult(fundID string, day time.Time, price float64, targets [len(dates.Periods)]time.Time) model.InvestmentResult {
	pos := e.positions[fundID]
	result := model.InvestmentResult{
		InvestmentID:           e.investmentID,
		FundID:                 fundID,
		ResultDate:             day,
		FundParticipationUnits: pos.units,
		FundInvestedMoney:      pos.invested,
		FundValue:              pos.units * price,
	}

	if result.FundInvestedMoney <= 0 {
		return result
	}

	gain := result.UnrealizedGain()
	for i, period := range dates.Periods {
		cmp, ok := e.history[fundID].OnOrBefore(targets[i])
		if !ok {
			continue
		}
		change := gain - cmp.UnrealizedGain()
		switch period {
		case dates.Daily:
			result.LastDayResult = &change
		case dates.Weekly:
			result.LastWeekResult = &change
		case dates.Monthly:
			result.LastMonthResult = &change
		case dates.Yearly:
			result.LastYearResult = &change
		}
	}
	return result
}

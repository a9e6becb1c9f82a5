package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Fund-Investment-Results/internal/dates"
	"github.com/ndewijer/Fund-Investment-Results/internal/model"
)

// QuotationRepository provides data access methods for the quotation table.
type QuotationRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewQuotationRepository creates a new QuotationRepository with the provided database connection.
func NewQuotationRepository(db *sql.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

func (r *QuotationRepository) WithTx(tx *sql.Tx) *QuotationRepository {
	return &QuotationRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *QuotationRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetQuotations retrieves the quotations of one fund dated on or after startDate, ascending.
// A zero startDate returns the full history.
func (r *QuotationRepository) GetQuotations(ctx context.Context, fundID string, startDate time.Time) ([]model.Quotation, error) {
	query := `
		SELECT fund_id, date, value, daily_change, weekly_change, monthly_change, yearly_change
		FROM quotation
		WHERE fund_id = ?
		AND date >= ?
		ORDER BY date ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, fundID, dates.Format(startDate))
	if err != nil {
		return nil, fmt.Errorf("failed to query quotation table: %w", err)
	}
	defer rows.Close()

	quotations := []model.Quotation{}

	for rows.Next() {
		var q model.Quotation
		var dateStr string
		var daily, weekly, monthly, yearly sql.NullFloat64

		if err := rows.Scan(&q.FundID, &dateStr, &q.Value, &daily, &weekly, &monthly, &yearly); err != nil {
			return nil, fmt.Errorf("failed to scan quotation table results: %w", err)
		}

		q.Date, err = ParseTime(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		q.DailyChange = fromNullFloat(daily)
		q.WeeklyChange = fromNullFloat(weekly)
		q.MonthlyChange = fromNullFloat(monthly)
		q.YearlyChange = fromNullFloat(yearly)

		quotations = append(quotations, q)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quotation table: %w", err)
	}

	return quotations, nil
}

// GetQuotationMap loads the price of every quoted day on or after startDate for the given funds.
// Funds without quotations are present with an empty day map.
func (r *QuotationRepository) GetQuotationMap(ctx context.Context, fundIDs []string, startDate time.Time) (model.QuotationMap, error) {
	quotations := make(model.QuotationMap, len(fundIDs))
	if len(fundIDs) == 0 {
		return quotations, nil
	}

	placeholders := make([]string, len(fundIDs))
	args := make([]any, 0, len(fundIDs)+1)
	for i, id := range fundIDs {
		placeholders[i] = "?"
		args = append(args, id)
		quotations[id] = make(map[time.Time]float64)
	}
	args = append(args, dates.Format(startDate))

	//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
	query := `
		SELECT fund_id, date, value
		FROM quotation
		WHERE fund_id IN (` + strings.Join(placeholders, ",") + `)
		AND date >= ?
		ORDER BY date ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotation table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fundID, dateStr string
		var value float64

		if err := rows.Scan(&fundID, &dateStr, &value); err != nil {
			return nil, fmt.Errorf("failed to scan quotation table results: %w", err)
		}

		day, err := ParseTime(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		quotations[fundID][day] = value
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quotation table: %w", err)
	}

	return quotations, nil
}

// GetLastQuotationDate returns the newest quotation date of a fund, or nil if it has none.
func (r *QuotationRepository) GetLastQuotationDate(ctx context.Context, fundID string) (*time.Time, error) {
	var last sql.NullString
	err := r.getQuerier().QueryRowContext(ctx, `SELECT MAX(date) FROM quotation WHERE fund_id = ?`, fundID).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("failed to query last quotation date: %w", err)
	}
	return parseNullTime(last)
}

// InsertQuotations stores quotations atomically: either every row is written or none is.
func (r *QuotationRepository) InsertQuotations(ctx context.Context, quotations []model.Quotation) error {
	if len(quotations) == 0 {
		return nil
	}
	if r.tx != nil {
		return r.insertQuotations(ctx, r.tx, quotations)
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		return r.insertQuotations(ctx, tx, quotations)
	})
}

func (r *QuotationRepository) insertQuotations(ctx context.Context, q querier, quotations []model.Quotation) error {
	stmt, err := q.PrepareContext(ctx, `
		INSERT INTO quotation (fund_id, date, value, daily_change, weekly_change, monthly_change, yearly_change)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare quotation insert: %w", err)
	}
	defer stmt.Close()

	for _, quotation := range quotations {
		_, err := stmt.ExecContext(ctx,
			quotation.FundID,
			dates.Format(quotation.Date),
			quotation.Value,
			toNullFloat(quotation.DailyChange),
			toNullFloat(quotation.WeeklyChange),
			toNullFloat(quotation.MonthlyChange),
			toNullFloat(quotation.YearlyChange),
		)
		if err != nil {
			return fmt.Errorf("failed to insert quotation %s/%s: %w", quotation.FundID, dates.Format(quotation.Date), err)
		}
	}
	return nil
}

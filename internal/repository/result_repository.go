package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ndewijer/Fund-Investment-Results/internal/dates"
	"github.com/ndewijer/Fund-Investment-Results/internal/model"
)

// ResultRepository provides data access methods for the investment_result table.
type ResultRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewResultRepository creates a new ResultRepository with the provided database connection.
func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) WithTx(tx *sql.Tx) *ResultRepository {
	return &ResultRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *ResultRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Reconcile repairs the result history of an investment and returns its checkpoint.
//
// The checkpoint is the earliest of the per-fund newest result dates, i.e. the last
// day for which every fund of the investment has a result. Rows dated after the
// checkpoint belong to funds that ran ahead of the others and are deleted, so that
// every fund resumes from the same day.
//
// This is not a read: it deletes rows. It runs in its own transaction and commits
// before returning. A nil checkpoint means the investment has no results at all;
// nothing is deleted in that case.
func (r *ResultRepository) Reconcile(ctx context.Context, investmentID int64) (*time.Time, int64, error) {
	var checkpoint *time.Time
	var deleted int64

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		q := r.WithTx(tx).getQuerier()

		var minLast sql.NullString
		err := q.QueryRowContext(ctx, `
			SELECT MIN(last_date) FROM (
				SELECT MAX(result_date) AS last_date
				FROM investment_result
				WHERE investment_id = ?
				GROUP BY fund_id
			)
		`, investmentID).Scan(&minLast)
		if err != nil {
			return fmt.Errorf("failed to query result checkpoint: %w", err)
		}

		checkpoint, err = parseNullTime(minLast)
		if err != nil {
			return fmt.Errorf("failed to parse result checkpoint: %w", err)
		}
		if checkpoint == nil {
			return nil
		}

		res, err := q.ExecContext(ctx,
			`DELETE FROM investment_result WHERE investment_id = ? AND result_date > ?`,
			investmentID, dates.Format(*checkpoint),
		)
		if err != nil {
			return fmt.Errorf("failed to delete results after checkpoint: %w", err)
		}
		deleted, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to count deleted results: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return checkpoint, deleted, nil
}

// GetResults streams the results of an investment dated within [startDate, endDate]
// in ascending date order, fund ID breaking ties.
//
// The callback is invoked once per row; returning an error stops the iteration and
// the error is returned unchanged. A zero startDate means "from the beginning".
func (r *ResultRepository) GetResults(
	ctx context.Context,
	investmentID int64,
	startDate, endDate time.Time,
	callback func(result model.InvestmentResult) error,
) error {
	query := `
		SELECT investment_id, fund_id, result_date, fund_participation_units,
		       fund_invested_money, fund_value, last_day_result, last_week_result,
		       last_month_result, last_year_result
		FROM investment_result
		WHERE investment_id = ?
		AND result_date >= ?
		AND result_date <= ?
		ORDER BY result_date ASC, fund_id ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, investmentID, dates.Format(startDate), dates.Format(endDate))
	if err != nil {
		return fmt.Errorf("failed to query investment_result: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var result model.InvestmentResult
		var dateStr string
		var day, week, month, year sql.NullFloat64

		err := rows.Scan(
			&result.InvestmentID,
			&result.FundID,
			&dateStr,
			&result.FundParticipationUnits,
			&result.FundInvestedMoney,
			&result.FundValue,
			&day,
			&week,
			&month,
			&year,
		)
		if err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}

		result.ResultDate, err = ParseTime(dateStr)
		if err != nil {
			return fmt.Errorf("failed to parse result_date: %w", err)
		}
		result.LastDayResult = fromNullFloat(day)
		result.LastWeekResult = fromNullFloat(week)
		result.LastMonthResult = fromNullFloat(month)
		result.LastYearResult = fromNullFloat(year)

		if err := callback(result); err != nil {
			return err
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}

	return nil
}

// InsertResults stores a calculation batch in a single transaction.
// On any failure the whole batch is rolled back and nothing is written.
func (r *ResultRepository) InsertResults(ctx context.Context, results []model.InvestmentResult) error {
	if len(results) == 0 {
		return nil
	}
	if r.tx != nil {
		return r.insertResults(ctx, r.tx, results)
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		return r.insertResults(ctx, tx, results)
	})
}

func (r *ResultRepository) insertResults(ctx context.Context, q querier, results []model.InvestmentResult) error {
	stmt, err := q.PrepareContext(ctx, `
		INSERT INTO investment_result (
			investment_id, fund_id, result_date, fund_participation_units,
			fund_invested_money, fund_value, last_day_result, last_week_result,
			last_month_result, last_year_result
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer stmt.Close()

	for _, result := range results {
		_, err := stmt.ExecContext(ctx,
			result.InvestmentID,
			result.FundID,
			dates.Format(result.ResultDate),
			result.FundParticipationUnits,
			result.FundInvestedMoney,
			result.FundValue,
			toNullFloat(result.LastDayResult),
			toNullFloat(result.LastWeekResult),
			toNullFloat(result.LastMonthResult),
			toNullFloat(result.LastYearResult),
		)
		if err != nil {
			return fmt.Errorf("failed to insert result %s/%s: %w",
				result.FundID, dates.Format(result.ResultDate), err)
		}
	}
	return nil
}

// DeleteInvestmentResults removes the whole result history of an investment.
func (r *ResultRepository) DeleteInvestmentResults(ctx context.Context, investmentID int64) (int64, error) {
	res, err := r.getQuerier().ExecContext(ctx, `DELETE FROM investment_result WHERE investment_id = ?`, investmentID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete investment results: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted results: %w", err)
	}
	return deleted, nil
}

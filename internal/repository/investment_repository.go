package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Fund-Investment-Results/internal/apperrors"
	"github.com/ndewijer/Fund-Investment-Results/internal/dates"
	"github.com/ndewijer/Fund-Investment-Results/internal/model"
)

// InvestmentRepository provides data access methods for the investment and investment_order tables.
type InvestmentRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewInvestmentRepository creates a new InvestmentRepository with the provided database connection.
func NewInvestmentRepository(db *sql.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

func (r *InvestmentRepository) WithTx(tx *sql.Tx) *InvestmentRepository {
	return &InvestmentRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *InvestmentRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InvestmentExists reports whether an investment with the given ID exists.
func (r *InvestmentRepository) InvestmentExists(ctx context.Context, investmentID int64) (bool, error) {
	var exists bool
	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM investment WHERE id = ?)`, investmentID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check investment existence: %w", err)
	}
	return exists, nil
}

// GetInvestment retrieves a single investment.
// Returns apperrors.ErrInvestmentNotFound if it does not exist.
func (r *InvestmentRepository) GetInvestment(ctx context.Context, investmentID int64) (model.Investment, error) {
	var inv model.Investment
	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT id, name, owner FROM investment WHERE id = ?`, investmentID,
	).Scan(&inv.ID, &inv.Name, &inv.Owner)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Investment{}, apperrors.ErrInvestmentNotFound
	}
	if err != nil {
		return model.Investment{}, fmt.Errorf("failed to query investment: %w", err)
	}
	return inv, nil
}

// GetInvestmentIDs returns the IDs of every investment in ascending order.
func (r *InvestmentRepository) GetInvestmentIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `SELECT id FROM investment ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query investment table: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan investment id: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investment table: %w", err)
	}
	return ids, nil
}

// GetOrCreateInvestment returns the investment identified by (name, owner), creating it if needed.
func (r *InvestmentRepository) GetOrCreateInvestment(ctx context.Context, name, owner string) (model.Investment, error) {
	q := r.getQuerier()

	_, err := q.ExecContext(ctx, `
		INSERT INTO investment (name, owner) VALUES (?, ?)
		ON CONFLICT (name, owner) DO NOTHING
	`, name, owner)
	if err != nil {
		return model.Investment{}, fmt.Errorf("failed to insert investment: %w", err)
	}

	inv := model.Investment{Name: name, Owner: owner}
	err = q.QueryRowContext(ctx,
		`SELECT id FROM investment WHERE name = ? AND owner = ?`, name, owner,
	).Scan(&inv.ID)
	if err != nil {
		return model.Investment{}, fmt.Errorf("failed to query investment: %w", err)
	}
	return inv, nil
}

// InsertOrder stores a single investment order.
// Returns apperrors.ErrDuplicateEntry when an order for the same investment, fund and day exists.
func (r *InvestmentRepository) InsertOrder(ctx context.Context, order model.InvestmentOrder) error {
	_, err := r.getQuerier().ExecContext(ctx, `
		INSERT INTO investment_order (investment_id, fund_id, date, value)
		VALUES (?, ?, ?, ?)
	`, order.InvestmentID, order.FundID, dates.Format(order.Date), order.Value)
	if err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to insert investment order: %w", err)
	}
	return nil
}

// GetOrders retrieves every order of an investment in ascending date order, fund ID breaking ties.
// Returns an empty slice when the investment has no orders.
func (r *InvestmentRepository) GetOrders(ctx context.Context, investmentID int64) ([]model.InvestmentOrder, error) {
	query := `
		SELECT o.investment_id, i.name, i.owner, o.fund_id, o.date, o.value
		FROM investment_order o
		INNER JOIN investment i ON i.id = o.investment_id
		WHERE o.investment_id = ?
		ORDER BY o.date ASC, o.fund_id ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, investmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query investment_order table: %w", err)
	}
	defer rows.Close()

	orders := []model.InvestmentOrder{}

	for rows.Next() {
		var o model.InvestmentOrder
		var dateStr string

		err := rows.Scan(
			&o.InvestmentID,
			&o.InvestmentName,
			&o.Owner,
			&o.FundID,
			&dateStr,
			&o.Value,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment_order table results: %w", err)
		}

		o.Date, err = ParseTime(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investment_order table: %w", err)
	}

	return orders, nil
}

// GetInvestmentFunds lists every (investment, fund) pair that has orders, with the newest
// calculated result date of the pair. A nil investmentID lists all investments.
func (r *InvestmentRepository) GetInvestmentFunds(ctx context.Context, investmentID *int64) ([]model.InvestmentFund, error) {
	query := `
		SELECT i.id, i.name, i.owner, p.fund_id,
		       (SELECT MAX(r.result_date) FROM investment_result r
		        WHERE r.investment_id = i.id AND r.fund_id = p.fund_id)
		FROM investment i
		INNER JOIN (SELECT DISTINCT investment_id, fund_id FROM investment_order) p ON p.investment_id = i.id
	`

	var args []any
	if investmentID != nil {
		query += ` WHERE i.id = ?`
		args = append(args, *investmentID)
	}
	query += ` ORDER BY i.id ASC, p.fund_id ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query investment funds: %w", err)
	}
	defer rows.Close()

	funds := []model.InvestmentFund{}

	for rows.Next() {
		var f model.InvestmentFund
		var lastDate sql.NullString

		if err := rows.Scan(&f.InvestmentID, &f.InvestmentName, &f.Owner, &f.FundID, &lastDate); err != nil {
			return nil, fmt.Errorf("failed to scan investment funds: %w", err)
		}

		f.LastResultDate, err = parseNullTime(lastDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse last result date: %w", err)
		}
		funds = append(funds, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investment funds: %w", err)
	}

	return funds, nil
}

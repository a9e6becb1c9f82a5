package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Fund-Investment-Results/internal/apperrors"
	"github.com/ndewijer/Fund-Investment-Results/internal/model"
)

// FundRepository provides data access methods for the fund table.
type FundRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewFundRepository creates a new FundRepository with the provided database connection.
func NewFundRepository(db *sql.DB) *FundRepository {
	return &FundRepository{db: db}
}

func (r *FundRepository) WithTx(tx *sql.Tx) *FundRepository {
	return &FundRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *FundRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertFund stores a new fund.
// Returns apperrors.ErrDuplicateEntry when the ID or URL is already registered.
func (r *FundRepository) InsertFund(ctx context.Context, f model.Fund) error {
	query := `
		INSERT INTO fund (id, name, category_name, category_short, url)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.getQuerier().ExecContext(ctx, query, f.ID, f.Name, f.CategoryName, f.CategoryShort, f.URL)
	if err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to insert fund: %w", err)
	}
	return nil
}

// GetFund retrieves a single fund by ID.
// Returns apperrors.ErrFundNotFound if no fund has that ID.
func (r *FundRepository) GetFund(ctx context.Context, fundID string) (model.Fund, error) {
	query := `
		SELECT id, name, category_name, category_short, url
		FROM fund
		WHERE id = ?
	`

	var f model.Fund
	err := r.getQuerier().QueryRowContext(ctx, query, fundID).Scan(
		&f.ID,
		&f.Name,
		&f.CategoryName,
		&f.CategoryShort,
		&f.URL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Fund{}, apperrors.ErrFundNotFound
	}
	if err != nil {
		return model.Fund{}, fmt.Errorf("failed to query fund: %w", err)
	}
	return f, nil
}

// FundExists reports whether a fund with the given ID is registered.
func (r *FundRepository) FundExists(ctx context.Context, fundID string) (bool, error) {
	var exists bool
	err := r.getQuerier().QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM fund WHERE id = ?)`, fundID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check fund existence: %w", err)
	}
	return exists, nil
}

// GetFunds retrieves every fund together with the date of its newest quotation, ordered by ID.
// Returns an empty slice if no funds are registered.
func (r *FundRepository) GetFunds(ctx context.Context) ([]model.FundListing, error) {
	query := `
		SELECT f.id, f.name, f.category_name, f.category_short, f.url, MAX(q.date)
		FROM fund f
		LEFT JOIN quotation q ON q.fund_id = f.id
		GROUP BY f.id
		ORDER BY f.id ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund table: %w", err)
	}
	defer rows.Close()

	funds := []model.FundListing{}

	for rows.Next() {
		var f model.FundListing
		var lastDate sql.NullString

		err := rows.Scan(
			&f.ID,
			&f.Name,
			&f.CategoryName,
			&f.CategoryShort,
			&f.URL,
			&lastDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund table results: %w", err)
		}

		f.LastQuotationDate, err = parseNullTime(lastDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse last quotation date: %w", err)
		}
		funds = append(funds, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund table: %w", err)
	}

	return funds, nil
}

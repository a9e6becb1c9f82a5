package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ndewijer/Fund-Investment-Results/internal/api/request"
	"github.com/ndewijer/Fund-Investment-Results/internal/apperrors"
	"github.com/ndewijer/Fund-Investment-Results/internal/dates"
	"github.com/ndewijer/Fund-Investment-Results/internal/logging"
	"github.com/ndewijer/Fund-Investment-Results/internal/model"
	"github.com/ndewijer/Fund-Investment-Results/internal/repository"
	"github.com/ndewijer/Fund-Investment-Results/internal/validation"
)

// InvestmentService handles investment-related business logic operations.
type InvestmentService struct {
	investmentRepo *repository.InvestmentRepository
	fundRepo       *repository.FundRepository
}

// NewInvestmentService creates a new InvestmentService with the provided repository dependencies.
func NewInvestmentService(
	investmentRepo *repository.InvestmentRepository,
	fundRepo *repository.FundRepository,
) *InvestmentService {
	return &InvestmentService{
		investmentRepo: investmentRepo,
		fundRepo:       fundRepo,
	}
}

// GetInvestmentFunds lists (investment, fund) pairs with their last result date.
// A nil investmentID lists every investment.
func (s *InvestmentService) GetInvestmentFunds(ctx context.Context, investmentID *int64) ([]model.InvestmentFund, error) {
	if investmentID != nil {
		exists, err := s.investmentRepo.InvestmentExists(ctx, *investmentID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveInvestments, err)
		}
		if !exists {
			return nil, apperrors.ErrInvestmentNotFound
		}
	}

	funds, err := s.investmentRepo.GetInvestmentFunds(ctx, investmentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveInvestments, err)
	}
	return funds, nil
}

// ImportInvestments stores an owner's investments and their orders.
//
// Investments are matched by (name, owner) and created when missing. Every order is
// reported individually: an order already stored for the same investment, fund and
// day is "already_exists", an order for an unknown fund or with an invalid date is
// "failed".
func (s *InvestmentService) ImportInvestments(ctx context.Context, req request.ImportInvestmentsRequest) (model.InvestmentImportReport, error) {
	if err := validation.ValidateImportInvestments(req); err != nil {
		return model.InvestmentImportReport{}, err
	}

	report := model.InvestmentImportReport{Orders: []model.OrderImport{}}
	var existing, failed int
	record := func(entry model.OrderImport) {
		switch entry.Status {
		case model.OrderAlreadyExists:
			existing++
		case model.OrderFailed:
			failed++
		}
		report.Orders = append(report.Orders, entry)
	}

	fundKnown := make(map[string]error)

	for _, name := range sortedKeys(req.Investments) {
		inv, invErr := s.investmentRepo.GetOrCreateInvestment(ctx, name, req.Owner)
		funds := req.Investments[name].Funds

		for _, fundID := range sortedKeys(funds) {
			fundErr, checked := fundKnown[fundID]
			if !checked {
				fundErr = s.checkFund(ctx, fundID)
				fundKnown[fundID] = fundErr
			}

			for _, order := range funds[fundID] {
				entry := model.OrderImport{
					InvestmentID:   inv.ID,
					InvestmentName: name,
					FundID:         fundID,
					Date:           order.BuyDate,
					Value:          order.Money,
				}

				switch {
				case invErr != nil:
					entry.Status, entry.Details = model.OrderFailed, invErr.Error()
				case fundErr != nil:
					entry.Status, entry.Details = model.OrderFailed, fundErr.Error()
				default:
					entry.Status, entry.Details = s.insertOrder(ctx, inv, fundID, order)
				}
				record(entry)
			}
		}
	}

	report.Status = overallImportStatus(existing, failed)
	logging.FromContext(ctx).Info().
		Str("owner", req.Owner).
		Int("orders", len(report.Orders)).
		Str("status", report.Status).
		Msg("investment import finished")
	return report, nil
}

func (s *InvestmentService) checkFund(ctx context.Context, fundID string) error {
	exists, err := s.fundRepo.FundExists(ctx, fundID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", apperrors.ErrFundNotFound, fundID)
	}
	return nil
}

func (s *InvestmentService) insertOrder(ctx context.Context, inv model.Investment, fundID string, order request.OrderRequest) (string, string) {
	day, err := validation.ParseTime(order.BuyDate)
	if err != nil {
		return model.OrderFailed, err.Error()
	}

	err = s.investmentRepo.InsertOrder(ctx, model.InvestmentOrder{
		InvestmentID:   inv.ID,
		InvestmentName: inv.Name,
		Owner:          inv.Owner,
		FundID:         fundID,
		Date:           day,
		Value:          order.Money,
	})
	switch {
	case err == nil:
		return model.OrderAdded, ""
	case errors.Is(err, apperrors.ErrDuplicateEntry):
		return model.OrderAlreadyExists, fmt.Sprintf("Order for %s on %s already exists", fundID, dates.Format(day))
	default:
		return model.OrderFailed, err.Error()
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

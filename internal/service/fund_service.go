package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ndewijer/Fund-Investment-Results/internal/api/request"
	"github.com/ndewijer/Fund-Investment-Results/internal/apperrors"
	"github.com/ndewijer/Fund-Investment-Results/internal/logging"
	"github.com/ndewijer/Fund-Investment-Results/internal/model"
	"github.com/ndewijer/Fund-Investment-Results/internal/repository"
	"github.com/ndewijer/Fund-Investment-Results/internal/validation"
)

// Overall statuses of batch imports.
const (
	ImportSuccess = "success"
	ImportPartial = "partial"
	ImportFailed  = "failed"
)

// FundService handles fund-related business logic operations.
type FundService struct {
	fundRepo *repository.FundRepository
}

// NewFundService creates a new FundService with the provided repository dependencies.
func NewFundService(fundRepo *repository.FundRepository) *FundService {
	return &FundService{
		fundRepo: fundRepo,
	}
}

// GetFund retrieves a single fund.
func (s *FundService) GetFund(ctx context.Context, fundID string) (model.Fund, error) {
	return s.fundRepo.GetFund(ctx, fundID)
}

// GetFunds lists every monitored fund with the date of its newest quotation.
func (s *FundService) GetFunds(ctx context.Context) ([]model.FundListing, error) {
	return s.fundRepo.GetFunds(ctx)
}

// RegisterFunds adds a fund for every URL in req.
//
// Each URL is reported individually. The overall status is "success" when every
// fund was added, "failed" when at least one URL could not be processed, and
// "partial" when nothing failed but some funds were already registered.
func (s *FundService) RegisterFunds(ctx context.Context, req request.RegisterFundsRequest) (model.FundRegistrationReport, error) {
	if err := validation.ValidateRegisterFunds(req); err != nil {
		return model.FundRegistrationReport{}, err
	}

	report := model.FundRegistrationReport{Funds: make([]model.FundRegistration, 0, len(req.FundsToCheckURLs))}
	var added, existing, failed int

	for _, rawURL := range req.FundsToCheckURLs {
		entry := model.FundRegistration{URL: rawURL}

		fund, err := validation.ParseFundURL(rawURL)
		if err != nil {
			entry.Status = model.FundFailed
			entry.Details = err.Error()
			failed++
			report.Funds = append(report.Funds, entry)
			continue
		}
		entry.FundID = fund.ID

		err = s.fundRepo.InsertFund(ctx, fund)
		switch {
		case err == nil:
			entry.Status = model.FundAdded
			added++
		case errors.Is(err, apperrors.ErrDuplicateEntry):
			entry.Status = model.FundAlreadyExists
			entry.Details = fmt.Sprintf("Fund %s is already registered", fund.ID)
			existing++
		default:
			logging.FromContext(ctx).Error().Err(err).Str("fund_id", fund.ID).Msg("failed to register fund")
			entry.Status = model.FundFailed
			entry.Details = err.Error()
			failed++
		}
		report.Funds = append(report.Funds, entry)
	}

	report.Status = overallImportStatus(existing, failed)
	logging.FromContext(ctx).Info().
		Int("added", added).
		Int("already_exists", existing).
		Int("failed", failed).
		Msg("fund registration finished")
	return report, nil
}

func overallImportStatus(existing, failed int) string {
	switch {
	case failed > 0:
		return ImportFailed
	case existing > 0:
		return ImportPartial
	default:
		return ImportSuccess
	}
}

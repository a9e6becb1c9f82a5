package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Fund-Investment-Results/internal/analizy"
	"github.com/ndewijer/Fund-Investment-Results/internal/apperrors"
	"github.com/ndewijer/Fund-Investment-Results/internal/dates"
	"github.com/ndewijer/Fund-Investment-Results/internal/logging"
	"github.com/ndewijer/Fund-Investment-Results/internal/model"
	"github.com/ndewijer/Fund-Investment-Results/internal/repository"
)

// downloadConcurrency bounds the number of simultaneous quotation downloads.
const downloadConcurrency = 4

// QuotationService ingests fund quotations from the quotation source.
type QuotationService struct {
	fundRepo      *repository.FundRepository
	quotationRepo *repository.QuotationRepository
	client        analizy.Client
}

// NewQuotationService creates a new QuotationService with the provided dependencies.
func NewQuotationService(
	fundRepo *repository.FundRepository,
	quotationRepo *repository.QuotationRepository,
	client analizy.Client,
) *QuotationService {
	return &QuotationService{
		fundRepo:      fundRepo,
		quotationRepo: quotationRepo,
		client:        client,
	}
}

// GetQuotations returns the stored quotations of a fund dated on or after startDate.
func (s *QuotationService) GetQuotations(ctx context.Context, fundID string, startDate time.Time) ([]model.Quotation, error) {
	exists, err := s.fundRepo.FundExists(ctx, fundID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveQuotations, err)
	}
	if !exists {
		return nil, apperrors.ErrFundNotFound
	}

	quotations, err := s.quotationRepo.GetQuotations(ctx, fundID, startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveQuotations, err)
	}
	return quotations, nil
}

type download struct {
	prices []analizy.Price
	err    error
}

// UpdateQuotations downloads and stores the quotations published since the last stored
// day. An empty fundID refreshes every fund.
//
// Downloads run concurrently; quotations are stored one fund at a time, each fund in
// its own transaction. Per-fund failures are reported in the result, not as an error.
func (s *QuotationService) UpdateQuotations(ctx context.Context, fundID string) (model.QuotationUpdateReport, error) {
	funds, err := s.fundsToUpdate(ctx, fundID)
	if err != nil {
		return model.QuotationUpdateReport{}, err
	}

	downloads := make([]download, len(funds))
	var g errgroup.Group
	g.SetLimit(downloadConcurrency)
	for i, fund := range funds {
		g.Go(func() error {
			prices, err := s.client.DownloadQuotations(ctx, fund)
			downloads[i] = download{prices: prices, err: err}
			return nil
		})
	}
	_ = g.Wait()

	logger := logging.FromContext(ctx)
	report := model.QuotationUpdateReport{
		Success: true,
		Funds:   make([]model.QuotationUpdate, 0, len(funds)),
	}

	for i, fund := range funds {
		var update model.QuotationUpdate
		if downloads[i].err != nil {
			logger.Error().Err(downloads[i].err).Str("fund_id", fund.ID).Msg("failed to download quotation")
			update = model.QuotationUpdate{
				FundID:  fund.ID,
				Status:  model.QuotationDownloadFailed,
				Details: downloads[i].err.Error(),
			}
		} else {
			update = s.storeQuotations(ctx, fund.ID, downloads[i].prices)
		}

		if update.Status == model.QuotationDownloadFailed || update.Status == model.QuotationInsertFailed {
			report.Success = false
		}
		report.Funds = append(report.Funds, update)
	}

	logger.Info().Int("funds", len(funds)).Bool("success", report.Success).Msg("quotation update finished")
	return report, nil
}

func (s *QuotationService) fundsToUpdate(ctx context.Context, fundID string) ([]model.Fund, error) {
	if fundID != "" {
		fund, err := s.fundRepo.GetFund(ctx, fundID)
		if err != nil {
			return nil, err
		}
		return []model.Fund{fund}, nil
	}

	listings, err := s.fundRepo.GetFunds(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveFunds, err)
	}
	funds := make([]model.Fund, len(listings))
	for i, l := range listings {
		funds[i] = l.Fund
	}
	return funds, nil
}

// storeQuotations inserts the downloaded prices newer than the last stored day, with
// their change ratios against the nearest earlier-or-equal quotation of each period.
func (s *QuotationService) storeQuotations(ctx context.Context, fundID string, prices []analizy.Price) model.QuotationUpdate {
	update := model.QuotationUpdate{FundID: fundID}
	insertFailed := func(err error) model.QuotationUpdate {
		logging.FromContext(ctx).Error().Err(err).Str("fund_id", fundID).Msg("failed to add quotation")
		update.Status = model.QuotationInsertFailed
		update.Details = err.Error()
		return update
	}

	lastDate, err := s.quotationRepo.GetLastQuotationDate(ctx, fundID)
	if err != nil {
		return insertFailed(err)
	}

	var fresh []analizy.Price
	for _, p := range prices {
		if lastDate == nil || p.Date.After(*lastDate) {
			fresh = append(fresh, p)
		}
	}
	if len(fresh) == 0 {
		update.Status = model.QuotationNothingToAdd
		update.LastQuotationDate = lastDate
		return update
	}

	stored, err := s.quotationRepo.GetQuotations(ctx, fundID, time.Time{})
	if err != nil {
		return insertFailed(err)
	}

	quotations := buildQuotations(fundID, stored, fresh)
	if err := s.quotationRepo.InsertQuotations(ctx, quotations); err != nil {
		return insertFailed(err)
	}

	last := quotations[len(quotations)-1].Date
	update.Status = model.QuotationAdded
	update.QuotationsAdded = len(quotations)
	update.LastQuotationDate = &last
	return update
}

// buildQuotations computes value/prev - 1 for every period, where prev is the nearest
// quotation on or before the period's comparison date among stored and fresh entries.
// fresh must be ascending and dated after every stored quotation.
func buildQuotations(fundID string, stored []model.Quotation, fresh []analizy.Price) []model.Quotation {
	series := dates.NewSeries(stored)
	quotations := make([]model.Quotation, 0, len(fresh))

	for _, p := range fresh {
		q := model.Quotation{FundID: fundID, Date: p.Date, Value: p.Value}
		targets := dates.Horizons(p.Date)

		for i, period := range dates.Periods {
			prev, ok := series.OnOrBefore(targets[i])
			if !ok || prev.Value == 0 {
				continue
			}
			change := q.Value/prev.Value - 1
			switch period {
			case dates.Daily:
				q.DailyChange = &change
			case dates.Weekly:
				q.WeeklyChange = &change
			case dates.Monthly:
				q.MonthlyChange = &change
			case dates.Yearly:
				q.YearlyChange = &change
			}
		}

		series.Append(q)
		quotations = append(quotations, q)
	}
	return quotations
}

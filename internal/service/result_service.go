package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Fund-Investment-Results/internal/apperrors"
	"github.com/ndewijer/Fund-Investment-Results/internal/dates"
	"github.com/ndewijer/Fund-Investment-Results/internal/logging"
	"github.com/ndewijer/Fund-Investment-Results/internal/model"
	"github.com/ndewijer/Fund-Investment-Results/internal/repository"
)

// Outcome messages.
const (
	msgResultsAdded     = "Results calculated and added successfully"
	msgNoNewResults     = "No new result to add"
	msgNoOrders         = "Investment has no orders"
	msgResultsNotAdded  = "Failed to add results"
	msgRetrievalFailure = "Failed to retrieve data from DB"
	msgHistoryRebuilt   = "result history was rebuilt because it no longer matched the orders before the last calculated day"
)

// ResultService calculates and serves investment results.
//
// A calculation replays the orders of an investment one day at a time, starting
// from the first order or from the last day already calculated for every fund,
// and stores one result per fund per quoted day. Concurrent calculations of the
// same investment share a single run.
type ResultService struct {
	investmentRepo *repository.InvestmentRepository
	quotationRepo  *repository.QuotationRepository
	resultRepo     *repository.ResultRepository
	now            func() time.Time
	inflight       singleflight.Group
}

// ResultServiceOption customises a ResultService.
type ResultServiceOption func(*ResultService)

// WithClock replaces the clock deciding the last day to calculate.
func WithClock(now func() time.Time) ResultServiceOption {
	return func(s *ResultService) {
		s.now = now
	}
}

// NewResultService creates a new ResultService with the provided dependencies.
func NewResultService(
	investmentRepo *repository.InvestmentRepository,
	quotationRepo *repository.QuotationRepository,
	resultRepo *repository.ResultRepository,
	opts ...ResultServiceOption,
) *ResultService {
	s := &ResultService{
		investmentRepo: investmentRepo,
		quotationRepo:  quotationRepo,
		resultRepo:     resultRepo,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CalculateResult brings the results of one investment up to date.
//
// The steps are: check the investment exists, aggregate its orders, load the
// quotations of its funds, reconcile the stored results to a common checkpoint,
// replay every day after the checkpoint through today and store the new rows in
// one transaction. Failures are reported through the outcome status, never as an error.
// Concurrent calls for the same investment share one run, which ignores cancellation of ctx.
func (s *ResultService) CalculateResult(ctx context.Context, investmentID int64) model.CalculationOutcome {
	// cancelling one caller must not fail the run other callers are waiting on
	shared := context.WithoutCancel(ctx)
	v, _, _ := s.inflight.Do(strconv.FormatInt(investmentID, 10), func() (any, error) {
		return s.calculate(shared, investmentID), nil
	})
	return v.(model.CalculationOutcome)
}

// CalculateAllResults calculates every investment sequentially.
// The report status is the most severe individual status.
func (s *ResultService) CalculateAllResults(ctx context.Context) model.CalculationReport {
	report := model.CalculationReport{
		RunID:    uuid.NewString(),
		Status:   model.StatusSuccess,
		Outcomes: []model.CalculationOutcome{},
	}
	logger := logging.FromContext(ctx).With().Str("run_id", report.RunID).Logger()

	ids, err := s.investmentRepo.GetInvestmentIDs(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list investments")
		report.Status = model.StatusRetrievalFailure
		report.Message = fmt.Sprintf("Failed to retrieve investment IDs: %v", err)
		return report
	}

	for _, id := range ids {
		outcome := s.CalculateResult(logger.WithContext(ctx), id)
		report.Outcomes = append(report.Outcomes, outcome)
		report.Status = report.Status.Worse(outcome.Status)
	}

	logger.Info().
		Int("investments", len(ids)).
		Str("status", string(report.Status)).
		Msg("calculated all investment results")
	return report
}

func (s *ResultService) calculate(ctx context.Context, investmentID int64) model.CalculationOutcome {
	logger := logging.FromContext(ctx).With().Int64("investment_id", investmentID).Logger()
	outcome := model.CalculationOutcome{InvestmentID: investmentID}

	retrievalFailure := func(step string, err error) model.CalculationOutcome {
		logger.Error().Err(err).Str("step", step).Msg("investment result calculation failed")
		outcome.Status = model.StatusRetrievalFailure
		outcome.Message = msgRetrievalFailure
		outcome.Details = fmt.Sprintf("%s: %v", step, err)
		return outcome
	}

	exists, err := s.investmentRepo.InvestmentExists(ctx, investmentID)
	if err != nil {
		return retrievalFailure("check investment", err)
	}
	if !exists {
		outcome.Status = model.StatusNotFound
		outcome.Message = fmt.Sprintf("Investment with ID: %d does not exist", investmentID)
		return outcome
	}

	orders, err := s.investmentRepo.GetOrders(ctx, investmentID)
	if err != nil {
		return retrievalFailure("load orders", err)
	}
	if len(orders) == 0 {
		outcome.Status = model.StatusNoOp
		outcome.Message = msgNoOrders
		return outcome
	}
	book := aggregateOrders(orders)

	quotations, err := s.quotationRepo.GetQuotationMap(ctx, book.FundIDs, book.EarliestDate)
	if err != nil {
		return retrievalFailure("load quotations", err)
	}

	checkpoint, deleted, err := s.resultRepo.Reconcile(ctx, investmentID)
	if err != nil {
		return retrievalFailure("reconcile results", err)
	}
	outcome.RowsDeleted = deleted
	if deleted > 0 {
		logger.Info().
			Str("checkpoint", dates.Format(*checkpoint)).
			Int64("deleted", deleted).
			Msg("removed results beyond the common checkpoint")
	}

	engine := newCalculationEngine(investmentID, book, quotations, &logger)
	start := book.EarliestDate
	var notes []string

	if checkpoint != nil {
		var persisted []model.InvestmentResult
		err := s.resultRepo.GetResults(ctx, investmentID, time.Time{}, *checkpoint, func(r model.InvestmentResult) error {
			persisted = append(persisted, r)
			return nil
		})
		if err != nil {
			return retrievalFailure("load results", err)
		}
		engine.seed(persisted)

		if stale := engine.staleFunds(*checkpoint); len(stale) > 0 {
			logger.Warn().Strs("funds", stale).Msg("stored results disagree with orders, rebuilding history")
			removed, err := s.resultRepo.DeleteInvestmentResults(ctx, investmentID)
			if err != nil {
				return retrievalFailure("delete stale results", err)
			}
			outcome.RowsDeleted += removed
			notes = append(notes, msgHistoryRebuilt)
			engine = newCalculationEngine(investmentID, book, quotations, &logger)
		} else {
			start = dates.AddDays(*checkpoint, 1)
		}
	}

	today := dates.Today(s.now)
	engine.run(start, today)
	outcome.SkippedOrders = engine.skippedOrders
	if engine.skippedOrders > 0 {
		notes = append(notes, fmt.Sprintf("%d order(s) skipped: no quotation on order date", engine.skippedOrders))
	}
	outcome.Details = strings.Join(notes, "; ")

	if len(engine.results) == 0 {
		outcome.Status = model.StatusNoOp
		outcome.Message = msgNoNewResults
		return outcome
	}

	if err := s.resultRepo.InsertResults(ctx, engine.results); err != nil {
		logger.Error().Err(err).Int("rows", len(engine.results)).Msg("failed to store investment results")
		outcome.Status = model.StatusPartialFailure
		outcome.Message = msgResultsNotAdded
		notes = append(notes, err.Error())
		outcome.Details = strings.Join(notes, "; ")
		return outcome
	}

	last := engine.results[len(engine.results)-1].ResultDate
	outcome.Status = model.StatusSuccess
	outcome.Message = msgResultsAdded
	outcome.LastResultDate = &last
	outcome.RowsWritten = len(engine.results)

	logger.Info().
		Int("rows", outcome.RowsWritten).
		Str("last_result_date", dates.Format(last)).
		Msg("investment results calculated")
	return outcome
}

// GetResults returns the stored results of an investment between startDate and endDate
// inclusive. A zero endDate means today.
func (s *ResultService) GetResults(ctx context.Context, investmentID int64, startDate, endDate time.Time) ([]model.InvestmentResult, error) {
	if endDate.IsZero() {
		endDate = dates.Today(s.now)
	}
	if startDate.After(endDate) {
		return nil, apperrors.ErrInvalidDateRange
	}

	exists, err := s.investmentRepo.InvestmentExists(ctx, investmentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveResults, err)
	}
	if !exists {
		return nil, apperrors.ErrInvestmentNotFound
	}

	results := []model.InvestmentResult{}
	err = s.resultRepo.GetResults(ctx, investmentID, startDate, endDate, func(r model.InvestmentResult) error {
		results = append(results, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveResults, err)
	}
	return results, nil
}

package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/ndewijer/Fund-Investment-Results/internal/logging"
	"github.com/ndewijer/Fund-Investment-Results/internal/model"
	"github.com/ndewijer/Fund-Investment-Results/internal/repository"
)

// CheckerService periodically refreshes quotations and recalculates the investments
// they affect.
type CheckerService struct {
	quotationService *QuotationService
	resultService    *ResultService
	investmentRepo   *repository.InvestmentRepository
	fundRepo         *repository.FundRepository
	cron             *cron.Cron
}

// NewCheckerService creates a new CheckerService with the provided dependencies.
func NewCheckerService(
	quotationService *QuotationService,
	resultService *ResultService,
	investmentRepo *repository.InvestmentRepository,
	fundRepo *repository.FundRepository,
) *CheckerService {
	return &CheckerService{
		quotationService: quotationService,
		resultService:    resultService,
		investmentRepo:   investmentRepo,
		fundRepo:         fundRepo,
	}
}

// RunOnce performs a single pass: refresh every fund's quotations, then recalculate every
// investment holding a fund whose last quotation is newer than its last result.
// When no investment has orders yet all investments are calculated.
func (s *CheckerService) RunOnce(ctx context.Context) (model.CheckReport, error) {
	report := model.CheckReport{
		RunID:        uuid.NewString(),
		Status:       model.StatusSuccess,
		Calculations: []model.CalculationOutcome{},
	}
	logger := logging.FromContext(ctx).With().Str("run_id", report.RunID).Logger()
	ctx = logger.WithContext(ctx)
	started := time.Now()

	quotations, err := s.quotationService.UpdateQuotations(ctx, "")
	if err != nil {
		return report, fmt.Errorf("failed to update quotations: %w", err)
	}
	report.Quotations = quotations

	ids, err := s.investmentsToRecalculate(ctx)
	if err != nil {
		return report, err
	}

	if ids == nil {
		all := s.resultService.CalculateAllResults(ctx)
		report.Status = all.Status
		report.Calculations = all.Outcomes
	} else {
		for _, id := range ids {
			outcome := s.resultService.CalculateResult(ctx, id)
			report.Calculations = append(report.Calculations, outcome)
			report.Status = report.Status.Worse(outcome.Status)
		}
	}

	logger.Info().
		Bool("quotations_ok", quotations.Success).
		Int("calculations", len(report.Calculations)).
		Str("status", string(report.Status)).
		Dur("took", time.Since(started)).
		Msg("checker pass finished")
	return report, nil
}

// investmentsToRecalculate returns the IDs of investments with results behind their
// funds' quotations. A nil slice means no investment has orders.
func (s *CheckerService) investmentsToRecalculate(ctx context.Context) ([]int64, error) {
	invFunds, err := s.investmentRepo.GetInvestmentFunds(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list investment funds: %w", err)
	}
	if len(invFunds) == 0 {
		return nil, nil
	}

	funds, err := s.fundRepo.GetFunds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list funds: %w", err)
	}
	lastQuotation := make(map[string]*time.Time, len(funds))
	for _, f := range funds {
		lastQuotation[f.ID] = f.LastQuotationDate
	}

	selected := make(map[int64]struct{})
	for _, f := range invFunds {
		quoted := lastQuotation[f.FundID]
		if quoted == nil {
			continue
		}
		if f.LastResultDate == nil || quoted.After(*f.LastResultDate) {
			selected[f.InvestmentID] = struct{}{}
		}
	}

	ids := make([]int64, 0, len(selected))
	for id := range selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Start schedules RunOnce on a robfig/cron spec such as "@every 1h" or "0 18 * * 1-5".
// A pass still running when the next one is due causes that next pass to be skipped.
func (s *CheckerService) Start(ctx context.Context, schedule string) error {
	logger := logging.FromContext(ctx)
	cronLogger := cron.PrintfLogger(logger)

	c := cron.New(cron.WithChain(
		cron.Recover(cronLogger),
		cron.SkipIfStillRunning(cronLogger),
	))
	_, err := c.AddFunc(schedule, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			logger.Error().Err(err).Msg("checker pass failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid checker schedule %q: %w", schedule, err)
	}

	s.cron = c
	c.Start()
	logger.Info().Str("schedule", schedule).Msg("checker started")
	return nil
}

// Stop halts the schedule and returns a context done once a running pass has finished.
func (s *CheckerService) Stop() context.Context {
	if s.cron == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return s.cron.Stop()
}

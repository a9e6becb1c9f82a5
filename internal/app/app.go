// Package app wires repositories, the quotation client and services on top of an open database.
package app

import (
	"database/sql"

	"github.com/ndewijer/Fund-Investment-Results/internal/analizy"
	"github.com/ndewijer/Fund-Investment-Results/internal/api"
	"github.com/ndewijer/Fund-Investment-Results/internal/config"
	"github.com/ndewijer/Fund-Investment-Results/internal/repository"
	"github.com/ndewijer/Fund-Investment-Results/internal/service"
)

// App holds every service of a running process.
type App struct {
	System     *service.SystemService
	Fund       *service.FundService
	Quotation  *service.QuotationService
	Investment *service.InvestmentService
	Result     *service.ResultService
	Checker    *service.CheckerService
}

// New builds the services. client may be nil, in which case the analizy.pl client
// configured by cfg is used.
func New(db *sql.DB, cfg *config.Config, client analizy.Client) *App {
	if client == nil {
		client = analizy.NewQuotationClient(cfg.Analizy)
	}

	fundRepo := repository.NewFundRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)
	resultRepo := repository.NewResultRepository(db)

	quotationService := service.NewQuotationService(fundRepo, quotationRepo, client)
	resultService := service.NewResultService(investmentRepo, quotationRepo, resultRepo)

	return &App{
		System:     service.NewSystemService(db),
		Fund:       service.NewFundService(fundRepo),
		Quotation:  quotationService,
		Investment: service.NewInvestmentService(investmentRepo, fundRepo),
		Result:     resultService,
		Checker:    service.NewCheckerService(quotationService, resultService, investmentRepo, fundRepo),
	}
}

// Services returns the subset of services exposed over HTTP.
func (a *App) Services() api.Services {
	return api.Services{
		System:     a.System,
		Fund:       a.Fund,
		Quotation:  a.Quotation,
		Investment: a.Investment,
		Result:     a.Result,
	}
}

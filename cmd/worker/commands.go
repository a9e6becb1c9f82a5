package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"

	"github.com/ndewijer/Fund-Investment-Results/internal/api/request"
	"github.com/ndewijer/Fund-Investment-Results/internal/database"
	"github.com/ndewijer/Fund-Investment-Results/internal/model"
	"github.com/ndewijer/Fund-Investment-Results/internal/service"
	"github.com/ndewijer/Fund-Investment-Results/internal/validation"
)

var commands = []subcommands.Command{
	&migrateCmd{},
	&importFundsCmd{},
	&importInvestmentsCmd{},
	&quotationsCmd{},
	&calculateCmd{},
	&checkCmd{},
}

// run opens the environment, calls fn and prints its report.
// ok decides the exit status from the report.
func run(ctx context.Context, fn func(e *env) (any, bool, error)) subcommands.ExitStatus {
	e, closeEnv, err := openEnv(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeEnv()

	report, ok, err := fn(e)
	if err != nil {
		e.logger.Error().Err(err).Msg("command failed")
		return subcommands.ExitFailure
	}
	if err := printJSON(os.Stdout, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not write report: %v\n", err)
		return subcommands.ExitFailure
	}
	if !ok {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// calculationOK reports whether a calculation status needs no operator attention.
func calculationOK(status model.CalculationStatus) bool {
	return status == model.StatusSuccess || status == model.StatusNoOp
}

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "applies pending database migrations" }
func (*migrateCmd) Usage() string {
	return `migrate

Applies every pending migration and prints the resulting schema version.
`
}
func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return run(ctx, func(e *env) (any, bool, error) {
		v, err := database.Version(e.ctx, e.db)
		if err != nil {
			return nil, false, err
		}
		return map[string]int64{"schemaVersion": v}, true, nil
	})
}

type importFundsCmd struct{}

func (*importFundsCmd) Name() string     { return "import-funds" }
func (*importFundsCmd) Synopsis() string { return "registers the funds listed in a configuration file" }
func (*importFundsCmd) Usage() string {
	return `import-funds <file>

Reads {"FundsToCheckURLs": [...]} from file (or stdin for "-") and registers
every fund page. Funds already registered are reported as already_exists.
`
}
func (*importFundsCmd) SetFlags(*flag.FlagSet) {}

func (*importFundsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: import-funds takes exactly one file argument")
		return subcommands.ExitUsageError
	}
	req, err := decodeFile[request.RegisterFundsRequest](f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	return run(ctx, func(e *env) (any, bool, error) {
		report, err := e.app.Fund.RegisterFunds(e.ctx, req)
		if err != nil {
			return nil, false, err
		}
		return report, report.Status != service.ImportFailed, nil
	})
}

type importInvestmentsCmd struct{}

func (*importInvestmentsCmd) Name() string { return "import-investments" }
func (*importInvestmentsCmd) Synopsis() string {
	return "imports an owner's investments and orders from a configuration file"
}
func (*importInvestmentsCmd) Usage() string {
	return `import-investments <file>

Reads {"Owner": ..., "Investments": {name: {"Funds": {fundId: [{"BuyDate", "Money"}]}}}}
from file (or stdin for "-"). Orders already stored are reported as already_exists.
`
}
func (*importInvestmentsCmd) SetFlags(*flag.FlagSet) {}

func (*importInvestmentsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: import-investments takes exactly one file argument")
		return subcommands.ExitUsageError
	}
	req, err := decodeFile[request.ImportInvestmentsRequest](f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	return run(ctx, func(e *env) (any, bool, error) {
		report, err := e.app.Investment.ImportInvestments(e.ctx, req)
		if err != nil {
			return nil, false, err
		}
		return report, report.Status != service.ImportFailed, nil
	})
}

type quotationsCmd struct {
	fundID string
}

func (*quotationsCmd) Name() string     { return "quotations" }
func (*quotationsCmd) Synopsis() string { return "downloads new quotations" }
func (*quotationsCmd) Usage() string {
	return `quotations [-fund <fundId>]

Downloads the quotations published since the last stored day, for every
registered fund or only for the given one.
`
}

func (c *quotationsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fundID, "fund", "", "refresh only this fund")
}

func (c *quotationsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return run(ctx, func(e *env) (any, bool, error) {
		report, err := e.app.Quotation.UpdateQuotations(e.ctx, c.fundID)
		if err != nil {
			return nil, false, err
		}
		return report, report.Success, nil
	})
}

type calculateCmd struct {
	investment string
}

func (*calculateCmd) Name() string     { return "calculate" }
func (*calculateCmd) Synopsis() string { return "brings investment results up to date" }
func (*calculateCmd) Usage() string {
	return `calculate [-investment <id>]

Calculates the results of every investment, or only of the given one, through today.
`
}

func (c *calculateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.investment, "investment", "", "calculate only this investment ID")
}

func (c *calculateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	var investmentID int64
	if c.investment != "" {
		id, err := validation.ParseInvestmentID(c.investment)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid investment %s: %v\n", strconv.Quote(c.investment), err)
			return subcommands.ExitUsageError
		}
		investmentID = id
	}

	return run(ctx, func(e *env) (any, bool, error) {
		if investmentID != 0 {
			outcome := e.app.Result.CalculateResult(e.ctx, investmentID)
			return outcome, calculationOK(outcome.Status), nil
		}
		report := e.app.Result.CalculateAllResults(e.ctx)
		return report, calculationOK(report.Status), nil
	})
}

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "refreshes quotations and recalculates stale investments" }
func (*checkCmd) Usage() string {
	return `check

Runs a single checker pass: downloads new quotations for every fund, then
recalculates every investment holding a fund quoted after its last result.
`
}
func (*checkCmd) SetFlags(*flag.FlagSet) {}

func (*checkCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return run(ctx, func(e *env) (any, bool, error) {
		report, err := e.app.Checker.RunOnce(e.ctx)
		if err != nil {
			return nil, false, err
		}
		return report, calculationOK(report.Status), nil
	})
}

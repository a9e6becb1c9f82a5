package service_test

import (
	"context"
	"testing"

	"github.com/ndewijer/Fund-Investment-Results/internal/api/request"
	"github.com/ndewijer/Fund-Investment-Results/internal/model"
	"github.com/ndewijer/Fund-Investment-Results/internal/service"
	"github.com/ndewijer/Fund-Investment-Results/internal/testutil"
)

const allianzURL = "https://www.analizy.pl/fundusze-inwestycyjne-otwarte/ALL01/allianz-akcji"

// TestFundService_RegisterFunds tests fund registration from source URLs.
//
// WHY: The fund id, name and category short code are derived from the URL once;
// the short code later builds the quotation download URL.
func TestFundService_RegisterFunds(t *testing.T) {
	ctx := context.Background()

	t.Run("derives fund from URL", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)

		// Execute
		report, err := svc.RegisterFunds(ctx, request.RegisterFundsRequest{FundsToCheckURLs: []string{allianzURL}})

		// Assert
		if err != nil {
			t.Fatalf("RegisterFunds() returned unexpected error: %v", err)
		}
		if report.Status != service.ImportSuccess {
			t.Errorf("Expected status %q, got %q", service.ImportSuccess, report.Status)
		}
		fund, err := svc.GetFund(ctx, "ALL01")
		if err != nil {
			t.Fatalf("GetFund() returned unexpected error: %v", err)
		}
		if fund.Name != "Allianz Akcji" || fund.CategoryShort != "fio" {
			t.Errorf("Unexpected fund: %+v", fund)
		}
	})

	t.Run("already registered fund makes the import partial", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)
		req := request.RegisterFundsRequest{FundsToCheckURLs: []string{allianzURL}}
		if _, err := svc.RegisterFunds(ctx, req); err != nil {
			t.Fatalf("RegisterFunds() returned unexpected error: %v", err)
		}

		report, err := svc.RegisterFunds(ctx, req)

		if err != nil {
			t.Fatalf("RegisterFunds() returned unexpected error: %v", err)
		}
		if report.Status != service.ImportPartial || report.Funds[0].Status != model.FundAlreadyExists {
			t.Errorf("Expected partial with already_exists, got %+v", report)
		}
	})

	t.Run("invalid URL fails the import", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)

		report, err := svc.RegisterFunds(ctx, request.RegisterFundsRequest{
			FundsToCheckURLs: []string{allianzURL, "ftp://example.com/a/b/c"},
		})

		if err != nil {
			t.Fatalf("RegisterFunds() returned unexpected error: %v", err)
		}
		if report.Status != service.ImportFailed {
			t.Errorf("Expected status %q, got %q", service.ImportFailed, report.Status)
		}
		if report.Funds[0].Status != model.FundAdded || report.Funds[1].Status != model.FundFailed {
			t.Errorf("Unexpected per-URL statuses: %+v", report.Funds)
		}
		testutil.AssertRowCount(t, db, "fund", 1)
	})

	t.Run("empty request is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)

		if _, err := svc.RegisterFunds(ctx, request.RegisterFundsRequest{}); err == nil {
			t.Error("Expected validation error, got nil")
		}
	})
}

func TestFundService_GetFunds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestFundService(t, db)

	funds, err := svc.GetFunds(context.Background())
	if err != nil {
		t.Fatalf("GetFunds() returned unexpected error: %v", err)
	}
	if funds == nil || len(funds) != 0 {
		t.Errorf("Expected an empty, non-nil slice, got %v", funds)
	}
}

package repository_test

import (
	"context"
	"testing"

	"github.com/ndewijer/Fund-Investment-Results/internal/dates"
	"github.com/ndewijer/Fund-Investment-Results/internal/model"
	"github.com/ndewijer/Fund-Investment-Results/internal/repository"
	"github.com/ndewijer/Fund-Investment-Results/internal/testutil"
)

func result(investmentID int64, fundID, day string, invested float64) model.InvestmentResult {
	return model.InvestmentResult{
		InvestmentID:           investmentID,
		FundID:                 fundID,
		ResultDate:             testutil.Day(day),
		FundParticipationUnits: invested / 100,
		FundInvestedMoney:      invested,
		FundValue:              invested,
	}
}

// TestResultRepository_Reconcile tests checkpoint computation and tail repair.
//
// WHY: Resuming a calculation is only correct when every fund restarts from the
// same day. Reconcile is the step that guarantees that, and it deletes data.
func TestResultRepository_Reconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("no results gives nil checkpoint and deletes nothing", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewResultRepository(db)
		fund := testutil.NewFund().Build(t, db)
		inv := testutil.NewInvestment().WithOrder(fund.ID, "2024-01-02", 100).Build(t, db)

		// Execute
		checkpoint, deleted, err := repo.Reconcile(ctx, inv.ID)

		// Assert
		if err != nil {
			t.Fatalf("Reconcile() returned unexpected error: %v", err)
		}
		if checkpoint != nil {
			t.Errorf("Expected nil checkpoint, got %s", dates.Format(*checkpoint))
		}
		if deleted != 0 {
			t.Errorf("Expected 0 deleted rows, got %d", deleted)
		}
	})

	t.Run("aligned funds keep every row", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewResultRepository(db)
		f1 := testutil.NewFund().Build(t, db)
		f2 := testutil.NewFund().Build(t, db)
		inv := testutil.NewInvestment().Build(t, db)
		for _, day := range []string{"2024-01-02", "2024-01-03"} {
			testutil.AddResult(t, db, result(inv.ID, f1.ID, day, 100))
			testutil.AddResult(t, db, result(inv.ID, f2.ID, day, 100))
		}

		// Execute
		checkpoint, deleted, err := repo.Reconcile(ctx, inv.ID)

		// Assert
		if err != nil {
			t.Fatalf("Reconcile() returned unexpected error: %v", err)
		}
		if checkpoint == nil || dates.Format(*checkpoint) != "2024-01-03" {
			t.Errorf("Expected checkpoint 2024-01-03, got %v", checkpoint)
		}
		if deleted != 0 {
			t.Errorf("Expected 0 deleted rows, got %d", deleted)
		}
		testutil.AssertRowCount(t, db, "investment_result", 4)
	})

	t.Run("drifted fund tail is deleted", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewResultRepository(db)
		ahead := testutil.NewFund().Build(t, db)
		behind := testutil.NewFund().Build(t, db)
		inv := testutil.NewInvestment().Build(t, db)
		for _, day := range []string{"2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"} {
			testutil.AddResult(t, db, result(inv.ID, ahead.ID, day, 100))
		}
		for _, day := range []string{"2024-01-02", "2024-01-03"} {
			testutil.AddResult(t, db, result(inv.ID, behind.ID, day, 100))
		}

		// Execute
		checkpoint, deleted, err := repo.Reconcile(ctx, inv.ID)

		// Assert
		if err != nil {
			t.Fatalf("Reconcile() returned unexpected error: %v", err)
		}
		if checkpoint == nil || dates.Format(*checkpoint) != "2024-01-03" {
			t.Errorf("Expected checkpoint 2024-01-03, got %v", checkpoint)
		}
		if deleted != 2 {
			t.Errorf("Expected 2 deleted rows, got %d", deleted)
		}
		testutil.AssertRowCount(t, db, "investment_result", 4)
	})

	t.Run("other investments are untouched", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewResultRepository(db)
		f1 := testutil.NewFund().Build(t, db)
		f2 := testutil.NewFund().Build(t, db)
		inv := testutil.NewInvestment().Build(t, db)
		other := testutil.NewInvestment().Build(t, db)
		testutil.AddResult(t, db, result(inv.ID, f1.ID, "2024-01-02", 100))
		testutil.AddResult(t, db, result(inv.ID, f2.ID, "2024-01-01", 100))
		testutil.AddResult(t, db, result(other.ID, f1.ID, "2024-01-05", 100))

		// Execute
		_, deleted, err := repo.Reconcile(ctx, inv.ID)

		// Assert
		if err != nil {
			t.Fatalf("Reconcile() returned unexpected error: %v", err)
		}
		if deleted != 1 {
			t.Errorf("Expected 1 deleted row, got %d", deleted)
		}
		testutil.AssertRowCount(t, db, "investment_result", 2)
	})

	t.Run("closed database returns error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewResultRepository(db)
		db.Close()

		if _, _, err := repo.Reconcile(ctx, 1); err == nil {
			t.Error("Expected error when database is closed, got nil")
		}
	})
}

// TestResultRepository_InsertResults tests the all-or-nothing persistence boundary.
//
// WHY: A failed calculation must leave the result history exactly as it was so a
// retry resumes from a consistent checkpoint.
func TestResultRepository_InsertResults(t *testing.T) {
	ctx := context.Background()

	t.Run("stores batch with nullable periods", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewResultRepository(db)
		fund := testutil.NewFund().Build(t, db)
		inv := testutil.NewInvestment().Build(t, db)

		change := 12.5
		first := result(inv.ID, fund.ID, "2024-01-02", 100)
		second := result(inv.ID, fund.ID, "2024-01-03", 100)
		second.LastDayResult = &change

		// Execute
		err := repo.InsertResults(ctx, []model.InvestmentResult{first, second})

		// Assert
		if err != nil {
			t.Fatalf("InsertResults() returned unexpected error: %v", err)
		}

		var got []model.InvestmentResult
		err = repo.GetResults(ctx, inv.ID, testutil.Day("2024-01-01"), testutil.Day("2024-12-31"),
			func(r model.InvestmentResult) error {
				got = append(got, r)
				return nil
			})
		if err != nil {
			t.Fatalf("GetResults() returned unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 results, got %d", len(got))
		}
		if got[0].LastDayResult != nil {
			t.Errorf("Expected nil day result on first row, got %v", *got[0].LastDayResult)
		}
		if got[1].LastDayResult == nil || *got[1].LastDayResult != change {
			t.Errorf("Expected day result %v on second row, got %v", change, got[1].LastDayResult)
		}
		if got[1].LastWeekResult != nil {
			t.Errorf("Expected nil week result, got %v", *got[1].LastWeekResult)
		}
	})

	t.Run("failure rolls back the whole batch", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewResultRepository(db)
		fund := testutil.NewFund().Build(t, db)
		inv := testutil.NewInvestment().Build(t, db)
		testutil.FailResultInsertsAfter(t, db, "2024-01-03")

		batch := []model.InvestmentResult{
			result(inv.ID, fund.ID, "2024-01-02", 100),
			result(inv.ID, fund.ID, "2024-01-03", 100),
			result(inv.ID, fund.ID, "2024-01-04", 100),
		}

		// Execute
		err := repo.InsertResults(ctx, batch)

		// Assert
		if err == nil {
			t.Fatal("Expected error from failing insert, got nil")
		}
		testutil.AssertRowCount(t, db, "investment_result", 0)
	})

	t.Run("duplicate row fails the batch", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewResultRepository(db)
		fund := testutil.NewFund().Build(t, db)
		inv := testutil.NewInvestment().Build(t, db)
		testutil.AddResult(t, db, result(inv.ID, fund.ID, "2024-01-03", 100))

		batch := []model.InvestmentResult{
			result(inv.ID, fund.ID, "2024-01-02", 100),
			result(inv.ID, fund.ID, "2024-01-03", 100),
		}

		// Execute
		err := repo.InsertResults(ctx, batch)

		// Assert
		if err == nil {
			t.Fatal("Expected error for duplicate result, got nil")
		}
		testutil.AssertRowCount(t, db, "investment_result", 1)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewResultRepository(db)

		if err := repo.InsertResults(ctx, nil); err != nil {
			t.Errorf("InsertResults(nil) returned unexpected error: %v", err)
		}
	})
}

func TestResultRepository_GetResults(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by range and orders by date then fund", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewResultRepository(db)
		fa := testutil.NewFund().WithID("AAA01").Build(t, db)
		fb := testutil.NewFund().WithID("BBB01").Build(t, db)
		inv := testutil.NewInvestment().Build(t, db)
		for _, day := range []string{"2024-01-02", "2024-01-03", "2024-01-04"} {
			testutil.AddResult(t, db, result(inv.ID, fb.ID, day, 100))
			testutil.AddResult(t, db, result(inv.ID, fa.ID, day, 100))
		}

		// Execute
		var got []model.InvestmentResult
		err := repo.GetResults(ctx, inv.ID, testutil.Day("2024-01-03"), testutil.Day("2024-01-04"),
			func(r model.InvestmentResult) error {
				got = append(got, r)
				return nil
			})

		// Assert
		if err != nil {
			t.Fatalf("GetResults() returned unexpected error: %v", err)
		}
		want := []string{"2024-01-03/AAA01", "2024-01-03/BBB01", "2024-01-04/AAA01", "2024-01-04/BBB01"}
		if len(got) != len(want) {
			t.Fatalf("Expected %d results, got %d", len(want), len(got))
		}
		for i, w := range want {
			if key := dates.Format(got[i].ResultDate) + "/" + got[i].FundID; key != w {
				t.Errorf("Row %d: expected %s, got %s", i, w, key)
			}
		}
	})
}

func TestResultRepository_DeleteInvestmentResults(t *testing.T) {
	// Setup
	db := testutil.SetupTestDB(t)
	repo := repository.NewResultRepository(db)
	fund := testutil.NewFund().Build(t, db)
	inv := testutil.NewInvestment().Build(t, db)
	other := testutil.NewInvestment().Build(t, db)
	testutil.AddResult(t, db, result(inv.ID, fund.ID, "2024-01-02", 100))
	testutil.AddResult(t, db, result(inv.ID, fund.ID, "2024-01-03", 100))
	testutil.AddResult(t, db, result(other.ID, fund.ID, "2024-01-02", 100))

	// Execute
	deleted, err := repo.DeleteInvestmentResults(context.Background(), inv.ID)

	// Assert
	if err != nil {
		t.Fatalf("DeleteInvestmentResults() returned unexpected error: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 deleted rows, got %d", deleted)
	}
	testutil.AssertRowCount(t, db, "investment_result", 1)
}

package sqldb

import (
	"context"
	"errors"
	"testing"
	"time"

	gamificationDomain "microloan-backend/internal/domain/gamification"
	loanDomain "microloan-backend/internal/domain/loan"
	repaymentDomain "microloan-backend/internal/domain/repayment"
	userDomain "microloan-backend/internal/domain/user"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with all four tables.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&userDomain.User{},
		&loanDomain.Loan{},
		&repaymentDomain.Repayment{},
		&gamificationDomain.State{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeUser(userID string) *userDomain.User {
	return &userDomain.User{
		UserID:                    userID,
		TransactionFrequency:      15,
		AvgTransactionAmount:      100,
		UtilityPaymentConsistency: 0.9,
		AirtimeTopupFrequency:     8,
	}
}

func TestUserRepository_FirstWriteWins(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if err := repo.CreateIfAbsent(ctx, makeUser("u1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	// second application with different features must not overwrite
	later := makeUser("u1")
	later.TransactionFrequency = 2
	later.UtilityPaymentConsistency = 0.1
	if err := repo.CreateIfAbsent(ctx, later); err != nil {
		t.Fatalf("create-if-absent: %v", err)
	}

	got, err := repo.GetByUserID(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TransactionFrequency != 15 || got.UtilityPaymentConsistency != 0.9 {
		t.Errorf("stored features were overwritten: %+v", got)
	}
}

func TestUserRepository_GetMissing(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByUserID(context.Background(), "ghost")
	if !errors.Is(err, userDomain.ErrNotFound) {
		t.Fatalf("err=%v, want userDomain.ErrNotFound", err)
	}
}

func TestLoanRepository_CreateGetCount(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	app := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	l := &loanDomain.Loan{
		LoanID:          "Lu1_1736937000",
		UserID:          "u1",
		Amount:          1000,
		Decision:        loanDomain.DecisionApprove,
		Score:           93.2,
		ApplicationDate: app,
		DueDate:         loanDomain.DueDateFrom(app),
	}
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByLoanID(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UserID != "u1" || got.Amount != 1000 || got.Decision != loanDomain.DecisionApprove {
		t.Errorf("loan mismatch: %+v", got)
	}
	if !got.DueDate.Equal(app.AddDate(0, 0, 30)) {
		t.Errorf("due_date=%s, want application+30d", got.DueDate)
	}

	n, err := repo.CountByUserID(ctx, "u1")
	if err != nil || n != 1 {
		t.Fatalf("count=%d err=%v, want 1", n, err)
	}
	n, err = repo.CountByUserID(ctx, "u2")
	if err != nil || n != 0 {
		t.Fatalf("count=%d err=%v, want 0 for other user", n, err)
	}

	if _, err := repo.GetByLoanID(ctx, "missing"); !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("err=%v, want loanDomain.ErrNotFound", err)
	}
}

func TestLoanRepository_DuplicateLoanIDRejected(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	l := &loanDomain.Loan{LoanID: "Lu1_1", UserID: "u1", Amount: 100}
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := &loanDomain.Loan{LoanID: "Lu1_1", UserID: "u1", Amount: 200}
	if err := repo.Create(ctx, dup); err == nil {
		t.Fatal("duplicate loan_id accepted, want unique violation")
	}
}

func TestRepaymentRepository_ListInInsertionOrder(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepaymentRepository(db)
	ctx := context.Background()

	dates := []string{"2025-02-10", "2025-02-01", "2025-03-05"}
	for _, d := range dates {
		pd, _ := time.Parse("2006-01-02", d)
		if err := repo.Create(ctx, &repaymentDomain.Repayment{
			UserID:      "u1",
			LoanID:      "Lu1_1",
			PaymentDate: pd,
			Amount:      1000,
			Status:      repaymentDomain.StatusOnTime,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	_ = repo.Create(ctx, &repaymentDomain.Repayment{UserID: "u2", LoanID: "Lu2_1", Amount: 5})

	list, err := repo.ListByUserID(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len=%d, want 3", len(list))
	}
	for i, d := range dates {
		if list[i].PaymentDate.Format("2006-01-02") != d {
			t.Errorf("entry %d date=%s, want %s (insertion order)", i, list[i].PaymentDate.Format("2006-01-02"), d)
		}
	}
}

func TestGamificationRepository_InitAndRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewGamificationRepository(db)
	ctx := context.Background()

	st, err := repo.GetOrInitForUpdate(ctx, "u1")
	if err != nil {
		t.Fatalf("get-or-init: %v", err)
	}
	if st.RepaymentStreak != 0 || st.PointsEarned != 0 || len(st.BadgesEarned) != 0 {
		t.Fatalf("first touch state not zeroed: %+v", st)
	}

	st.RepaymentStreak = 3
	st.PointsEarned = 250
	st.BadgesEarned = []string{gamificationDomain.BadgeFirstApplication, gamificationDomain.BadgeConsistentPayer}
	if err := repo.Save(ctx, st); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetByUserID(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RepaymentStreak != 3 || got.PointsEarned != 250 {
		t.Errorf("state mismatch: %+v", got)
	}
	if len(got.BadgesEarned) != 2 || got.BadgesEarned[1] != gamificationDomain.BadgeConsistentPayer {
		t.Errorf("badges did not round-trip: %v", got.BadgesEarned)
	}

	// a second init must not reset the row
	again, err := repo.GetOrInitForUpdate(ctx, "u1")
	if err != nil {
		t.Fatalf("second get-or-init: %v", err)
	}
	if again.PointsEarned != 250 {
		t.Errorf("re-init reset the row: %+v", again)
	}
}

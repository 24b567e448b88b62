package underwriting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"microloan-backend/internal/domain/gamification"
	"microloan-backend/internal/domain/loan"
	"microloan-backend/internal/domain/repayment"
	"microloan-backend/internal/domain/uow"
	"microloan-backend/internal/domain/user"
	"microloan-backend/internal/scoring"
	"microloan-backend/pkg/id"
	"microloan-backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrValidation marks out-of-range or malformed input; nothing is written
// when it is returned.
var ErrValidation = errors.New("invalid input")

type Usecase struct {
	users        user.Repository
	loans        loan.Repository
	repayments   repayment.Repository
	gamification gamification.Repository
	uow          uow.UnitOfWork
	model        *scoring.Model

	now func() time.Time
}

// NewUsecase: direct repos serve the read path, the UoW owns every write flow.
func NewUsecase(r uow.Repos, tx uow.UnitOfWork, model *scoring.Model) *Usecase {
	return &Usecase{
		users:        r.Users,
		loans:        r.Loans,
		repayments:   r.Repayments,
		gamification: r.Gamification,
		uow:          tx,
		model:        model,
		now:          time.Now,
	}
}

// WithClock overrides the wall clock; test hook.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (in *ApplyInput) validate() error {
	switch {
	case in.UserID == "":
		return fmt.Errorf("%w: user_id must not be empty", ErrValidation)
	case in.LoanAmount <= 0:
		return fmt.Errorf("%w: loan_amount must be > 0", ErrValidation)
	case in.TransactionFrequency < 0:
		return fmt.Errorf("%w: transaction_frequency must be >= 0", ErrValidation)
	case in.AvgTransactionAmount < 0:
		return fmt.Errorf("%w: avg_transaction_amount must be >= 0", ErrValidation)
	case in.UtilityPaymentConsistency < 0 || in.UtilityPaymentConsistency > 1:
		return fmt.Errorf("%w: utility_payment_consistency must be within [0,1]", ErrValidation)
	case in.AirtimeTopupFrequency < 0:
		return fmt.Errorf("%w: airtime_topup_frequency must be >= 0", ErrValidation)
	}
	return nil
}

// Apply scores the application, decides, and commits user upsert, loan insert
// and the progression grant as one transaction.
func (u *Usecase) Apply(ctx context.Context, in ApplyInput) (*ApplyDTO, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	features := []float64{
		in.TransactionFrequency,
		in.AvgTransactionAmount,
		in.UtilityPaymentConsistency,
		in.AirtimeTopupFrequency,
	}
	score, explanation, err := u.scoreWithExplanation(features)
	if err != nil {
		return nil, err
	}
	decision := loan.DecisionFor(score)

	appliedAt := u.now().UTC()
	appDate := appliedAt.Truncate(24 * time.Hour)
	dueDate := loan.DueDateFrom(appDate)
	loanID := id.NewLoanID(in.UserID, appliedAt)

	var delta gamification.Delta
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Users.CreateIfAbsent(ctx, &user.User{
			UserID:                    in.UserID,
			TransactionFrequency:      in.TransactionFrequency,
			AvgTransactionAmount:      in.AvgTransactionAmount,
			UtilityPaymentConsistency: in.UtilityPaymentConsistency,
			AirtimeTopupFrequency:     in.AirtimeTopupFrequency,
		}); err != nil {
			return err
		}

		// Counted before the insert, inside the same tx, so two concurrent
		// first applications cannot both see zero.
		prior, err := r.Loans.CountByUserID(ctx, in.UserID)
		if err != nil {
			return err
		}

		if err := r.Loans.Create(ctx, &loan.Loan{
			LoanID:          loanID,
			UserID:          in.UserID,
			Amount:          in.LoanAmount,
			Decision:        decision,
			Score:           score,
			ApplicationDate: appDate,
			DueDate:         dueDate,
		}); err != nil {
			return err
		}

		st, err := r.Gamification.GetOrInitForUpdate(ctx, in.UserID)
		if err != nil {
			return err
		}
		delta = st.ApplyGrant(prior == 0)
		return r.Gamification.Save(ctx, st)
	})
	if err != nil {
		return nil, err
	}

	logger.L().Info("loan application decided",
		zap.String("user_id", in.UserID),
		zap.String("loan_id", loanID),
		zap.String("decision", string(decision)),
		zap.Float64("score", score),
	)

	return &ApplyDTO{
		UserID:       in.UserID,
		LoanID:       loanID,
		Decision:     string(decision),
		Score:        score,
		Explanation:  explanation,
		PointsEarned: delta.Points,
		BadgesEarned: delta.Badges,
		Message:      fmt.Sprintf("Loan %s! Repay by %s to earn 50 points.", decision, formatDate(dueDate)),
	}, nil
}

// Progress is read-only: stored features, progression totals and the full
// repayment history.
func (u *Usecase) Progress(ctx context.Context, userID string) (*ProgressDTO, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id must not be empty", ErrValidation)
	}

	usr, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	st, err := u.gamification.GetByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		st = gamification.NewState(userID)
	} else if err != nil {
		return nil, err
	}

	history, err := u.repayments.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	progress := make([]ProgressEntryDTO, 0, len(history))
	for _, rp := range history {
		progress = append(progress, ProgressEntryDTO{
			Date:   formatDate(rp.PaymentDate),
			Status: string(rp.Status),
			Amount: rp.Amount,
		})
	}

	return &ProgressDTO{
		UserID: userID,
		AlternativeData: AlternativeDataDTO{
			TransactionFrequency:      usr.TransactionFrequency,
			AvgTransactionAmount:      usr.AvgTransactionAmount,
			UtilityPaymentConsistency: usr.UtilityPaymentConsistency,
			AirtimeTopupFrequency:     usr.AirtimeTopupFrequency,
		},
		Gamification: GamificationDTO{
			RepaymentStreak: st.RepaymentStreak,
			PointsEarned:    st.PointsEarned,
			BadgesEarned:    badgesOrEmpty(st.BadgesEarned),
			ProgressMap:     progress,
		},
	}, nil
}

// Repay records a repayment against a loan and advances the progression
// state, all inside one transaction locked on the user's row.
func (u *Usecase) Repay(ctx context.Context, in RepayInput) (*RepayDTO, error) {
	switch {
	case in.UserID == "":
		return nil, fmt.Errorf("%w: user_id must not be empty", ErrValidation)
	case in.LoanID == "":
		return nil, fmt.Errorf("%w: loan_id must not be empty", ErrValidation)
	case in.Amount <= 0:
		return nil, fmt.Errorf("%w: amount must be > 0", ErrValidation)
	}
	payDate, err := time.ParseInLocation(dateLayout, in.PaymentDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: payment_date must be YYYY-MM-DD", ErrValidation)
	}

	var (
		status   repayment.Status
		delta    gamification.Delta
		streak   int
		newScore float64
	)
	err = u.uow.WithinUserTx(ctx, in.UserID, func(r uow.Repos, st *gamification.State) error {
		l, err := r.Loans.GetByLoanID(ctx, in.LoanID)
		if err != nil {
			return err
		}
		if !repayment.MatchesPrincipal(in.Amount, l.Amount) {
			return repayment.ErrAmountMismatch
		}
		status = repayment.StatusFor(payDate, l.DueDate)

		usr, err := r.Users.GetByUserID(ctx, in.UserID)
		if err != nil {
			return err
		}

		delta = st.Advance(status)
		streak = st.RepaymentStreak

		if err := r.Repayments.Create(ctx, &repayment.Repayment{
			UserID:      in.UserID,
			LoanID:      in.LoanID,
			PaymentDate: payDate,
			Amount:      in.Amount,
			Status:      status,
		}); err != nil {
			return err
		}
		if err := r.Gamification.Save(ctx, st); err != nil {
			return err
		}

		// Informational only: the score shown back is re-derived from the
		// stored features, not from this repayment.
		z, err := u.model.Normalize(usr.Features())
		if err != nil {
			return err
		}
		newScore, err = u.model.ScorePercent(z)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.L().Info("repayment recorded",
		zap.String("user_id", in.UserID),
		zap.String("loan_id", in.LoanID),
		zap.String("status", string(status)),
		zap.Int("streak", streak),
		zap.Int("points_delta", delta.Points),
	)

	msg := "Repayment recorded."
	if status == repayment.StatusOnTime {
		msg = fmt.Sprintf("Repayment recorded! You earned %d points.", delta.Points)
	}
	return &RepayDTO{
		UserID:             in.UserID,
		LoanID:             in.LoanID,
		Status:             string(status),
		NewRepaymentStreak: streak,
		PointsEarned:       delta.Points,
		BadgesEarned:       badgesOrEmpty(delta.Badges),
		NewScore:           newScore,
		Message:            msg,
	}, nil
}

// scoreWithExplanation normalizes, scores and, best effort, attributes the
// score per feature. Explanation failures are logged and swallowed; they must
// never block the decision path.
func (u *Usecase) scoreWithExplanation(features []float64) (float64, map[string]float64, error) {
	z, err := u.model.Normalize(features)
	if err != nil {
		return 0, nil, err
	}
	score, err := u.model.ScorePercent(z)
	if err != nil {
		return 0, nil, err
	}
	explanation, err := u.model.Explain(z)
	if err != nil {
		logger.L().Warn("explanation unavailable", zap.Error(err))
		explanation = nil
	}
	return score, explanation, nil
}

func badgesOrEmpty(b []string) []string {
	if b == nil {
		return []string{}
	}
	return b
}

package repayment

import (
	"errors"
	"time"
)

var (
	ErrAmountMismatch = errors.New("repayment amount does not match loan principal")
)

type Status string

const (
	StatusOnTime Status = "on-time"
	StatusLate   Status = "late"
)

const (
	// Payments up to one day past the due date still count as on-time.
	GraceDays = 1
	// Absolute difference allowed between a repayment and the loan principal.
	AmountTolerance = 0.01
)

type Repayment struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID      string    `gorm:"column:user_id;size:64;index:idx_repayments_user" json:"user_id"`
	LoanID      string    `gorm:"column:loan_id;size:96;index:idx_repayments_loan" json:"loan_id"`
	PaymentDate time.Time `gorm:"column:payment_date" json:"payment_date"`
	Amount      float64   `gorm:"column:amount;type:decimal(18,2)" json:"amount"`
	Status      Status    `gorm:"column:status;size:16" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Repayment) TableName() string { return "repayments" }

// StatusFor classifies a payment against the loan's due date.
func StatusFor(paymentDate, dueDate time.Time) Status {
	if !paymentDate.After(dueDate.AddDate(0, 0, GraceDays)) {
		return StatusOnTime
	}
	return StatusLate
}

// MatchesPrincipal reports whether amount settles the principal within tolerance.
func MatchesPrincipal(amount, principal float64) bool {
	diff := amount - principal
	if diff < 0 {
		diff = -diff
	}
	return diff <= AmountTolerance
}

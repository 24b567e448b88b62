package loan

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("loan not found")

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionDeny    Decision = "deny"
)

const (
	// Score (0-100) above which an application is approved.
	ApproveThreshold = 70.0
	// Repayment term granted on every approved application.
	TermDays = 30
)

type Loan struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LoanID          string    `gorm:"column:loan_id;size:96;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	UserID          string    `gorm:"column:user_id;size:64;index:idx_loans_user" json:"user_id"`
	Amount          float64   `gorm:"column:amount;type:decimal(18,2)" json:"amount"`
	Decision        Decision  `gorm:"column:decision;size:16" json:"decision"`
	Score           float64   `gorm:"column:score;type:decimal(6,2)" json:"score"`
	ApplicationDate time.Time `gorm:"column:application_date" json:"application_date"`
	DueDate         time.Time `gorm:"column:due_date" json:"due_date"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Loan) TableName() string { return "loans" }

// DecisionFor applies the fixed approval threshold to a 0-100 score.
func DecisionFor(score float64) Decision {
	if score > ApproveThreshold {
		return DecisionApprove
	}
	return DecisionDeny
}

// DueDateFrom computes the repayment deadline for an application date.
func DueDateFrom(applicationDate time.Time) time.Time {
	return applicationDate.AddDate(0, 0, TermDays)
}

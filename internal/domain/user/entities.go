package user

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

// User holds the alternative-data features captured on the first loan
// application. First write wins: later applications never overwrite these.
type User struct {
	UserID                    string    `gorm:"column:user_id;size:64;primaryKey" json:"user_id"`
	TransactionFrequency      float64   `gorm:"column:transaction_frequency" json:"transaction_frequency"`
	AvgTransactionAmount      float64   `gorm:"column:avg_transaction_amount" json:"avg_transaction_amount"`
	UtilityPaymentConsistency float64   `gorm:"column:utility_payment_consistency" json:"utility_payment_consistency"`
	AirtimeTopupFrequency     float64   `gorm:"column:airtime_topup_frequency" json:"airtime_topup_frequency"`
	CreatedAt                 time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (User) TableName() string { return "users" }

// Features returns the stored signals in the order the model was fitted on.
func (u *User) Features() []float64 {
	return []float64{
		u.TransactionFrequency,
		u.AvgTransactionAmount,
		u.UtilityPaymentConsistency,
		u.AirtimeTopupFrequency,
	}
}

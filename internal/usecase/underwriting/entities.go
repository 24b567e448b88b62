package underwriting

import "time"

type ApplyInput struct {
	UserID                    string  `json:"user_id"`
	LoanAmount                float64 `json:"loan_amount"`
	TransactionFrequency      float64 `json:"transaction_frequency"`
	AvgTransactionAmount      float64 `json:"avg_transaction_amount"`
	UtilityPaymentConsistency float64 `json:"utility_payment_consistency"`
	AirtimeTopupFrequency     float64 `json:"airtime_topup_frequency"`
}

type ApplyDTO struct {
	UserID       string             `json:"user_id"`
	LoanID       string             `json:"loan_id"`
	Decision     string             `json:"decision"`
	Score        float64            `json:"score"`
	Explanation  map[string]float64 `json:"explanation,omitempty"`
	PointsEarned int                `json:"points_earned"`
	BadgesEarned []string           `json:"badges_earned"`
	Message      string             `json:"message"`
}

type RepayInput struct {
	UserID      string  `json:"user_id"`
	LoanID      string  `json:"loan_id"`
	PaymentDate string  `json:"payment_date"`
	Amount      float64 `json:"amount"`
}

type RepayDTO struct {
	UserID             string   `json:"user_id"`
	LoanID             string   `json:"loan_id"`
	Status             string   `json:"status"`
	NewRepaymentStreak int      `json:"new_repayment_streak"`
	PointsEarned       int      `json:"points_earned"`
	BadgesEarned       []string `json:"badges_earned"`
	NewScore           float64  `json:"new_score"`
	Message            string   `json:"message"`
}

type AlternativeDataDTO struct {
	TransactionFrequency      float64 `json:"transaction_frequency"`
	AvgTransactionAmount      float64 `json:"avg_transaction_amount"`
	UtilityPaymentConsistency float64 `json:"utility_payment_consistency"`
	AirtimeTopupFrequency     float64 `json:"airtime_topup_frequency"`
}

type ProgressEntryDTO struct {
	Date   string  `json:"date"`
	Status string  `json:"status"`
	Amount float64 `json:"amount"`
}

type GamificationDTO struct {
	RepaymentStreak int                `json:"repayment_streak"`
	PointsEarned    int                `json:"points_earned"`
	BadgesEarned    []string           `json:"badges_earned"`
	ProgressMap     []ProgressEntryDTO `json:"progress_map"`
}

type ProgressDTO struct {
	UserID          string             `json:"user_id"`
	AlternativeData AlternativeDataDTO `json:"alternative_data"`
	Gamification    GamificationDTO    `json:"gamification"`
}

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string { return t.Format(dateLayout) }

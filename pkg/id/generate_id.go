package id

import (
	"fmt"
	"time"
)

// NewLoanID derives the loan key from the owning user and the application
// instant, e.g. "Lu1_1735689600". One application, one key.
func NewLoanID(userID string, appliedAt time.Time) string {
	return fmt.Sprintf("L%s_%d", userID, appliedAt.Unix())
}

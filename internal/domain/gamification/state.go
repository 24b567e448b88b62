package gamification

import (
	"time"

	"microloan-backend/internal/domain/repayment"
)

const (
	BadgeFirstApplication = "First Application"
	BadgeConsistentPayer  = "Consistent Payer"
	BadgeReliableBorrower = "Reliable Borrower"

	applicationPoints = 50
	onTimePoints      = 50

	consistentPayerStreak = 3
	consistentPayerBonus  = 100

	reliableBorrowerStreak = 5
	reliableBorrowerBonus  = 200
)

// State is one user's progression row. Transitions are value-level and pure;
// only the repository persists them.
type State struct {
	UserID          string    `gorm:"column:user_id;size:64;primaryKey" json:"user_id"`
	RepaymentStreak int       `gorm:"column:repayment_streak;not null;default:0" json:"repayment_streak"`
	PointsEarned    int       `gorm:"column:points_earned;not null;default:0" json:"points_earned"`
	BadgesEarned    []string  `gorm:"column:badges_earned;serializer:json" json:"badges_earned"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (State) TableName() string { return "gamification_states" }

// NewState is the zero row written on a user's first touch.
func NewState(userID string) *State {
	return &State{UserID: userID, BadgesEarned: []string{}}
}

// Delta is what a single transition granted, as opposed to the cumulative
// totals held in State.
type Delta struct {
	Points int
	Badges []string
}

func (s *State) hasBadge(name string) bool {
	for _, b := range s.BadgesEarned {
		if b == name {
			return true
		}
	}
	return false
}

func (s *State) grant(points int, badge string, d *Delta) {
	s.PointsEarned += points
	d.Points += points
	if badge != "" && !s.hasBadge(badge) {
		s.BadgesEarned = append(s.BadgesEarned, badge)
		d.Badges = append(d.Badges, badge)
	}
}

// Advance applies one repayment to the state and returns what it granted.
// On-time extends the streak and may cross a badge threshold; late resets the
// streak and grants nothing. Badge bonuses fire at most once per user even if
// the streak passes the threshold again later.
func (s *State) Advance(status repayment.Status) Delta {
	d := Delta{Badges: []string{}}
	if status != repayment.StatusOnTime {
		s.RepaymentStreak = 0
		return d
	}

	s.RepaymentStreak++
	s.grant(onTimePoints, "", &d)

	if s.RepaymentStreak == consistentPayerStreak && !s.hasBadge(BadgeConsistentPayer) {
		s.grant(consistentPayerBonus, BadgeConsistentPayer, &d)
	}
	if s.RepaymentStreak == reliableBorrowerStreak && !s.hasBadge(BadgeReliableBorrower) {
		s.grant(reliableBorrowerBonus, BadgeReliableBorrower, &d)
	}
	return d
}

// ApplyGrant applies the per-application reward: a flat points grant plus the
// one-time first-application badge.
func (s *State) ApplyGrant(firstApplication bool) Delta {
	d := Delta{Badges: []string{}}
	s.grant(applicationPoints, "", &d)
	if firstApplication && !s.hasBadge(BadgeFirstApplication) {
		s.grant(0, BadgeFirstApplication, &d)
	}
	return d
}

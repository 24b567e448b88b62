package gamification

import (
	"reflect"
	"testing"

	"microloan-backend/internal/domain/repayment"
)

func TestAdvance_StreakRun(t *testing.T) {
	st := NewState("u1")
	for k := 1; k <= 7; k++ {
		d := st.Advance(repayment.StatusOnTime)
		if st.RepaymentStreak != k {
			t.Fatalf("after %d on-time repayments streak=%d, want %d", k, st.RepaymentStreak, k)
		}
		if d.Points < 50 {
			t.Fatalf("on-time transition granted %d points, want at least 50", d.Points)
		}
	}

	d := st.Advance(repayment.StatusLate)
	if st.RepaymentStreak != 0 {
		t.Fatalf("late repayment left streak=%d, want 0", st.RepaymentStreak)
	}
	if d.Points != 0 || len(d.Badges) != 0 {
		t.Fatalf("late repayment granted delta %+v, want nothing", d)
	}
}

func TestAdvance_DeltasAndThresholds(t *testing.T) {
	tests := []struct {
		name       string
		run        []repayment.Status
		wantStreak int
		wantPoints int
		wantBadges []string
		// delta of the final transition only
		wantLastDelta Delta
	}{
		{
			name:          "single on-time",
			run:           []repayment.Status{repayment.StatusOnTime},
			wantStreak:    1,
			wantPoints:    50,
			wantBadges:    []string{},
			wantLastDelta: Delta{Points: 50, Badges: []string{}},
		},
		{
			name:          "third on-time crosses consistent payer",
			run:           []repayment.Status{repayment.StatusOnTime, repayment.StatusOnTime, repayment.StatusOnTime},
			wantStreak:    3,
			wantPoints:    250,
			wantBadges:    []string{BadgeConsistentPayer},
			wantLastDelta: Delta{Points: 150, Badges: []string{BadgeConsistentPayer}},
		},
		{
			name: "fifth on-time crosses reliable borrower",
			run: []repayment.Status{
				repayment.StatusOnTime, repayment.StatusOnTime, repayment.StatusOnTime,
				repayment.StatusOnTime, repayment.StatusOnTime,
			},
			wantStreak:    5,
			wantPoints:    600,
			wantBadges:    []string{BadgeConsistentPayer, BadgeReliableBorrower},
			wantLastDelta: Delta{Points: 250, Badges: []string{BadgeReliableBorrower}},
		},
		{
			name: "badge bonus fires once through 3 -> 0 -> 3",
			run: []repayment.Status{
				repayment.StatusOnTime, repayment.StatusOnTime, repayment.StatusOnTime,
				repayment.StatusLate,
				repayment.StatusOnTime, repayment.StatusOnTime, repayment.StatusOnTime,
			},
			wantStreak:    3,
			wantPoints:    400, // 6 x 50 + one 100 bonus, never a second bonus
			wantBadges:    []string{BadgeConsistentPayer},
			wantLastDelta: Delta{Points: 50, Badges: []string{}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := NewState("u1")
			var last Delta
			for _, s := range tc.run {
				last = st.Advance(s)
			}
			if st.RepaymentStreak != tc.wantStreak {
				t.Errorf("streak=%d, want %d", st.RepaymentStreak, tc.wantStreak)
			}
			if st.PointsEarned != tc.wantPoints {
				t.Errorf("points=%d, want %d", st.PointsEarned, tc.wantPoints)
			}
			if !reflect.DeepEqual(st.BadgesEarned, tc.wantBadges) {
				t.Errorf("badges=%v, want %v", st.BadgesEarned, tc.wantBadges)
			}
			if !reflect.DeepEqual(last, tc.wantLastDelta) {
				t.Errorf("last delta=%+v, want %+v", last, tc.wantLastDelta)
			}
		})
	}
}

func TestApplyGrant(t *testing.T) {
	st := NewState("u1")

	d := st.ApplyGrant(true)
	if d.Points != 50 {
		t.Fatalf("first application delta points=%d, want 50", d.Points)
	}
	if !reflect.DeepEqual(d.Badges, []string{BadgeFirstApplication}) {
		t.Fatalf("first application delta badges=%v, want [%s]", d.Badges, BadgeFirstApplication)
	}

	d = st.ApplyGrant(false)
	if d.Points != 50 || len(d.Badges) != 0 {
		t.Fatalf("second application delta=%+v, want 50 points and no badges", d)
	}
	if st.PointsEarned != 100 {
		t.Fatalf("points=%d after two applications, want 100", st.PointsEarned)
	}
	if !reflect.DeepEqual(st.BadgesEarned, []string{BadgeFirstApplication}) {
		t.Fatalf("badges=%v, want first-application badge only once", st.BadgesEarned)
	}

	// firstApplication re-asserted (e.g. replayed request) must not re-grant the badge
	d = st.ApplyGrant(true)
	if len(d.Badges) != 0 {
		t.Fatalf("replayed first application re-granted badges %v", d.Badges)
	}
}

package id

import (
	"testing"
	"time"
)

func TestNewLoanID(t *testing.T) {
	at := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	got := NewLoanID("u1", at)
	want := "Lu1_1736937000"
	if got != want {
		t.Fatalf("NewLoanID = %q, want %q", got, want)
	}

	// distinct application instants never collide for one user
	other := NewLoanID("u1", at.Add(time.Second))
	if other == got {
		t.Fatalf("ids collide across instants: %q", other)
	}
}

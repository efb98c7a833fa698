package auth

import (
	"testing"
	"time"
)

func TestPasswordRoundTrip(t *testing.T) {
	h, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if h == "hunter2hunter2" {
		t.Fatal("password stored in the clear")
	}
	if !CheckPassword(h, "hunter2hunter2") {
		t.Error("correct password rejected")
	}
	if CheckPassword(h, "wrong") {
		t.Error("wrong password accepted")
	}
	if CheckPassword("not-a-hash", "hunter2hunter2") {
		t.Error("garbage hash accepted")
	}
}

func TestTokenIsValid(t *testing.T) {
	now := time.Now()

	tests := []struct {
		tok Token
		ex  bool
	}{
		{Token{UserId: "u", Expires: now.Add(time.Hour).UnixNano()}, true},
		{Token{UserId: "u", Expires: now.Add(-time.Hour).UnixNano()}, false},
		{Token{Expires: now.Add(time.Hour).UnixNano()}, false}, // no user
		{Token{}, false},
	}
	for i, ts := range tests {
		if v := ts.tok.IsValid(now); v != ts.ex {
			t.Errorf("case %d: got %v, wanted %v", i, v, ts.ex)
		}
	}
}

func TestTrimEmail(t *testing.T) {
	if v := trimEmail("  Planner@Example.COM "); v != "planner@example.com" {
		t.Errorf("got %q", v)
	}
}

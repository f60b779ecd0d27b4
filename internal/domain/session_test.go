package domain

import (
	"testing"
	"time"
)

func TestSessionValidRequiresBothTokens(t *testing.T) {
	cases := []struct {
		s    Session
		want bool
	}{
		{Session{}, false},
		{Session{AccessToken: "a"}, false},
		{Session{RefreshToken: "r"}, false},
		{Session{AccessToken: "a", RefreshToken: "r"}, true},
	}
	for _, c := range cases {
		if got := c.s.Valid(); got != c.want {
			t.Errorf("Valid(%+v) = %v, want %v", c.s, got, c.want)
		}
	}
}

func TestTokenClaimsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if (TokenClaims{}).Expired(now) {
		t.Fatalf("expected claims without exp to never expire")
	}
	if !(TokenClaims{ExpiresAt: now}).Expired(now) {
		t.Fatalf("expected exp == now to be expired")
	}
	if (TokenClaims{ExpiresAt: now.Add(time.Minute)}).Expired(now) {
		t.Fatalf("expected future exp to be valid")
	}
}

func TestParseLanguage(t *testing.T) {
	cases := []struct {
		in   string
		want Language
		ok   bool
	}{
		{"en", LangEnglish, true},
		{" HI ", LangHindi, true},
		{"fr", LangEnglish, false},
		{"", LangEnglish, false},
	}
	for _, c := range cases {
		got, ok := ParseLanguage(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("ParseLanguage(%q) = %q,%v want %q,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestResponseStatusHelpers(t *testing.T) {
	if !(Response{StatusCode: 204}).OK() {
		t.Fatalf("expected 204 to be OK")
	}
	if (Response{StatusCode: 401}).OK() {
		t.Fatalf("expected 401 not OK")
	}
	if !(Response{StatusCode: 401}).Unauthorized() {
		t.Fatalf("expected 401 to be unauthorized")
	}
}

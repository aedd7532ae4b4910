package review

import (
	"errors"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	ids := []int64{1, 42, 7000000001, -1001234567890, 0}
	for _, id := range ids {
		for _, a := range []Action{ActionApprove, ActionReject} {
			tok := Token{Action: a, ApplicantID: id}
			got, err := ParseToken(tok.String())
			if err != nil {
				t.Fatalf("ParseToken(%q): %v", tok.String(), err)
			}
			if got != tok {
				t.Fatalf("round trip = %+v, want %+v", got, tok)
			}
		}
	}
}

func TestTokenWireForm(t *testing.T) {
	if got := (Token{Action: ActionApprove, ApplicantID: 42}).String(); got != "approve:42" {
		t.Fatalf("String() = %q, want approve:42", got)
	}
}

func TestParseTokenRejects(t *testing.T) {
	cases := []struct {
		raw  string
		want error
	}{
		{"", ErrMalformedToken},
		{"approve", ErrMalformedToken},
		{"approve:", ErrMalformedToken},
		{":42", ErrMalformedToken},
		{"approve:abc", ErrMalformedToken},
		{"approve:042", ErrMalformedToken},
		{"approve:+42", ErrMalformedToken},
		{"approve:42:1", ErrMalformedToken},
		{"ban:42", ErrUnknownAction},
		{"APPROVE:42", ErrUnknownAction},
	}
	for _, tc := range cases {
		_, err := ParseToken(tc.raw)
		if !errors.Is(err, tc.want) {
			t.Fatalf("ParseToken(%q) err = %v, want %v", tc.raw, err, tc.want)
		}
	}
}

package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"
)

func TestRedactHidesToken(t *testing.T) {
	msg := `Post "https://api.telegram.org/bot123456:AAH-x_y/sendMessage": dial tcp: i/o timeout`
	got := Redact(msg)
	want := `Post "https://api.telegram.org/bot<redacted>/sendMessage": dial tcp: i/o timeout`
	if got != want {
		t.Fatalf("Redact = %q, want %q", got, want)
	}
}

func TestClassify(t *testing.T) {
	dial := &url.Error{Op: "Post", URL: "https://api.telegram.org", Err: &net.OpError{Op: "dial", Err: errors.New("refused")}}
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"deadline", fmt.Errorf("send: %w", context.DeadlineExceeded), KindTimeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "api.telegram.org"}, KindDNS},
		{"dial", dial, KindDial},
		{"not modified", errors.New("telegram: Bad Request: message is not modified (400)"), KindNotModified},
		{"forbidden", errors.New("telegram: Forbidden: bot was blocked by the user (403)"), KindForbidden},
		{"bad request", errors.New("telegram: Bad Request: chat not found (400)"), KindHTTP4xx},
		{"server", errors.New("telegram: Internal Server Error (500)"), KindHTTP5xx},
		{"other", errors.New("boom"), KindUnknown},
	}
	for _, tc := range cases {
		if got := Classify(tc.err); got != tc.want {
			t.Fatalf("%s: Classify = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestIsNotModified(t *testing.T) {
	if !IsNotModified(errors.New("telegram: Bad Request: message is not modified: specified new message content (400)")) {
		t.Fatalf("not detected")
	}
	if IsNotModified(nil) || IsNotModified(errors.New("chat not found")) {
		t.Fatalf("false positive")
	}
}

// Package netutil classifies Telegram API failures for logs and metrics.
package netutil

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"
)

var tokenRe = regexp.MustCompile(`bot[0-9]+:[A-Za-z0-9_-]+`)

// Error kinds reported by Classify.
const (
	KindTimeout     = "timeout"
	KindDNS         = "dns"
	KindDial        = "dial"
	KindTLS         = "tls"
	KindFlood       = "flood"
	KindForbidden   = "forbidden"
	KindNotModified = "not_modified"
	KindHTTP4xx     = "http_4xx"
	KindHTTP5xx     = "http_5xx"
	KindUnknown     = "unknown"
)

// Redact hides bot tokens that net/http embeds into request URLs.
func Redact(msg string) string {
	if msg == "" {
		return ""
	}
	return tokenRe.ReplaceAllString(msg, "bot<redacted>")
}

// IsNotModified reports Telegram's "message is not modified" answer, which
// means the requested edit is already in place.
func IsNotModified(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "message is not modified")
}

// Classify maps err to one of the Kind constants; nil maps to "".
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if IsNotModified(err) {
		return KindNotModified
	}

	var floodErr tele.FloodError
	if errors.As(err, &floodErr) {
		return KindFlood
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return KindTimeout
		}
		return KindDNS
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return KindTimeout
		}
		if opErr.Op == "dial" {
			return KindDial
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return KindTimeout
		}
		if urlErr.Err != nil && !errors.Is(urlErr.Err, err) {
			if kind := Classify(urlErr.Err); kind != "" && kind != KindUnknown {
				return kind
			}
		}
	}

	var alertErr tls.AlertError
	if errors.As(err, &alertErr) {
		return KindTLS
	}

	status := HTTPStatus(err)
	switch {
	case status == http.StatusTooManyRequests:
		return KindFlood
	case status == http.StatusForbidden:
		return KindForbidden
	case status >= 500:
		return KindHTTP5xx
	case status >= 400:
		return KindHTTP4xx
	}
	return KindUnknown
}

// HTTPStatus extracts the Bot API status code from err, or 0.
func HTTPStatus(err error) int {
	if err == nil {
		return 0
	}

	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}

	var floodErr tele.FloodError
	if errors.As(err, &floodErr) {
		return http.StatusTooManyRequests
	}

	var groupErr tele.GroupError
	if errors.As(err, &groupErr) {
		return http.StatusBadRequest
	}

	// Unmapped API errors read "telegram: <description> (<code>)".
	msg := err.Error()
	lastOpen := strings.LastIndex(msg, "(")
	lastClose := strings.LastIndex(msg, ")")
	if lastOpen >= 0 && lastClose > lastOpen+1 {
		codeStr := strings.TrimSpace(msg[lastOpen+1 : lastClose])
		if code, convErr := strconv.Atoi(codeStr); convErr == nil {
			return code
		}
	}
	return 0
}

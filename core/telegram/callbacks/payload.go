// Package callbacks decodes inline button data.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// ParseData splits raw callback data into a key and a payload. Two encodings
// are understood: Telebot's "\f<unique>|<payload>" and plain "<key>:<payload>".
func ParseData(raw string) (string, string) {
	if strings.HasPrefix(raw, "\f") {
		unique, payload, _ := strings.Cut(strings.TrimPrefix(raw, "\f"), "|")
		return strings.TrimSpace(unique), payload
	}
	key, payload, _ := strings.Cut(raw, ":")
	return strings.TrimSpace(key), payload
}

// Parse returns key and payload of cb. Telebot already strips its own prefix
// when it matched a registered unique, in which case Unique is set.
func Parse(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	return ParseData(cb.Data)
}

// CallbackKey returns the routing key of the callback in c.
func CallbackKey(c tele.Context) string {
	k, _ := Parse(c.Callback())
	return k
}

// CallbackPayload returns the payload of the callback in c.
func CallbackPayload(c tele.Context) string {
	_, p := Parse(c.Callback())
	return p
}

// RawData returns the callback data exactly as the button carried it.
func RawData(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	if cb.Unique != "" {
		return "\f" + cb.Unique + "|" + cb.Data
	}
	return cb.Data
}

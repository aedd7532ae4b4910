package helpers

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// SenderID returns the update author's ID, or 0 when there is none.
func SenderID(c tele.Context) int64 {
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}

// ChatID returns the chat the update came from, or 0.
func ChatID(c tele.Context) int64 {
	if ch := c.Chat(); ch != nil {
		return ch.ID
	}
	return 0
}

// FullName joins first and last name the way Telegram clients display them.
func FullName(u *tele.User) string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// Username returns the @handle without the at sign; empty when the user has none.
func Username(u *tele.User) string {
	if u == nil {
		return ""
	}
	return strings.TrimPrefix(strings.TrimSpace(u.Username), "@")
}

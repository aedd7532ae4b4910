package middleware

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func newContext(t *testing.T, senderID int64) tele.Context {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Offline: true})
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}
	return b.NewContext(tele.Update{
		Callback: &tele.Callback{Sender: &tele.User{ID: senderID}, Data: "approve:42"},
	})
}

func TestAdminOnlyMiddleware(t *testing.T) {
	var called, rejected int
	next := func(tele.Context) error { called++; return nil }
	onReject := func(tele.Context) error { rejected++; return nil }

	mw := AdminOnlyMiddleware(AdminOptions{AdminID: 500, OnReject: onReject})
	_ = mw(next)(newContext(t, 500))
	_ = mw(next)(newContext(t, 42))

	if called != 1 || rejected != 1 {
		t.Fatalf("called=%d rejected=%d", called, rejected)
	}
}

func TestAdminOnlyWithoutAdminRejectsAll(t *testing.T) {
	called := false
	mw := AdminOnlyMiddleware(AdminOptions{})
	_ = mw(func(tele.Context) error { called = true; return nil })(newContext(t, 500))
	if called {
		t.Fatalf("handler ran without configured admin")
	}
}

func TestRecoverMiddlewareReturnsError(t *testing.T) {
	h := RecoverMiddleware(func(tele.Context) error { panic("boom") })
	if err := h(newContext(t, 1)); err == nil {
		t.Fatalf("panic not turned into error")
	}
}

func TestHandlerNameDefault(t *testing.T) {
	c := newContext(t, 1)
	if got := HandlerName(c); got != "unhandled" {
		t.Fatalf("HandlerName = %q", got)
	}
	SetHandlerName(c, "callback.approve")
	if got := HandlerName(c); got != "callback.approve" {
		t.Fatalf("HandlerName = %q", got)
	}
}

package telegram

import (
	"errors"
	"testing"

	tele "gopkg.in/telebot.v4"
)

func noop(tele.Context) error { return nil }

type fakeSetter struct {
	got []tele.Command
	err error
}

func (f *fakeSetter) SetCommands(opts ...interface{}) error {
	if len(opts) > 0 {
		f.got, _ = opts[0].([]tele.Command)
	}
	return f.err
}

func TestRegisterCommandValidation(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCommand("start", Command{Handler: noop, Description: "x"}); err == nil {
		t.Fatalf("command without slash accepted")
	}
	if err := reg.RegisterCommand("/start", Command{Handler: noop}); err == nil {
		t.Fatalf("command without description accepted")
	}
	if err := reg.RegisterCommand("/start", Command{Handler: noop, Description: "x"}); err != nil {
		t.Fatalf("RegisterCommand: %v", err)
	}
	if err := reg.RegisterCommand("/start", Command{Handler: noop, Description: "y"}); err == nil {
		t.Fatalf("duplicate accepted")
	}
}

func TestLookupCommandByAlias(t *testing.T) {
	reg := NewRegistry()
	_ = reg.RegisterCommand("/start", Command{Handler: noop, Description: "x", Aliases: []string{"apply"}})
	key, _, ok := reg.LookupCommand("/apply")
	if !ok || key != "/start" {
		t.Fatalf("LookupCommand = %q, %v", key, ok)
	}
}

func TestInitBotCommandsSkipsHidden(t *testing.T) {
	reg := NewRegistry()
	_ = reg.RegisterCommand("/start", Command{Handler: noop, Description: "Оставить заявку"})
	_ = reg.RegisterCommand("/debug", Command{Handler: noop, Description: "x", Hidden: true})

	s := &fakeSetter{}
	InitBotCommands(s, reg)
	if len(s.got) != 1 || s.got[0].Text != "start" {
		t.Fatalf("published = %+v", s.got)
	}

	s.err = errors.New("boom")
	InitBotCommands(s, reg)
}

func TestCallbacksRegistry(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCallback("approve", noop); err != nil {
		t.Fatalf("RegisterCallback: %v", err)
	}
	if err := reg.RegisterCallback("approve", noop); err == nil {
		t.Fatalf("duplicate callback accepted")
	}
	if _, ok := reg.GetCallback("approve"); !ok {
		t.Fatalf("callback missing")
	}
	if got := reg.ListCallbacks(); len(got) != 1 || got[0] != "approve" {
		t.Fatalf("ListCallbacks = %v", got)
	}
}

// Package form drives the applicant questionnaire: consent, age, game id and
// a profile screenshot, one step per inbound message.
package form

import (
	"context"
	"log/slog"

	"github.com/m3rciful/clanintake/core/logger"
	"github.com/m3rciful/clanintake/core/metrics"
	"github.com/m3rciful/clanintake/core/telegram/state"
	"github.com/m3rciful/clanintake/intake/messaging"
	"github.com/m3rciful/clanintake/intake/review"
)

const component = "intake.form"

// Submitter receives completed forms.
type Submitter interface {
	Submit(ctx context.Context, sub review.Submission) review.Request
}

// Options configures a Machine. Store and Gateway are required.
type Options struct {
	Store     state.Store
	Gateway   messaging.Gateway
	Submitter Submitter
	// ExampleImage is a local image shown with the screenshot prompt; empty sends text only.
	ExampleImage string
	Metrics      *metrics.Metrics
}

// Machine applies the transition table to inbound messages.
type Machine struct {
	store        state.Store
	gw           messaging.Gateway
	submitter    Submitter
	exampleImage string
	metrics      *metrics.Metrics
}

// New constructs a Machine.
func New(opts Options) *Machine {
	return &Machine{
		store:        opts.Store,
		gw:           opts.Gateway,
		submitter:    opts.Submitter,
		exampleImage: opts.ExampleImage,
		metrics:      opts.Metrics,
	}
}

// Result describes what Handle did with one input.
type Result struct {
	Transition string
	From       state.Step
	To         state.Step
	Ignored    bool
	// Err is the first outbound failure; the session update is kept regardless.
	Err error
}

// Handle advances the sender's session by one input. The session is updated
// before any message is sent and is never rolled back on send failures.
func (m *Machine) Handle(ctx context.Context, in Input) Result {
	userID := in.From.ID
	sess := m.store.Get(userID)
	from := sess.Step
	if sess.Answers == nil {
		sess.Answers = make(map[string]string)
	}

	tr, ok := lookup(from, in.Kind)
	if !ok {
		logger.Debug(ctx, component, "form.ignored",
			slog.String("from_step", string(from)),
			slog.String("kind", string(in.Kind)),
			slog.String("outcome", "ignored"))
		return Result{From: from, To: from, Ignored: true}
	}

	if tr.apply != nil {
		tr.apply(&sess, in)
	}
	sess.Step = tr.next
	switch {
	case tr.next == state.StepNone:
		m.store.Clear(userID)
	case tr.apply != nil || tr.next != from:
		m.store.Set(userID, sess)
	}
	m.metrics.Transition(tr.name)

	var err error
	if tr.effect != nil {
		err = tr.effect(m, ctx, in, sess)
	}

	logger.Info(ctx, component, "form.transition",
		slog.String("transition", tr.name),
		slog.String("from_step", string(from)),
		slog.String("to_step", string(tr.next)),
		slog.String("status", logger.Status(err)))

	return Result{Transition: tr.name, From: from, To: tr.next, Err: err}
}

func (m *Machine) send(ctx context.Context, chatID int64, text string, markup messaging.Markup) error {
	if _, err := m.gw.SendText(ctx, chatID, text, markup); err != nil {
		logger.Warn(ctx, component, "form.send.failed",
			slog.String("method", "sendMessage"),
			slog.Int64("chat_id", chatID),
			logger.Err(err))
		return err
	}
	return nil
}

func (m *Machine) promptConsent(ctx context.Context, in Input, _ state.Session) error {
	return m.send(ctx, in.ChatID, textGreeting, messaging.Markup{
		Reply: [][]string{{ConsentYes, ConsentNo}},
	})
}

func (m *Machine) sendDeclined(ctx context.Context, in Input, _ state.Session) error {
	return m.send(ctx, in.ChatID, textDeclined, messaging.Markup{RemoveKeyboard: true})
}

func (m *Machine) promptAge(ctx context.Context, in Input, _ state.Session) error {
	return m.send(ctx, in.ChatID, textAskAge, messaging.Markup{RemoveKeyboard: true})
}

func (m *Machine) reaskAge(ctx context.Context, in Input, _ state.Session) error {
	return m.send(ctx, in.ChatID, textNeedAge, messaging.Markup{})
}

func (m *Machine) promptGameID(ctx context.Context, in Input, _ state.Session) error {
	return m.send(ctx, in.ChatID, textAskGameID, messaging.Markup{})
}

func (m *Machine) reaskGameID(ctx context.Context, in Input, _ state.Session) error {
	return m.send(ctx, in.ChatID, textNeedGameID, messaging.Markup{})
}

// promptScreenshot shows the example image with the instruction as caption,
// falling back to the bare instruction when the image cannot be sent.
func (m *Machine) promptScreenshot(ctx context.Context, in Input, _ state.Session) error {
	if m.exampleImage != "" {
		_, err := m.gw.SendPhoto(ctx, in.ChatID, messaging.Photo{Path: m.exampleImage}, textAskScreenshot)
		if err == nil {
			return nil
		}
		logger.Warn(ctx, component, "form.example.failed",
			slog.String("method", "sendPhoto"),
			slog.String("path", m.exampleImage),
			logger.Err(err))
	}
	return m.send(ctx, in.ChatID, textAskScreenshot, messaging.Markup{})
}

func (m *Machine) remindPhoto(ctx context.Context, in Input, _ state.Session) error {
	return m.send(ctx, in.ChatID, textNeedPhoto, messaging.Markup{})
}

// complete acknowledges the applicant and hands the answers to the Submitter.
// The handoff happens even when the acknowledgement could not be delivered.
func (m *Machine) complete(ctx context.Context, in Input, s state.Session) error {
	err := m.send(ctx, in.ChatID, textSubmitted, messaging.Markup{})
	if m.submitter != nil {
		m.submitter.Submit(ctx, review.Submission{
			Applicant:     in.From,
			Age:           s.Answers[AnswerAge],
			GameID:        s.Answers[AnswerGameID],
			ScreenshotRef: s.Answers[AnswerScreenshot],
		})
	}
	return err
}

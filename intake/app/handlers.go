package app

import (
	"log/slog"

	"github.com/m3rciful/clanintake/core/logger"
	"github.com/m3rciful/clanintake/core/telegram/callbacks"
	"github.com/m3rciful/clanintake/core/telegram/helpers"
	"github.com/m3rciful/clanintake/intake/form"
	"github.com/m3rciful/clanintake/intake/messaging"
	"github.com/m3rciful/clanintake/intake/review"

	tele "gopkg.in/telebot.v4"
)

// handlers adapts telebot updates to form inputs and reviewer decisions.
// Outbound failures are logged downstream and never returned, so a failed
// send does not mark the update as failed.
type handlers struct {
	machine  *form.Machine
	resolver *review.Resolver
}

func applicant(c tele.Context) review.Applicant {
	u := c.Sender()
	if u == nil {
		return review.Applicant{}
	}
	return review.Applicant{
		ID:          u.ID,
		DisplayName: helpers.FullName(u),
		Handle:      helpers.Username(u),
	}
}

func (h *handlers) handle(c tele.Context, in form.Input) error {
	if in.From.ID == 0 {
		return nil
	}
	h.machine.Handle(helpers.BuildContext(c), in)
	return nil
}

func (h *handlers) onStart(c tele.Context) error {
	return h.handle(c, form.StartInput(applicant(c), helpers.ChatID(c)))
}

func (h *handlers) onText(c tele.Context) error {
	return h.handle(c, form.TextInput(applicant(c), helpers.ChatID(c), c.Text()))
}

func (h *handlers) onPhoto(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Photo == nil || msg.Photo.FileID == "" {
		return h.onOther(c)
	}
	return h.handle(c, form.PhotoInput(applicant(c), helpers.ChatID(c), msg.Photo.FileID))
}

func (h *handlers) onOther(c tele.Context) error {
	return h.handle(c, form.OtherInput(applicant(c), helpers.ChatID(c)))
}

func (h *handlers) onDecision(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Chat == nil {
		return nil
	}
	h.resolver.Resolve(helpers.BuildContext(c), review.Decision{
		Raw:        callbacks.RawData(c),
		ReviewerID: helpers.SenderID(c),
		Message:    messaging.MessageRef{ChatID: msg.Chat.ID, MessageID: msg.ID},
	})
	return nil
}

func onForeignDecision(c tele.Context) error {
	logger.Warn(helpers.BuildContext(c), "intake.review", "decision.forbidden",
		slog.Int64("sender_id", helpers.SenderID(c)),
		slog.String("outcome", "ignored"))
	return nil
}

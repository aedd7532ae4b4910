package review

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/m3rciful/clanintake/intake/messaging"
)

// TimeLayout renders submission time as DD.MM.YYYY, HH:MM.
const TimeLayout = "02.01.2006, 15:04"

// Applicant identifies the chat user who filled in the form.
type Applicant struct {
	ID          int64
	DisplayName string
	// Handle is the @username without the at sign; may be empty.
	Handle string
}

// Submission is a completed form handed over by the form machine.
type Submission struct {
	Applicant     Applicant
	Age           string
	GameID        string
	ScreenshotRef string
}

// Request is a submission prepared for the reviewer.
type Request struct {
	ID string
	Submission
	SubmittedAt time.Time

	// Routed is true once the actionable message reached the reviewer.
	Routed        bool
	ReviewMessage messaging.MessageRef
}

// Token returns the correlation token for the given verdict.
func (r Request) Token(a Action) Token {
	return Token{Action: a, ApplicantID: r.Applicant.ID}
}

// Archive records submissions and decisions somewhere durable. Failures are
// logged by the caller and never change the outcome of a review.
type Archive interface {
	RecordSubmission(ctx context.Context, req Request) error
	RecordDecision(ctx context.Context, req Request, action Action, decidedAt time.Time) error
}

// FormatRequest renders the text the reviewer sees next to the action buttons.
func FormatRequest(req Request, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	handle := "—"
	if h := strings.TrimPrefix(strings.TrimSpace(req.Applicant.Handle), "@"); h != "" {
		handle = "@" + h
	}

	var b strings.Builder
	b.WriteString(textRequestHeader)
	b.WriteString("\n\n")
	b.WriteString("👤 Имя: " + req.Applicant.DisplayName + "\n")
	b.WriteString("🔗 Username: " + handle + "\n")
	b.WriteString("🆔 Telegram ID: " + strconv.FormatInt(req.Applicant.ID, 10) + "\n\n")
	b.WriteString("🔞 Возраст: " + req.Age + "\n")
	b.WriteString("💻 Игровой ID: " + req.GameID + "\n")
	b.WriteString("🕒 Время: " + req.SubmittedAt.In(loc).Format(TimeLayout))
	return b.String()
}

// Actions builds the approve/reject buttons for req.
func Actions(req Request) []messaging.Action {
	return []messaging.Action{
		{Label: labelApprove, Token: req.Token(ActionApprove).String()},
		{Label: labelReject, Token: req.Token(ActionReject).String()},
	}
}

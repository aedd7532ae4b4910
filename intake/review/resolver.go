package review

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/clanintake/core/logger"
	"github.com/m3rciful/clanintake/core/metrics"
	"github.com/m3rciful/clanintake/intake/messaging"
)

// Decision is a reviewer pressing one of the action buttons.
type Decision struct {
	Raw        string
	ReviewerID int64
	// Message is the reviewer message that carried the buttons; zero when unknown.
	Message messaging.MessageRef
}

// Outcome classifies what Resolve did with a decision.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeStale     Outcome = "stale"
	OutcomeMalformed Outcome = "malformed"
	// OutcomeFailed means the review buttons could not be checked; they stay
	// in place so the reviewer can press again.
	OutcomeFailed Outcome = "failed"
)

// Resolution reports the result of Resolve. Transport failures are carried
// for logging and tests; they do not change the outcome.
type Resolution struct {
	Outcome   Outcome
	Token     Token
	Request   Request
	Err       error
	NotifyErr error
	ClearErr  error
}

// ResolverOptions configures a Resolver. Gateway and Pending are required.
type ResolverOptions struct {
	Gateway messaging.Gateway
	Pending *Pending
	Archive Archive
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Resolver turns reviewer decisions into applicant notifications.
type Resolver struct {
	// mu makes the Pending lookup and the button check one step, so two
	// presses never both pass.
	mu      sync.Mutex
	gw      messaging.Gateway
	pending *Pending
	archive Archive
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewResolver builds a Resolver; share Pending with the Router.
func NewResolver(opts ResolverOptions) *Resolver {
	r := &Resolver{
		gw:      opts.Gateway,
		pending: opts.Pending,
		archive: opts.Archive,
		metrics: opts.Metrics,
		now:     opts.Now,
	}
	if r.pending == nil {
		r.pending = NewPending()
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Resolve applies a decision at most once per review message. A request
// found in Pending is resolved by notifying the applicant and then removing
// the buttons. Otherwise (after a restart, or for an older review message of
// a resubmitting applicant) the buttons themselves are the guard: they are
// removed first and the applicant named in the token is notified only if
// they were still there.
func (r *Resolver) Resolve(ctx context.Context, d Decision) Resolution {
	tok, err := ParseToken(d.Raw)
	if err != nil {
		r.metrics.Decision(string(OutcomeMalformed))
		logger.Warn(ctx, component, "review.decision.malformed",
			slog.String("outcome", string(OutcomeMalformed)),
			slog.Int64("reviewer_id", d.ReviewerID),
			logger.Err(err))
		return Resolution{Outcome: OutcomeMalformed, Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	attrs := []slog.Attr{
		slog.String("action", string(tok.Action)),
		slog.Int64("applicant_id", tok.ApplicantID),
		slog.Int64("reviewer_id", d.ReviewerID),
	}

	req, ok := r.pending.Take(tok.ApplicantID, d.Message)
	if !ok {
		return r.resolveByButtons(ctx, d, tok, attrs)
	}

	res := Resolution{Outcome: OutcomeApplied, Token: tok, Request: req}
	attrs = append(attrs, slog.String("request_id", req.ID))

	res.NotifyErr = r.notify(ctx, tok, attrs)

	msg := d.Message
	if msg.MessageID == 0 {
		msg = req.ReviewMessage
	}
	res.ClearErr = r.clear(ctx, msg)

	if r.archive != nil {
		if err := r.archive.RecordDecision(ctx, req, tok.Action, r.now()); err != nil {
			logger.Warn(ctx, component, "review.archive.failed", append(attrs, logger.Err(err))...)
		}
	}

	r.applied(ctx, res, attrs)
	return res
}

func (r *Resolver) resolveByButtons(ctx context.Context, d Decision, tok Token, attrs []slog.Attr) Resolution {
	res := Resolution{Token: tok, Request: Request{
		Submission:    Submission{Applicant: Applicant{ID: tok.ApplicantID}},
		ReviewMessage: d.Message,
	}}

	if d.Message.MessageID == 0 {
		res.Outcome = OutcomeStale
		r.metrics.Decision(string(OutcomeStale))
		logger.Info(ctx, component, "review.decision.stale",
			append(attrs, slog.String("outcome", string(OutcomeStale)), slog.String("reason", "no review message"))...)
		return res
	}

	err := r.gw.ClearActions(ctx, d.Message)
	switch {
	case errors.Is(err, messaging.ErrNotModified):
		res.Outcome = OutcomeStale
		r.metrics.Decision(string(OutcomeStale))
		logger.Info(ctx, component, "review.decision.stale",
			append(attrs, slog.String("outcome", string(OutcomeStale)), slog.String("reason", "already decided"))...)
		return res
	case err != nil:
		res.Outcome = OutcomeFailed
		res.ClearErr = err
		r.metrics.Decision(string(OutcomeFailed))
		logger.Warn(ctx, component, "review.decision.failed",
			append(attrs,
				slog.String("outcome", string(OutcomeFailed)),
				slog.String("method", "editMessageReplyMarkup"),
				slog.Int64("chat_id", d.Message.ChatID),
				logger.Err(err))...)
		return res
	}

	res.Outcome = OutcomeApplied
	attrs = append(attrs, slog.String("source", "buttons"))
	res.NotifyErr = r.notify(ctx, tok, attrs)
	r.applied(ctx, res, attrs)
	return res
}

func (r *Resolver) notify(ctx context.Context, tok Token, attrs []slog.Attr) error {
	text := textRejected
	if tok.Action == ActionApprove {
		text = textApproved
	}
	if _, err := r.gw.SendText(ctx, tok.ApplicantID, text, messaging.Markup{}); err != nil {
		logger.Warn(ctx, component, "review.notify.failed",
			append(attrs, slog.String("method", "sendMessage"), logger.Err(err))...)
		return err
	}
	return nil
}

func (r *Resolver) applied(ctx context.Context, res Resolution, attrs []slog.Attr) {
	r.metrics.Decision(string(res.Token.Action))
	logger.Info(ctx, component, "review.decision.applied",
		append(attrs,
			slog.String("outcome", string(OutcomeApplied)),
			slog.String("status", logger.Status(errors.Join(res.NotifyErr, res.ClearErr))))...)
}

func (r *Resolver) clear(ctx context.Context, ref messaging.MessageRef) error {
	if ref.MessageID == 0 {
		return nil
	}
	err := r.gw.ClearActions(ctx, ref)
	if err == nil || errors.Is(err, messaging.ErrNotModified) {
		return nil
	}
	logger.Warn(ctx, component, "review.clear.failed",
		slog.Int64("chat_id", ref.ChatID),
		slog.String("method", "editMessageReplyMarkup"),
		logger.Err(err))
	return err
}

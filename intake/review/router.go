// Package review routes completed forms to the reviewer and applies the
// reviewer's decisions back to applicants.
package review

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/clanintake/core/logger"
	"github.com/m3rciful/clanintake/core/metrics"
	"github.com/m3rciful/clanintake/intake/messaging"
)

const component = "intake.review"

// RouterOptions configures a Router. Gateway and Pending are required.
type RouterOptions struct {
	Gateway messaging.Gateway
	Pending *Pending
	// ReviewerID is the reviewer chat; zero disables routing.
	ReviewerID int64
	Location   *time.Location
	Archive    Archive
	Metrics    *metrics.Metrics
	Now        func() time.Time
	NewID      func() string
}

// Router delivers completed submissions to the reviewer.
type Router struct {
	gw       messaging.Gateway
	pending  *Pending
	reviewer int64
	loc      *time.Location
	archive  Archive
	metrics  *metrics.Metrics
	now      func() time.Time
	newID    func() string
}

// NewRouter builds a Router from opts, filling in defaults.
func NewRouter(opts RouterOptions) *Router {
	r := &Router{
		gw:       opts.Gateway,
		pending:  opts.Pending,
		reviewer: opts.ReviewerID,
		loc:      opts.Location,
		archive:  opts.Archive,
		metrics:  opts.Metrics,
		now:      opts.Now,
		newID:    opts.NewID,
	}
	if r.pending == nil {
		r.pending = NewPending()
	}
	if r.loc == nil {
		r.loc = time.Local
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.newID == nil {
		r.newID = uuid.NewString
	}
	return r
}

// Submit sends the screenshot and the actionable summary to the reviewer.
// Without a configured reviewer the request is only logged. Delivery errors
// are logged and leave the request unrouted; they are never returned.
func (r *Router) Submit(ctx context.Context, sub Submission) Request {
	req := Request{
		ID:          r.newID(),
		Submission:  sub,
		SubmittedAt: r.now(),
	}
	attrs := []slog.Attr{
		slog.String("request_id", req.ID),
		slog.Int64("applicant_id", sub.Applicant.ID),
	}

	if r.reviewer == 0 {
		r.metrics.Submission("unrouted")
		logger.Warn(ctx, component, "review.unrouted",
			append(attrs, slog.String("status", "degraded"), slog.String("reason", "reviewer not configured"))...)
		return req
	}

	if r.pending.Put(req) {
		logger.Warn(ctx, component, "review.pending.replaced", attrs...)
	}

	if _, err := r.gw.SendPhoto(ctx, r.reviewer, messaging.Photo{FileID: sub.ScreenshotRef}, textScreenshotNote); err != nil {
		logger.Warn(ctx, component, "review.screenshot.failed",
			append(attrs, slog.String("method", "sendPhoto"), logger.Err(err))...)
	}

	ref, err := r.gw.SendText(ctx, r.reviewer, FormatRequest(req, r.loc), messaging.Markup{Actions: Actions(req)})
	if err != nil {
		r.pending.Drop(sub.Applicant.ID, req.ID)
		r.metrics.Submission("failed")
		logger.Error(ctx, component, "review.route.failed",
			append(attrs, slog.String("method", "sendMessage"), slog.String("status", "fail"), logger.Err(err))...)
		return req
	}

	req.Routed = true
	req.ReviewMessage = ref
	r.pending.Update(req)
	r.metrics.Submission("routed")

	if r.archive != nil {
		if err := r.archive.RecordSubmission(ctx, req); err != nil {
			logger.Warn(ctx, component, "review.archive.failed", append(attrs, logger.Err(err))...)
		}
	}

	logger.Info(ctx, component, "review.routed",
		append(attrs, slog.Int64("reviewer_id", r.reviewer), slog.String("status", "ok"))...)
	return req
}

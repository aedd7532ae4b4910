// Package archive keeps a write-only audit trail of review requests in Postgres.
package archive

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/clanintake/intake/review"
)

// Migrations holds the schema applied at startup.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations.
const MigrationsDir = "migrations"

const (
	insertRequest = `
INSERT INTO review_requests (
    id, applicant_id, display_name, handle, age, game_id, screenshot_ref, submitted_at
) VALUES (
    :id, :applicant_id, :display_name, :handle, :age, :game_id, :screenshot_ref, :submitted_at
)
ON CONFLICT (id) DO NOTHING`

	updateDecision = `
UPDATE review_requests
   SET decision = $1, decided_at = $2
 WHERE id = $3 AND decision IS NULL`
)

type requestRow struct {
	ID            string    `db:"id"`
	ApplicantID   int64     `db:"applicant_id"`
	DisplayName   string    `db:"display_name"`
	Handle        string    `db:"handle"`
	Age           string    `db:"age"`
	GameID        string    `db:"game_id"`
	ScreenshotRef string    `db:"screenshot_ref"`
	SubmittedAt   time.Time `db:"submitted_at"`
}

func newRequestRow(req review.Request) requestRow {
	return requestRow{
		ID:            req.ID,
		ApplicantID:   req.Applicant.ID,
		DisplayName:   req.Applicant.DisplayName,
		Handle:        req.Applicant.Handle,
		Age:           req.Age,
		GameID:        req.GameID,
		ScreenshotRef: req.ScreenshotRef,
		SubmittedAt:   req.SubmittedAt.UTC(),
	}
}

// Postgres implements review.Archive.
type Postgres struct {
	db *sqlx.DB
}

// New wraps an open connection.
func New(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// RecordSubmission stores a routed request.
func (p *Postgres) RecordSubmission(ctx context.Context, req review.Request) error {
	if _, err := p.db.NamedExecContext(ctx, insertRequest, newRequestRow(req)); err != nil {
		return fmt.Errorf("archive: insert request %s: %w", req.ID, err)
	}
	return nil
}

// RecordDecision stamps the verdict on a stored request. A request already
// decided keeps its first verdict.
func (p *Postgres) RecordDecision(ctx context.Context, req review.Request, action review.Action, decidedAt time.Time) error {
	if _, err := p.db.ExecContext(ctx, updateDecision, string(action), decidedAt.UTC(), req.ID); err != nil {
		return fmt.Errorf("archive: record decision %s: %w", req.ID, err)
	}
	return nil
}

var _ review.Archive = (*Postgres)(nil)

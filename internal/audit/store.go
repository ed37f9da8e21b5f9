// Package audit persists match decisions and send attempts to SQLite.
package audit

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/certsend/certsend/pkg/match"
)

//go:embed schema.sql
var schema string

// TierNone marks a recipient for whom no candidate produced any evidence.
const TierNone = "none"

// Send attempt statuses.
const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Decision is one persisted match decision.
type Decision struct {
	ID          int64
	Recipient   string
	Filename    string
	Tier        string
	Score       int
	Similarity  int
	Confidence  int
	NeedsReview bool
	DecidedAt   time.Time
}

// SendAttempt is one persisted delivery attempt.
type SendAttempt struct {
	ID          int64
	Recipient   string
	Email       string
	Filename    string
	Status      string
	Error       string
	AttemptedAt time.Time
}

// Store provides access to the audit database.
type Store struct {
	db *sql.DB
}

// NewStore creates an audit store over an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Init creates the audit tables if they do not exist.
func (s *Store) Init() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("applying audit schema: %w", err)
	}
	return nil
}

// RecordDecision persists the outcome of matching one recipient. A nil
// result records a no-match decision with tier "none".
func (s *Store) RecordDecision(recipient string, r *match.Result) (int64, error) {
	d := Decision{Recipient: recipient, Tier: TierNone, NeedsReview: true}
	if r != nil {
		d.Filename = r.Candidate.Filename
		d.Tier = r.Tier.String()
		d.Score = r.Score
		d.Similarity = r.Similarity
		d.Confidence = r.Confidence
		d.NeedsReview = r.NeedsReview
	}

	result, err := s.db.Exec(`
		INSERT INTO match_decisions (recipient, filename, tier, score, similarity, confidence, needs_review)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.Recipient, d.Filename, d.Tier, d.Score, d.Similarity, d.Confidence, d.NeedsReview,
	)
	if err != nil {
		return 0, fmt.Errorf("insert decision: %w", err)
	}
	return result.LastInsertId()
}

// RecordSend persists one delivery attempt.
func (s *Store) RecordSend(a SendAttempt) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO send_attempts (recipient, email, filename, status, error)
		VALUES (?, ?, ?, ?, ?)`,
		a.Recipient, a.Email, a.Filename, a.Status, a.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("insert send attempt: %w", err)
	}
	return result.LastInsertId()
}

// Decisions returns all decisions made at or after the given time. The
// cutoff is compared in UTC against the CURRENT_TIMESTAMP values the
// schema records.
func (s *Store) Decisions(since time.Time) ([]Decision, error) {
	rows, err := s.db.Query(`
		SELECT id, recipient, filename, tier, score, similarity, confidence, needs_review, decided_at
		FROM match_decisions
		WHERE decided_at >= ?
		ORDER BY id ASC`,
		since.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	return scanDecisions(rows)
}

// NeedingReview returns all decisions flagged for human review, most recent
// first.
func (s *Store) NeedingReview() ([]Decision, error) {
	rows, err := s.db.Query(`
		SELECT id, recipient, filename, tier, score, similarity, confidence, needs_review, decided_at
		FROM match_decisions
		WHERE needs_review = 1
		ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query review decisions: %w", err)
	}
	defer rows.Close()

	return scanDecisions(rows)
}

func scanDecisions(rows *sql.Rows) ([]Decision, error) {
	var decisions []Decision
	for rows.Next() {
		var d Decision
		if err := rows.Scan(&d.ID, &d.Recipient, &d.Filename, &d.Tier, &d.Score,
			&d.Similarity, &d.Confidence, &d.NeedsReview, &d.DecidedAt); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

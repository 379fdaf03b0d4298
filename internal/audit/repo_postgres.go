package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresRepo persists audit events in Postgres via database/sql (pgx
// stdlib driver). The table is INSERT-only; retention is an operational
// concern, not this repo's.
//
// Schema:
//
//	CREATE TABLE webhook_decisions (
//	    id              TEXT PRIMARY KEY,
//	    conversation_id TEXT NOT NULL DEFAULT '',
//	    outcome         TEXT NOT NULL,
//	    direction       TEXT NOT NULL DEFAULT '',
//	    customer_phone  TEXT NOT NULL DEFAULT '',
//	    phone_found     BOOLEAN NOT NULL DEFAULT FALSE,
//	    template        TEXT NOT NULL DEFAULT '',
//	    reason          TEXT NOT NULL DEFAULT '',
//	    message_id      TEXT NOT NULL DEFAULT '',
//	    error_detail    TEXT NOT NULL DEFAULT '',
//	    metadata        TEXT NOT NULL DEFAULT '',
//	    created_at      TIMESTAMPTZ NOT NULL
//	);
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
		INSERT INTO webhook_decisions
			(id, conversation_id, outcome, direction, customer_phone, phone_found,
			 template, reason, message_id, error_detail, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.ConversationID, string(e.Outcome), e.Direction, e.CustomerPhone,
		e.PhoneFound, e.Template, e.Reason, e.MessageID, e.ErrorDetail,
		e.Metadata, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("audit: insert: %w", err)
	}
	return nil
}

func (r *PostgresRepo) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `
		SELECT id, conversation_id, outcome, direction, customer_phone, phone_found,
		       template, reason, message_id, error_detail, metadata, created_at
		FROM webhook_decisions
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: query: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var outcome string
		if err := rows.Scan(&e.ID, &e.ConversationID, &outcome, &e.Direction,
			&e.CustomerPhone, &e.PhoneFound, &e.Template, &e.Reason,
			&e.MessageID, &e.ErrorDetail, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit: scan: %w", err)
		}
		e.Outcome = Outcome(outcome)
		out = append(out, e)
	}
	return out, rows.Err()
}

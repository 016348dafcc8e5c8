package database

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type DraftSelection struct {
	DraftID   uuid.UUID
	Payload   []byte
	Seq       int64
	UpdatedAt time.Time
}

type UpsertDraftSelectionParams struct {
	DraftID uuid.UUID
	Payload []byte
	Seq     int64
}

// Stale saves (seq not above the stored one) update nothing, so
// out-of-order arrivals from overlapping save attempts are dropped.
const upsertDraftSelection = `
INSERT INTO draft_selections (draft_id, payload, seq, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (draft_id) DO UPDATE
SET payload = EXCLUDED.payload, seq = EXCLUDED.seq, updated_at = now()
WHERE draft_selections.seq < EXCLUDED.seq
`

// UpsertDraftSelection stores a selection snapshot. It reports false
// when the snapshot was stale and dropped.
func (q *Queries) UpsertDraftSelection(ctx context.Context, arg UpsertDraftSelectionParams) (bool, error) {
	tag, err := q.db.Exec(ctx, upsertDraftSelection, arg.DraftID, arg.Payload, arg.Seq)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

const getDraftSelection = `
SELECT draft_id, payload, seq, updated_at
FROM draft_selections
WHERE draft_id = $1
`

func (q *Queries) GetDraftSelection(ctx context.Context, draftID uuid.UUID) (DraftSelection, error) {
	var s DraftSelection
	err := q.db.QueryRow(ctx, getDraftSelection, draftID).
		Scan(&s.DraftID, &s.Payload, &s.Seq, &s.UpdatedAt)
	return s, err
}

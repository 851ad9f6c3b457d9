package types

import "time"

// FundRecord is an append-only confirmed contribution. SessionID is
// the deduplication key for checkout confirmations; manual records
// have none.
type FundRecord struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Email       *string   `db:"email" json:"email,omitempty"`
	AmountCents int64     `db:"amount_cents" json:"amountCents"`
	SessionID   *string   `db:"session_id" json:"sessionId,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

package bookingRepo

import (
	"context"
	"errors"
	"time"

	"meetwise/models"
)

// Ledger errors. ErrNotPending signals that a conditional transition found
// the record already finalized.
var (
	ErrNotFound   = errors.New("booking not found")
	ErrNotPending = errors.New("booking is not pending")
)

// BookingRepository is the durable ledger of booking records. Status
// transitions are conditional updates applied server-side: the store is the
// lock, so two concurrent approvals of the same token resolve to exactly one
// winner.
type BookingRepository interface {
	// Insert persists a new record. The approval token carries a unique
	// index; a collision surfaces as an error rather than a silent overwrite.
	Insert(ctx context.Context, rec *models.BookingRequest) error

	// GetByToken returns the record for a token, or ErrNotFound.
	GetByToken(ctx context.Context, token string) (*models.BookingRequest, error)

	// Approve flips the record to approved, stamping approvedAt and the
	// calendar event ID in the same update, only if the current status is
	// still pending. Returns the updated record, ErrNotFound for an unknown
	// token, or ErrNotPending when the record is already finalized.
	Approve(ctx context.Context, token, calendarEventID string, approvedAt time.Time) (*models.BookingRequest, error)

	// Decline flips a pending record to declined. It reports whether a
	// record was actually transitioned; an unknown or finalized token is
	// not an error.
	Decline(ctx context.Context, token string) (bool, error)

	// List returns recent records, newest first, optionally filtered by
	// status. Serves the owner console.
	List(ctx context.Context, status string, limit int64) ([]models.BookingRequest, error)
}

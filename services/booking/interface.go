package booking

import (
	"context"

	"meetwise/models"
)

// CreateResult is the success payload of Create. NotificationWarning is set
// when the booking was persisted but the owner's approval mail could not be
// sent; the booking still exists and remains approvable.
type CreateResult struct {
	Token               string
	NotificationWarning string
}

// BookingEngine is the lifecycle service exposed to request handlers:
// intake, the approval/decline state machine, and status lookup. Errors are
// *Error values discriminated by code.
type BookingEngine interface {
	// Create validates the draft, arbitrates availability, persists a
	// pending record keyed by a fresh approval token, and asks the owner
	// for approval. A conflicting or invalid draft leaves no trace.
	Create(ctx context.Context, draft models.BookingDraft) (*CreateResult, error)

	// Approve finalizes a pending booking: creates the calendar event, then
	// atomically flips pending -> approved. A non-pending record yields
	// alreadyFinalized with no further side effects.
	Approve(ctx context.Context, token string) (*models.BookingRequest, error)

	// Decline flips pending -> declined. Unknown or already-finalized
	// tokens are a silent no-op, so the owner can re-click the link.
	Decline(ctx context.Context, token string) error

	// GetStatus returns the booking's current status without mutating it.
	GetStatus(ctx context.Context, token string) (string, error)
}

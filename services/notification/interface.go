package notification

import (
	"context"

	"meetwise/models"
)

// NotificationService delivers the two owner/requester mails of the booking
// lifecycle. Both calls are best-effort: a failure is logged and reported to
// the caller but never reverses a committed state transition.
type NotificationService interface {
	// SendApprovalRequest mails the owner the booking details together with
	// approve and decline links keyed by the approval token.
	SendApprovalRequest(ctx context.Context, rec *models.BookingRequest) error

	// SendConfirmation mails the requester after approval. Only called when
	// the record carries a requester email.
	SendConfirmation(ctx context.Context, rec *models.BookingRequest) error

	// SendReminder mails the requester ahead of an approved meeting.
	// Fired from the reminder queue, never inline with a request.
	SendReminder(ctx context.Context, rec *models.BookingRequest) error
}

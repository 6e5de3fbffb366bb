package calendar

import (
	"context"
	"time"
)

// BusyInterval is one occupied stretch of the owner's calendar.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// Event describes a calendar event to create on approval.
type Event struct {
	Title         string
	Description   string
	Start         time.Time
	End           time.Time
	AttendeeEmail string // optional; invites the requester when present
}

// Service is the narrow calendar contract the booking engine consumes.
// Implementations own their credentials and refresh policy; callers only
// observe success, failure, or timeout.
type Service interface {
	// FreeBusy returns the busy intervals intersecting [start, end).
	FreeBusy(ctx context.Context, start, end time.Time) ([]BusyInterval, error)

	// CreateEvent inserts an event and returns its ID.
	CreateEvent(ctx context.Context, ev Event) (string, error)

	// DeleteEvent removes a previously created event. Used to undo an event
	// whose booking transition lost a concurrent race.
	DeleteEvent(ctx context.Context, eventID string) error
}

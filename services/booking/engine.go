package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	bookingRepo "meetwise/database/repository/booking"
	"meetwise/models"
	"meetwise/services/calendar"
	"meetwise/services/notification"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const statusCacheTTL = 30 * time.Second

// ReminderScheduler queues a meeting reminder for an approved booking.
type ReminderScheduler interface {
	Schedule(ctx context.Context, rec *models.BookingRequest) error
}

// DefaultBookingEngine orchestrates the booking lifecycle. All status
// transitions go through the ledger's conditional updates; the engine itself
// holds no mutable state, so handlers may call it concurrently.
//
// Availability is arbitrated at Create time only. Two overlapping drafts can
// both be accepted while pending, and Approve does not re-check the calendar:
// the owner sees the full request in the approval mail and arbitrates by
// clicking. Approving both simply produces overlapping events.
type DefaultBookingEngine struct {
	Repo         bookingRepo.BookingRepository
	Availability *AvailabilityChecker
	Calendar     calendar.Service
	Notifier     notification.NotificationService
	StatusCache  *redis.Client     // optional; short-TTL cache for status polling
	Reminders    ReminderScheduler // optional; meeting reminders for approved bookings
	Location     *time.Location
	Logger       *zap.Logger

	// Overridable in tests.
	Clock    func() time.Time
	NewToken func() (string, error)
}

func (e *DefaultBookingEngine) now() time.Time {
	if e.Clock != nil {
		return e.Clock()
	}
	return time.Now().UTC()
}

func (e *DefaultBookingEngine) mintToken() (string, error) {
	if e.NewToken != nil {
		return e.NewToken()
	}
	return NewToken()
}

func (e *DefaultBookingEngine) Create(ctx context.Context, draft models.BookingDraft) (*CreateResult, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	free, conflict, err := e.Availability.CheckAvailability(ctx, draft.MeetingDate, draft.MeetingTime, draft.DurationMinutes)
	if err != nil {
		// Fail closed: an unreachable calendar never counts as free.
		return nil, err
	}
	if !free {
		return nil, newConflictError(conflict)
	}

	token, err := e.mintToken()
	if err != nil {
		return nil, newServiceUnavailable("failed to issue approval token", err)
	}

	rec := &models.BookingRequest{
		ID:              uuid.New().String(),
		ApprovalToken:   token,
		Status:          models.StatusPending,
		RequesterName:   draft.RequesterName,
		RequesterEmail:  draft.RequesterEmail,
		MeetingDate:     draft.MeetingDate,
		MeetingTime:     draft.MeetingTime,
		DurationMinutes: draft.DurationMinutes,
		Purpose:         draft.Purpose,
		CreatedAt:       e.now(),
	}
	if err := e.Repo.Insert(ctx, rec); err != nil {
		return nil, newServiceUnavailable("failed to persist booking", err)
	}
	e.Logger.Info("booking created",
		zap.String("bookingID", rec.ID),
		zap.String("date", rec.MeetingDate),
		zap.String("time", rec.MeetingTime),
		zap.Int("durationMinutes", rec.DurationMinutes))

	result := &CreateResult{Token: token}

	// The approval mail is best-effort: the booking exists and is queryable
	// even if the owner has to be nudged another way.
	if err := e.Notifier.SendApprovalRequest(ctx, rec); err != nil {
		e.Logger.Warn("approval request not delivered",
			zap.String("bookingID", rec.ID), zap.Error(err))
		result.NotificationWarning = "The owner could not be notified by email; the request is still recorded."
	}

	return result, nil
}

func (e *DefaultBookingEngine) Approve(ctx context.Context, token string) (*models.BookingRequest, error) {
	rec, err := e.Repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, newNotFound()
		}
		return nil, newServiceUnavailable("failed to load booking", err)
	}
	if rec.Status != models.StatusPending {
		return nil, newAlreadyFinalized(rec.Status)
	}

	// Create the event first, flip the status after. If the flip then loses
	// a concurrent race, the event is deleted again; calendar_event_id is
	// never set on a record that is not approved.
	eventID, err := e.createCalendarEvent(ctx, rec)
	if err != nil {
		return nil, err
	}

	updated, err := e.Repo.Approve(ctx, token, eventID, e.now())
	if err != nil {
		e.rollbackEvent(ctx, eventID, rec.ID)
		switch {
		case errors.Is(err, bookingRepo.ErrNotPending):
			cur, getErr := e.Repo.GetByToken(ctx, token)
			if getErr != nil {
				return nil, newServiceUnavailable("failed to load booking after lost approval race", getErr)
			}
			return nil, newAlreadyFinalized(cur.Status)
		case errors.Is(err, bookingRepo.ErrNotFound):
			return nil, newNotFound()
		default:
			return nil, newServiceUnavailable("failed to commit approval", err)
		}
	}

	e.invalidateStatus(ctx, token)
	e.Logger.Info("booking approved",
		zap.String("bookingID", updated.ID),
		zap.String("calendarEventID", eventID))

	if updated.RequesterEmail != "" {
		if err := e.Notifier.SendConfirmation(ctx, updated); err != nil {
			e.Logger.Warn("confirmation not delivered",
				zap.String("bookingID", updated.ID), zap.Error(err))
		}
		if e.Reminders != nil {
			if err := e.Reminders.Schedule(ctx, updated); err != nil {
				e.Logger.Warn("reminder not scheduled",
					zap.String("bookingID", updated.ID), zap.Error(err))
			}
		}
	}

	return updated, nil
}

func (e *DefaultBookingEngine) Decline(ctx context.Context, token string) error {
	declined, err := e.Repo.Decline(ctx, token)
	if err != nil {
		return newServiceUnavailable("failed to decline booking", err)
	}
	if declined {
		e.invalidateStatus(ctx, token)
		e.Logger.Info("booking declined")
	}
	// Unknown or already-finalized tokens fall through silently: decline
	// links are owner-only and tolerate re-clicks.
	return nil
}

func (e *DefaultBookingEngine) GetStatus(ctx context.Context, token string) (string, error) {
	if e.StatusCache != nil {
		if status, err := e.StatusCache.Get(ctx, statusCacheKey(token)).Result(); err == nil {
			return status, nil
		}
	}

	rec, err := e.Repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return "", newNotFound()
		}
		return "", newServiceUnavailable("failed to load booking", err)
	}

	if e.StatusCache != nil {
		if err := e.StatusCache.Set(ctx, statusCacheKey(token), rec.Status, statusCacheTTL).Err(); err != nil {
			e.Logger.Debug("status cache write failed", zap.Error(err))
		}
	}
	return rec.Status, nil
}

func (e *DefaultBookingEngine) createCalendarEvent(ctx context.Context, rec *models.BookingRequest) (string, error) {
	start, end, err := rec.Window(e.Location)
	if err != nil {
		return "", newServiceUnavailable("stored booking has an unparseable window", err)
	}

	purpose := rec.Purpose
	if purpose == "" {
		purpose = "N/A"
	}
	email := rec.RequesterEmail
	if email == "" {
		email = "N/A"
	}

	eventID, err := e.Calendar.CreateEvent(ctx, calendar.Event{
		Title:         "Meeting with " + rec.RequesterName,
		Description:   "Purpose: " + purpose + "\nRequester email: " + email,
		Start:         start,
		End:           end,
		AttendeeEmail: rec.RequesterEmail,
	})
	if err != nil {
		e.Logger.Error("calendar event creation failed",
			zap.String("bookingID", rec.ID), zap.Error(err))
		return "", newServiceUnavailable("calendar event creation failed", err)
	}
	return eventID, nil
}

// rollbackEvent undoes an event whose approval did not commit. Best-effort:
// a leftover event is an owner-visible annoyance, not a broken invariant.
func (e *DefaultBookingEngine) rollbackEvent(ctx context.Context, eventID, bookingID string) {
	if err := e.Calendar.DeleteEvent(ctx, eventID); err != nil {
		e.Logger.Warn("failed to delete orphaned calendar event",
			zap.String("bookingID", bookingID),
			zap.String("calendarEventID", eventID),
			zap.Error(err))
	}
}

func (e *DefaultBookingEngine) invalidateStatus(ctx context.Context, token string) {
	if e.StatusCache == nil {
		return
	}
	if err := e.StatusCache.Del(ctx, statusCacheKey(token)).Err(); err != nil {
		e.Logger.Debug("status cache invalidation failed", zap.Error(err))
	}
}

func statusCacheKey(token string) string {
	return "booking:status:" + token
}

func validateDraft(draft models.BookingDraft) error {
	if strings.TrimSpace(draft.RequesterName) == "" {
		return newValidationError("requester name is required")
	}
	if draft.MeetingDate == "" {
		return newValidationError("meeting date is required")
	}
	if _, err := time.Parse(models.DateLayout, draft.MeetingDate); err != nil {
		return newValidationError("meeting date must be in YYYY-MM-DD format")
	}
	if draft.MeetingTime == "" {
		return newValidationError("meeting time is required")
	}
	if _, err := time.Parse(models.TimeLayout, draft.MeetingTime); err != nil {
		return newValidationError("meeting time must be in 24-hour HH:MM format")
	}
	if draft.DurationMinutes <= 0 {
		return newValidationError("duration must be a positive number of minutes")
	}
	return nil
}

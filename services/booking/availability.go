package booking

import (
	"context"
	"fmt"
	"time"

	"meetwise/models"
	"meetwise/services/calendar"

	"go.uber.org/zap"
)

// AvailabilityChecker arbitrates whether a requested window is free on the
// owner's calendar. Pure read, no state.
type AvailabilityChecker struct {
	Calendar  calendar.Service
	Location  *time.Location
	OwnerName string
	Logger    *zap.Logger
}

// CheckAvailability computes the window [start, start+duration) in the
// business timezone and queries the calendar for busy intervals intersecting
// it. Any overlap, partial included, is a conflict. A failed query is
// reported as an error, never as free.
func (a *AvailabilityChecker) CheckAvailability(ctx context.Context, date, clock string, durationMinutes int) (bool, string, error) {
	start, end, err := parseWindow(date, clock, durationMinutes, a.Location)
	if err != nil {
		return false, "", err
	}

	busy, err := a.Calendar.FreeBusy(ctx, start, end)
	if err != nil {
		a.Logger.Error("availability check failed",
			zap.String("date", date), zap.String("time", clock), zap.Error(err))
		return false, "", newServiceUnavailable("calendar availability check failed", err)
	}

	for _, slot := range busy {
		if slot.Start.Before(end) && slot.End.After(start) {
			conflict := fmt.Sprintf("%s already has an event from %s to %s.",
				a.OwnerName,
				slot.Start.In(a.Location).Format("2006-01-02 15:04"),
				slot.End.In(a.Location).Format("15:04"))
			return false, conflict, nil
		}
	}
	return true, "", nil
}

func parseWindow(date, clock string, durationMinutes int, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(models.DateLayout+" "+models.TimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, time.Time{}, newValidationError(
			fmt.Sprintf("invalid meeting date/time %q %q", date, clock))
	}
	return start, start.Add(time.Duration(durationMinutes) * time.Minute), nil
}

package booking

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"meetwise/services/calendar"

	"go.uber.org/zap"
)

func newTestChecker(cal *fakeCalendar) *AvailabilityChecker {
	return &AvailabilityChecker{
		Calendar:  cal,
		Location:  time.UTC,
		OwnerName: "Anthony",
		Logger:    zap.NewNop(),
	}
}

func TestCheckAvailabilityFreeWindow(t *testing.T) {
	checker := newTestChecker(&fakeCalendar{})

	free, conflict, err := checker.CheckAvailability(context.Background(), "2025-03-10", "14:00", 30)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !free {
		t.Fatalf("expected free, got conflict %q", conflict)
	}
}

func TestCheckAvailabilityPartialOverlapIsConflict(t *testing.T) {
	cases := []struct {
		name       string
		start, end time.Time
	}{
		{
			"overlaps window start",
			time.Date(2025, 3, 10, 13, 45, 0, 0, time.UTC),
			time.Date(2025, 3, 10, 14, 15, 0, 0, time.UTC),
		},
		{
			"overlaps window end",
			time.Date(2025, 3, 10, 14, 15, 0, 0, time.UTC),
			time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC),
		},
		{
			"contained in window",
			time.Date(2025, 3, 10, 14, 10, 0, 0, time.UTC),
			time.Date(2025, 3, 10, 14, 20, 0, 0, time.UTC),
		},
		{
			"covers whole window",
			time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cal := &fakeCalendar{busy: []calendar.BusyInterval{{Start: tc.start, End: tc.end}}}
			checker := newTestChecker(cal)

			free, conflict, err := checker.CheckAvailability(context.Background(), "2025-03-10", "14:00", 30)
			if err != nil {
				t.Fatalf("check: %v", err)
			}
			if free {
				t.Fatal("partial overlap must count as a full conflict")
			}
			if !strings.Contains(conflict, "already has an event") {
				t.Fatalf("conflict description should name the busy interval, got %q", conflict)
			}
		})
	}
}

func TestCheckAvailabilityAdjacentWindowsAreFree(t *testing.T) {
	// An event ending exactly at the window start, and one starting exactly
	// at the window end, do not overlap [start, start+duration).
	cal := &fakeCalendar{busy: []calendar.BusyInterval{
		{
			Start: time.Date(2025, 3, 10, 13, 30, 0, 0, time.UTC),
			End:   time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
		},
		{
			Start: time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
			End:   time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC),
		},
	}}
	checker := newTestChecker(cal)

	free, conflict, err := checker.CheckAvailability(context.Background(), "2025-03-10", "14:00", 30)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !free {
		t.Fatalf("adjacent events are not conflicts, got %q", conflict)
	}
}

func TestCheckAvailabilityQueryFailureIsNotFree(t *testing.T) {
	cal := &fakeCalendar{freeBusyErr: fmt.Errorf("upstream 503")}
	checker := newTestChecker(cal)

	free, _, err := checker.CheckAvailability(context.Background(), "2025-03-10", "14:00", 30)
	if free {
		t.Fatal("a failed query must never report free")
	}
	if !IsCode(err, CodeServiceUnavailable) {
		t.Fatalf("expected service unavailable, got %v", err)
	}
}

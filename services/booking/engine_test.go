package booking

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	bookingRepo "meetwise/database/repository/booking"
	"meetwise/models"
	"meetwise/services/calendar"

	"go.uber.org/zap"
)

// fakeLedger is an in-memory BookingRepository with the same conditional
// transition semantics as the Mongo implementation.
type fakeLedger struct {
	records map[string]*models.BookingRequest
	// beforeApprove runs between the engine's status read and the
	// conditional update, to simulate a lost race.
	beforeApprove func()
	insertErr     error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: make(map[string]*models.BookingRequest)}
}

func (l *fakeLedger) Insert(ctx context.Context, rec *models.BookingRequest) error {
	if l.insertErr != nil {
		return l.insertErr
	}
	cp := *rec
	l.records[rec.ApprovalToken] = &cp
	return nil
}

func (l *fakeLedger) GetByToken(ctx context.Context, token string) (*models.BookingRequest, error) {
	rec, ok := l.records[token]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (l *fakeLedger) Approve(ctx context.Context, token, calendarEventID string, approvedAt time.Time) (*models.BookingRequest, error) {
	if l.beforeApprove != nil {
		l.beforeApprove()
		l.beforeApprove = nil
	}
	rec, ok := l.records[token]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	if rec.Status != models.StatusPending {
		return nil, bookingRepo.ErrNotPending
	}
	rec.Status = models.StatusApproved
	rec.ApprovedAt = &approvedAt
	rec.CalendarEventID = calendarEventID
	cp := *rec
	return &cp, nil
}

func (l *fakeLedger) Decline(ctx context.Context, token string) (bool, error) {
	rec, ok := l.records[token]
	if !ok || rec.Status != models.StatusPending {
		return false, nil
	}
	rec.Status = models.StatusDeclined
	return true, nil
}

func (l *fakeLedger) List(ctx context.Context, status string, limit int64) ([]models.BookingRequest, error) {
	var out []models.BookingRequest
	for _, rec := range l.records {
		if status == "" || rec.Status == status {
			out = append(out, *rec)
		}
	}
	return out, nil
}

type fakeCalendar struct {
	busy        []calendar.BusyInterval
	freeBusyErr error
	createErr   error
	created     []calendar.Event
	deleted     []string
}

func (c *fakeCalendar) FreeBusy(ctx context.Context, start, end time.Time) ([]calendar.BusyInterval, error) {
	if c.freeBusyErr != nil {
		return nil, c.freeBusyErr
	}
	var out []calendar.BusyInterval
	for _, b := range c.busy {
		if b.Start.Before(end) && b.End.After(start) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (c *fakeCalendar) CreateEvent(ctx context.Context, ev calendar.Event) (string, error) {
	if c.createErr != nil {
		return "", c.createErr
	}
	c.created = append(c.created, ev)
	return fmt.Sprintf("event-%d", len(c.created)), nil
}

func (c *fakeCalendar) DeleteEvent(ctx context.Context, eventID string) error {
	c.deleted = append(c.deleted, eventID)
	return nil
}

type fakeNotifier struct {
	approvals     int
	confirmations int
	reminders     int
	approvalErr   error
	confirmErr    error
}

func (n *fakeNotifier) SendApprovalRequest(ctx context.Context, rec *models.BookingRequest) error {
	if n.approvalErr != nil {
		return n.approvalErr
	}
	n.approvals++
	return nil
}

func (n *fakeNotifier) SendConfirmation(ctx context.Context, rec *models.BookingRequest) error {
	if n.confirmErr != nil {
		return n.confirmErr
	}
	n.confirmations++
	return nil
}

func (n *fakeNotifier) SendReminder(ctx context.Context, rec *models.BookingRequest) error {
	n.reminders++
	return nil
}

type fakeReminderScheduler struct {
	scheduled []string
	err       error
}

func (s *fakeReminderScheduler) Schedule(ctx context.Context, rec *models.BookingRequest) error {
	if s.err != nil {
		return s.err
	}
	s.scheduled = append(s.scheduled, rec.ID)
	return nil
}

func newTestEngine(ledger *fakeLedger, cal *fakeCalendar, notifier *fakeNotifier) *DefaultBookingEngine {
	logger := zap.NewNop()
	tokenSeq := 0
	return &DefaultBookingEngine{
		Repo: ledger,
		Availability: &AvailabilityChecker{
			Calendar:  cal,
			Location:  time.UTC,
			OwnerName: "Anthony",
			Logger:    logger,
		},
		Calendar: cal,
		Notifier: notifier,
		Location: time.UTC,
		Logger:   logger,
		Clock: func() time.Time {
			return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
		},
		NewToken: func() (string, error) {
			tokenSeq++
			return fmt.Sprintf("token-%d", tokenSeq), nil
		},
	}
}

func validDraft() models.BookingDraft {
	return models.BookingDraft{
		RequesterName:   "Jane Doe",
		RequesterEmail:  "jane@example.com",
		MeetingDate:     "2025-03-10",
		MeetingTime:     "14:00",
		DurationMinutes: 30,
		Purpose:         "Introductions",
	}
}

func TestCreateReturnsTokenAndPendingStatus(t *testing.T) {
	ledger := newFakeLedger()
	notifier := &fakeNotifier{}
	engine := newTestEngine(ledger, &fakeCalendar{}, notifier)

	result, err := engine.Create(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if result.Token != "token-1" {
		t.Fatalf("expected token-1, got %q", result.Token)
	}
	if result.NotificationWarning != "" {
		t.Fatalf("unexpected warning %q", result.NotificationWarning)
	}
	if notifier.approvals != 1 {
		t.Fatalf("expected 1 approval mail, got %d", notifier.approvals)
	}

	status, err := engine.GetStatus(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	if status != models.StatusPending {
		t.Fatalf("expected pending, got %q", status)
	}
}

func TestCreateTokensAreUnique(t *testing.T) {
	ledger := newFakeLedger()
	engine := newTestEngine(ledger, &fakeCalendar{}, &fakeNotifier{})

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		result, err := engine.Create(context.Background(), validDraft())
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if seen[result.Token] {
			t.Fatalf("token %q issued twice", result.Token)
		}
		seen[result.Token] = true
	}
}

func TestCreateValidation(t *testing.T) {
	engine := newTestEngine(newFakeLedger(), &fakeCalendar{}, &fakeNotifier{})

	cases := []struct {
		name   string
		mutate func(*models.BookingDraft)
	}{
		{"missing name", func(d *models.BookingDraft) { d.RequesterName = "  " }},
		{"missing date", func(d *models.BookingDraft) { d.MeetingDate = "" }},
		{"malformed date", func(d *models.BookingDraft) { d.MeetingDate = "10/03/2025" }},
		{"missing time", func(d *models.BookingDraft) { d.MeetingTime = "" }},
		{"malformed time", func(d *models.BookingDraft) { d.MeetingTime = "2pm" }},
		{"zero duration", func(d *models.BookingDraft) { d.DurationMinutes = 0 }},
		{"negative duration", func(d *models.BookingDraft) { d.DurationMinutes = -15 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			draft := validDraft()
			tc.mutate(&draft)
			_, err := engine.Create(context.Background(), draft)
			if !IsCode(err, CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateConflictLeavesNoRecord(t *testing.T) {
	ledger := newFakeLedger()
	cal := &fakeCalendar{busy: []calendar.BusyInterval{{
		Start: time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
	}}}
	notifier := &fakeNotifier{}
	engine := newTestEngine(ledger, cal, notifier)

	_, err := engine.Create(context.Background(), validDraft())
	if !IsCode(err, CodeAvailabilityConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if !strings.Contains(err.Error(), "14:00") {
		t.Fatalf("conflict should reference the busy interval, got %q", err.Error())
	}
	if len(ledger.records) != 0 {
		t.Fatalf("rejected request must leave no trace, found %d records", len(ledger.records))
	}
	if notifier.approvals != 0 {
		t.Fatalf("no mail should be sent on conflict, got %d", notifier.approvals)
	}
}

func TestCreateFailsClosedWhenCalendarUnavailable(t *testing.T) {
	ledger := newFakeLedger()
	cal := &fakeCalendar{freeBusyErr: fmt.Errorf("calendar timeout")}
	engine := newTestEngine(ledger, cal, &fakeNotifier{})

	_, err := engine.Create(context.Background(), validDraft())
	if !IsCode(err, CodeServiceUnavailable) {
		t.Fatalf("expected service unavailable, got %v", err)
	}
	if len(ledger.records) != 0 {
		t.Fatal("creation must abort when availability cannot be checked")
	}
}

func TestCreateSurvivesNotificationFailure(t *testing.T) {
	ledger := newFakeLedger()
	notifier := &fakeNotifier{approvalErr: fmt.Errorf("smtp down")}
	engine := newTestEngine(ledger, &fakeCalendar{}, notifier)

	result, err := engine.Create(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("create should not fail on mail error: %v", err)
	}
	if result.NotificationWarning == "" {
		t.Fatal("expected a notification warning")
	}

	// The booking still exists and is queryable.
	status, err := engine.GetStatus(context.Background(), result.Token)
	if err != nil || status != models.StatusPending {
		t.Fatalf("expected pending booking, got %q, %v", status, err)
	}
}

func TestApproveCreatesExactlyOneEvent(t *testing.T) {
	ledger := newFakeLedger()
	cal := &fakeCalendar{}
	notifier := &fakeNotifier{}
	engine := newTestEngine(ledger, cal, notifier)

	result, err := engine.Create(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rec, err := engine.Approve(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if rec.Status != models.StatusApproved {
		t.Fatalf("expected approved, got %q", rec.Status)
	}
	if rec.CalendarEventID != "event-1" {
		t.Fatalf("expected calendar event id, got %q", rec.CalendarEventID)
	}
	if rec.ApprovedAt == nil {
		t.Fatal("approvedAt must be stamped on approval")
	}
	if len(cal.created) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(cal.created))
	}
	if notifier.confirmations != 1 {
		t.Fatalf("expected one confirmation mail, got %d", notifier.confirmations)
	}
	if got := cal.created[0].AttendeeEmail; got != "jane@example.com" {
		t.Fatalf("requester should be invited, got %q", got)
	}

	// Second click: already finalized, zero additional side effects.
	_, err = engine.Approve(context.Background(), result.Token)
	if !IsCode(err, CodeAlreadyFinalized) {
		t.Fatalf("expected alreadyFinalized, got %v", err)
	}
	var be *Error
	if !asBookingError(err, &be) || be.Status != models.StatusApproved {
		t.Fatalf("alreadyFinalized should carry current status, got %+v", be)
	}
	if len(cal.created) != 1 {
		t.Fatalf("second approve must not create events, got %d", len(cal.created))
	}
	if notifier.confirmations != 1 {
		t.Fatalf("second approve must not re-send mail, got %d", notifier.confirmations)
	}
}

func TestApproveWithoutEmailSkipsConfirmation(t *testing.T) {
	ledger := newFakeLedger()
	notifier := &fakeNotifier{}
	engine := newTestEngine(ledger, &fakeCalendar{}, notifier)

	draft := validDraft()
	draft.RequesterEmail = ""
	result, err := engine.Create(context.Background(), draft)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := engine.Approve(context.Background(), result.Token); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if notifier.confirmations != 0 {
		t.Fatalf("no confirmation without an email, got %d", notifier.confirmations)
	}
}

func TestApproveUnknownToken(t *testing.T) {
	engine := newTestEngine(newFakeLedger(), &fakeCalendar{}, &fakeNotifier{})

	_, err := engine.Approve(context.Background(), "unknown-token")
	if !IsCode(err, CodeNotFound) {
		t.Fatalf("expected notFound, got %v", err)
	}
}

func TestApproveEventFailureKeepsPending(t *testing.T) {
	ledger := newFakeLedger()
	cal := &fakeCalendar{}
	engine := newTestEngine(ledger, cal, &fakeNotifier{})

	result, err := engine.Create(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	cal.createErr = fmt.Errorf("calendar write failed")
	_, err = engine.Approve(context.Background(), result.Token)
	if !IsCode(err, CodeServiceUnavailable) {
		t.Fatalf("expected service unavailable, got %v", err)
	}

	rec := ledger.records[result.Token]
	if rec.Status != models.StatusPending {
		t.Fatalf("status must not flip when the event fails, got %q", rec.Status)
	}
	if rec.CalendarEventID != "" {
		t.Fatalf("event id must stay empty, got %q", rec.CalendarEventID)
	}

	// The booking is still approvable once the calendar recovers.
	cal.createErr = nil
	if _, err := engine.Approve(context.Background(), result.Token); err != nil {
		t.Fatalf("approve after recovery: %v", err)
	}
}

func TestApproveLostRaceDeletesEvent(t *testing.T) {
	ledger := newFakeLedger()
	cal := &fakeCalendar{}
	engine := newTestEngine(ledger, cal, &fakeNotifier{})

	result, err := engine.Create(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// A concurrent decline lands between the status read and the
	// conditional update.
	ledger.beforeApprove = func() {
		ledger.records[result.Token].Status = models.StatusDeclined
	}

	_, err = engine.Approve(context.Background(), result.Token)
	if !IsCode(err, CodeAlreadyFinalized) {
		t.Fatalf("expected alreadyFinalized, got %v", err)
	}
	if len(cal.deleted) != 1 || cal.deleted[0] != "event-1" {
		t.Fatalf("orphaned event should be deleted, got %v", cal.deleted)
	}
	if rec := ledger.records[result.Token]; rec.CalendarEventID != "" {
		t.Fatalf("loser must not record an event id, got %q", rec.CalendarEventID)
	}
}

func TestApproveSchedulesReminder(t *testing.T) {
	ledger := newFakeLedger()
	engine := newTestEngine(ledger, &fakeCalendar{}, &fakeNotifier{})
	reminders := &fakeReminderScheduler{}
	engine.Reminders = reminders

	result, err := engine.Create(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	rec, err := engine.Approve(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if len(reminders.scheduled) != 1 || reminders.scheduled[0] != rec.ID {
		t.Fatalf("expected one reminder for %s, got %v", rec.ID, reminders.scheduled)
	}
}

func TestApproveSurvivesReminderFailure(t *testing.T) {
	ledger := newFakeLedger()
	engine := newTestEngine(ledger, &fakeCalendar{}, &fakeNotifier{})
	engine.Reminders = &fakeReminderScheduler{err: fmt.Errorf("queue down")}

	result, err := engine.Create(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	rec, err := engine.Approve(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("approve must not fail on reminder error: %v", err)
	}
	if rec.Status != models.StatusApproved {
		t.Fatalf("expected approved, got %q", rec.Status)
	}
}

func TestDeclineFreshBooking(t *testing.T) {
	ledger := newFakeLedger()
	cal := &fakeCalendar{}
	engine := newTestEngine(ledger, cal, &fakeNotifier{})

	result, err := engine.Create(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := engine.Decline(context.Background(), result.Token); err != nil {
		t.Fatalf("decline: %v", err)
	}

	status, err := engine.GetStatus(context.Background(), result.Token)
	if err != nil || status != models.StatusDeclined {
		t.Fatalf("expected declined, got %q, %v", status, err)
	}
	if len(cal.created) != 0 {
		t.Fatalf("declined booking must never create an event, got %d", len(cal.created))
	}
}

func TestDeclineAfterApproveIsNoOp(t *testing.T) {
	ledger := newFakeLedger()
	engine := newTestEngine(ledger, &fakeCalendar{}, &fakeNotifier{})

	result, err := engine.Create(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := engine.Approve(context.Background(), result.Token); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := engine.Decline(context.Background(), result.Token); err != nil {
		t.Fatalf("decline after approve should be silent: %v", err)
	}

	status, err := engine.GetStatus(context.Background(), result.Token)
	if err != nil || status != models.StatusApproved {
		t.Fatalf("status must remain approved, got %q, %v", status, err)
	}
}

func TestDeclineUnknownTokenIsSilent(t *testing.T) {
	engine := newTestEngine(newFakeLedger(), &fakeCalendar{}, &fakeNotifier{})

	if err := engine.Decline(context.Background(), "unknown-token"); err != nil {
		t.Fatalf("decline on unknown token must be a no-op, got %v", err)
	}
}

func TestGetStatusDoesNotMutate(t *testing.T) {
	ledger := newFakeLedger()
	engine := newTestEngine(ledger, &fakeCalendar{}, &fakeNotifier{})

	result, err := engine.Create(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 3; i++ {
		status, err := engine.GetStatus(context.Background(), result.Token)
		if err != nil || status != models.StatusPending {
			t.Fatalf("poll %d: got %q, %v", i, status, err)
		}
	}
}

func TestGetStatusUnknownToken(t *testing.T) {
	engine := newTestEngine(newFakeLedger(), &fakeCalendar{}, &fakeNotifier{})

	_, err := engine.GetStatus(context.Background(), "unknown-token")
	if !IsCode(err, CodeNotFound) {
		t.Fatalf("expected notFound, got %v", err)
	}
}

func asBookingError(err error, target **Error) bool {
	be, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = be
	return true
}

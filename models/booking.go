package models

import "time"

// Booking status values. Pending is the only non-terminal state; once a
// record reaches Approved or Declined it never transitions again.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDeclined = "declined"
)

// Layouts for the date and time-of-day fields. Both are interpreted in the
// configured business timezone.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// BookingRequest is the persisted record for one meeting request.
type BookingRequest struct {
	ID              string     `bson:"id" json:"id"`                       // Unique booking identifier (UUID), assigned by the ledger
	ApprovalToken   string     `bson:"approval_token" json:"-"`            // Capability credential; never serialized outward
	Status          string     `bson:"status" json:"status"`               // One of StatusPending, StatusApproved, StatusDeclined
	RequesterName   string     `bson:"requester_name" json:"requester_name"`
	RequesterEmail  string     `bson:"requester_email,omitempty" json:"requester_email,omitempty"`
	MeetingDate     string     `bson:"meeting_date" json:"meeting_date"`   // "YYYY-MM-DD"
	MeetingTime     string     `bson:"meeting_time" json:"meeting_time"`   // "HH:MM", 24-hour
	DurationMinutes int        `bson:"duration_minutes" json:"duration_minutes"`
	Purpose         string     `bson:"purpose,omitempty" json:"purpose,omitempty"`
	CreatedAt       time.Time  `bson:"created_at" json:"created_at"`
	ApprovedAt      *time.Time `bson:"approved_at,omitempty" json:"approved_at,omitempty"`     // Stamped once, with the Approved transition
	CalendarEventID string     `bson:"calendar_event_id,omitempty" json:"calendar_event_id,omitempty"` // Set iff Status == StatusApproved
}

// Window returns the meeting interval [start, start+duration) in the given
// location.
func (b *BookingRequest) Window(loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(DateLayout+" "+TimeLayout, b.MeetingDate+" "+b.MeetingTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.Add(time.Duration(b.DurationMinutes) * time.Minute), nil
}

// BookingDraft is the structured input handed over by the conversational
// front end. The booking engine never inspects raw text; whatever extracts
// these fields lives upstream.
type BookingDraft struct {
	RequesterName   string `json:"requester_name"`
	RequesterEmail  string `json:"requester_email,omitempty"`
	MeetingDate     string `json:"meeting_date"`
	MeetingTime     string `json:"meeting_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Purpose         string `json:"purpose,omitempty"`
}

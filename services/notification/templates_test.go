package notification

import (
	"strings"
	"testing"
	"time"

	"meetwise/models"
)

func sampleBooking() *models.BookingRequest {
	return &models.BookingRequest{
		ID:              "b-1",
		ApprovalToken:   "tok-abc123",
		Status:          models.StatusPending,
		RequesterName:   "Jane Doe",
		RequesterEmail:  "jane@example.com",
		MeetingDate:     "2025-03-10",
		MeetingTime:     "14:00",
		DurationMinutes: 30,
		Purpose:         "Introductions",
		CreatedAt:       time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestRenderApprovalMail(t *testing.T) {
	body, err := renderApprovalMail(sampleBooking(), "https://example.com")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		"Jane Doe",
		"2025-03-10",
		"14:00",
		"30 minutes",
		"https://example.com/approve-booking/tok-abc123",
		"https://example.com/decline-booking/tok-abc123",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("approval mail missing %q", want)
		}
	}
}

func TestRenderApprovalMailEscapesRequesterFields(t *testing.T) {
	rec := sampleBooking()
	rec.RequesterName = `<script>alert("x")</script>`
	rec.Purpose = `<img src=x>`

	body, err := renderApprovalMail(rec, "https://example.com")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(body, "<script>") || strings.Contains(body, "<img") {
		t.Fatal("requester-supplied fields must be escaped")
	}
}

func TestRenderApprovalMailWithoutOptionalFields(t *testing.T) {
	rec := sampleBooking()
	rec.RequesterEmail = ""
	rec.Purpose = ""

	body, err := renderApprovalMail(rec, "https://example.com")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(body, "no email provided") {
		t.Error("expected placeholder for missing email")
	}
	if !strings.Contains(body, "Not specified") {
		t.Error("expected placeholder for missing purpose")
	}
}

func TestRenderConfirmationMail(t *testing.T) {
	body, err := renderConfirmationMail(sampleBooking(), "Anthony", "America/New_York")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		"Your meeting with Anthony has been confirmed",
		"2025-03-10",
		"14:00 (America/New_York)",
		"30 minutes",
		"calendar invitation",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("confirmation mail missing %q", want)
		}
	}
}

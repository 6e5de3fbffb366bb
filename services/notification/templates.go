package notification

import (
	"bytes"
	"fmt"
	"html/template"

	"meetwise/models"
)

// Mail bodies mirror the owner's existing approval and confirmation mails:
// a details table plus, for the owner, two action buttons. Requester-supplied
// fields pass through html/template so they are escaped in context.

var approvalTmpl = template.Must(template.New("approval").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #667eea;">New Meeting Request</h2>
    <table style="border-collapse: collapse; width: 100%;">
        <tr><td style="padding: 8px; font-weight: bold;">From:</td>
            <td style="padding: 8px;">{{.Name}} ({{if .Email}}{{.Email}}{{else}}no email provided{{end}})</td></tr>
        <tr><td style="padding: 8px; font-weight: bold;">Date:</td>
            <td style="padding: 8px;">{{.Date}}</td></tr>
        <tr><td style="padding: 8px; font-weight: bold;">Time:</td>
            <td style="padding: 8px;">{{.Time}}</td></tr>
        <tr><td style="padding: 8px; font-weight: bold;">Duration:</td>
            <td style="padding: 8px;">{{.Duration}} minutes</td></tr>
        <tr><td style="padding: 8px; font-weight: bold;">Purpose:</td>
            <td style="padding: 8px;">{{if .Purpose}}{{.Purpose}}{{else}}Not specified{{end}}</td></tr>
    </table>
    <br>
    <a href="{{.ApproveURL}}"
       style="background: #667eea; color: white; padding: 12px 24px;
              text-decoration: none; border-radius: 6px; font-weight: bold;
              display: inline-block; margin-right: 12px;">
        Approve Meeting
    </a>
    <a href="{{.DeclineURL}}"
       style="background: #e53e3e; color: white; padding: 12px 24px;
              text-decoration: none; border-radius: 6px; font-weight: bold;
              display: inline-block;">
        Decline
    </a>
</div>
`))

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #667eea;">Your meeting with {{.OwnerName}} has been confirmed!</h2>
    <table style="border-collapse: collapse; width: 100%;">
        <tr><td style="padding: 8px; font-weight: bold;">Date:</td>
            <td style="padding: 8px;">{{.Date}}</td></tr>
        <tr><td style="padding: 8px; font-weight: bold;">Time:</td>
            <td style="padding: 8px;">{{.Time}} ({{.TimezoneLabel}})</td></tr>
        <tr><td style="padding: 8px; font-weight: bold;">Duration:</td>
            <td style="padding: 8px;">{{.Duration}} minutes</td></tr>
        <tr><td style="padding: 8px; font-weight: bold;">Purpose:</td>
            <td style="padding: 8px;">{{if .Purpose}}{{.Purpose}}{{else}}Not specified{{end}}</td></tr>
    </table>
    <p>You should also receive a calendar invitation shortly.</p>
    <p>Looking forward to speaking with you!</p>
</div>
`))

var reminderTmpl = template.Must(template.New("reminder").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #667eea;">Reminder: your meeting with {{.OwnerName}} is coming up</h2>
    <table style="border-collapse: collapse; width: 100%;">
        <tr><td style="padding: 8px; font-weight: bold;">Date:</td>
            <td style="padding: 8px;">{{.Date}}</td></tr>
        <tr><td style="padding: 8px; font-weight: bold;">Time:</td>
            <td style="padding: 8px;">{{.Time}} ({{.TimezoneLabel}})</td></tr>
        <tr><td style="padding: 8px; font-weight: bold;">Duration:</td>
            <td style="padding: 8px;">{{.Duration}} minutes</td></tr>
    </table>
    <p>See you soon!</p>
</div>
`))

type approvalMailData struct {
	Name       string
	Email      string
	Date       string
	Time       string
	Duration   int
	Purpose    string
	ApproveURL string
	DeclineURL string
}

type confirmationMailData struct {
	OwnerName     string
	Date          string
	Time          string
	TimezoneLabel string
	Duration      int
	Purpose       string
}

func renderApprovalMail(rec *models.BookingRequest, baseURL string) (string, error) {
	data := approvalMailData{
		Name:       rec.RequesterName,
		Email:      rec.RequesterEmail,
		Date:       rec.MeetingDate,
		Time:       rec.MeetingTime,
		Duration:   rec.DurationMinutes,
		Purpose:    rec.Purpose,
		ApproveURL: fmt.Sprintf("%s/approve-booking/%s", baseURL, rec.ApprovalToken),
		DeclineURL: fmt.Sprintf("%s/decline-booking/%s", baseURL, rec.ApprovalToken),
	}
	var buf bytes.Buffer
	if err := approvalTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render approval mail: %w", err)
	}
	return buf.String(), nil
}

func renderReminderMail(rec *models.BookingRequest, ownerName, timezoneLabel string) (string, error) {
	data := confirmationMailData{
		OwnerName:     ownerName,
		Date:          rec.MeetingDate,
		Time:          rec.MeetingTime,
		TimezoneLabel: timezoneLabel,
		Duration:      rec.DurationMinutes,
	}
	var buf bytes.Buffer
	if err := reminderTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render reminder mail: %w", err)
	}
	return buf.String(), nil
}

func renderConfirmationMail(rec *models.BookingRequest, ownerName, timezoneLabel string) (string, error) {
	data := confirmationMailData{
		OwnerName:     ownerName,
		Date:          rec.MeetingDate,
		Time:          rec.MeetingTime,
		TimezoneLabel: timezoneLabel,
		Duration:      rec.DurationMinutes,
		Purpose:       rec.Purpose,
	}
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render confirmation mail: %w", err)
	}
	return buf.String(), nil
}

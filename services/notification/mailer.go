package notification

import (
	"context"
	"fmt"

	"meetwise/config"
	"meetwise/models"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SMTPMailer is the production NotificationService, delivering over SMTP.
type SMTPMailer struct {
	dialer        *gomail.Dialer
	from          string
	ownerEmail    string
	ownerName     string
	baseURL       string
	timezoneLabel string
	logger        *zap.Logger
}

// NewSMTPMailer builds the mailer from config.
func NewSMTPMailer(cfg config.Config, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer:        gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:          cfg.SMTPFrom,
		ownerEmail:    cfg.OwnerEmail,
		ownerName:     cfg.OwnerName,
		baseURL:       cfg.ServerBaseURL,
		timezoneLabel: cfg.BusinessTimezone,
		logger:        logger,
	}
}

func (m *SMTPMailer) SendApprovalRequest(ctx context.Context, rec *models.BookingRequest) error {
	body, err := renderApprovalMail(rec, m.baseURL)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Meeting Request from %s - %s at %s",
		rec.RequesterName, rec.MeetingDate, rec.MeetingTime)

	if err := m.send(ctx, m.ownerEmail, subject, body); err != nil {
		m.logger.Warn("approval request mail failed",
			zap.String("bookingID", rec.ID), zap.Error(err))
		return fmt.Errorf("failed to send approval request: %w", err)
	}
	m.logger.Info("approval request mail sent", zap.String("bookingID", rec.ID))
	return nil
}

func (m *SMTPMailer) SendConfirmation(ctx context.Context, rec *models.BookingRequest) error {
	if rec.RequesterEmail == "" {
		return fmt.Errorf("booking %s has no requester email", rec.ID)
	}

	body, err := renderConfirmationMail(rec, m.ownerName, m.timezoneLabel)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Meeting Confirmed - %s at %s", rec.MeetingDate, rec.MeetingTime)

	if err := m.send(ctx, rec.RequesterEmail, subject, body); err != nil {
		m.logger.Warn("confirmation mail failed",
			zap.String("bookingID", rec.ID), zap.Error(err))
		return fmt.Errorf("failed to send confirmation: %w", err)
	}
	m.logger.Info("confirmation mail sent", zap.String("bookingID", rec.ID))
	return nil
}

func (m *SMTPMailer) SendReminder(ctx context.Context, rec *models.BookingRequest) error {
	if rec.RequesterEmail == "" {
		return fmt.Errorf("booking %s has no requester email", rec.ID)
	}

	body, err := renderReminderMail(rec, m.ownerName, m.timezoneLabel)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Reminder: Meeting %s at %s", rec.MeetingDate, rec.MeetingTime)

	if err := m.send(ctx, rec.RequesterEmail, subject, body); err != nil {
		m.logger.Warn("reminder mail failed",
			zap.String("bookingID", rec.ID), zap.Error(err))
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	m.logger.Info("reminder mail sent", zap.String("bookingID", rec.ID))
	return nil
}

// send delivers one HTML message. gomail has no context support, so the dial
// runs on its own goroutine and the caller's deadline still applies.
func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

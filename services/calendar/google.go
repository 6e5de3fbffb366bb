package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"meetwise/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleCalendarService talks to the owner's Google Calendar. Token refresh
// is handled inside the oauth2 token source; the initial token is minted
// out-of-band on a machine with a browser and dropped next to the server.
type GoogleCalendarService struct {
	svc        *gcal.Service
	calendarID string
	timezone   string
	timeout    time.Duration
}

// NewGoogleCalendarService builds the production calendar client from the
// configured credentials and token files.
func NewGoogleCalendarService(ctx context.Context, cfg config.Config) (*GoogleCalendarService, error) {
	credBytes, err := os.ReadFile(cfg.GoogleCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read google credentials file: %w", err)
	}
	oauthConf, err := google.ConfigFromJSON(credBytes, gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse google credentials: %w", err)
	}

	tokBytes, err := os.ReadFile(cfg.GoogleTokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth token file (run the token bootstrap on a machine with a browser): %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(tokBytes, &tok); err != nil {
		return nil, fmt.Errorf("failed to parse oauth token file: %w", err)
	}

	svc, err := gcal.NewService(ctx, option.WithTokenSource(oauthConf.TokenSource(ctx, &tok)))
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar client: %w", err)
	}

	return &GoogleCalendarService{
		svc:        svc,
		calendarID: cfg.CalendarID,
		timezone:   cfg.BusinessTimezone,
		timeout:    cfg.ExternalTimeout(),
	}, nil
}

func (g *GoogleCalendarService) FreeBusy(ctx context.Context, start, end time.Time) ([]BusyInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req := &gcal.FreeBusyRequest{
		TimeMin:  start.Format(time.RFC3339),
		TimeMax:  end.Format(time.RFC3339),
		TimeZone: g.timezone,
		Items:    []*gcal.FreeBusyRequestItem{{Id: g.calendarID}},
	}

	res, err := g.svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query failed: %w", err)
	}

	cal, ok := res.Calendars[g.calendarID]
	if !ok {
		return nil, fmt.Errorf("freebusy response missing calendar %q", g.calendarID)
	}

	var busy []BusyInterval
	for _, slot := range cal.Busy {
		s, err := time.Parse(time.RFC3339, slot.Start)
		if err != nil {
			return nil, fmt.Errorf("freebusy returned malformed start %q: %w", slot.Start, err)
		}
		e, err := time.Parse(time.RFC3339, slot.End)
		if err != nil {
			return nil, fmt.Errorf("freebusy returned malformed end %q: %w", slot.End, err)
		}
		busy = append(busy, BusyInterval{Start: s, End: e})
	}
	return busy, nil
}

func (g *GoogleCalendarService) CreateEvent(ctx context.Context, ev Event) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	body := &gcal.Event{
		Summary:     ev.Title,
		Description: ev.Description,
		Start: &gcal.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
			TimeZone: g.timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: ev.End.Format(time.RFC3339),
			TimeZone: g.timezone,
		},
	}
	if ev.AttendeeEmail != "" {
		body.Attendees = []*gcal.EventAttendee{{Email: ev.AttendeeEmail}}
	}

	created, err := g.svc.Events.Insert(g.calendarID, body).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("event insert failed: %w", err)
	}
	return created.Id, nil
}

func (g *GoogleCalendarService) DeleteEvent(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.svc.Events.Delete(g.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("event delete failed: %w", err)
	}
	return nil
}

package calendarsvc

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/trezcool/organizer/core"
)

type googleProvider struct {
	service        *calendar.Service
	logger         core.Logger
	maxAttempts    int
	initialBackoff time.Duration
}

var _ core.CalendarProvider = (*googleProvider)(nil)

// NewGoogleProvider authenticates with the service account key found at conf.Calendar.CredentialsFile.
func NewGoogleProvider(ctx context.Context, conf *core.Config, logger core.Logger) (*googleProvider, error) {
	b, err := os.ReadFile(conf.Calendar.CredentialsFile)
	if err != nil {
		return nil, errors.Wrap(err, "reading calendar credentials")
	}
	jwtConf, err := google.JWTConfigFromJSON(b, calendar.CalendarScope)
	if err != nil {
		return nil, errors.Wrap(err, "parsing calendar credentials")
	}
	service, err := calendar.NewService(ctx, option.WithHTTPClient(jwtConf.Client(ctx)))
	if err != nil {
		return nil, errors.Wrap(err, "creating calendar service")
	}
	return &googleProvider{
		service:        service,
		logger:         logger,
		maxAttempts:    conf.Calendar.MaxAttempts,
		initialBackoff: conf.Calendar.InitialBackoff,
	}, nil
}

func (p *googleProvider) CreateCalendar(ctx context.Context, summary, timeZone string) (string, error) {
	var id string
	err := retry(ctx, p.logger, p.maxAttempts, p.initialBackoff, "creating calendar", func() error {
		cal, err := p.service.Calendars.Insert(&calendar.Calendar{Summary: summary, TimeZone: timeZone}).Context(ctx).Do()
		if err != nil {
			return err
		}
		id = cal.Id
		return nil
	})
	return id, err
}

func (p *googleProvider) InsertEvent(ctx context.Context, calendarID string, ev core.NewCalendarEvent) (core.CalendarEvent, error) {
	body := &calendar.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       &calendar.EventDateTime{DateTime: ev.Start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: ev.End.Format(time.RFC3339)},
	}
	var created core.CalendarEvent
	err := retry(ctx, p.logger, p.maxAttempts, p.initialBackoff, "inserting event", func() error {
		item, err := p.service.Events.Insert(calendarID, body).Context(ctx).Do()
		if err != nil {
			return err
		}
		created = toCalendarEvent(item, calendarID)
		return nil
	})
	return created, err
}

func (p *googleProvider) ListEvents(ctx context.Context, calendarID string) ([]core.CalendarEvent, error) {
	var events []core.CalendarEvent
	err := retry(ctx, p.logger, p.maxAttempts, p.initialBackoff, "listing events", func() error {
		events = events[:0]
		return p.service.Events.List(calendarID).ShowDeleted(false).Pages(ctx, func(page *calendar.Events) error {
			for _, item := range page.Items {
				if item.Start == nil || item.End == nil {
					continue
				}
				events = append(events, toCalendarEvent(item, calendarID))
			}
			return nil
		})
	})
	return events, err
}

func (p *googleProvider) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	return retry(ctx, p.logger, p.maxAttempts, p.initialBackoff, "deleting event", func() error {
		return p.service.Events.Delete(calendarID, eventID).Context(ctx).Do()
	})
}

func toCalendarEvent(item *calendar.Event, calendarID string) core.CalendarEvent {
	ev := core.CalendarEvent{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		CalendarID:  calendarID,
		Start:       parseEventTime(item.Start),
		End:         parseEventTime(item.End),
	}
	if item.Organizer != nil {
		ev.OrganizerEmail = item.Organizer.Email
	}
	return ev
}

// parseEventTime reads timed events as well as all-day ones.
func parseEventTime(edt *calendar.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		t, _ := time.Parse(time.RFC3339, edt.DateTime)
		return t
	}
	t, _ := time.Parse("2006-01-02", edt.Date)
	return t
}

// retryable reports whether the calendar API asked us to slow down or failed on its side.
func retryable(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	switch {
	case gerr.Code == http.StatusTooManyRequests, gerr.Code >= http.StatusInternalServerError:
		return true
	case gerr.Code == http.StatusForbidden:
		for _, item := range gerr.Errors {
			if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
				return true
			}
		}
	}
	return false
}

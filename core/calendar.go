package core

import (
	"context"
	"time"
)

type (
	// CalendarEvent is an event as read from a CalendarProvider.
	// Scope is not stored by the provider; it is attached when events are aggregated.
	CalendarEvent struct {
		ID             string
		Summary        string
		Description    string
		CalendarID     string
		OrganizerEmail string
		Start          time.Time
		End            time.Time
		Scope          Scope
	}

	NewCalendarEvent struct {
		Summary     string
		Description string
		Start       time.Time
		End         time.Time
	}

	// CalendarProvider is any external calendar service.
	CalendarProvider interface {
		// CreateCalendar creates a new calendar and returns its ID.
		CreateCalendar(ctx context.Context, summary, timeZone string) (string, error)
		InsertEvent(ctx context.Context, calendarID string, ev NewCalendarEvent) (CalendarEvent, error)
		ListEvents(ctx context.Context, calendarID string) ([]CalendarEvent, error)
		DeleteEvent(ctx context.Context, calendarID, eventID string) error
	}
)

// Label is the scope the event was tagged with when it was created.
func (ev CalendarEvent) Label() Scope {
	return ParseScope(ev.Description)
}

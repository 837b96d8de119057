package calendarsvc

import (
	"context"
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"

	"github.com/trezcool/organizer/core"
)

// MemoryProvider keeps calendars in memory. It serves development setups and tests.
// Events are organized by their calendar, so OrganizerEmail is the calendar id.
// Event times are returned in the time zone of their calendar.
type MemoryProvider struct {
	mu        sync.RWMutex
	calendars map[string]*memoryCalendar
	failure   error
}

type memoryCalendar struct {
	loc    *time.Location
	events []core.CalendarEvent
}

var _ core.CalendarProvider = (*MemoryProvider)(nil)

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{calendars: make(map[string]*memoryCalendar)}
}

// CalendarCount returns the number of calendars created so far.
func (p *MemoryProvider) CalendarCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.calendars)
}

// SetFailure makes every following call fail with err until it is reset with nil.
func (p *MemoryProvider) SetFailure(err error) {
	p.mu.Lock()
	p.failure = err
	p.mu.Unlock()
}

func (p *MemoryProvider) fail(op string) error {
	if p.failure != nil {
		return core.NewProviderError(op, p.failure)
	}
	return nil
}

func (p *MemoryProvider) CreateCalendar(_ context.Context, _, timeZone string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.fail("creating calendar"); err != nil {
		return "", err
	}
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return "", core.NewProviderError("creating calendar", err)
	}
	id := uuid.NewString() + "@group.calendar.local"
	p.calendars[id] = &memoryCalendar{loc: loc}
	return id, nil
}

func (p *MemoryProvider) InsertEvent(_ context.Context, calendarID string, ev core.NewCalendarEvent) (core.CalendarEvent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.fail("inserting event"); err != nil {
		return core.CalendarEvent{}, err
	}
	cal, ok := p.calendars[calendarID]
	if !ok {
		return core.CalendarEvent{}, core.NewProviderError("inserting event", fmt.Errorf("calendar %q not found", calendarID))
	}
	created := core.CalendarEvent{
		ID:             uuid.NewString(),
		Summary:        ev.Summary,
		Description:    ev.Description,
		CalendarID:     calendarID,
		OrganizerEmail: calendarID,
		Start:          ev.Start.In(cal.loc),
		End:            ev.End.In(cal.loc),
	}
	cal.events = append(cal.events, created)
	return created, nil
}

func (p *MemoryProvider) ListEvents(_ context.Context, calendarID string) ([]core.CalendarEvent, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if err := p.fail("listing events"); err != nil {
		return nil, err
	}
	cal, ok := p.calendars[calendarID]
	if !ok {
		return nil, core.NewProviderError("listing events", fmt.Errorf("calendar %q not found", calendarID))
	}
	out := make([]core.CalendarEvent, len(cal.events))
	copy(out, cal.events)
	return out, nil
}

func (p *MemoryProvider) DeleteEvent(_ context.Context, calendarID, eventID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.fail("deleting event"); err != nil {
		return err
	}
	if cal, ok := p.calendars[calendarID]; ok {
		for i, ev := range cal.events {
			if ev.ID == eventID {
				cal.events = append(cal.events[:i:i], cal.events[i+1:]...)
				return nil
			}
		}
	}
	return core.NewProviderError("deleting event", fmt.Errorf("event %q not found", eventID))
}

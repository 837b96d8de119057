package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/emersion/go-ical"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/organizer"
)

var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (h *handler) monthCalendar(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.QueryParam("month")) // invalid -> current month

	mv, err := h.svc.MonthCalendar(ctx.Request().Context(), contextActor(ctx), id)
	if err != nil {
		return errors.Wrap(err, "building month calendar")
	}
	return h.render(ctx, http.StatusOK, "month", echo.Map{
		"Title":    mv.Month.String() + " " + strconv.Itoa(mv.Year),
		"Month":    mv,
		"Weekdays": weekdays,
	})
}

func (h *handler) exportCalendar(ctx echo.Context) error {
	actor := contextActor(ctx)
	events, err := h.svc.ListEvents(ctx.Request().Context(), actor, organizer.EventFilter{})
	if err != nil {
		return errors.Wrap(err, "listing events")
	}

	cal := newICalendar(h.conf.AppName, events, organizer.NowFunc().UTC())
	resp := ctx.Response()
	resp.Header().Set(echo.HeaderContentType, "text/calendar; charset=utf-8")
	resp.Header().Set(echo.HeaderContentDisposition, `attachment; filename="organizer.ics"`)
	resp.WriteHeader(http.StatusOK)
	return errors.Wrap(ical.NewEncoder(resp).Encode(cal), "encoding calendar")
}

// newICalendar converts aggregated events to a VCALENDAR. Events carry their label in CATEGORIES.
func newICalendar(appName string, events []core.CalendarEvent, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//"+appName+"//EN")
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")

	for _, ev := range events {
		ve := ical.NewComponent(ical.CompEvent)
		ve.Props.SetText(ical.PropUID, ev.ID)
		ve.Props.SetText(ical.PropSummary, ev.Summary)
		ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
		ve.Props.SetDateTime(ical.PropDateTimeStart, ev.Start.UTC())
		ve.Props.SetDateTime(ical.PropDateTimeEnd, ev.End.UTC())
		ve.Props.SetText(ical.PropCategories, ev.Label().Label())
		cal.Children = append(cal.Children, ve)
	}
	return cal
}

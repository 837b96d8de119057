package organizer

import (
	"context"
	"time"

	"github.com/trezcool/organizer/core"
)

type (
	CalendarDay struct {
		Date    time.Time
		InMonth bool
		IsToday bool
		Events  []TodoItem
	}

	// MonthView is a month grid of Monday-first weeks.
	MonthView struct {
		Year   int
		Month  time.Month
		ID     int
		PrevID int
		NextID int
		Weeks  [][]CalendarDay
	}
)

// MonthID numbers months so that consecutive months have consecutive ids.
func MonthID(year int, month time.Month) int {
	return int(month) + 12*year
}

// FromMonthID is the inverse of MonthID.
func FromMonthID(id int) (int, time.Month) {
	if id%12 == 0 {
		return id/12 - 1, time.December
	}
	return id / 12, time.Month(id % 12)
}

// MonthCalendar lays out the actor's events of a month. A non-positive id means the current month.
func (svc *Service) MonthCalendar(ctx context.Context, actor Actor, id int) (MonthView, error) {
	now := NowFunc()
	if id <= 0 {
		id = MonthID(now.Year(), now.Month())
	}
	year, month := FromMonthID(id)

	events, err := svc.ListEvents(ctx, actor, EventFilter{Month: int(month), Year: year})
	if err != nil {
		return MonthView{}, err
	}
	byDay := make(map[int][]core.CalendarEvent)
	for _, ev := range events {
		byDay[ev.End.Day()] = append(byDay[ev.End.Day()], ev)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) + 6) % 7 // Monday first
	start := first.AddDate(0, 0, -offset)

	mv := MonthView{Year: year, Month: month, ID: id, PrevID: id - 1, NextID: id + 1}
	for day := start; ; day = day.AddDate(0, 0, 7) {
		if day.After(first) && (day.Month() != month) {
			break
		}
		week := make([]CalendarDay, 7)
		for i := range week {
			d := day.AddDate(0, 0, i)
			cd := CalendarDay{
				Date:    d,
				InMonth: d.Month() == month,
				IsToday: d.Year() == now.Year() && d.YearDay() == now.YearDay(),
			}
			if cd.InMonth {
				cd.Events = svc.todoList(ctx, actor, byDay[d.Day()]).All()
			}
			week[i] = cd
		}
		mv.Weeks = append(mv.Weeks, week)
	}
	return mv, nil
}

// All returns future then past items.
func (tl TodoList) All() []TodoItem {
	items := make([]TodoItem, 0, len(tl.Future)+len(tl.Past))
	items = append(items, tl.Future...)
	return append(items, tl.Past...)
}

package organizer

import (
	"context"
	"sort"

	"github.com/trezcool/organizer/core"
)

type (
	TodoItem struct {
		Event         core.CalendarEvent
		Days          int
		Status        string
		Color         string
		Checked       bool
		CanAdminister bool
	}

	// TodoList holds upcoming assignments then past-due ones, each sorted by due date.
	TodoList struct {
		Future []TodoItem
		Past   []TodoItem
	}
)

func (tl TodoList) IsEmpty() bool { return len(tl.Future) == 0 && len(tl.Past) == 0 }

// TodoList builds the actor's todo list. A named scope restricts it to that class.
func (svc *Service) TodoList(ctx context.Context, actor Actor, scope core.Scope) (TodoList, error) {
	var filter EventFilter
	if !scope.IsPersonal() {
		filter.Class = &scope
	}
	events, err := svc.ListEvents(ctx, actor, filter)
	if err != nil {
		return TodoList{}, err
	}
	return svc.todoList(ctx, actor, events), nil
}

func (svc *Service) todoList(ctx context.Context, actor Actor, events []core.CalendarEvent) TodoList {
	sorted := make([]core.CalendarEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].End.Before(sorted[j].End) })

	var tl TodoList
	for _, ev := range sorted {
		days := DaysUntil(ev.End)
		item := TodoItem{
			Event:         ev,
			Days:          days,
			Status:        DueString(days),
			Color:         GetColor(actor, ev.Label()),
			Checked:       svc.IsCheckedOff(ctx, actor, ev),
			CanAdminister: svc.CanAdministerEvent(ctx, actor, ev),
		}
		if days < 0 {
			tl.Past = append(tl.Past, item)
		} else {
			tl.Future = append(tl.Future, item)
		}
	}
	return tl
}

package organizer

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/organizer/core"
)

const dateLayout = "2006-01-02"

var errCalendarChoice = errors.New("select a valid choice")

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Name        string `form:"name" validate:"required,min=4,max=50,noslash,notreserved"`
	Description string `form:"description" validate:"required,min=10,max=200"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}

// NewAssignment is posted from the todo list (Class empty, Calendar picks the label)
// or from a class page (Class set, the event goes to the class calendar).
type NewAssignment struct {
	Summary  string `form:"summary" validate:"required,notblank,max=50,noslash,notreserved"`
	Date     string `form:"date" validate:"required,datetime=2006-01-02"`
	Calendar string `form:"calendar"`
	Class    string `form:"class"`
}

// Validate checks the form against the classes the requester is enrolled in.
func (na *NewAssignment) Validate(validate *validator.Validate, enrolled []string) error {
	na.Summary = core.CleanString(na.Summary)
	na.Date = core.CleanString(na.Date)
	na.Calendar = core.CleanString(na.Calendar)
	na.Class = core.CleanString(na.Class)

	if err := validate.Struct(na); err != nil {
		return err
	}
	if na.Class != "" {
		if !contains(enrolled, na.Class) {
			return core.NewValidationError(errCalendarChoice, core.FieldError{Field: "class", Error: errCalendarChoice.Error()})
		}
		return nil
	}
	if !core.ParseScope(na.Calendar).IsPersonal() && !contains(enrolled, na.Calendar) {
		return core.NewValidationError(errCalendarChoice, core.FieldError{Field: "calendar", Error: errCalendarChoice.Error()})
	}
	return nil
}

// Due is the UTC midnight of the chosen date.
func (na NewAssignment) Due() (time.Time, error) {
	return time.ParseInLocation(dateLayout, na.Date, time.UTC)
}

// Target is the scope whose calendar receives the event.
func (na NewAssignment) Target() core.Scope {
	if na.Class != "" {
		return core.Named(na.Class)
	}
	return core.Personal()
}

// Label is the scope the event is tagged with.
func (na NewAssignment) Label() core.Scope {
	if na.Class != "" {
		return core.Named(na.Class)
	}
	return core.ParseScope(na.Calendar)
}

// EditProfile defines what information may be provided to modify a Student's profile.
type EditProfile struct {
	Name        string `form:"name" validate:"required,notblank,max=50,nocode"`
	Mood        string `form:"mood" validate:"required,notblank,max=50,nocode"`
	Description string `form:"description" validate:"max=500,nocode,descformat"`
}

func (ep *EditProfile) Validate(validate *validator.Validate) error {
	ep.Name = core.CleanString(ep.Name)
	ep.Mood = core.CleanString(ep.Mood)
	ep.Description = normalizeNewlines(core.CleanString(ep.Description))
	return validate.Struct(ep)
}

type NewFile struct {
	Title       string `form:"title" validate:"required,notblank,max=100"`
	Description string `form:"description" validate:"max=500"`
}

func (nf *NewFile) Validate(validate *validator.Validate) error {
	nf.Title = core.CleanString(nf.Title)
	nf.Description = core.CleanString(nf.Description)
	return validate.Struct(nf)
}

type ColorChoice struct {
	Class string `form:"class"`
	Color string `form:"color" validate:"required,hexcolor"`
}

func (cc *ColorChoice) Validate(validate *validator.Validate) error {
	cc.Class = core.CleanString(cc.Class)
	cc.Color = core.CleanString(cc.Color, true /* lower */)
	return validate.Struct(cc)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

package organizer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
)

const syllabusNameMaxLen = 50

// SyllabusEntry is one `name,YYYY-MM-DD[,duration]` line of a syllabus file.
type SyllabusEntry struct {
	Name     string
	Due      time.Time
	Duration string
}

// ParseSyllabus reads a syllabus CSV. Blank lines are skipped.
func ParseSyllabus(r io.Reader) ([]SyllabusEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var entries []SyllabusEntry
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, syllabusErr(perr.Line, perr.Err.Error())
			}
			return nil, errors.Wrap(err, "reading syllabus")
		}
		line, _ := cr.FieldPos(0)
		if len(rec) < 2 {
			return nil, syllabusErr(line, "expected name,date[,duration]")
		}

		name := core.CleanString(rec[0])
		if name == "" || len([]rune(name)) > syllabusNameMaxLen || strings.ContainsAny(name, `/\<>`) {
			return nil, syllabusErr(line, fmt.Sprintf("invalid assignment name %q", name))
		}
		due, err := time.ParseInLocation(dateLayout, core.CleanString(rec[1]), time.UTC)
		if err != nil {
			return nil, syllabusErr(line, fmt.Sprintf("invalid date %q", core.CleanString(rec[1])))
		}
		entry := SyllabusEntry{Name: name, Due: due}
		if len(rec) > 2 {
			entry.Duration = core.CleanString(rec[2])
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func syllabusErr(line int, msg string) error {
	err := fmt.Errorf("line %d: %s", line, msg)
	return core.NewValidationError(err, core.FieldError{Field: "file", Error: err.Error()})
}

// ImportSyllabus creates one assignment per syllabus line in the calendar of scope.
func (svc *Service) ImportSyllabus(ctx context.Context, actor Actor, scope core.Scope, r io.Reader) (int, error) {
	if actor.IsAnonymous() {
		return 0, ErrAnonymous
	}
	if !scope.IsPersonal() && !svc.IsProfessorFor(ctx, actor, scope) {
		return 0, ErrNotProfessor
	}
	entries, err := ParseSyllabus(r)
	if err != nil {
		return 0, err
	}

	for i, entry := range entries {
		if _, err = svc.createEvent(ctx, actor, scope, entry.Name, scope, entry.Due); err != nil {
			return i, errors.Wrapf(err, "importing %q", entry.Name)
		}
	}
	svc.logger.Info(fmt.Sprintf("imported %d syllabus entries into %s", len(entries), scope.Label()))
	return len(entries), nil
}

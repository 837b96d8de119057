package organizer

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
)

var NowFunc = time.Now // mockable

type (
	Deps struct {
		Repo     Repository
		Users    UserDirectory
		Calendar core.CalendarProvider
		Files    core.FileStorage
		Mail     core.EmailService
		Logger   core.Logger
	}

	Service struct {
		repo     Repository
		users    UserDirectory
		calendar core.CalendarProvider
		files    core.FileStorage
		mail     core.EmailService
		logger   core.Logger

		calendarSummary  string
		calendarTimeZone string
		mailSubject      string
	}
)

func NewService(deps Deps, conf *core.Config) *Service {
	return &Service{
		repo:             deps.Repo,
		users:            deps.Users,
		calendar:         deps.Calendar,
		files:            deps.Files,
		mail:             deps.Mail,
		logger:           deps.Logger,
		calendarSummary:  conf.Calendar.Summary,
		calendarTimeZone: conf.Calendar.TimeZone,
		mailSubject:      conf.Mail.Subject,
	}
}

// EnsureStudent returns the student record of the given user, creating it on first use.
func (svc *Service) EnsureStudent(ctx context.Context, userID, username, email string) (Student, error) {
	st, err := svc.repo.GetStudent(ctx, userID)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, ErrStudentNotFound) {
		return Student{}, errors.Wrap(err, "getting student")
	}

	st, err = svc.repo.CreateStudent(ctx, Student{
		ID:          userID,
		Name:        username,
		Mood:        DefaultMood,
		Description: DefaultDescription(email),
		Color:       DefaultColor,
		CreatedAt:   NowFunc().UTC(),
	})
	if err != nil {
		return Student{}, errors.Wrap(err, "creating student")
	}
	return st, nil
}

func (svc *Service) GetStudent(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

func (svc *Service) SetProfessor(ctx context.Context, id string, isProfessor bool) (Student, error) {
	st, err := svc.repo.GetStudent(ctx, id)
	if err != nil {
		return Student{}, err
	}
	st.IsProfessor = isProfessor
	return svc.repo.UpdateStudent(ctx, st)
}


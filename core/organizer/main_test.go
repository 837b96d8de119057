package organizer_test

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/organizer"
	"github.com/trezcool/organizer/core/user"
	"github.com/trezcool/organizer/fs"
	"github.com/trezcool/organizer/services/calendar"
	"github.com/trezcool/organizer/services/email"
	"github.com/trezcool/organizer/services/filestore"
	"github.com/trezcool/organizer/services/logger"
	"github.com/trezcool/organizer/storage/database/dummy"
	"github.com/trezcool/organizer/tests"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func TestMain(m *testing.M) {
	if err := core.ParseEmailTemplates(appfs.FS, "templates/email", true); err != nil {
		log.Fatal(err)
	}

	enLocale := en.New()
	translator, _ = ut.New(enLocale, enLocale).GetTranslator("en")
	validate = validator.New()
	core.InitValidators(validate, translator)
	organizer.InitValidators(validate, translator)

	os.Exit(m.Run())
}

type env struct {
	svc     *organizer.Service
	repo    organizer.Repository
	usrRepo user.Repository
	cal     *calendarsvc.MemoryProvider
	mail    *emailsvc.ConsoleServiceMock
}

func setup(t *testing.T) *env {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	files, err := filestore.OpenBolt(filepath.Join(t.TempDir(), "files.db"))
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	t.Cleanup(func() { _ = files.Close() })

	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), &core.Config{})
	logger.Enable(false)

	e := &env{
		repo:    dummydb.NewOrganizerRepository(db),
		usrRepo: dummydb.NewUserRepository(db),
		cal:     calendarsvc.NewMemoryProvider(),
		mail:    emailsvc.NewConsoleServiceMock(),
	}
	conf := &core.Config{
		Mail:     core.MailConfig{Subject: "Assignment Organizer"},
		Calendar: core.CalendarConfig{Summary: "assignment organizer", TimeZone: "America/New_York"},
	}
	e.svc = organizer.NewService(organizer.Deps{
		Repo:     e.repo,
		Users:    user.NewService(e.usrRepo),
		Calendar: e.cal,
		Files:    files,
		Mail:     e.mail,
		Logger:   logger,
	}, conf)
	return e
}

// student creates a student and returns it as a freshly loaded actor.
func (e *env) student(t *testing.T, name string, isProfessor bool) organizer.Actor {
	st := testutil.CreateStudent(t, e.usrRepo, e.repo, name, isProfessor)
	return e.reload(t, organizer.AsActor(st))
}

func (e *env) reload(t *testing.T, actor organizer.Actor) organizer.Actor {
	st, err := e.svc.GetStudent(context.Background(), actor.ID())
	if err != nil {
		t.Fatalf("reload() failed: %v", err)
	}
	return organizer.AsActor(st)
}

func (e *env) createClass(t *testing.T, prof organizer.Actor, name string, members ...organizer.Actor) organizer.Class {
	ctx := context.Background()
	cls, err := e.svc.CreateClass(ctx, prof, organizer.NewClass{Name: name, Description: "a class about " + name})
	if err != nil {
		t.Fatalf("createClass() failed: %v", err)
	}
	for _, m := range members {
		if err = e.svc.Enroll(ctx, m, name); err != nil {
			t.Fatalf("createClass() failed: %v", err)
		}
	}
	return cls
}

func (e *env) addAssignment(t *testing.T, actor organizer.Actor, na organizer.NewAssignment) core.CalendarEvent {
	ev, err := e.svc.AddAssignment(context.Background(), actor, na)
	if err != nil {
		t.Fatalf("addAssignment() failed: %v", err)
	}
	return ev
}

func mockNow(t *testing.T, now time.Time) {
	organizer.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { organizer.NowFunc = time.Now })
}

func summaries(events []core.CalendarEvent) []string {
	var out []string
	for _, ev := range events {
		out = append(out, ev.Summary)
	}
	return out
}

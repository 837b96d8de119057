// Package shared wires the collaborators used by both the api server and the admin CLI.
package shared

import (
	"context"
	"fmt"
	"io"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/organizer"
	"github.com/trezcool/organizer/core/user"
	appfs "github.com/trezcool/organizer/fs"
	calendarsvc "github.com/trezcool/organizer/services/calendar"
	emailsvc "github.com/trezcool/organizer/services/email"
	"github.com/trezcool/organizer/services/filestore"
	"github.com/trezcool/organizer/storage/database"
	sqlxrepos "github.com/trezcool/organizer/storage/database/sqlx"
)

type Services struct {
	DB         *sqlx.DB
	UserRepo   user.Repository
	Repo       organizer.Repository
	Users      *user.Service
	Organizer  *organizer.Service
	Mail       core.EmailService
	Validate   *validator.Validate
	Translator ut.Translator

	closers []io.Closer
}

// NewServices opens the database, applies pending migrations and builds the services selected by conf.
func NewServices(ctx context.Context, conf *core.Config, logger core.Logger) (*Services, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}
	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	s := &Services{DB: db, closers: []io.Closer{db}}

	if err = database.Migrate(db.DB, conf.Database.Engine); err != nil {
		_ = s.Close()
		return nil, err
	}
	if err = core.ParseEmailTemplates(appfs.FS, "templates/email", conf.Debug); err != nil {
		_ = s.Close()
		return nil, err
	}

	cal, err := NewCalendarProvider(ctx, conf, logger)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	files, err := NewFileStorage(ctx, conf)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	if c, ok := files.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}

	if conf.Debug || conf.Mail.SendgridApiKey == "" {
		s.Mail = emailsvc.NewConsoleService(conf)
	} else {
		s.Mail = emailsvc.NewSendgridService(conf)
	}

	s.UserRepo = sqlxrepos.NewUserRepository(db)
	s.Repo = sqlxrepos.NewOrganizerRepository(db)
	s.Users = user.NewService(s.UserRepo)
	s.Organizer = organizer.NewService(organizer.Deps{
		Repo:     s.Repo,
		Users:    s.Users,
		Calendar: cal,
		Files:    files,
		Mail:     s.Mail,
		Logger:   logger,
	}, conf)
	s.Validate, s.Translator = NewValidator()
	return s, nil
}

func NewCalendarProvider(ctx context.Context, conf *core.Config, logger core.Logger) (core.CalendarProvider, error) {
	switch conf.Calendar.Provider {
	case "google":
		return calendarsvc.NewGoogleProvider(ctx, conf, logger)
	case "memory":
		return calendarsvc.NewMemoryProvider(), nil
	default:
		return nil, fmt.Errorf("unknown calendar provider %q", conf.Calendar.Provider)
	}
}

func NewFileStorage(ctx context.Context, conf *core.Config) (core.FileStorage, error) {
	switch conf.Storage.Engine {
	case "bolt":
		return filestore.OpenBolt(conf.Storage.BoltPath)
	case "b2":
		return filestore.NewB2Storage(ctx, conf)
	default:
		return nil, fmt.Errorf("unknown storage engine %q", conf.Storage.Engine)
	}
}

// Close releases the file storage and the database, in that order.
func (s *Services) Close() error {
	var err error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if cerr := s.closers[i].Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "closing services")
		}
	}
	return err
}

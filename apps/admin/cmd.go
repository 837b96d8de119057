package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/trezcool/organizer/apps/shared"
	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/organizer"
	"github.com/trezcool/organizer/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db         *sql.DB
	engine     string
	usrSvc     *user.Service
	svc        *organizer.Service
	validate   *validator.Validate
	translator ut.Translator
	out        io.Writer
}

func newCommandLine(svcs *shared.Services, engine string, out io.Writer) *commandLine {
	return &commandLine{
		db:         svcs.DB.DB,
		engine:     engine,
		usrSvc:     svcs.Users,
		svc:        svcs.Organizer,
		validate:   svcs.Validate,
		translator: svcs.Translator,
		out:        out,
	}
}

func (cl *commandLine) app() *cli.App {
	return &cli.App{
		Name:      "admin",
		Usage:     "Administer the assignment organizer.",
		Writer:    cl.out,
		ErrWriter: cl.out,
		Action: func(c *cli.Context) error {
			_ = cli.ShowAppHelp(c)
			return errHelp
		},
		Commands: []*cli.Command{
			cl.migrateCommand(),
			cl.addUserCommand(),
			cl.resetPasswordCommand(),
			cl.setProfessorCommand(),
			cl.setActiveCommand("activate", true),
			cl.setActiveCommand("deactivate", false),
			cl.notifyCommand(),
			cl.importSyllabusCommand(),
		},
	}
}

func (cl *commandLine) run(args []string) error {
	return cl.app().Run(args)
}

// promptPassword reads a password from the terminal without echoing it.
func (cl *commandLine) promptPassword(c *cli.Context) (string, error) {
	fmt.Fprint(cl.out, "Enter password:")
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(cl.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		_ = cli.ShowSubcommandHelp(c)
		return "", errHelp
	}
	return string(pwd), nil
}

// validationErr flattens validation errors into a single readable error.
func (cl *commandLine) validationErr(err error) error {
	flds := core.FieldErrors(err, cl.translator)
	msgs := make([]string, 0, len(flds))
	for fld, msg := range flds {
		if fld != "" {
			msg = fld + ": " + msg
		}
		msgs = append(msgs, msg)
	}
	sort.Strings(msgs)
	return errors.New(strings.Join(msgs, "; "))
}

func usernameFlag() *cli.StringFlag {
	return &cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "the user's username or email", Required: true}
}

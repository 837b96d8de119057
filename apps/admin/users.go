package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/trezcool/organizer/core/organizer"
	"github.com/trezcool/organizer/core/user"
)

func (cl *commandLine) addUserCommand() *cli.Command {
	return &cli.Command{
		Name:  "adduser",
		Usage: "Create a user. The password is prompted next.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
			&cli.BoolFlag{Name: "professor", Usage: "allow the user to create classes"},
		},
		Action: func(c *cli.Context) error {
			pwd, err := cl.promptPassword(c)
			if err != nil {
				return err
			}
			usr, err := cl.addUser(c.Context, c.String("username"), c.String("email"), pwd, c.Bool("professor"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cl.out, "user %q created\n", usr.Username)
			return nil
		},
	}
}

// addUser creates a user.User and its organizer.Student.
func (cl *commandLine) addUser(ctx context.Context, uname, email, pwd string, isProfessor bool) (user.User, error) {
	nu := user.NewUser{Username: uname, Email: email, Password: pwd, PasswordConfirm: pwd}
	if err := nu.Validate(ctx, cl.validate, cl.usrSvc); err != nil {
		return user.User{}, cl.validationErr(err)
	}
	usr, err := cl.usrSvc.Create(ctx, nu)
	if err != nil {
		return user.User{}, err
	}
	st, err := cl.svc.EnsureStudent(ctx, usr.ID, usr.Username, usr.Email)
	if err != nil {
		return usr, err
	}
	if isProfessor {
		if _, err = cl.svc.SetProfessor(ctx, st.ID, true); err != nil {
			return usr, err
		}
	}
	return usr, nil
}

func (cl *commandLine) resetPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:  "resetpassword",
		Usage: "Reset a user's password. The password is prompted next.",
		Flags: []cli.Flag{usernameFlag()},
		Action: func(c *cli.Context) error {
			pwd, err := cl.promptPassword(c)
			if err != nil {
				return err
			}
			return cl.resetPassword(c.Context, c.String("username"), pwd)
		},
	}
}

func (cl *commandLine) resetPassword(ctx context.Context, uname, pwd string) error {
	usr, err := cl.usrSvc.GetByUsernameOrEmail(ctx, uname)
	if err != nil {
		return err
	}
	rp := user.ResetUserPassword{Username: usr.Username, Email: usr.Email, Password: pwd}
	if err = rp.Validate(cl.validate); err != nil {
		return cl.validationErr(err)
	}
	_, err = cl.usrSvc.SetPassword(ctx, usr, pwd)
	return err
}

func (cl *commandLine) setProfessorCommand() *cli.Command {
	return &cli.Command{
		Name:  "setprofessor",
		Usage: "Grant (or revoke) the right to create classes.",
		Flags: []cli.Flag{
			usernameFlag(),
			&cli.BoolFlag{Name: "revoke"},
		},
		Action: func(c *cli.Context) error {
			st, err := cl.student(c.Context, c.String("username"))
			if err != nil {
				return err
			}
			_, err = cl.svc.SetProfessor(c.Context, st.ID, !c.Bool("revoke"))
			return err
		},
	}
}

func (cl *commandLine) setActiveCommand(name string, active bool) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: name + " a user account",
		Flags: []cli.Flag{usernameFlag()},
		Action: func(c *cli.Context) error {
			usr, err := cl.usrSvc.GetByUsernameOrEmail(c.Context, c.String("username"))
			if err != nil {
				return err
			}
			_, err = cl.usrSvc.SetActive(c.Context, usr, active)
			return err
		},
	}
}

// student finds the student record of a user, creating it if the user never logged in.
func (cl *commandLine) student(ctx context.Context, uname string) (organizer.Student, error) {
	usr, err := cl.usrSvc.GetByUsernameOrEmail(ctx, uname)
	if err != nil {
		return organizer.Student{}, err
	}
	return cl.svc.EnsureStudent(ctx, usr.ID, usr.Username, usr.Email)
}

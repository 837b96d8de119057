package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/organizer"
)

func (cl *commandLine) notifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "notify",
		Usage: "Queue and send email notifications.",
		Subcommands: []*cli.Command{
			{
				Name:  "flush",
				Usage: "send every queued notification",
				Action: func(c *cli.Context) error {
					n, err := cl.svc.FlushNotifications(c.Context)
					fmt.Fprintf(cl.out, "%d notification(s) sent\n", n)
					return err
				},
			},
			{
				Name:  "due-today",
				Usage: "queue a digest of the assignments due today for every student",
				Action: func(c *cli.Context) error {
					n, err := cl.svc.NotifyDueToday(c.Context)
					fmt.Fprintf(cl.out, "%d digest(s) queued\n", n)
					return err
				},
			},
		},
	}
}

func (cl *commandLine) importSyllabusCommand() *cli.Command {
	return &cli.Command{
		Name:      "import-syllabus",
		Usage:     "Add the assignments of a CSV syllabus (name,date[,duration]) to a class calendar.",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "class", Aliases: []string{"c"}, Required: true},
			&cli.StringFlag{Name: "professor", Aliases: []string{"p"}, Usage: "username of the class professor", Required: true},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				_ = cli.ShowSubcommandHelp(c)
				return errHelp
			}
			f, err := os.Open(c.Args().First())
			if err != nil {
				return errors.Wrap(err, "opening syllabus")
			}
			defer f.Close()

			st, err := cl.student(c.Context, c.String("professor"))
			if err != nil {
				return err
			}
			n, err := cl.svc.ImportSyllabus(c.Context, organizer.AsActor(st), core.Named(c.String("class")), f)
			if err != nil {
				var verr *core.ValidationError
				if errors.As(err, &verr) {
					return cl.validationErr(err)
				}
				return err
			}
			fmt.Fprintf(cl.out, "%d assignment(s) imported\n", n)
			return nil
		},
	}
}

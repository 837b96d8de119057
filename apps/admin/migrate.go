package main

import (
	"github.com/pressly/goose/v3"
	"github.com/urfave/cli/v2"

	"github.com/trezcool/organizer/storage/database"
)

var gooseRunFunc = goose.Run // mockable

func (cl *commandLine) migrateCommand() *cli.Command {
	return &cli.Command{
		Name:      "migrate",
		Usage:     "Run goose migration commands against the database.",
		ArgsUsage: "COMMAND [ARGS...]  (up, up-by-one, up-to, down, down-to, redo, reset, status, version, create, fix)",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				_ = cli.ShowSubcommandHelp(c)
				return errHelp
			}
			return cl.migrate(c.Args().First(), c.Args().Tail()...)
		},
	}
}

func (cl *commandLine) migrate(command string, args ...string) error {
	if err := database.SetupGoose(cl.engine); err != nil {
		return err
	}
	return gooseRunFunc(command, cl.db, database.MigrationsDir(cl.engine), args...)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/trezcool/organizer/apps/shared"
	"github.com/trezcool/organizer/core"
	logsvc "github.com/trezcool/organizer/services/logger"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	svcs, err := shared.NewServices(context.Background(), conf, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up services: %v", err), err)
	}

	cl := newCommandLine(svcs, conf.Database.Engine, os.Stdout)
	err = cl.run(os.Args)
	if cerr := svcs.Close(); cerr != nil {
		logger.Error("failed to close services", cerr)
	}
	if err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

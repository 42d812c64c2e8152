package main

import (
	"fmt"
	"log"
	"os"

	"github.com/trezcool/edutracker/core"
	logsvc "github.com/trezcool/edutracker/services/logger"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "SHOT : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	cli := commandLine{
		conf:   conf.Screenshot,
		logger: logger,
		launch: newChromeBrowser,
		stderr: os.Stderr,
	}
	if _, err := cli.run(os.Args[1:]); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}

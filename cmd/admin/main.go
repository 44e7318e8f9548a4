package main

import (
	"log"
	"os"

	"github.com/pedidosgs/backend/core"
	logsvc "github.com/pedidosgs/backend/services/logger"
	"github.com/pedidosgs/backend/storage/database"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	dbLogger := logsvc.NewRollbarLogger(logger, conf)

	// start CLI
	cli := commandLine{
		db:       db,
		dbLogger: dbLogger,
		usrRepo:  database.NewUserRepository(db),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

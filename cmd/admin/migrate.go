package main

import (
	"github.com/pedidosgs/backend/storage/database"
)

func (cli *commandLine) migrate() error {
	return database.EnsureInitialized(cli.db, cli.dbLogger)
}

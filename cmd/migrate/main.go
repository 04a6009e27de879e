package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/adanyl0v/task-tracker/internal/app"
)

const usage = `Usage: migrate <command> [flags]

Commands:
  up               apply all pending migrations
  down             roll back the last applied migration
  status           list migrations and whether they are applied
  create <name>    scaffold a new migration in the migrations directory

up, down and status read scripts from the migrations directory when it
exists and from the scripts built into the binary otherwise.
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	dir := flag.String("dir", "", "migrations directory (overrides MIGRATIONS_DIR)")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	command := flag.Arg(0)
	switch command {
	case "up", "down", "status", "create":
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		flag.Usage()
		os.Exit(2)
	}

	app.InitDefaultLogger()
	cfg := app.MustReadMigratorEnv()
	app.MustInitApplicationLogger(cfg.Env)

	migrationsDir := cfg.Migrations.Dir
	if *dir != "" {
		migrationsDir = *dir
	}

	if command == "create" {
		app.MustCreateMigration(migrationsDir, strings.Join(flag.Args()[1:], "_"))
		return
	}

	pool := app.MustConnectPostgres(cfg.Postgres)
	defer app.DisconnectPostgres(pool)

	src := app.MigrationSourceFor(migrationsDir)
	switch command {
	case "up":
		app.MustRunMigrations(pool, src)
	case "down":
		app.MustRollbackMigration(pool, src)
	case "status":
		app.MustPrintMigrationStatus(pool, src)
	}
}

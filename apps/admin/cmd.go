package main

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/trezcool/darasa/core/forum"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db    *sql.DB
	qRepo forum.QuestionRepository
	vRepo forum.VoteRepository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a migration command (up, down, status, ...)")
	fmt.Println("  seeddemo               - seed demo forum data")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seeddemo":
		return cli.seedDemo()
	default:
		cli.printUsage()
		return errHelp
	}
}

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/killfeed/killfeed-sheets/commands"
)

var cli = []commands.Command{
	&commands.AuthoriseCmd,
	&commands.SyncCmd,
	&commands.CompareCmd,
	&commands.GetCmd,
	&commands.PutCmd,
	&commands.ExportCmd,
	&commands.ServeCmd,
	&commands.KeysCmd,
	&commands.VersionCmd,
}

var options = commands.Options{
	Debug: false,
}

func main() {
	env := ".env.sync"

	flag.BoolVar(&options.Debug, "debug", options.Debug, "Enable debugging information")
	flag.StringVar(&env, "env", env, "Environment file loaded before command execution")
	flag.Parse()

	if _, err := os.Stat(env); err == nil {
		if err := godotenv.Load(env); err != nil {
			log.Fatalf("ERROR: unable to load environment file %s (%v)", env, err)
		}
	}

	args := flag.Args()

	if len(args) > 0 && args[0] == "help" {
		help(args[1:])
		os.Exit(0)
	}

	cmd, err := commands.Parse(cli, args)
	if err != nil {
		fmt.Printf("\nError parsing command line: %v\n\n", err)
		os.Exit(1)
	}

	if cmd == nil {
		commands.Usage(cli)
		os.Exit(1)
	}

	if err := cmd.Execute(&options); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
}

func help(args []string) {
	if len(args) > 0 {
		for _, c := range cli {
			if c.Name() == args[0] {
				c.Help()
				return
			}
		}

		fmt.Printf("\nInvalid command '%s'\n", args[0])
	}

	commands.Usage(cli)
}

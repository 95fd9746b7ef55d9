package commands

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

const APP = "killfeed-sheets"

// Options are the application-level options shared by all commands.
type Options struct {
	Debug bool
}

// Command is the interface implemented by the CLI subcommands.
type Command interface {
	Name() string
	Description() string
	Usage() string
	Help()
	FlagSet() *flag.FlagSet
	Execute(args ...any) error
}

// Parse matches the first argument against the command list and parses the
// remaining arguments with the matched command's flag set. Returns nil (without
// error) if no command was supplied.
func Parse(cli []Command, args []string) (Command, error) {
	if len(args) == 0 {
		return nil, nil
	}

	for _, c := range cli {
		if c.Name() == args[0] {
			flagset := c.FlagSet()
			if flagset == nil {
				panic(fmt.Sprintf("'%s' command implementation without a flag set", args[0]))
			}

			return c, flagset.Parse(args[1:])
		}
	}

	return nil, fmt.Errorf("invalid command '%s'", args[0])
}

// Usage prints the application usage summary with the list of commands.
func Usage(cli []Command) {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--env <file>] <command> [options]\n", APP)
	fmt.Println()
	fmt.Println("  Commands:")
	fmt.Println()

	for _, c := range cli {
		fmt.Printf("    %-10s %s\n", c.Name(), c.Description())
	}

	fmt.Println()
	fmt.Printf("  Use '%s help <command>' for command specific information\n", APP)
	fmt.Println()
}

// command is the set of options common to the worksheet commands.
type command struct {
	workdir     string
	credentials string
	tokens      string
	url         string
	debug       bool
}

func (c *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&c.workdir, "workdir", c.workdir, "Directory for working files (tokens, lock and revision files)")
	flagset.StringVar(&c.credentials, "credentials", c.credentials, "Path for the Google credentials file")
	flagset.StringVar(&c.tokens, "tokens", c.tokens, "Directory for cached OAuth2 tokens. Defaults to <workdir>/.google")
	flagset.StringVar(&c.url, "url", c.url, "Spreadsheet URL or spreadsheet ID")

	return flagset
}

func (c *command) tokensDir() string {
	if c.tokens != "" {
		return c.tokens
	}

	return filepath.Join(c.workdir, ".google")
}

// dsn resolves the database connection string from the --dsn option or the
// DATABASE_URL environment variable.
func dsn(flagged string) (string, error) {
	if flagged != "" {
		return flagged, nil
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v, nil
	}

	return "", fmt.Errorf("--dsn or DATABASE_URL is required")
}

func helpOptions(flagset *flag.FlagSet) {
	fmt.Println("  Options:")
	fmt.Println()

	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
	})

	fmt.Println()
	fmt.Println("    --debug        Displays internal information for diagnosing errors")
}

func debugf(format string, args ...any) {
	log.Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
}

func infof(format string, args ...any) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func warnf(format string, args ...any) {
	log.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}

package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/killfeed/killfeed-sheets/store"
)

var KeysCmd = Keys{}

type Keys struct {
	dsn    string
	add    string
	revoke string
	list   bool
	debug  bool
}

func (cmd *Keys) Name() string {
	return "keys"
}

func (cmd *Keys) Description() string {
	return "Manages the API keys for the event ingestion API"
}

func (cmd *Keys) Usage() string {
	return "[--add <discord-id>] [--revoke <key>] [--list]"
}

func (cmd *Keys) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] keys [options]\n", APP)
	fmt.Println()
	fmt.Println("  Generates, revokes and lists the API keys accepted by the ingestion API")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    killfeed-sheets keys --add "1096743211122688"`)
	fmt.Println(`    killfeed-sheets keys --revoke "1b4e28ba-2fa1-11d2-883f-0016d3cca427"`)
	fmt.Println(`    killfeed-sheets keys --list`)
	fmt.Println()
}

func (cmd *Keys) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("keys", flag.ExitOnError)

	flagset.StringVar(&cmd.dsn, "dsn", cmd.dsn, "Database connection string. Defaults to the DATABASE_URL environment variable")
	flagset.StringVar(&cmd.add, "add", cmd.add, "Generates a new API key for a Discord user ID")
	flagset.StringVar(&cmd.revoke, "revoke", cmd.revoke, "Revokes an API key")
	flagset.BoolVar(&cmd.list, "list", cmd.list, "Lists the registered API keys")

	return flagset
}

func (cmd *Keys) Execute(args ...any) error {
	options := args[0].(*Options)

	cmd.debug = options.Debug

	connection, err := dsn(cmd.dsn)
	if err != nil {
		return err
	}

	ctx := context.Background()

	db, err := store.Open(connection)
	if err != nil {
		return err
	}

	defer db.Close()

	switch {
	case cmd.add != "":
		key, err := db.CreateAPIKey(ctx, cmd.add)
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", key.Key)
		return nil

	case cmd.revoke != "":
		if err := db.RevokeAPIKey(ctx, cmd.revoke); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no such API key")
			}

			return err
		}

		infof("Revoked API key %s", cmd.revoke)
		return nil

	case cmd.list:
		keys, err := db.ListAPIKeys(ctx)
		if err != nil {
			return err
		}

		for _, key := range keys {
			fmt.Printf("%-36v  %-20v  %v\n", key.Key, key.DiscordID, key.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		return nil
	}

	return fmt.Errorf("one of --add, --revoke or --list is required")
}

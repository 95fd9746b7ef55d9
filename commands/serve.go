package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/killfeed/killfeed-sheets/api"
	"github.com/killfeed/killfeed-sheets/rsi"
	"github.com/killfeed/killfeed-sheets/store"
)

var ServeCmd = Serve{
	addr: ":8000",
}

type Serve struct {
	dsn   string
	addr  string
	debug bool
}

func (cmd *Serve) Name() string {
	return "serve"
}

func (cmd *Serve) Description() string {
	return "Runs the killfeed event ingestion API"
}

func (cmd *Serve) Usage() string {
	return "--dsn <connection> --addr <address>"
}

func (cmd *Serve) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] serve [options]\n", APP)
	fmt.Println()
	fmt.Println("  Runs the HTTP API that records reported kill and death events in the database,")
	fmt.Println("  enriching them with scraped player profile metadata. Creates the schema on")
	fmt.Println("  startup, retrying while the database comes up.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    killfeed-sheets serve --addr ":8000"`)
	fmt.Println()
}

func (cmd *Serve) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("serve", flag.ExitOnError)

	flagset.StringVar(&cmd.dsn, "dsn", cmd.dsn, "Database connection string. Defaults to the DATABASE_URL environment variable")
	flagset.StringVar(&cmd.addr, "addr", cmd.addr, "API listen address. Defaults to ':8000'")

	return flagset
}

func (cmd *Serve) Execute(args ...any) error {
	options := args[0].(*Options)

	cmd.debug = options.Debug

	connection, err := dsn(cmd.dsn)
	if err != nil {
		return err
	}

	ctx := context.Background()

	db, err := store.OpenWithRetry(ctx, connection, 10, 2*time.Second)
	if err != nil {
		return err
	}

	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	infof("Database schema is ready")

	srv := http.Server{
		Addr:    cmd.addr,
		Handler: api.NewServer(db, rsi.NewClient()).Router(),
	}

	failed := make(chan error, 1)

	go func() {
		infof("Listening on %s", cmd.addr)

		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	select {
	case err := <-failed:
		return err

	case <-interrupt:
		infof("Shutting down")
	}

	shutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return srv.Shutdown(shutdown)
}

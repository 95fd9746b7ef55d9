package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/killfeed/killfeed-sheets/events"
	"github.com/killfeed/killfeed-sheets/store"
)

var ExportCmd = Export{
	worksheet: "Events",
	file:      time.Now().Format("killfeed-2006-01-02.xlsx"),
}

type Export struct {
	dsn       string
	worksheet string
	file      string
	debug     bool
}

func (cmd *Export) Name() string {
	return "export"
}

func (cmd *Export) Description() string {
	return "Exports the kills and deaths tables to a local .xlsx workbook"
}

func (cmd *Export) Usage() string {
	return "--dsn <connection> --file <file>"
}

func (cmd *Export) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] export [options] --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Writes the kill and death event tables to a local Excel workbook, as an offline")
	fmt.Println("  snapshot for when the spreadsheet service is unreachable")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    killfeed-sheets export --file "killfeed.xlsx"`)
	fmt.Println()
}

func (cmd *Export) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("export", flag.ExitOnError)

	flagset.StringVar(&cmd.dsn, "dsn", cmd.dsn, "Database connection string. Defaults to the DATABASE_URL environment variable")
	flagset.StringVar(&cmd.worksheet, "worksheet", cmd.worksheet, "Workbook sheet name. Defaults to 'Events'")
	flagset.StringVar(&cmd.file, "file", cmd.file, "Workbook file name. Defaults to 'killfeed-<yyyy-mm-dd>.xlsx'")

	return flagset
}

func (cmd *Export) Execute(args ...any) error {
	options := args[0].(*Options)

	cmd.debug = options.Debug

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

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

	kills, err := db.ListKills(ctx)
	if err != nil {
		return err
	}

	deaths, err := db.ListDeaths(ctx)
	if err != nil {
		return err
	}

	if err := cmd.write(kills, deaths); err != nil {
		return err
	}

	infof("Exported %v kills and %v deaths to %s", len(kills), len(deaths), cmd.file)

	return nil
}

func (cmd *Export) write(kills []events.KillEvent, deaths []events.DeathEvent) error {
	f := excelize.NewFile()

	defer f.Close()

	if err := f.SetSheetName("Sheet1", cmd.worksheet); err != nil {
		return err
	}

	for i, row := range events.MakeRows(kills, deaths) {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}

		if err := f.SetSheetRow(cmd.worksheet, ref, &row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(cmd.file); err != nil {
		return fmt.Errorf("unable to save workbook (%w)", err)
	}

	return nil
}

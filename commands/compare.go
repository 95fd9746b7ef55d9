package commands

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/killfeed/killfeed-sheets/events"
	"github.com/killfeed/killfeed-sheets/store"
)

var CompareCmd = Compare{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		tokens:      "",
		url:         "",
		debug:       false,
	},

	area: "Events!A1:P",
	file: "",
}

type Compare struct {
	command
	dsn  string
	area string
	file string
}

// audit is the set of differences between the event tables and the worksheet.
type audit struct {
	missing []string // in the database, not in the sheet
	extra   []string // in the sheet, not in the database
	changed []string // in both, with differing cells
}

func (cmd *Compare) Name() string {
	return "compare"
}

func (cmd *Compare) Description() string {
	return "Compares the worksheet contents against the kills and deaths tables"
}

func (cmd *Compare) Usage() string {
	return "--credentials <file> --url <url> --range <range>"
}

func (cmd *Compare) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] compare [options] --url <URL> --range <range>\n", APP)
	fmt.Println()
	fmt.Println("  Audits the worksheet against the database - reports events missing from the")
	fmt.Println("  worksheet, rows no longer in the database and rows with differing cells. The")
	fmt.Println("  worksheet is never modified.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    killfeed-sheets compare --credentials "credentials.json" \`)
	fmt.Println(`                            --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                            --range "Events!A1:P" \`)
	fmt.Println(`                            --file "audit.tsv"`)
	fmt.Println()
}

func (cmd *Compare) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("compare")

	flagset.StringVar(&cmd.dsn, "dsn", cmd.dsn, "Database connection string. Defaults to the DATABASE_URL environment variable")
	flagset.StringVar(&cmd.area, "range", cmd.area, "Spreadsheet range e.g. 'Events!A1:P'")
	flagset.StringVar(&cmd.file, "file", cmd.file, "Audit report TSV file. Defaults to stdout")

	return flagset
}

func (cmd *Compare) Execute(args ...any) error {
	options := args[0].(*Options)

	cmd.debug = options.Debug

	// ... check parameters
	if strings.TrimSpace(cmd.credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	if strings.TrimSpace(cmd.url) == "" {
		return fmt.Errorf("--url is a required option")
	}

	if _, err := worksheetOf(cmd.area); err != nil {
		return err
	}

	spreadsheet, err := spreadsheetID(cmd.url)
	if err != nil {
		return err
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

	// ... retrieve worksheet
	client, err := authorize(cmd.credentials, cmd.tokensDir(), SHEETS)
	if err != nil {
		return fmt.Errorf("authentication/authorization error (%v)", err)
	}

	google, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("unable to create new Sheets client (%v)", err)
	}

	response, err := google.Spreadsheets.Values.Get(spreadsheet, cmd.area).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to retrieve data from sheet (%v)", err)
	}

	sheet, err := events.MakeTable(response)
	if err != nil {
		return err
	}

	diff := compareTables(events.MakeEventTable(kills, deaths), sheet)

	infof("Compared %v database events to %v worksheet rows - missing:%v  extra:%v  changed:%v",
		len(kills)+len(deaths), len(sheet.Records), len(diff.missing), len(diff.extra), len(diff.changed))

	if cmd.file == "" {
		return writeAudit(os.Stdout, diff)
	}

	f, err := os.Create(cmd.file)
	if err != nil {
		return err
	}

	defer f.Close()

	if err := writeAudit(f, diff); err != nil {
		return err
	}

	infof("Audit report written to %s", cmd.file)

	return nil
}

// compareTables diffs two event tables keyed by (type, ID), comparing the cells
// of the columns the two headers have in common.
func compareTables(db, sheet *events.Table) audit {
	diff := audit{}

	p := index(db)
	q := index(sheet)

	for key := range p {
		if _, ok := q[key]; !ok {
			diff.missing = append(diff.missing, key)
		}
	}

	for key, row := range q {
		record, ok := p[key]
		if !ok {
			diff.extra = append(diff.extra, key)
			continue
		}

		for column, v := range record {
			if w, ok := row[column]; ok && v != w {
				diff.changed = append(diff.changed, key)
				break
			}
		}
	}

	sort.Strings(diff.missing)
	sort.Strings(diff.extra)
	sort.Strings(diff.changed)

	return diff
}

// index maps each record to its (type, ID) key, with cells keyed by normalised
// column name.
func index(table *events.Table) map[string]map[string]string {
	normalise := func(v string) string {
		return strings.ToLower(strings.ReplaceAll(v, " ", ""))
	}

	m := map[string]map[string]string{}

	for _, record := range table.Records {
		cells := map[string]string{}
		for i, h := range table.Header {
			if i < len(record) {
				cells[normalise(h)] = record[i]
			}
		}

		kind := "Death"
		if strings.EqualFold(cells["type"], "kill") {
			kind = "Kill"
		}

		cells["type"] = kind
		cells["id"] = strings.TrimSpace(cells["id"])

		key := fmt.Sprintf("%s\t%s", kind, cells["id"])
		m[key] = cells
	}

	return m
}

func writeAudit(f io.Writer, diff audit) error {
	w := csv.NewWriter(f)
	w.Comma = '\t'

	w.Write([]string{"Status", "Type", "ID"})

	emit := func(status string, keys []string) {
		for _, key := range keys {
			kind, id, _ := strings.Cut(key, "\t")
			w.Write([]string{status, kind, id})
		}
	}

	emit("missing", diff.missing)
	emit("extra", diff.extra)
	emit("changed", diff.changed)

	w.Flush()

	return w.Error()
}

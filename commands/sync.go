package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/killfeed/killfeed-sheets/events"
	"github.com/killfeed/killfeed-sheets/store"
)

var SyncCmd = Sync{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		tokens:      "",
		url:         "",
		debug:       false,
	},

	worksheet:    "Events",
	logRange:     "",
	logRetention: 30,
}

type Sync struct {
	command
	dsn          string
	worksheet    string
	logRange     string
	logRetention uint
	force        bool
	dryrun       bool
}

// state is the per-spreadsheet sync state recorded in the workdir after a
// successful upload.
type state struct {
	Fingerprint string    `json:"fingerprint"`
	Revision    string    `json:"revision"`
	Synced      time.Time `json:"synced"`
}

func (cmd *Sync) Name() string {
	return "sync"
}

func (cmd *Sync) Description() string {
	return "Rewrites the Google Sheets worksheet from the kills and deaths tables"
}

func (cmd *Sync) Usage() string {
	return "--credentials <file> --url <url> --worksheet <name>"
}

func (cmd *Sync) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] sync [options] --url <URL> --worksheet <name>\n", APP)
	fmt.Println()
	fmt.Println("  Clears the worksheet and uploads the full kill and death event tables, kills first.")
	fmt.Println("  Skips the upload if neither the database nor the spreadsheet has changed since the")
	fmt.Println("  previous run (unless --force is specified).")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    killfeed-sheets --debug sync --credentials "credentials.json" \`)
	fmt.Println(`                                 --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                                 --worksheet "Events" \`)
	fmt.Println(`                                 --log-range "Log!A1:D"`)
	fmt.Println()
}

func (cmd *Sync) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("sync")

	flagset.StringVar(&cmd.dsn, "dsn", cmd.dsn, "Database connection string. Defaults to the DATABASE_URL environment variable")
	flagset.StringVar(&cmd.worksheet, "worksheet", cmd.worksheet, "Worksheet for the uploaded events. Defaults to 'Events'")
	flagset.StringVar(&cmd.logRange, "log-range", cmd.logRange, "Spreadsheet range for the sync log e.g. 'Log!A1:D'. Disabled when blank")
	flagset.UintVar(&cmd.logRetention, "log-retention", cmd.logRetention, "Log rows older than 'log-retention' days are pruned after the upload. Defaults to 30")
	flagset.BoolVar(&cmd.force, "force", cmd.force, "Uploads even if the database and spreadsheet are unchanged")
	flagset.BoolVar(&cmd.dryrun, "dryrun", cmd.dryrun, "Retrieves the events but does not update the worksheet")

	return flagset
}

func (cmd *Sync) Execute(args ...any) error {
	options := args[0].(*Options)

	cmd.debug = options.Debug

	// ... check parameters
	if strings.TrimSpace(cmd.credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	if strings.TrimSpace(cmd.url) == "" {
		return fmt.Errorf("--url is a required option")
	}

	if strings.TrimSpace(cmd.worksheet) == "" {
		return fmt.Errorf("--worksheet is a required option")
	}

	spreadsheetId, err := spreadsheetID(cmd.url)
	if err != nil {
		return err
	}

	if cmd.logRange != "" {
		if _, err := worksheetOf(cmd.logRange); err != nil {
			return err
		}
	}

	connection, err := dsn(cmd.dsn)
	if err != nil {
		return err
	}

	if cmd.debug {
		debugf("Spreadsheet - ID:%s  worksheet:%s", spreadsheetId, cmd.worksheet)
	}

	// ... single instance per workdir
	release, err := lock(cmd.workdir)
	if err != nil {
		return err
	}

	defer release()

	ctx := context.Background()

	db, err := store.Open(connection)
	if err != nil {
		return err
	}

	defer db.Close()

	fingerprint, err := db.Fingerprint(ctx)
	if err != nil {
		return err
	}

	// ... authorise
	client, err := authorize(cmd.credentials, cmd.tokensDir(), SHEETS, DRIVE)
	if err != nil {
		return fmt.Errorf("Google Sheets authentication/authorization error (%w)", err)
	}

	google, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	gdrive, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("unable to create new Drive client (%w)", err)
	}

	revision, _, err := latestRevision(gdrive, spreadsheetId, ctx)
	if err != nil {
		warnf("unable to identify spreadsheet revision (%v)", err)
	}

	// ... anything to do?
	previous := cmd.readState(spreadsheetId)

	if uptodate(previous, fingerprint, revision, cmd.force) {
		infof("Worksheet %v is up to date with the event tables - nothing to do", cmd.worksheet)
		return nil
	}

	// ... retrieve events
	kills, err := db.ListKills(ctx)
	if err != nil {
		return err
	}

	deaths, err := db.ListDeaths(ctx)
	if err != nil {
		return err
	}

	infof("Retrieved %v kills and %v deaths", len(kills), len(deaths))

	if cmd.dryrun {
		infof("Dry run - worksheet %v not updated", cmd.worksheet)
		return nil
	}

	spreadsheet, err := getSpreadsheet(google, spreadsheetId)
	if err != nil {
		return err
	}

	if _, err := getSheet(spreadsheet, cmd.worksheet); err != nil {
		return err
	}

	if err := cmd.upload(ctx, google, spreadsheet, kills, deaths); err != nil {
		return err
	}

	if cmd.logRange != "" {
		if err := cmd.appendLog(ctx, google, spreadsheet, len(kills), len(deaths)); err != nil {
			warnf("unable to update sync log (%v)", err)
		} else if err := cmd.pruneLog(ctx, google, spreadsheet); err != nil {
			warnf("unable to prune sync log (%v)", err)
		}
	}

	// ... record the uploaded state, including the revision created by the
	//     upload itself
	next := state{
		Fingerprint: fingerprint,
		Synced:      time.Now(),
	}

	if revision, _, err := latestRevision(gdrive, spreadsheetId, ctx); err == nil {
		next.Revision = revision
	}

	if err := cmd.writeState(spreadsheetId, next); err != nil {
		warnf("unable to record sync state (%v)", err)
	}

	infof("Synced %v kills and %v deaths to worksheet %v", len(kills), len(deaths), cmd.worksheet)

	return nil
}

// upload clears the worksheet and rewrites it in a single batch update - the
// sheet never holds a partial row set.
func (cmd *Sync) upload(ctx context.Context, google *sheets.Service, spreadsheet *sheets.Spreadsheet, kills []events.KillEvent, deaths []events.DeathEvent) error {
	rows := events.MakeRows(kills, deaths)

	infof("Clearing worksheet %v", cmd.worksheet)
	if err := clear(google, spreadsheet, []string{cmd.worksheet}, ctx); err != nil {
		return err
	}

	area := fmt.Sprintf("%s!A1:%s%d", cmd.worksheet, columnName(len(events.Header)), len(rows))

	values := sheets.ValueRange{
		Range:  area,
		Values: rows,
	}

	rq := sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             []*sheets.ValueRange{&values},
	}

	infof("Uploading %v rows to worksheet %v", len(rows), cmd.worksheet)
	if _, err := google.Spreadsheets.Values.BatchUpdate(spreadsheet.SpreadsheetId, &rq).Context(ctx).Do(); err != nil {
		return err
	}

	return nil
}

func (cmd *Sync) appendLog(ctx context.Context, google *sheets.Service, spreadsheet *sheets.Spreadsheet, kills, deaths int) error {
	row := sheets.ValueRange{
		Values: [][]any{
			{
				time.Now().Format("2006-01-02 15:04:05"),
				kills,
				deaths,
				kills + deaths,
			},
		},
	}

	_, err := google.Spreadsheets.Values.Append(spreadsheet.SpreadsheetId, cmd.logRange, &row).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()

	return err
}

// pruneLog deletes log rows older than the retention period.
func (cmd *Sync) pruneLog(ctx context.Context, google *sheets.Service, spreadsheet *sheets.Spreadsheet) error {
	name, err := worksheetOf(cmd.logRange)
	if err != nil {
		return err
	}

	sheet, err := getSheet(spreadsheet, name)
	if err != nil {
		return err
	}

	response, err := google.Spreadsheets.Values.Get(spreadsheet.SpreadsheetId, cmd.logRange).Context(ctx).Do()
	if err != nil {
		return err
	}

	cutoff := time.Now().AddDate(0, 0, -int(cmd.logRetention))

	expired := expiredRows(response.Values, cutoff)
	if expired == 0 {
		return nil
	}

	infof("Pruning %v expired rows from the %v worksheet", expired, name)

	prune := sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				DeleteDimension: &sheets.DeleteDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:    sheet.Properties.SheetId,
						Dimension:  "ROWS",
						StartIndex: 0,
						EndIndex:   int64(expired),
					},
				},
			},
		},
	}

	if _, err := google.Spreadsheets.BatchUpdate(spreadsheet.SpreadsheetId, &prune).Context(ctx).Do(); err != nil {
		return fmt.Errorf("error pruning log worksheet (%w)", err)
	}

	return nil
}

// uptodate returns true if the previous sync state still matches the database
// fingerprint and the spreadsheet revision. An unknown revision never matches -
// without it, out-of-band spreadsheet edits cannot be ruled out.
func uptodate(previous state, fingerprint, revision string, force bool) bool {
	if force || revision == "" {
		return false
	}

	return previous.Fingerprint == fingerprint && previous.Revision == revision
}

// expiredRows counts the leading log rows with a timestamp before the cutoff.
// Log rows are appended in chronological order, so counting stops at the first
// row that is not expired or has no parseable timestamp.
func expiredRows(rows [][]any, cutoff time.Time) int {
	expired := 0

	for _, row := range rows {
		if len(row) == 0 {
			break
		}

		timestamp, ok := row[0].(string)
		if !ok {
			break
		}

		datetime, err := time.ParseInLocation("2006-01-02 15:04:05", timestamp, time.Local)
		if err != nil || !datetime.Before(cutoff) {
			break
		}

		expired++
	}

	return expired
}

func (cmd *Sync) statePath(spreadsheetId string) string {
	return filepath.Join(cmd.workdir, fmt.Sprintf("%s.revision", spreadsheetId))
}

func (cmd *Sync) readState(spreadsheetId string) state {
	s := state{}

	b, err := os.ReadFile(cmd.statePath(spreadsheetId))
	if err != nil {
		return state{}
	}

	if err := json.Unmarshal(b, &s); err != nil {
		return state{}
	}

	return s
}

func (cmd *Sync) writeState(spreadsheetId string, s state) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(cmd.statePath(spreadsheetId), b, 0600)
}

package commands

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"
)

var spreadsheetURL = regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`)
var spreadsheetRef = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
var worksheetRef = regexp.MustCompile(`(.+?)!.*`)

// spreadsheetID extracts the spreadsheet ID from a docs.google.com URL or
// accepts a bare spreadsheet ID as-is.
func spreadsheetID(url string) (string, error) {
	v := strings.TrimSpace(url)

	if match := spreadsheetURL.FindStringSubmatch(v); len(match) > 1 {
		return match[1], nil
	}

	if spreadsheetRef.MatchString(v) {
		return v, nil
	}

	return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms' or a bare spreadsheet ID")
}

func getSpreadsheet(google *sheets.Service, id string) (*sheets.Spreadsheet, error) {
	spreadsheet, err := google.Spreadsheets.Get(id).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet (%v)", err)
	}

	return spreadsheet, nil
}

func getSheet(spreadsheet *sheets.Spreadsheet, name string) (*sheets.Sheet, error) {
	for _, sheet := range spreadsheet.Sheets {
		if strings.EqualFold(strings.TrimSpace(sheet.Properties.Title), strings.TrimSpace(name)) {
			return sheet, nil
		}
	}

	return nil, fmt.Errorf("unable to identify worksheet '%s'", name)
}

// worksheetOf returns the worksheet name of a range reference e.g. 'Log!A1:D'.
func worksheetOf(area string) (string, error) {
	match := worksheetRef.FindStringSubmatch(strings.TrimSpace(area))
	if len(match) < 2 {
		return "", fmt.Errorf("invalid range '%s' - expected something like 'Events!A1:P'", area)
	}

	return match[1], nil
}

func clear(google *sheets.Service, spreadsheet *sheets.Spreadsheet, ranges []string, ctx context.Context) error {
	rq := sheets.BatchClearValuesRequest{
		Ranges: ranges,
	}

	if _, err := google.Spreadsheets.Values.BatchClear(spreadsheet.SpreadsheetId, &rq).Context(ctx).Do(); err != nil {
		return err
	}

	return nil
}

// latestRevision identifies the most recent Drive revision of the spreadsheet,
// used to detect out-of-band edits between sync runs.
func latestRevision(gdrive *drive.Service, fileID string, ctx context.Context) (string, time.Time, error) {
	page := ""
	revision := ""
	modified := time.Time{}

	for {
		call := drive.NewRevisionsService(gdrive).List(fileID).Context(ctx)
		if page != "" {
			call.PageToken(page)
		}

		revisions, err := call.Do()
		if err != nil {
			return "", time.Time{}, err
		}

		for _, r := range revisions.Revisions {
			datetime, err := time.Parse("2006-01-02T15:04:05.999Z", r.ModifiedTime)
			if err != nil {
				return "", time.Time{}, err
			}

			if modified.Before(datetime) {
				revision = r.Id
				modified = datetime
			}
		}

		if page = revisions.NextPageToken; page == "" {
			break
		}
	}

	if modified.IsZero() {
		return "", time.Time{}, fmt.Errorf("unable to identify latest revision for file ID %s", fileID)
	}

	return revision, modified, nil
}

// columnName converts a 1-based column ordinal to its A1 notation letter(s).
func columnName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}

	return name
}

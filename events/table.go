package events

import (
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/api/sheets/v4"
)

// Table is an ordered, denormalised copy of a worksheet range - a header row
// plus the event records that passed validation.
type Table struct {
	Header  []string
	Records [][]string
}

var numeric = regexp.MustCompile(`^\s*[0-9]+\s*$`)

// MakeTable converts a retrieved worksheet range to a Table. Columns are
// reordered so that 'Type' and 'ID' come first, rows with an unknown event type
// or a non-numeric ID are discarded.
func MakeTable(data *sheets.ValueRange) (*Table, error) {
	if len(data.Values) == 0 {
		return nil, fmt.Errorf("empty sheet")
	}

	// .. build index
	index := map[string]int{}
	row := data.Values[0]
	for i, v := range row {
		k := normalise(cell(row, i))
		if k == "" {
			continue
		}

		if _, ok := index[k]; ok {
			return nil, fmt.Errorf("duplicate column name '%s'", v)
		}

		index[k] = i
	}

	// ... header
	header := []string{}

	if ix, ok := index["type"]; ok {
		header = append(header, clean(cell(row, ix)))
	}

	if ix, ok := index["id"]; ok {
		header = append(header, clean(cell(row, ix)))
	}

	for i := range row {
		k := normalise(cell(row, i))
		if k != "type" && k != "id" && k != "" {
			header = append(header, clean(cell(row, i)))
		}
	}

	if len(header) < 1 || normalise(header[0]) != "type" {
		return nil, fmt.Errorf("missing 'type' column")
	}

	if len(header) < 2 || normalise(header[1]) != "id" {
		return nil, fmt.Errorf("missing 'id' column")
	}

	// ... records
	records := [][]string{}
	for _, row := range data.Values[1:] {
		kind := normalise(cell(row, index["type"]))
		if kind != "kill" && kind != "death" {
			continue
		}

		if !numeric.MatchString(cell(row, index["id"])) {
			continue
		}

		record := []string{}
		for _, h := range header {
			v := ""
			if ix, ok := index[normalise(h)]; ok {
				v = cell(row, ix)
			}

			record = append(record, clean(v))
		}

		records = append(records, record)
	}

	return &Table{
		Header:  header,
		Records: records,
	}, nil
}

// MakeEventTable builds the Table for a set of database events, in the same
// shape MakeTable produces for the worksheet copy.
func MakeEventTable(kills []KillEvent, deaths []DeathEvent) *Table {
	records := make([][]string, 0, len(kills)+len(deaths))

	for _, e := range kills {
		records = append(records, e.Record())
	}

	for _, e := range deaths {
		records = append(records, e.Record())
	}

	return &Table{
		Header:  append([]string{}, Header...),
		Records: records,
	}
}

func cell(row []any, ix int) string {
	if ix < 0 || ix >= len(row) {
		return ""
	}

	if v, ok := row[ix].(string); ok {
		return v
	}

	return fmt.Sprintf("%v", row[ix])
}

func clean(v string) string {
	return strings.TrimSpace(v)
}

func normalise(v string) string {
	return strings.ToLower(strings.ReplaceAll(v, " ", ""))
}

package events

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"google.golang.org/api/sheets/v4"
)

var area = regexp.MustCompile(`(.+?)!([a-zA-Z]+)([0-9]+):([a-zA-Z]+)([0-9]+)?`)

// MakeTSV writes a retrieved worksheet range to f as tab-separated values,
// header row first. Rows that fail validation (see MakeTable) are omitted.
func MakeTSV(f io.Writer, data *sheets.ValueRange) error {
	table, err := MakeTable(data)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'

	w.Write(table.Header)
	for _, record := range table.Records {
		w.Write(record)
	}

	w.Flush()

	return w.Error()
}

// TSVToSheet reads a TSV file and splits it into a header ValueRange and a data
// ValueRange for the worksheet range described by region (e.g. 'Events!A1:P').
func TSVToSheet(f io.Reader, region string) (*sheets.ValueRange, *sheets.ValueRange, error) {
	match := area.FindStringSubmatch(region)
	if len(match) < 5 {
		return nil, nil, fmt.Errorf("invalid spreadsheet range '%s'", region)
	}

	name := match[1]
	left := match[2]
	top, _ := strconv.Atoi(match[3])
	right := match[4]

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) == 0 {
		return nil, nil, fmt.Errorf("TSV file is empty")
	}

	header := sheets.ValueRange{
		Range:  fmt.Sprintf("%s!%s%v:%s%v", name, left, top, right, top),
		Values: [][]any{toRow(records[0])},
	}

	rows := make([][]any, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, toRow(record))
	}

	data := sheets.ValueRange{
		Range:  fmt.Sprintf("%s!%s%v:%s", name, left, top+1, right),
		Values: rows,
	}

	return &header, &data, nil
}

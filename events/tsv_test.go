package events

import (
	"reflect"
	"strings"
	"testing"

	"google.golang.org/api/sheets/v4"
)

func TestMakeTSV(t *testing.T) {
	expected := "Type\tID\tKiller/Player\tVictim\n" +
		"Kill\t1\tRRRthur\tVanduul\n" +
		"Death\t2\tVanduul\tRRRthur\n"

	var f strings.Builder
	var data = sheets.ValueRange{
		Values: [][]any{
			{"Type", "ID", "Killer/Player", "Victim"},
			{"Kill", "1", "RRRthur", "Vanduul"},
			{"Death", "2", "Vanduul", "RRRthur"},
		},
	}

	if err := MakeTSV(&f, &data); err != nil {
		t.Fatalf("Unexpected error returned from MakeTSV (%v)", err)
	}

	if f.String() != expected {
		t.Errorf("Incorrect TSV\n   expected: %s\n   got:      %s\n", expected, f.String())
	}
}

func TestMakeTSVWithOutOfOrderColumns(t *testing.T) {
	expected := "Type\tID\tVictim\tZone\n" +
		"Kill\t1\tVanduul\tStanton\n"

	var f strings.Builder
	var data = sheets.ValueRange{
		Values: [][]any{
			{"Victim", "ID", "Zone", "Type"},
			{"Vanduul", "1", "Stanton", "Kill"},
		},
	}

	if err := MakeTSV(&f, &data); err != nil {
		t.Fatalf("Unexpected error returned from MakeTSV (%v)", err)
	}

	if f.String() != expected {
		t.Errorf("Incorrect TSV\n   expected: %s\n   got:      %s\n", expected, f.String())
	}
}

func TestMakeTSVWithInvalidRows(t *testing.T) {
	expected := "Type\tID\tVictim\n" +
		"Kill\t1\tVanduul\n"

	var f strings.Builder
	var data = sheets.ValueRange{
		Values: [][]any{
			{"Type", "ID", "Victim"},
			{"Kill", "1", "Vanduul"},
			{"Kill", "x", "Vanduul"},
			{"Respawn", "3", "Vanduul"},
			{"", "", ""},
		},
	}

	if err := MakeTSV(&f, &data); err != nil {
		t.Fatalf("Unexpected error returned from MakeTSV (%v)", err)
	}

	if f.String() != expected {
		t.Errorf("Incorrect TSV\n   expected: %s\n   got:      %s\n", expected, f.String())
	}
}

func TestMakeTSVWithEmptySheet(t *testing.T) {
	var f strings.Builder
	var data = sheets.ValueRange{}

	if err := MakeTSV(&f, &data); err == nil {
		t.Fatalf("Expected error return for empty sheet, got %v", err)
	}
}

func TestMakeTSVWithMissingTypeColumn(t *testing.T) {
	var f strings.Builder
	var data = sheets.ValueRange{
		Values: [][]any{
			{"ID", "Victim"},
		},
	}

	if err := MakeTSV(&f, &data); err == nil {
		t.Fatalf("Expected error return for missing 'type' column, got %v", err)
	}
}

func TestMakeTSVWithDuplicateColumns(t *testing.T) {
	var f strings.Builder
	var data = sheets.ValueRange{
		Values: [][]any{
			{"Type", "ID", "Victim", "victim"},
		},
	}

	if err := MakeTSV(&f, &data); err == nil {
		t.Fatalf("Expected error return for duplicate column, got %v", err)
	}
}

func TestTSVToSheet(t *testing.T) {
	tsv := "Type\tID\tVictim\n" +
		"Kill\t1\tVanduul\n" +
		"Death\t2\tRRRthur\n"

	header, data, err := TSVToSheet(strings.NewReader(tsv), "Events!A1:P")
	if err != nil {
		t.Fatalf("Unexpected error returned from TSVToSheet (%v)", err)
	}

	if header.Range != "Events!A1:P1" {
		t.Errorf("Incorrect header range - expected:%v, got:%v", "Events!A1:P1", header.Range)
	}

	if data.Range != "Events!A2:P" {
		t.Errorf("Incorrect data range - expected:%v, got:%v", "Events!A2:P", data.Range)
	}

	expected := [][]any{
		{"Kill", "1", "Vanduul"},
		{"Death", "2", "RRRthur"},
	}

	if !reflect.DeepEqual(data.Values, expected) {
		t.Errorf("Incorrect data values\n   expected: %v\n   got:      %v\n", expected, data.Values)
	}
}

func TestTSVToSheetWithInvalidRange(t *testing.T) {
	if _, _, err := TSVToSheet(strings.NewReader("Type\tID\n"), "Events"); err == nil {
		t.Fatalf("Expected error return for invalid range, got %v", err)
	}
}

func TestTSVToSheetWithEmptyFile(t *testing.T) {
	if _, _, err := TSVToSheet(strings.NewReader(""), "Events!A1:P"); err == nil {
		t.Fatalf("Expected error return for empty file, got %v", err)
	}
}

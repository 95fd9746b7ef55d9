package events

import (
	"reflect"
	"testing"

	"google.golang.org/api/sheets/v4"
)

func TestMakeTable(t *testing.T) {
	expected := Table{
		Header: []string{"Type", "ID", "Victim", "Zone"},
		Records: [][]string{
			{"Kill", "1", "Vanduul", "Stanton"},
			{"Death", "2", "RRRthur", "Pyro"},
		},
	}

	var data = sheets.ValueRange{
		Values: [][]any{
			{"Type", "ID", "Victim", "Zone"},
			{"Kill", "1", "Vanduul", "Stanton"},
			{"Death", "2", "RRRthur", "Pyro"},
		},
	}

	table, err := MakeTable(&data)
	if err != nil {
		t.Fatalf("Unexpected error returned from MakeTable (%v)", err)
	}

	if table == nil {
		t.Fatalf("MakeTable returned %v", table)
	}

	if !reflect.DeepEqual(*table, expected) {
		t.Errorf("Incorrect table\n   expected: %v\n   got:      %v\n", expected, *table)
	}
}

func TestMakeTableWithOutOfOrderColumns(t *testing.T) {
	expected := Table{
		Header: []string{"Type", "ID", "Zone", "Victim"},
		Records: [][]string{
			{"Kill", "1", "Stanton", "Vanduul"},
		},
	}

	var data = sheets.ValueRange{
		Values: [][]any{
			{"Zone", "Victim", "ID", "Type"},
			{"Stanton", "Vanduul", "1", "Kill"},
		},
	}

	table, err := MakeTable(&data)
	if err != nil {
		t.Fatalf("Unexpected error returned from MakeTable (%v)", err)
	}

	if !reflect.DeepEqual(*table, expected) {
		t.Errorf("Incorrect table\n   expected: %v\n   got:      %v\n", expected, *table)
	}
}

func TestMakeTableWithShortRows(t *testing.T) {
	expected := Table{
		Header: []string{"Type", "ID", "Victim", "Zone"},
		Records: [][]string{
			{"Kill", "1", "Vanduul", ""},
		},
	}

	var data = sheets.ValueRange{
		Values: [][]any{
			{"Type", "ID", "Victim", "Zone"},
			{"Kill", "1", "Vanduul"},
		},
	}

	table, err := MakeTable(&data)
	if err != nil {
		t.Fatalf("Unexpected error returned from MakeTable (%v)", err)
	}

	if !reflect.DeepEqual(*table, expected) {
		t.Errorf("Incorrect table\n   expected: %v\n   got:      %v\n", expected, *table)
	}
}

func TestMakeEventTable(t *testing.T) {
	table := MakeEventTable([]KillEvent{kill}, []DeathEvent{death})

	if !reflect.DeepEqual(table.Header, Header) {
		t.Errorf("Incorrect header\n   expected: %v\n   got:      %v\n", Header, table.Header)
	}

	if len(table.Records) != 2 {
		t.Fatalf("Incorrect record count - expected:%v, got:%v", 2, len(table.Records))
	}

	if table.Records[0][0] != "Kill" || table.Records[1][0] != "Death" {
		t.Errorf("Incorrect record order - got: %v, %v", table.Records[0][0], table.Records[1][0])
	}
}

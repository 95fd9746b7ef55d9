package commands

import (
	"reflect"
	"strings"
	"testing"

	"github.com/killfeed/killfeed-sheets/events"
)

func TestCompareTables(t *testing.T) {
	db := events.Table{
		Header: []string{"Type", "ID", "Victim", "Zone"},
		Records: [][]string{
			{"Kill", "1", "Vanduul", "Stanton"},
			{"Kill", "2", "Vanduul", "Pyro"},
			{"Death", "3", "RRRthur", "Stanton"},
		},
	}

	sheet := events.Table{
		Header: []string{"Type", "ID", "Victim", "Zone"},
		Records: [][]string{
			{"Kill", "1", "Vanduul", "Stanton"},
			{"Kill", "2", "Vanduul", "Stanton"},
			{"Death", "9", "RRRthur", "Stanton"},
		},
	}

	diff := compareTables(&db, &sheet)

	if expected := []string{"Death\t3"}; !reflect.DeepEqual(diff.missing, expected) {
		t.Errorf("Incorrect missing rows\n   expected: %v\n   got:      %v\n", expected, diff.missing)
	}

	if expected := []string{"Death\t9"}; !reflect.DeepEqual(diff.extra, expected) {
		t.Errorf("Incorrect extra rows\n   expected: %v\n   got:      %v\n", expected, diff.extra)
	}

	if expected := []string{"Kill\t2"}; !reflect.DeepEqual(diff.changed, expected) {
		t.Errorf("Incorrect changed rows\n   expected: %v\n   got:      %v\n", expected, diff.changed)
	}
}

func TestCompareTablesWithDifferentColumns(t *testing.T) {
	db := events.Table{
		Header: []string{"Type", "ID", "Victim", "Weapon"},
		Records: [][]string{
			{"Kill", "1", "Vanduul", "laser_repeater"},
		},
	}

	sheet := events.Table{
		Header: []string{"Type", "ID", "Victim"},
		Records: [][]string{
			{"kill", "1", "Vanduul"},
		},
	}

	diff := compareTables(&db, &sheet)

	if len(diff.missing) != 0 || len(diff.extra) != 0 || len(diff.changed) != 0 {
		t.Errorf("Expected no differences for tables with a column subset, got %+v", diff)
	}
}

func TestWriteAudit(t *testing.T) {
	expected := "Status\tType\tID\n" +
		"missing\tDeath\t3\n" +
		"extra\tDeath\t9\n" +
		"changed\tKill\t2\n"

	diff := audit{
		missing: []string{"Death\t3"},
		extra:   []string{"Death\t9"},
		changed: []string{"Kill\t2"},
	}

	var f strings.Builder
	if err := writeAudit(&f, diff); err != nil {
		t.Fatalf("Unexpected error returned from writeAudit (%v)", err)
	}

	if f.String() != expected {
		t.Errorf("Incorrect audit report\n   expected: %s\n   got:      %s\n", expected, f.String())
	}
}

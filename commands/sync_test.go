package commands

import (
	"testing"
	"time"
)

func TestSyncStateRoundTrip(t *testing.T) {
	cmd := Sync{
		command: command{
			workdir: t.TempDir(),
		},
	}

	expected := state{
		Fingerprint: "5feceb66ffc86f38d952786c6d696c79c2dbc239dd4e91b46729d73a27fb57e9",
		Revision:    "1234",
		Synced:      time.Date(2024, time.May, 4, 12, 30, 0, 0, time.UTC),
	}

	if err := cmd.writeState("spreadsheet-id", expected); err != nil {
		t.Fatalf("Unexpected error returned from writeState (%v)", err)
	}

	s := cmd.readState("spreadsheet-id")

	if s.Fingerprint != expected.Fingerprint || s.Revision != expected.Revision {
		t.Errorf("Incorrect state\n   expected: %+v\n   got:      %+v\n", expected, s)
	}

	if !s.Synced.Equal(expected.Synced) {
		t.Errorf("Incorrect synced timestamp - expected:%v, got:%v", expected.Synced, s.Synced)
	}
}

func TestSyncStateWithMissingFile(t *testing.T) {
	cmd := Sync{
		command: command{
			workdir: t.TempDir(),
		},
	}

	if s := cmd.readState("spreadsheet-id"); s != (state{}) {
		t.Errorf("Expected zero value state for missing file, got %+v", s)
	}
}

func TestUpToDate(t *testing.T) {
	previous := state{
		Fingerprint: "5feceb66ffc86f38d952786c6d696c79c2dbc239dd4e91b46729d73a27fb57e9",
		Revision:    "1234",
	}

	tests := []struct {
		fingerprint string
		revision    string
		force       bool
		expected    bool
	}{
		{previous.Fingerprint, "1234", false, true},
		{previous.Fingerprint, "1234", true, false},
		{"0000000000000000000000000000000000000000000000000000000000000000", "1234", false, false},
		{previous.Fingerprint, "5678", false, false},
		{previous.Fingerprint, "", false, false},
	}

	for _, test := range tests {
		v := uptodate(previous, test.fingerprint, test.revision, test.force)
		if v != test.expected {
			t.Errorf("Incorrect up-to-date state for revision:%v force:%v - expected:%v, got:%v", test.revision, test.force, test.expected, v)
		}
	}
}

func TestUpToDateWithNoPreviousState(t *testing.T) {
	if uptodate(state{}, "5feceb66ffc86f38d952786c6d696c79c2dbc239dd4e91b46729d73a27fb57e9", "1234", false) {
		t.Errorf("Expected first sync run to upload, got up-to-date")
	}
}

func TestExpiredRows(t *testing.T) {
	cutoff := time.Date(2024, time.May, 4, 0, 0, 0, 0, time.Local)

	rows := [][]any{
		{"2024-05-01 10:00:00", 5, 3, 8},
		{"2024-05-02 10:00:00", 1, 0, 1},
		{"2024-05-06 10:00:00", 2, 2, 4},
		{"2024-05-01 10:00:00", 9, 9, 18},
	}

	if expired := expiredRows(rows, cutoff); expired != 2 {
		t.Errorf("Incorrect expired row count - expected:%v, got:%v", 2, expired)
	}
}

func TestExpiredRowsWithNoExpiredRows(t *testing.T) {
	cutoff := time.Date(2024, time.May, 4, 0, 0, 0, 0, time.Local)

	rows := [][]any{
		{"2024-05-06 10:00:00", 2, 2, 4},
	}

	if expired := expiredRows(rows, cutoff); expired != 0 {
		t.Errorf("Incorrect expired row count - expected:%v, got:%v", 0, expired)
	}
}

func TestExpiredRowsWithInvalidRows(t *testing.T) {
	cutoff := time.Date(2024, time.May, 4, 0, 0, 0, 0, time.Local)

	tests := [][][]any{
		{},
		{{}},
		{{42, 1, 0, 1}},
		{{"Timestamp", "Kills", "Deaths", "Total"}},
	}

	for _, rows := range tests {
		if expired := expiredRows(rows, cutoff); expired != 0 {
			t.Errorf("Incorrect expired row count for %v - expected:%v, got:%v", rows, 0, expired)
		}
	}
}

func TestLock(t *testing.T) {
	workdir := t.TempDir()

	release, err := lock(workdir)
	if err != nil {
		t.Fatalf("Unexpected error returned from lock (%v)", err)
	}

	if _, err := lock(workdir); err == nil {
		t.Fatalf("Expected error return for second lock, got %v", err)
	}

	release()

	release, err = lock(workdir)
	if err != nil {
		t.Fatalf("Unexpected error returned from lock after release (%v)", err)
	}

	release()
}

// Package events defines the killfeed event records and their tabular
// representation in the synchronized worksheet.
package events

import (
	"strconv"
	"time"
)

// Mode values accepted for kill reports.
const (
	ModePU = "pu-kill"
	ModeAC = "ac-kill"
)

// Header is the worksheet header row. Kill and death records are laid out in
// this column order, kills first, deaths after.
var Header = []string{
	"Type",
	"ID",
	"Killer/Player",
	"Victim",
	"Time",
	"Zone",
	"Weapon",
	"Damage Type",
	"Game Mode",
	"Mode",
	"Killers Ship",
	"Victim Ship",
	"RSI Profile",
	"Avatar URL",
	"Org Name",
	"Org URL",
}

type KillEvent struct {
	ID               int64     `db:"id"                json:"id"`
	Player           string    `db:"player"            json:"player"`
	Victim           string    `db:"victim"            json:"victim"`
	Time             time.Time `db:"time"              json:"time"`
	Zone             string    `db:"zone"              json:"zone"`
	Weapon           string    `db:"weapon"            json:"weapon"`
	DamageType       string    `db:"damage_type"       json:"damage_type"`
	RSIProfile       string    `db:"rsi_profile"       json:"rsi_profile"`
	GameMode         string    `db:"game_mode"         json:"game_mode"`
	Mode             string    `db:"mode"              json:"mode"`
	ClientVersion    string    `db:"client_ver"        json:"client_ver"`
	KillersShip      string    `db:"killers_ship"      json:"killers_ship"`
	VictimShip       string    `db:"victim_ship"       json:"victim_ship,omitempty"`
	AvatarURL        string    `db:"avatar_url"        json:"avatar_url,omitempty"`
	OrganizationName string    `db:"organization_name" json:"organization_name,omitempty"`
	OrganizationURL  string    `db:"organization_url"  json:"organization_url,omitempty"`
}

type DeathEvent struct {
	ID               int64     `db:"id"                json:"id"`
	Killer           string    `db:"killer"            json:"killer"`
	Victim           string    `db:"victim"            json:"victim"`
	Time             time.Time `db:"time"              json:"time"`
	Zone             string    `db:"zone"              json:"zone"`
	Weapon           string    `db:"weapon"            json:"weapon"`
	DamageType       string    `db:"damage_type"       json:"damage_type"`
	RSIProfile       string    `db:"rsi_profile"       json:"rsi_profile"`
	GameMode         string    `db:"game_mode"         json:"game_mode"`
	KillersShip      string    `db:"killers_ship"      json:"killers_ship"`
	VictimShip       string    `db:"victim_ship"       json:"victim_ship,omitempty"`
	AvatarURL        string    `db:"avatar_url"        json:"avatar_url,omitempty"`
	OrganizationName string    `db:"organization_name" json:"organization_name,omitempty"`
	OrganizationURL  string    `db:"organization_url"  json:"organization_url,omitempty"`
}

// ValidMode returns true if v is an accepted kill report mode.
func ValidMode(v string) bool {
	return v == ModePU || v == ModeAC
}

// Record returns the worksheet cells for a kill event, in Header order.
func (e KillEvent) Record() []string {
	return []string{
		"Kill",
		strconv.FormatInt(e.ID, 10),
		e.Player,
		e.Victim,
		e.Time.Format(time.RFC3339),
		e.Zone,
		e.Weapon,
		e.DamageType,
		e.GameMode,
		e.Mode,
		e.KillersShip,
		e.VictimShip,
		e.RSIProfile,
		e.AvatarURL,
		e.OrganizationName,
		e.OrganizationURL,
	}
}

// Record returns the worksheet cells for a death event, in Header order. Death
// events have no mode - the 'Mode' cell is left blank.
func (e DeathEvent) Record() []string {
	return []string{
		"Death",
		strconv.FormatInt(e.ID, 10),
		e.Killer,
		e.Victim,
		e.Time.Format(time.RFC3339),
		e.Zone,
		e.Weapon,
		e.DamageType,
		e.GameMode,
		"",
		e.KillersShip,
		e.VictimShip,
		e.RSIProfile,
		e.AvatarURL,
		e.OrganizationName,
		e.OrganizationURL,
	}
}

// MakeRows builds the full worksheet contents - header row followed by the kill
// records and then the death records, in the order supplied.
func MakeRows(kills []KillEvent, deaths []DeathEvent) [][]any {
	rows := make([][]any, 0, 1+len(kills)+len(deaths))
	rows = append(rows, toRow(Header))

	for _, e := range kills {
		rows = append(rows, toRow(e.Record()))
	}

	for _, e := range deaths {
		rows = append(rows, toRow(e.Record()))
	}

	return rows
}

func toRow(record []string) []any {
	row := make([]any, len(record))
	for i, v := range record {
		row[i] = v
	}

	return row
}

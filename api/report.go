package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/killfeed/killfeed-sheets/events"
	"github.com/killfeed/killfeed-sheets/rsi"
)

// KillReport is the request body for POST /reportKill.
type KillReport struct {
	Player        string    `json:"player"`
	Victim        string    `json:"victim"`
	Time          time.Time `json:"time"`
	Zone          string    `json:"zone"`
	Weapon        string    `json:"weapon"`
	DamageType    string    `json:"damage_type"`
	RSIProfile    string    `json:"rsi_profile"`
	GameMode      string    `json:"game_mode"`
	Mode          string    `json:"mode"`
	ClientVersion string    `json:"client_ver"`
	KillersShip   string    `json:"killers_ship"`
	VictimShip    string    `json:"victim_ship,omitempty"`
}

// DeathReport is the request body for POST /reportDeath. The avatar and
// organisation fields are optional and client-supplied - death reports are
// recorded as-is, without scraping.
type DeathReport struct {
	Killer           string    `json:"killer"`
	Victim           string    `json:"victim"`
	Time             time.Time `json:"time"`
	Zone             string    `json:"zone"`
	Weapon           string    `json:"weapon"`
	DamageType       string    `json:"damage_type"`
	RSIProfile       string    `json:"rsi_profile"`
	GameMode         string    `json:"game_mode"`
	KillersShip      string    `json:"killers_ship"`
	VictimShip       string    `json:"victim_ship,omitempty"`
	AvatarURL        string    `json:"avatar_url,omitempty"`
	OrganizationName string    `json:"organization_name,omitempty"`
	OrganizationURL  string    `json:"organization_url,omitempty"`
}

type reported struct {
	ID int64 `json:"id"`
}

func (r KillReport) validate() error {
	required := map[string]string{
		"player":       r.Player,
		"victim":       r.Victim,
		"zone":         r.Zone,
		"weapon":       r.Weapon,
		"damage_type":  r.DamageType,
		"rsi_profile":  r.RSIProfile,
		"game_mode":    r.GameMode,
		"client_ver":   r.ClientVersion,
		"killers_ship": r.KillersShip,
	}

	for field, v := range required {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("'%s' is required", field)
		}
	}

	if r.Time.IsZero() {
		return fmt.Errorf("'time' is required")
	}

	if !events.ValidMode(r.Mode) {
		return fmt.Errorf("'mode' must be one of '%s','%s'", events.ModePU, events.ModeAC)
	}

	return nil
}

func (r DeathReport) validate() error {
	required := map[string]string{
		"killer":       r.Killer,
		"victim":       r.Victim,
		"zone":         r.Zone,
		"weapon":       r.Weapon,
		"damage_type":  r.DamageType,
		"rsi_profile":  r.RSIProfile,
		"game_mode":    r.GameMode,
		"killers_ship": r.KillersShip,
	}

	for field, v := range required {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("'%s' is required", field)
		}
	}

	if r.Time.IsZero() {
		return fmt.Errorf("'time' is required")
	}

	return nil
}

func (s *Server) reportKill(w http.ResponseWriter, rq *http.Request) {
	var report KillReport

	if err := json.NewDecoder(rq.Body).Decode(&report); err != nil {
		reply(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}

	if err := report.validate(); err != nil {
		reply(w, http.StatusUnprocessableEntity, errorResponse{Detail: err.Error()})
		return
	}

	// ... avatar from the killer's profile, organisation from the victim's
	killer, victim := s.scrape(rq.Context(), report.Player, report.Victim)

	e := events.KillEvent{
		Player:           report.Player,
		Victim:           report.Victim,
		Time:             report.Time,
		Zone:             report.Zone,
		Weapon:           report.Weapon,
		DamageType:       report.DamageType,
		RSIProfile:       report.RSIProfile,
		GameMode:         report.GameMode,
		Mode:             report.Mode,
		ClientVersion:    report.ClientVersion,
		KillersShip:      report.KillersShip,
		VictimShip:       report.VictimShip,
		AvatarURL:        killer.AvatarURL,
		OrganizationName: victim.OrganizationName,
		OrganizationURL:  victim.OrganizationURL,
	}

	id, err := s.store.InsertKill(rq.Context(), e)
	if err != nil {
		log.Printf("%-5s %v", "ERROR", err)
		reply(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
		return
	}

	reply(w, http.StatusCreated, reported{ID: id})
}

func (s *Server) reportDeath(w http.ResponseWriter, rq *http.Request) {
	var report DeathReport

	if err := json.NewDecoder(rq.Body).Decode(&report); err != nil {
		reply(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}

	if err := report.validate(); err != nil {
		reply(w, http.StatusUnprocessableEntity, errorResponse{Detail: err.Error()})
		return
	}

	e := events.DeathEvent{
		Killer:           report.Killer,
		Victim:           report.Victim,
		Time:             report.Time,
		Zone:             report.Zone,
		Weapon:           report.Weapon,
		DamageType:       report.DamageType,
		RSIProfile:       report.RSIProfile,
		GameMode:         report.GameMode,
		KillersShip:      report.KillersShip,
		VictimShip:       report.VictimShip,
		AvatarURL:        report.AvatarURL,
		OrganizationName: report.OrganizationName,
		OrganizationURL:  report.OrganizationURL,
	}

	id, err := s.store.InsertDeath(rq.Context(), e)
	if err != nil {
		log.Printf("%-5s %v", "ERROR", err)
		reply(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
		return
	}

	reply(w, http.StatusCreated, reported{ID: id})
}

// scrape fetches the killer and victim profiles concurrently. Scrape failures
// degrade to empty profiles - ingestion is never blocked by the scraper.
func (s *Server) scrape(ctx context.Context, killer, victim string) (rsi.Profile, rsi.Profile) {
	var k, v rsi.Profile

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := s.profiles.FetchProfile(ctx, killer)
		if err != nil {
			log.Printf("%-5s unable to scrape profile for '%s' (%v)", "WARN", killer, err)
			return nil
		}

		k = profile
		return nil
	})

	g.Go(func() error {
		profile, err := s.profiles.FetchProfile(ctx, victim)
		if err != nil {
			log.Printf("%-5s unable to scrape profile for '%s' (%v)", "WARN", victim, err)
			return nil
		}

		v = profile
		return nil
	})

	g.Wait()

	return k, v
}

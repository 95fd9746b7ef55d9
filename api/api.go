// Package api implements the killfeed event ingestion API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/killfeed/killfeed-sheets/events"
	"github.com/killfeed/killfeed-sheets/rsi"
	"github.com/killfeed/killfeed-sheets/store"
)

// Store is the subset of the event store used by the API.
type Store interface {
	InsertKill(ctx context.Context, e events.KillEvent) (int64, error)
	InsertDeath(ctx context.Context, e events.DeathEvent) (int64, error)
	ListKills(ctx context.Context) ([]events.KillEvent, error)
	ListDeathsByTime(ctx context.Context) ([]events.DeathEvent, error)
	GetAPIKey(ctx context.Context, key string) (store.APIKey, error)
}

// Profiles scrapes citizen metadata for reported players.
type Profiles interface {
	FetchProfile(ctx context.Context, handle string) (rsi.Profile, error)
}

type Server struct {
	store    Store
	profiles Profiles
}

func NewServer(store Store, profiles Profiles) *Server {
	return &Server{
		store:    store,
		profiles: profiles,
	}
}

// Router builds the HTTP handler for the ingestion API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/health", s.health)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Post("/reportKill", s.reportKill)
		r.Post("/reportDeath", s.reportDeath)
		r.Get("/kills", s.kills)
		r.Get("/deaths", s.deaths)
		r.Get("/keys/validate", s.validateKey)
	})

	return r
}

type contextKey string

const apiKeyContextKey = contextKey("api-key")

// authenticate requires a 'Authorization: Bearer <key>' header matching a
// registered API key. The matched key is stored in the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		scheme, token, _ := strings.Cut(rq.Header.Get("Authorization"), " ")
		if !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			reply(w, http.StatusUnauthorized, errorResponse{Detail: "missing or invalid Authorization header"})
			return
		}

		key, err := s.store.GetAPIKey(rq.Context(), strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				reply(w, http.StatusUnauthorized, errorResponse{Detail: "invalid API key"})
				return
			}

			reply(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
			return
		}

		next.ServeHTTP(w, rq.WithContext(context.WithValue(rq.Context(), apiKeyContextKey, key)))
	})
}

// cors mirrors the permissive policy of the original service.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if rq.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, rq)
	})
}

func (s *Server) health(w http.ResponseWriter, rq *http.Request) {
	reply(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) kills(w http.ResponseWriter, rq *http.Request) {
	list, err := s.store.ListKills(rq.Context())
	if err != nil {
		log.Printf("%-5s %v", "ERROR", err)
		reply(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
		return
	}

	reply(w, http.StatusOK, list)
}

func (s *Server) deaths(w http.ResponseWriter, rq *http.Request) {
	list, err := s.store.ListDeathsByTime(rq.Context())
	if err != nil {
		log.Printf("%-5s %v", "ERROR", err)
		reply(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
		return
	}

	reply(w, http.StatusOK, list)
}

type keyStatus struct {
	Valid     bool   `json:"valid"`
	DiscordID string `json:"discord_id"`
}

// validateKey lets a client check its own API key - reaching the handler means
// the key passed authentication.
func (s *Server) validateKey(w http.ResponseWriter, rq *http.Request) {
	key, ok := rq.Context().Value(apiKeyContextKey).(store.APIKey)
	if !ok {
		reply(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
		return
	}

	reply(w, http.StatusOK, keyStatus{Valid: true, DiscordID: key.DiscordID})
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("%-5s %v", "ERROR", err)
	}
}

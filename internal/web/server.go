// Package web hosts battles for browser clients over websockets.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"soul-battle/internal/config"
	"soul-battle/internal/game"
)

// Server routes the health, catalog, key map and battle socket endpoints.
type Server struct {
	addr   string
	battle game.Config
	seed   int64
	accept *websocket.AcceptOptions
	router *mux.Router
}

// NewServer creates the HTTP host from the loaded configuration.
func NewServer(cfg config.Config) (*Server, error) {
	gc, err := cfg.Battle.GameConfig()
	if err != nil {
		return nil, err
	}
	s := &Server{
		addr:   cfg.Server.HTTPAddr,
		battle: gc,
		seed:   cfg.Battle.Seed,
		router: mux.NewRouter(),
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		s.accept = &websocket.AcceptOptions{OriginPatterns: cfg.Server.AllowedOrigins}
	}
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/catalog", s.handleCatalog).Methods(http.MethodGet)
	s.router.HandleFunc("/keys", s.handleKeys).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.handleSocket).Methods(http.MethodGet)
	return s, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	log.Printf("HTTP server listening on %s", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) newRand() *rand.Rand {
	if s.seed != 0 {
		return rand.New(rand.NewSource(s.seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

type enemyJSON struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	HP      int    `json:"hp"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`
	EXP     int    `json:"exp"`
	Gold    int    `json:"gold"`
	Color   string `json:"color"`
	Pattern string `json:"pattern"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	defs := game.Catalog()
	out := make([]enemyJSON, len(defs))
	for i, d := range defs {
		out[i] = enemyJSON{
			Index:   i,
			Name:    d.Name,
			HP:      d.HP,
			Attack:  d.Attack,
			Defense: d.Defense,
			EXP:     d.EXP,
			Gold:    d.Gold,
			Color:   d.Color,
			Pattern: d.Pattern.String(),
		}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Printf("Encode catalog: %v", err)
	}
}

type keyJSON struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
	// PreventDefault marks keys whose browser default (page scrolling)
	// the client must suppress while a battle has focus.
	PreventDefault bool `json:"preventDefault"`
}

// handleKeys lists the movement keys so clients can forward them and
// cancel their default action before it happens.
func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	keys := game.MovementKeys()
	out := make([]keyJSON, len(keys))
	for i, k := range keys {
		d, _ := game.KeyDirection(k)
		out[i] = keyJSON{Key: k, Direction: d.String(), PreventDefault: strings.HasPrefix(k, "Arrow")}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Printf("Encode keys: %v", err)
	}
}

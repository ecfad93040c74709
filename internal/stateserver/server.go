// Package stateserver is a small file-backed stand-in for the game data
// service: it answers /api/defaultstate and /api/countryname/{code} and serves
// law images from a resources directory.
package stateserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"country-editor/internal/api"
	"country-editor/internal/model"
)

type ServerConfig struct {
	Addr string

	// StatePath is the default state document (.json, .yaml or .yml).
	StatePath string

	// NamesPath is an optional country table (see LoadCountryNames).
	NamesPath string

	// ResourcesDir is an optional directory served under /resources/.
	ResourcesDir string

	// DoubleEncode wraps the default state in a JSON string, the way the
	// original game data service answered. Useful to exercise older clients.
	DoubleEncode bool
}

type Server struct {
	cfg ServerConfig

	mu       sync.RWMutex
	state    []byte
	names    map[string]string
	loadedAt time.Time
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.StatePath = strings.TrimSpace(cfg.StatePath)
	cfg.NamesPath = strings.TrimSpace(cfg.NamesPath)
	cfg.ResourcesDir = strings.TrimSpace(cfg.ResourcesDir)
	if cfg.StatePath == "" {
		return nil, errors.New("stateserver: state path is empty")
	}
	if cfg.ResourcesDir != "" {
		st, err := os.Stat(cfg.ResourcesDir)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			return nil, errors.New("stateserver: resources path is not a directory")
		}
	}
	s := &Server{cfg: cfg}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

// Reload re-reads the state and name files. On error the previous data stays live.
func (s *Server) Reload() error {
	state, err := LoadStateFile(s.cfg.StatePath)
	if err != nil {
		return err
	}
	names := map[string]string{}
	if s.cfg.NamesPath != "" {
		names, err = LoadCountryNamesFile(s.cfg.NamesPath)
		if err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.state = state
	s.names = names
	s.loadedAt = time.Now().UTC()
	s.mu.Unlock()
	return nil
}

func (s *Server) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET "+api.DefaultStatePath, s.handleDefaultState)
	mux.HandleFunc("GET "+api.CountryNamePrefix+"{code}", s.handleCountryName)
	if s.cfg.ResourcesDir != "" {
		mux.Handle("GET /resources/", http.StripPrefix("/resources/", http.FileServer(http.Dir(s.cfg.ResourcesDir))))
	}
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	endpoints := []string{api.DefaultStatePath, api.CountryNamePrefix + "{code}"}
	if s.cfg.ResourcesDir != "" {
		endpoints = append(endpoints, "/resources/{file}")
	}
	writeJSON(w, map[string]any{
		"endpoints": endpoints,
		"loadedAt":  s.LoadedAt().Format(time.RFC3339),
	})
}

func (s *Server) handleDefaultState(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if id := r.Header.Get(api.RequestIDHeader); id != "" {
		w.Header().Set(api.RequestIDHeader, id)
	}
	if s.cfg.DoubleEncode {
		b, err := json.Marshal(string(state))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(b)
		return
	}
	_, _ = w.Write(state)
}

func (s *Server) handleCountryName(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	s.mu.RLock()
	name, ok := s.names[code]
	s.mu.RUnlock()
	if !ok {
		name = model.NotAvailable
	}
	if id := r.Header.Get(api.RequestIDHeader); id != "" {
		w.Header().Set(api.RequestIDHeader, id)
	}
	writeJSON(w, name)
}

func writeJSON(w http.ResponseWriter, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(b)
}

// Package server exposes wallet lookups and cached datasets over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"staking-lens/internal/datasets"
	"staking-lens/internal/lookup"
	"staking-lens/internal/notify"
	"staking-lens/internal/observability"
	"staking-lens/internal/stakerlog"
)

// Server routes HTTP requests to the lookup service and dataset cache.
type Server struct {
	lookups  *lookup.Service
	datasets *datasets.Service
	hub      *notify.Hub
	log      zerolog.Logger
	started  time.Time
}

// New creates a server around the given services. hub may be nil when
// websocket notifications are disabled.
func New(lookups *lookup.Service, ds *datasets.Service, hub *notify.Hub, log zerolog.Logger) *Server {
	return &Server{
		lookups:  lookups,
		datasets: ds,
		hub:      hub,
		log:      log,
		started:  time.Now(),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/api/v1/wallet/", s.handleWallet)
	mux.HandleFunc("/api/v1/datasets/", s.handleDataset)

	if s.hub != nil {
		mux.Handle("/ws", s.hub)
	}

	return mux
}

// StatusResponse is the JSON response for the /status endpoint.
type StatusResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Datasets  int    `json:"datasets_cached"`
	WSClients int    `json:"ws_clients"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Status:   "running",
		Uptime:   time.Since(s.started).Round(time.Second).String(),
		Datasets: s.datasets.CachedCount(),
	}
	if s.hub != nil {
		resp.WSClients = s.hub.ClientCount()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleWallet serves GET /api/v1/wallet/{address}.
func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	address := strings.TrimPrefix(r.URL.Path, "/api/v1/wallet/")
	if address == "" || strings.Contains(address, "/") {
		writeError(w, http.StatusBadRequest, "wallet address is required")
		return
	}

	result, err := s.lookups.Lookup(r.Context(), address)
	if err != nil {
		if errors.Is(err, lookup.ErrEmptyAddress) {
			writeError(w, http.StatusBadRequest, "wallet address is required")
			return
		}
		s.writeLookupError(w, address, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// writeLookupError maps loader failures onto HTTP statuses.
func (s *Server) writeLookupError(w http.ResponseWriter, address string, err error) {
	s.log.Error().Err(err).Str("wallet", address).Msg("wallet lookup failed")

	var sizeErr *stakerlog.SizeLimitError
	switch {
	case errors.As(err, &sizeErr):
		writeError(w, http.StatusInsufficientStorage, sizeErr.Error())
	case errors.Is(err, stakerlog.ErrDecompression):
		writeError(w, http.StatusBadGateway, "staker log is corrupted")
	case errors.Is(err, context.Canceled):
		// Client went away; 499 in nginx parlance, closest standard code.
		writeError(w, http.StatusRequestTimeout, "request cancelled")
	default:
		writeError(w, http.StatusBadGateway, "failed to load staker log")
	}
}

// handleDataset serves GET /api/v1/datasets/{name}, proxying the raw
// cached JSON document.
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/v1/datasets/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "dataset name is required")
		return
	}

	raw, err := s.datasets.Raw(r.Context(), name)
	if err != nil {
		if errors.Is(err, datasets.ErrUnknownDataset) {
			writeError(w, http.StatusNotFound, "unknown dataset: "+name)
			return
		}
		s.log.Error().Err(err).Str("dataset", name).Msg("dataset fetch failed")
		writeError(w, http.StatusBadGateway, "failed to fetch dataset")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

// ErrorResponse is the JSON body for error statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

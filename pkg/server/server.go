package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/tabnorm/tabnorm/pkg/config"
	"github.com/tabnorm/tabnorm/pkg/ingest"
	"github.com/tabnorm/tabnorm/pkg/render"
)

// Server handles HTTP requests for statement normalization.
type Server struct {
	config   *config.Config
	logger   *log.Logger
	mux      *http.ServeMux
	ingestor *ingest.Ingestor
	results  sync.Map
}

// New creates a new HTTP server.
func New(config *config.Config, logger *log.Logger) *Server {
	return &Server{
		config:   config,
		logger:   logger,
		mux:      http.NewServeMux(),
		ingestor: ingest.New(logger),
	}
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	s.setupRoutes()
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/ingest", s.withLogging(s.handleIngest))
	s.mux.HandleFunc("/api/files/", s.withLogging(s.handleFiles))
}

// rowJSON is the display form of a normalized row for JSON responses.
type rowJSON map[string]string

type skippedJSON struct {
	Line int `json:"line"`
	Want int `json:"want"`
	Got  int `json:"got"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	file, header, err := r.FormFile("statement")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "statement file required", err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to read file", err)
		return
	}

	hasHeader := s.config.Header
	if v := r.FormValue("has_header"); v != "" {
		hasHeader, err = strconv.ParseBool(v)
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, "has_header must be a boolean", err)
			return
		}
	}

	result, err := s.ingestor.ProcessBytes(data, header.Filename, ingest.Options{HasHeader: hasHeader})
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to process statement", err)
		return
	}

	filename := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)) + "-normalized.csv"
	s.results.Store(filename, result)

	rows := make([]rowJSON, len(result.Rows))
	for i, row := range result.Rows {
		out := make(rowJSON, len(result.Fields))
		for _, f := range result.Fields {
			out[string(f)] = row[f].Display()
		}
		rows[i] = out
	}
	skipped := make([]skippedJSON, len(result.Skipped))
	for i, sk := range result.Skipped {
		skipped[i] = skippedJSON{Line: sk.Line, Want: sk.Want, Got: sk.Got}
	}

	s.logger.Info("statement processed",
		"file", header.Filename, "rows", len(rows), "skipped", len(skipped))

	if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"file":    filename,
		"rows":    rows,
		"skipped": skipped,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// handleFiles serves the normalized CSV for a previously processed
// statement.
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	filename := strings.TrimPrefix(r.URL.Path, "/api/files/")
	if filename == "" {
		s.respondError(w, r, http.StatusBadRequest, "filename required", nil)
		return
	}

	value, ok := s.results.Load(filename)
	if !ok {
		s.respondError(w, r, http.StatusNotFound, "file not found", nil)
		return
	}
	result, ok := value.(*ingest.Result)
	if !ok {
		s.respondError(w, r, http.StatusInternalServerError, "internal type assertion error", nil)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := render.WriteCSV(w, result.Fields, result.Rows, nil); err != nil {
		s.logger.Warn("failed to write csv response", "err", err)
	}
}

// --- helpers ---

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// withLogging wraps a handler to log requests and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kadavr95/spoiler/pkg/command"
	"github.com/kadavr95/spoiler/pkg/editor"
	"github.com/kadavr95/spoiler/pkg/model"
	"github.com/kadavr95/spoiler/pkg/schema"
)

// APIVersion is reported by GET /info.
const APIVersion = "1.0.0"

// Conversion targets of POST /v1/convert.
const (
	TargetData    = "data"
	TargetEditing = "editing"
	TargetModel   = "model"
)

// EditorFactory creates a fresh editor. The server builds one per request.
type EditorFactory func() (*editor.Editor, error)

// Server serves the preview API.
type Server struct {
	newEditor EditorFactory
	logger    *slog.Logger
	gatherer  prometheus.Gatherer
	version   string
}

// Option defines a functional option for configuring the Server.
type Option func(*Server)

// WithLogger sets a custom structured logger for the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer exposes g on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithVersion sets the application version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// ConvertRequest is the body of POST /v1/convert.
type ConvertRequest struct {
	HTML   string `json:"html"`
	Target string `json:"target,omitempty"`
}

// ConvertResponse is the result of a conversion.
type ConvertResponse struct {
	Output    string `json:"output"`
	Converted int    `json:"converted"`
	Skipped   int    `json:"skipped"`
}

// CommandRequest is the body of POST /v1/commands/{name}.
type CommandRequest struct {
	HTML      string `json:"html"`
	Selection []int  `json:"selection,omitempty"`
}

// CommandResponse reports the document after a command and the new command states.
type CommandResponse struct {
	Data      string          `json:"data"`
	Selection []int           `json:"selection"`
	Commands  map[string]bool `json:"commands"`
}

// SchemaResponse lists the compiled schema items.
type SchemaResponse struct {
	Items []schema.Definition `json:"items"`
}

// ErrorResponse is written for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewHandler creates the HTTP handler of the preview API.
func NewHandler(factory EditorFactory, opts ...Option) http.Handler {
	s := &Server{newEditor: factory, version: "dev"}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/schema", s.GetSchema)
		r.Post("/convert", s.Convert)
		r.Get("/commands", s.ListCommands)
		r.Post("/commands/{name}", s.ExecuteCommand)
	})
	return r
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "spoiler-http",
		"version":     s.version,
		"api_version": APIVersion,
	})
}

// GetSchema handles GET /v1/schema.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	ed, ok := s.editor(w)
	if !ok {
		return
	}
	defer ed.Destroy()

	reg := ed.Schema()
	resp := SchemaResponse{Items: make([]schema.Definition, 0)}
	for _, name := range reg.Names() {
		if def, ok := reg.Definition(name); ok {
			resp.Items = append(resp.Items, def)
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// Convert handles POST /v1/convert.
func (s *Server) Convert(w http.ResponseWriter, r *http.Request) {
	var body ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	ed, ok := s.editor(w)
	if !ok {
		return
	}
	defer ed.Destroy()

	stats, err := ed.SetData(body.HTML)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	var out string
	switch body.Target {
	case "", TargetData:
		out, err = ed.GetData()
	case TargetEditing:
		out, err = ed.EditingHTML()
	case TargetModel:
		out = model.Stringify(ed.Document().Root())
	default:
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("unknown target %q", body.Target))
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, ConvertResponse{Output: out, Converted: stats.Converted, Skipped: stats.Skipped})
}

// ListCommands handles GET /v1/commands?html=...&selection=0/1. It reports which
// commands are enabled for the document and caret.
func (s *Server) ListCommands(w http.ResponseWriter, r *http.Request) {
	path, err := model.ParsePath(r.URL.Query().Get("selection"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	ed, ok := s.load(w, r.URL.Query().Get("html"), path)
	if !ok {
		return
	}
	defer ed.Destroy()

	s.writeJSON(w, http.StatusOK, map[string]any{"commands": ed.Commands().States()})
}

// ExecuteCommand handles POST /v1/commands/{name}.
func (s *Server) ExecuteCommand(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	ed, ok := s.load(w, body.HTML, body.Selection)
	if !ok {
		return
	}
	defer ed.Destroy()

	if _, err := ed.Execute(name); err != nil {
		var disabled *command.DisabledCommandError
		var violation *model.SchemaViolationError
		switch {
		case errors.Is(err, command.ErrCommandNotFound):
			s.writeError(w, http.StatusNotFound, err)
		case errors.As(err, &disabled):
			s.writeError(w, http.StatusConflict, err)
		case errors.As(err, &violation):
			s.writeError(w, http.StatusUnprocessableEntity, err)
		default:
			s.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	data, err := ed.GetData()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.logger.Info("command executed", "command", name, "request_id", middleware.GetReqID(r.Context()))
	s.writeJSON(w, http.StatusOK, CommandResponse{
		Data:      data,
		Selection: ed.Document().Selection().Path(),
		Commands:  ed.Commands().States(),
	})
}

// -- Helpers --

func (s *Server) editor(w http.ResponseWriter) (*editor.Editor, bool) {
	ed, err := s.newEditor()
	if err != nil {
		s.logger.Error("failed to create editor", "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return ed, true
}

// load creates an editor holding markup with the caret at path. An empty path keeps
// the caret where SetData put it.
func (s *Server) load(w http.ResponseWriter, markup string, path []int) (*editor.Editor, bool) {
	ed, ok := s.editor(w)
	if !ok {
		return nil, false
	}
	if _, err := ed.SetData(markup); err != nil {
		ed.Destroy()
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return nil, false
	}
	if len(path) > 0 {
		if err := ed.SetSelection(path...); err != nil {
			ed.Destroy()
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid selection: %w", err))
			return nil, false
		}
	}
	return ed, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

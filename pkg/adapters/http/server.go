package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/questline"
	"github.com/aretw0/questline/internal/presentation/graph"
	"github.com/aretw0/questline/pkg/domain"
	"github.com/aretw0/questline/pkg/ports"
)

// Engine defines the traversal surface served over HTTP.
type Engine interface {
	ports.Driver
	NextState() (domain.State, error)
	Validate() error
	Watch(ctx context.Context) (<-chan string, error)
}

// Server exposes one traversal over HTTP.
// Every request touching the engine holds mu, so the server is the engine's single owner.
type Server struct {
	Engine  Engine
	Streams *StreamManager

	mu      sync.Mutex
	metrics http.Handler
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Server.
type Option func(*Server)

// WithMetrics mounts h (usually promhttp) on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets a custom structured logger for the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine:  engine,
		Streams: NewStreamManager(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/state", s.GetState)
	r.Post("/step", s.Step)
	r.Post("/advance", s.Advance)
	r.Get("/choice", s.GetChoice)
	r.Post("/choices/{choice}", s.Choose)
	r.Get("/graph", s.GetGraph)
	r.Post("/validate", s.Validate)
	r.Get("/events", s.SubscribeEvents)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StateView is the JSON form of a state.
type StateView struct {
	UID         string      `json:"uid"`
	Kind        domain.Kind `json:"kind"`
	Tag         string      `json:"tag,omitempty"`
	Description string      `json:"description,omitempty"`
}

func viewOf(s domain.State) *StateView {
	if s == nil {
		return nil
	}
	n := s.Details()
	return &StateView{UID: s.UID(), Kind: s.Kind(), Tag: n.Tag, Description: n.Description}
}

// StatusResponse describes the traversal position.
type StatusResponse struct {
	Pointer   domain.Pointer `json:"pointer"`
	Current   *StateView     `json:"current,omitempty"`
	Next      *StateView     `json:"next,omitempty"`
	Processed bool           `json:"processed"`
	CanStep   bool           `json:"can_step"`
	Steps     *int           `json:"steps,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// ChoiceResponse describes the nearest Choice ahead of the pointer.
type ChoiceResponse struct {
	Choice   *StateView          `json:"choice"`
	Options  []domain.Option     `json:"options"`
	Paths    []domain.ChoicePath `json:"paths"`
	Resolved bool                `json:"resolved"`
}

// ChooseRequest is the body of POST /choices/{choice}.
type ChooseRequest struct {
	Option string `json:"option"`
}

// status must be called with mu held.
func (s *Server) status() (StatusResponse, error) {
	var resp StatusResponse
	var err error

	if f, ok := s.Engine.Facts().Lookup(domain.PointerUID); ok {
		resp.Pointer, _ = f.(domain.Pointer)
	}
	current, err := s.Engine.CurrentState()
	if err != nil {
		return resp, err
	}
	resp.Current = viewOf(current)
	if resp.Processed, err = s.Engine.IsProcessed(); err != nil {
		return resp, err
	}
	if resp.CanStep, err = s.Engine.CanDoStep(); err != nil {
		return resp, err
	}
	next, err := s.Engine.NextState()
	if err != nil {
		return resp, err
	}
	resp.Next = viewOf(next)
	return resp, nil
}

// GetState handles the GET /state request.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.status()
	if err != nil {
		s.fail(w, "GetState", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Step handles the POST /step request.
func (s *Server) Step(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Engine.Step(); err != nil {
		s.fail(w, "Step", err)
		return
	}
	s.respondMoved(w, nil, nil)
}

// Advance handles the POST /advance request. It steps while possible; a blocking
// error is reported together with the steps already taken.
func (s *Server) Advance(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	steps, err := s.Engine.StepUntilCan()
	if err != nil && statusFor(err) != http.StatusConflict {
		s.fail(w, "Advance", err)
		return
	}
	s.respondMoved(w, &steps, err)
}

func (s *Server) respondMoved(w http.ResponseWriter, steps *int, stepErr error) {
	resp, err := s.status()
	if err != nil {
		s.fail(w, "Status", err)
		return
	}
	resp.Steps = steps

	code := http.StatusOK
	if stepErr != nil {
		resp.Error = stepErr.Error()
		code = http.StatusConflict
	}

	if payload, err := json.Marshal(resp.Pointer); err == nil {
		s.Streams.Broadcast(string(payload))
	}
	writeJSON(w, code, resp)
}

// GetChoice handles the GET /choice request. It answers 204 when no Choice lies ahead.
func (s *Server) GetChoice(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	point, err := s.Engine.NearestChoice()
	if err != nil {
		s.fail(w, "GetChoice", err)
		return
	}
	if point == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, ChoiceResponse{
		Choice:   viewOf(point.Choice),
		Options:  point.Options,
		Paths:    point.Paths,
		Resolved: point.Resolved(),
	})
}

// Choose handles the POST /choices/{choice} request.
func (s *Server) Choose(w http.ResponseWriter, r *http.Request) {
	var body ChooseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Option == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Choose: Invalid request body", "error", err)
		return
	}
	choice := chi.URLParam(r, "choice")

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Engine.Choose(choice, body.Option); err != nil {
		s.fail(w, "Choose", err)
		return
	}
	s.logger.Info("choice recorded", "choice", choice, "option", body.Option)
	s.respondMoved(w, nil, nil)
}

// GetGraph handles the GET /graph request and answers a Mermaid flowchart with the pointer overlay.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var overlay *graph.GraphOverlay
	if f, ok := s.Engine.Facts().Lookup(domain.PointerUID); ok {
		if p, ok := f.(domain.Pointer); ok {
			overlay = graph.OverlayFor(p)
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(s.Engine.Facts(), overlay))
}

// Validate handles the POST /validate request.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Engine.Validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"valid": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "questline-http",
		"version": strings.TrimSpace(questline.Version),
	})
}

// fail maps engine errors onto status codes. Traversal that cannot proceed is a conflict.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Warn(op+" rejected", "error", err)
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoJumpsAvailable),
		errors.Is(err, domain.ErrMoreThanOneJumpsAvailable),
		errors.Is(err, domain.ErrNoJumpsFromLastState),
		errors.Is(err, domain.ErrStepLimit),
		errors.Is(err, questline.ErrAlreadyChosen):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoFact):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrWrongFactType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

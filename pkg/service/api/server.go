package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/promptly-dev/promptly/pkg/model"
	"github.com/promptly-dev/promptly/pkg/utils/logging"
)

// GeneratePipeline is the pipeline entry point used by the generate
// handler. Defined here so handlers are testable with fakes.
type GeneratePipeline interface {
	Run(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error)
}

// HistoryReader lists a user's recent generations and loads archived
// transcripts
type HistoryReader interface {
	List(ctx context.Context, userID string, limit int) ([]*model.HistoryEntry, error)
	Transcript(ctx context.Context, userID string, id model.HistoryID) (*model.HistoryEntry, error)
}

// AgentControl starts the agent on a channel and accepts inbound events
type AgentControl interface {
	Start(ctx context.Context, channelType, channelID string) error
	Deliver(ctx context.Context, ev model.ChatEvent)
}

// Server is the HTTP surface over the generation pipeline, history store
// and agent relay
type Server struct {
	pipeline GeneratePipeline
	history  HistoryReader
	agent    AgentControl // nil when the chat transport is not configured

	router *mux.Router
}

// New creates the API server. Pass a nil agent to run without the relay;
// its endpoints then answer 503.
func New(pipeline GeneratePipeline, history HistoryReader, agent AgentControl) *Server {
	s := &Server{
		pipeline: pipeline,
		history:  history,
		agent:    agent,
		router:   mux.NewRouter(),
	}

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/api/generate", s.handleGenerate).Methods("POST")
	s.router.HandleFunc("/api/history/{userId}", s.handleHistory).Methods("GET")
	s.router.HandleFunc("/api/history/{userId}/{entryId}", s.handleTranscript).Methods("GET")
	s.router.HandleFunc("/api/agent/start", s.handleAgentStart).Methods("POST")
	s.router.HandleFunc("/api/agent/message", s.handleAgentMessage).Methods("POST")

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		logging.From(r.Context()).Warn(message, "error", err, "path", r.URL.Path)
	}
	respondJSON(w, status, map[string]string{"error": message})
}

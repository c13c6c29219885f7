package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/promptly-dev/promptly/pkg/model"
)

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid json", err)
		return
	}

	result, err := s.pipeline.Run(r.Context(), req)
	switch {
	case errors.Is(err, model.ErrInvalidRequest):
		respondError(w, r, http.StatusBadRequest, "prompt is required", nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, "generation failed", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		respondError(w, r, http.StatusBadRequest, "userId is required", nil)
		return
	}

	limit := model.MaxHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid limit", err)
			return
		}
		limit = parsed
	}

	entries, err := s.history.List(r.Context(), userID, limit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to list history", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["userId"]
	entryID := model.HistoryID(vars["entryId"])

	entry, err := s.history.Transcript(r.Context(), userID, entryID)
	switch {
	case errors.Is(err, model.ErrInvalidRequest):
		respondError(w, r, http.StatusBadRequest, "userId and entryId are required", nil)
		return
	case errors.Is(err, model.ErrTranscriptNotFound):
		respondError(w, r, http.StatusNotFound, "transcript not found", err)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, "failed to load transcript", err)
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

type agentStartRequest struct {
	ChannelType string `json:"channelType"`
	ChannelID   string `json:"channelId"`
}

func (s *Server) handleAgentStart(w http.ResponseWriter, r *http.Request) {
	if s.agent == nil {
		respondError(w, r, http.StatusServiceUnavailable, "agent is not configured", nil)
		return
	}

	var req agentStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid json", err)
		return
	}

	err := s.agent.Start(r.Context(), req.ChannelType, req.ChannelID)
	switch {
	case errors.Is(err, model.ErrInvalidRequest):
		respondError(w, r, http.StatusBadRequest, "channelId is required", nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, "failed to start agent", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "agent started"})
}

type agentMessageRequest struct {
	ChannelType string `json:"channelType"`
	ChannelID   string `json:"channelId"`
	Text        string `json:"text"`
	UserID      string `json:"userId"`
}

func (s *Server) handleAgentMessage(w http.ResponseWriter, r *http.Request) {
	if s.agent == nil {
		respondError(w, r, http.StatusServiceUnavailable, "agent is not configured", nil)
		return
	}

	var req agentMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid json", err)
		return
	}
	if req.ChannelID == "" {
		respondError(w, r, http.StatusBadRequest, "channelId is required", nil)
		return
	}

	s.agent.Deliver(r.Context(), model.ChatEvent{
		Type:        model.EventMessageNew,
		ChannelType: req.ChannelType,
		ChannelID:   req.ChannelID,
		Text:        req.Text,
		AuthorID:    req.UserID,
	})

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "processing"})
}

package service

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/zhifalaw/counsel/composer"
	"github.com/zhifalaw/counsel/index"
)

type chatRequest struct {
	Message        string `json:"message"`
	ConversationId string `json:"conversation_id,omitempty"`
}

type chatResponse struct {
	composer.Response
	ConversationId string `json:"conversation_id,omitempty"`
}

func (s *Service) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "legal consultation API",
		"status":  "running",
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}

func (s *Service) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(strings.TrimSpace(req.Message)) == 0 {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	rsp, err := s.composer.Answer(r.Context(), req.Message)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to compose answer", "error", err)
		writeError(w, http.StatusBadGateway, "failed to compose answer")
		return
	}

	conversationId := req.ConversationId
	if s.conversations != nil {
		conversationId = s.conversations.Append(conversationId, "user", req.Message)
		s.conversations.Append(conversationId, "assistant", rsp.Answer)
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:       rsp,
		ConversationId: conversationId,
	})
}

func (s *Service) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if len(strings.TrimSpace(query)) == 0 {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	topK := 5
	if raw := r.URL.Query().Get("top_k"); len(raw) > 0 {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "top_k must be a positive integer")
			return
		}
		topK = parsed
	}

	hits, err := s.index.Search(r.Context(), query, topK)
	if err != nil {
		slog.ErrorContext(r.Context(), "search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if hits == nil {
		hits = []index.Hit{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"results": hits,
		"count":   len(hits),
	})
}

func (s *Service) handleConversation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	limit := 0
	if raw := r.URL.Query().Get("limit"); len(raw) > 0 {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"conversation_id": id,
		"exchanges":       s.conversations.List(id, limit),
	})
}

func (s *Service) handleCollectionInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.index.Info(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"collection_name": s.index.Collection(),
			"status":          "error",
			"error":           err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"collection_name": s.index.Collection(),
		"points_count":    info.Points,
		"mode":            s.index.Mode(),
		"status":          "ok",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]any{"detail": detail})
}

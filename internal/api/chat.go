package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/datachat/datachat/internal/pipeline"
)

type chatTurn struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

type chatMention struct {
	Type string `json:"type"`
	Name string `json:"name"`
	ID   string `json:"id"`
}

type chatRequest struct {
	Message        string        `json:"message"`
	Query          string        `json:"query"`
	History        []chatTurn    `json:"history"`
	ConversationID string        `json:"conversationId"`
	Mentions       []chatMention `json:"mentions"`
}

type chatResponse struct {
	Content        string `json:"content"`
	Type           string `json:"type"`
	FunctionUsed   string `json:"functionUsed,omitempty"`
	ConversationID string `json:"conversationId"`
}

func handleChat(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			writeError(r.Context(), w, http.StatusInternalServerError, "INTERNAL", "internal error", true, nil)
		}
	}()

	writeCORSHeaders(w)

	if deps.Pipeline == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "CHAT_NOT_CONFIGURED", "chat pipeline is not configured", false, nil)
		return
	}

	var request chatRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid chat request body", false, map[string]any{"details": err.Error()})
		return
	}

	// Older clients send "query", current ones send "message".
	query := strings.TrimSpace(request.Message)
	if query == "" {
		query = strings.TrimSpace(request.Query)
	}
	if query == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "MESSAGE_REQUIRED", "message is required", false, nil)
		return
	}

	conversationID := strings.TrimSpace(request.ConversationID)
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	history := make([]pipeline.ConversationTurn, 0, len(request.History))
	for _, turn := range request.History {
		history = append(history, pipeline.ConversationTurn{Sender: turn.Sender, Content: turn.Content})
	}
	mentions := make([]pipeline.EntityMention, 0, len(request.Mentions))
	for _, m := range request.Mentions {
		mentions = append(mentions, pipeline.EntityMention{Type: m.Type, Name: m.Name, ID: m.ID})
	}

	result := deps.Pipeline.Resolve(r.Context(), pipeline.Request{
		Query:    query,
		History:  history,
		Mentions: mentions,
	})

	status := http.StatusOK
	if result.Kind == pipeline.KindError {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, chatResponse{
		Content:        result.Content,
		Type:           responseType(result.Kind),
		FunctionUsed:   result.OperationUsed,
		ConversationID: conversationID,
	})
}

// responseType collapses the internal pipeline kinds into the wire vocabulary:
// clients only distinguish chat, data, and failure.
func responseType(kind pipeline.Kind) string {
	switch kind {
	case pipeline.KindConversational:
		return "conversational"
	case pipeline.KindOperation, pipeline.KindAdHoc:
		return "data"
	default:
		return "error"
	}
}

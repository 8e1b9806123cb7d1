package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	pkghttp "github.com/shabeb-irshed/portal/pkg/http"
)

// ChatServiceInterface defines the interface for the chatbot
type ChatServiceInterface interface {
	Reply(ctx context.Context, sourceAddress, message string) (string, error)
}

// ChatHandler handles POST /api/chat
type ChatHandler struct {
	service  ChatServiceInterface
	ipConfig *pkghttp.IPConfig
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(service ChatServiceInterface, ipConfig *pkghttp.IPConfig) *ChatHandler {
	return &ChatHandler{service: service, ipConfig: ipConfig}
}

// ChatRequest represents the request body for a chatbot message
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the generated reply
type ChatResponse struct {
	Response string `json:"response"`
}

// Chat handles POST /api/chat
// @Summary Ask the assistant
// @Accept json
// @Param request body ChatRequest true "Chat message"
// @Produce json
// @Success 200 {object} ChatResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/chat [post]
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest

	r.Body = http.MaxBytesReader(w, r.Body, 16<<10)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	reply, err := h.service.Reply(r.Context(), pkghttp.ExtractClientIP(r, h.ipConfig), req.Message)
	if err != nil {
		if writeCommonError(w, err) {
			return
		}
		pkghttp.WriteInternalError(w, "Failed to generate response")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, ChatResponse{Response: reply})
}

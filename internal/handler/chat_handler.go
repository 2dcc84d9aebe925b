package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nyaysetu/nyaysetu/internal/pkg/errcode"
	"github.com/nyaysetu/nyaysetu/internal/pkg/response"
	"github.com/nyaysetu/nyaysetu/internal/service"
)

type ChatHandler struct {
	chats *service.ChatService
}

func NewChatHandler(chats *service.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID  string   `json:"session_id"`
	Reply      string   `json:"reply"`
	Intent     string   `json:"intent"`
	Clarify    bool     `json:"clarify"`
	UsedChunks []string `json:"used_chunks,omitempty"`
	Transcript string   `json:"transcript,omitempty"`
	AudioURL   string   `json:"audio_url,omitempty"`
}

func (h *ChatHandler) Chat(c *gin.Context) {
	req := &chatRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request body")
		return
	}
	if req.Message == "" {
		response.Error(c, errcode.ErrEmptyMessage, "message is required")
		return
	}
	result, err := h.chats.Chat(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, toChatResponse(result))
}

func toChatResponse(result *service.ChatResult) *chatResponse {
	return &chatResponse{
		SessionID:  result.SessionID,
		Reply:      result.Reply,
		Intent:     result.Intent,
		Clarify:    result.Clarify,
		UsedChunks: result.UsedChunks,
		Transcript: result.Transcript,
		AudioURL:   result.AudioURL,
	}
}

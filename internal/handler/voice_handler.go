package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nyaysetu/nyaysetu/internal/pkg/errcode"
	"github.com/nyaysetu/nyaysetu/internal/pkg/response"
	"github.com/nyaysetu/nyaysetu/internal/service"
)

const maxAudioUploadBytes = 20 << 20

type VoiceHandler struct {
	chats *service.ChatService
}

func NewVoiceHandler(chats *service.ChatService) *VoiceHandler {
	return &VoiceHandler{chats: chats}
}

// Chat accepts a multipart "audio" upload and runs the full voice
// turn. Returns 503 while no speech-to-text backend is configured.
func (h *VoiceHandler) Chat(c *gin.Context) {
	if !h.chats.VoiceAvailable() {
		response.ErrorWithStatus(c, http.StatusServiceUnavailable, errcode.ErrVoiceInputUnavailable, "voice input unavailable")
		return
	}
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		response.Error(c, errcode.ErrInvalid, "audio file is required")
		return
	}
	if fileHeader.Size <= 0 || fileHeader.Size > maxAudioUploadBytes {
		response.Error(c, errcode.ErrUploadFailed, "audio file size out of range")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, errcode.ErrUploadFailed, "open audio upload failed")
		return
	}
	defer file.Close()

	sessionID := c.PostForm("session_id")
	result, err := h.chats.VoiceChat(c.Request.Context(), sessionID, fileHeader.Filename, file)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, toChatResponse(result))
}

// GetAudio streams a previously synthesized mp3 reply.
func (h *VoiceHandler) GetAudio(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" || filepath.Ext(key) != ".mp3" {
		response.Error(c, errcode.ErrInvalid, "invalid audio key")
		return
	}
	f, err := h.chats.OpenAudio(c.Request.Context(), key)
	if err != nil {
		handleError(c, err)
		return
	}
	defer f.Close()
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		handleError(c, err)
		return
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		handleError(c, err)
		return
	}
	c.DataFromReader(http.StatusOK, size, "audio/mpeg", f, map[string]string{
		"Cache-Control": "public, max-age=86400",
	})
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nyaysetu/nyaysetu/internal/pkg/response"
	"github.com/nyaysetu/nyaysetu/internal/service"
	"github.com/nyaysetu/nyaysetu/internal/vectorstore"
)

type HealthHandler struct {
	store      vectorstore.Store
	collection string
	chats      *service.ChatService
}

func NewHealthHandler(store vectorstore.Store, collection string, chats *service.ChatService) *HealthHandler {
	return &HealthHandler{store: store, collection: collection, chats: chats}
}

type healthResponse struct {
	Status      string `json:"status"`
	Collection  string `json:"collection"`
	Chunks      int64  `json:"chunks"`
	Dimension   int    `json:"dimension"`
	VoiceInput  bool   `json:"voice_input_available"`
	VoiceOutput bool   `json:"voice_output_available"`
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	chunks, err := h.store.Count(ctx, h.collection)
	if err != nil {
		handleError(c, err)
		return
	}
	dim, err := h.store.Dimension(ctx, h.collection)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, &healthResponse{
		Status:      "ok",
		Collection:  h.collection,
		Chunks:      chunks,
		Dimension:   dim,
		VoiceInput:  h.chats.VoiceAvailable(),
		VoiceOutput: h.chats.VoiceOutputAvailable(),
	})
}

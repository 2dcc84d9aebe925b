package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/nyaysetu/nyaysetu/internal/model"
	"github.com/nyaysetu/nyaysetu/internal/service"
)

type stubAnswerer struct {
	reply string
}

func (s *stubAnswerer) AnswerQuery(ctx context.Context, queryText string) model.Answer {
	return model.Answer{Reply: s.reply, Intent: model.IntentLegalConcept}
}

type stubTranscriber struct {
	available bool
	text      string
}

func (s *stubTranscriber) Available() bool {
	return s.available
}

func (s *stubTranscriber) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	return s.text, nil
}

func newTestRouter(t *testing.T, chats *service.ChatService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := engine.Group("/api/v1")
	RegisterRoutes(api, RouterDeps{
		Chat:   NewChatHandler(chats),
		Voice:  NewVoiceHandler(chats),
		Health: NewHealthHandler(nil, "legal_knowledge", chats),
	})
	return engine
}

func TestChatEndpoint(t *testing.T) {
	chats := service.NewChatService(&stubAnswerer{reply: "bail explained"}, nil, nil, nil, "http://localhost")
	engine := newTestRouter(t, chats)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message": "what is bail?"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "bail explained")
	require.Contains(t, rec.Body.String(), "session_id")
}

func TestChatEndpointRejectsEmptyMessage(t *testing.T) {
	chats := service.NewChatService(&stubAnswerer{reply: "unused"}, nil, nil, nil, "http://localhost")
	engine := newTestRouter(t, chats)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message": ""}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	require.NotContains(t, rec.Body.String(), "unused")
	require.Contains(t, rec.Body.String(), "message is required")
}

func TestVoiceEndpointUnavailableWithoutSTT(t *testing.T) {
	chats := service.NewChatService(&stubAnswerer{reply: "unused"}, &stubTranscriber{available: false}, nil, nil, "http://localhost")
	engine := newTestRouter(t, chats)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("audio", "q.wav")
	require.NoError(t, err)
	_, err = part.Write([]byte("audio-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/voice", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestVoiceEndpointAnswersTranscribedQuestion(t *testing.T) {
	chats := service.NewChatService(
		&stubAnswerer{reply: "bail explained"},
		&stubTranscriber{available: true, text: "what is bail"},
		nil, nil, "http://localhost",
	)
	engine := newTestRouter(t, chats)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("audio", "q.wav")
	require.NoError(t, err)
	_, err = part.Write([]byte("audio-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/voice", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "bail explained")
	require.Contains(t, rec.Body.String(), "what is bail")
}

package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/nyaysetu/nyaysetu/internal/config"
	appErr "github.com/nyaysetu/nyaysetu/internal/pkg/errors"
)

// Transcriber converts uploaded speech audio to text. When the STT
// backend is not configured Available reports false and Transcribe
// always fails with ErrTranscription; callers gate on Available and
// never guess.
type Transcriber struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

func NewTranscriber(cfg config.VoiceConfig) *Transcriber {
	return &Transcriber{
		endpoint: strings.TrimSuffix(cfg.STTEndpoint, "/"),
		apiKey:   cfg.STTAPIKey,
		model:    cfg.STTModel,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (t *Transcriber) Available() bool {
	return t.endpoint != "" && t.model != ""
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

func (t *Transcriber) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if !t.Available() {
		return "", fmt.Errorf("%w: stt not configured", appErr.ErrTranscription)
	}
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", appErr.ErrTranscription, err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("%w: %v", appErr.ErrTranscription, err)
	}
	if err := writer.WriteField("model", t.model); err != nil {
		return "", fmt.Errorf("%w: %v", appErr.ErrTranscription, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", appErr.ErrTranscription, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint+"/v1/audio/transcriptions", body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", appErr.ErrTranscription, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}
	rsp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", appErr.ErrTranscription, err)
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(rsp.Body, 4096))
		return "", fmt.Errorf("%w: stt status %d: %s", appErr.ErrTranscription, rsp.StatusCode, strings.TrimSpace(string(data)))
	}
	result := &transcriptionResponse{}
	if err := json.NewDecoder(rsp.Body).Decode(result); err != nil {
		return "", fmt.Errorf("%w: decode stt response: %v", appErr.ErrTranscription, err)
	}
	return strings.TrimSpace(result.Text), nil
}

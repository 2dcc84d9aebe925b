package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nyaysetu/nyaysetu/internal/config"
)

// Speaker renders reply text to spoken audio (mp3). Like the
// transcriber it is a capability: Available reports whether the TTS
// backend is configured.
type Speaker struct {
	endpoint string
	apiKey   string
	model    string
	voice    string
	client   *http.Client
}

func NewSpeaker(cfg config.VoiceConfig) *Speaker {
	voice := cfg.TTSVoice
	if voice == "" {
		voice = "alloy"
	}
	return &Speaker{
		endpoint: strings.TrimSuffix(cfg.TTSEndpoint, "/"),
		apiKey:   cfg.TTSAPIKey,
		model:    cfg.TTSModel,
		voice:    voice,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *Speaker) Available() bool {
	return s.endpoint != "" && s.model != ""
}

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

// Speak converts text to mp3 audio. Markdown markup is stripped first
// so headings and emphasis never reach the speech engine as symbols.
func (s *Speaker) Speak(ctx context.Context, text string) ([]byte, error) {
	if !s.Available() {
		return nil, fmt.Errorf("tts not configured")
	}
	payload := speechRequest{
		Model:          s.model,
		Input:          StripMarkdown(text),
		Voice:          s.voice,
		ResponseFormat: "mp3",
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode tts request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/v1/audio/speech", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	rsp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(rsp.Body, 4096))
		return nil, fmt.Errorf("tts status %d: %s", rsp.StatusCode, strings.TrimSpace(string(msg)))
	}
	audio, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts response: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("tts returned empty audio")
	}
	return audio, nil
}

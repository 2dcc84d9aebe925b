package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/nyaysetu/nyaysetu/internal/filestore"
	"github.com/nyaysetu/nyaysetu/internal/model"
	appErr "github.com/nyaysetu/nyaysetu/internal/pkg/errors"
)

// VoiceFailureReply is the fixed reply used when speech input could
// not be understood. The pipeline is never invoked in that case.
const VoiceFailureReply = "Unable to process input."

type IAnswerer interface {
	AnswerQuery(ctx context.Context, queryText string) model.Answer
}

type ITranscriber interface {
	Available() bool
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

type ISpeaker interface {
	Available() bool
	Speak(ctx context.Context, text string) ([]byte, error)
}

type ChatResult struct {
	SessionID  string
	Reply      string
	Intent     string
	Clarify    bool
	UsedChunks []string
	Transcript string
	AudioKey   string
	AudioURL   string
}

type ChatService struct {
	answerer    IAnswerer
	transcriber ITranscriber
	speaker     ISpeaker
	files       filestore.Store
	baseURL     string
	cache       *expirable.LRU[string, model.Answer]
}

func NewChatService(answerer IAnswerer, transcriber ITranscriber, speaker ISpeaker, files filestore.Store, baseURL string) *ChatService {
	cache := expirable.NewLRU[string, model.Answer](4096, nil, 2*time.Hour)
	return &ChatService{
		answerer:    answerer,
		transcriber: transcriber,
		speaker:     speaker,
		files:       files,
		baseURL:     baseURL,
		cache:       cache,
	}
}

// Chat answers one text message. sessionID is an opaque client token;
// a fresh one is issued when the client sent none. Answers are cached
// by normalized query so repeated questions skip embedding entirely.
func (s *ChatService) Chat(ctx context.Context, sessionID, message string) (*ChatResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", appErr.ErrInvalid)
	}
	if sessionID == "" {
		sessionID = newID()
	}
	logger := logutil.GetLogger(ctx).With(zap.String("session_id", sessionID))

	key := answerCacheKey(message)
	answer, ok := s.cache.Get(key)
	if ok {
		logger.Debug("answer cache hit")
	} else {
		answer = s.answerer.AnswerQuery(ctx, message)
		// Failure replies stay out of the cache so a transient backend
		// outage does not pin the apology for the whole TTL.
		if !answer.Failed {
			s.cache.Add(key, answer)
		}
	}
	logger.Info("chat answered",
		zap.String("intent", answer.Intent.String()),
		zap.Bool("clarify", answer.Clarify),
		zap.Int("used_chunks", len(answer.UsedChunks)),
	)
	return &ChatResult{
		SessionID:  sessionID,
		Reply:      answer.Reply,
		Intent:     answer.Intent.String(),
		Clarify:    answer.Clarify,
		UsedChunks: answer.UsedChunks,
	}, nil
}

func (s *ChatService) VoiceAvailable() bool {
	return s.transcriber != nil && s.transcriber.Available()
}

func (s *ChatService) VoiceOutputAvailable() bool {
	return s.speaker != nil && s.speaker.Available() && s.files != nil
}

// VoiceChat transcribes uploaded audio, answers it as a normal chat
// turn, and when a speech backend is configured renders the reply to
// mp3 as well. An empty or failed transcription yields the fixed
// voice failure reply without touching the pipeline.
func (s *ChatService) VoiceChat(ctx context.Context, sessionID, filename string, audio io.Reader) (*ChatResult, error) {
	if !s.VoiceAvailable() {
		return nil, fmt.Errorf("%w: voice input unavailable", appErr.ErrTranscription)
	}
	if sessionID == "" {
		sessionID = newID()
	}
	logger := logutil.GetLogger(ctx).With(zap.String("session_id", sessionID))

	transcript, err := s.transcriber.Transcribe(ctx, filename, audio)
	if err != nil {
		logger.Error("transcription failed", zap.Error(err))
		return &ChatResult{SessionID: sessionID, Reply: VoiceFailureReply}, nil
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		logger.Info("empty transcription")
		return &ChatResult{SessionID: sessionID, Reply: VoiceFailureReply}, nil
	}

	result, err := s.Chat(ctx, sessionID, transcript)
	if err != nil {
		return nil, err
	}
	result.Transcript = transcript

	if s.VoiceOutputAvailable() {
		if key, url, err := s.renderSpeech(ctx, result.Reply); err != nil {
			logger.Warn("tts failed, returning text only", zap.Error(err))
		} else {
			result.AudioKey = key
			result.AudioURL = url
		}
	}
	return result, nil
}

func (s *ChatService) OpenAudio(ctx context.Context, key string) (filestore.ReadSeekCloser, error) {
	f, err := s.files.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: audio %s", appErr.ErrNotFound, key)
	}
	return f, nil
}

func (s *ChatService) renderSpeech(ctx context.Context, reply string) (string, string, error) {
	audio, err := s.speaker.Speak(ctx, reply)
	if err != nil {
		return "", "", err
	}
	key := newID() + ".mp3"
	reader := readSeekCloser{bytes.NewReader(audio)}
	if err := s.files.Save(ctx, key, reader, int64(len(audio))); err != nil {
		return "", "", err
	}
	return key, s.files.URL(key, s.baseURL), nil
}

func answerCacheKey(message string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(message), " "))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

type readSeekCloser struct {
	*bytes.Reader
}

func (readSeekCloser) Close() error {
	return nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port      int              `json:"port"`
	DBDsn     string           `json:"db_dsn"`
	BaseURL   string           `json:"base_url"`
	LogConfig logger.LogConfig `json:"log_config"`
	AI        AIConfig         `json:"ai"`
	Corpus    CorpusConfig     `json:"corpus"`
	Retrieval RetrievalConfig  `json:"retrieval"`
	Voice     VoiceConfig      `json:"voice"`
	FileStore FileStoreConfig  `json:"file_store"`
	CORS      []string         `json:"cors_origins"`
	Jobs      JobsConfig       `json:"jobs"`
}

type AIConfig struct {
	Provider      string      `json:"provider"`
	Model         string      `json:"model"`
	EmbedModel    string      `json:"embed_model"`
	EnablePolish  bool        `json:"enable_polish"`
	Timeout       int         `json:"timeout"`
	MaxInputChars int         `json:"max_input_chars"`
	Data          interface{} `json:"data"`
}

type CorpusConfig struct {
	// Sources maps a corpus name (ipc, crpc, glossary, amendments) to
	// the normalized JSON file holding its documents.
	Sources      map[string]string `json:"sources"`
	ChunkRunes   int               `json:"chunk_runes"`
	OverlapRunes int               `json:"overlap_runes"`
	EmbedBatch   int               `json:"embed_batch"`
	Collection   string            `json:"collection"`
}

type RetrievalConfig struct {
	TopK int `json:"top_k"`
}

type VoiceConfig struct {
	STTEndpoint string `json:"stt_endpoint"`
	STTAPIKey   string `json:"stt_api_key"`
	STTModel    string `json:"stt_model"`
	TTSEndpoint string `json:"tts_endpoint"`
	TTSAPIKey   string `json:"tts_api_key"`
	TTSModel    string `json:"tts_model"`
	TTSVoice    string `json:"tts_voice"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type JobsConfig struct {
	AudioCleanupSpec    string `json:"audio_cleanup_spec"`
	AudioKeepHours      int    `json:"audio_keep_hours"`
	EmbedCacheCleanSpec string `json:"embed_cache_clean_spec"`
	EmbedCacheKeepDays  int    `json:"embed_cache_keep_days"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.DBDsn == "" {
		return nil, fmt.Errorf("db_dsn is required")
	}
	if cfg.AI.Provider == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	if cfg.AI.EmbedModel == "" {
		return nil, fmt.Errorf("ai.embed_model is required")
	}
	if len(cfg.Corpus.Sources) == 0 {
		return nil, fmt.Errorf("corpus.sources is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Corpus.Collection == "" {
		cfg.Corpus.Collection = "legal_knowledge"
	}
	if cfg.Corpus.ChunkRunes <= 0 {
		cfg.Corpus.ChunkRunes = 800
	}
	if cfg.Corpus.OverlapRunes <= 0 {
		cfg.Corpus.OverlapRunes = 80
	}
	if cfg.Corpus.EmbedBatch <= 0 {
		cfg.Corpus.EmbedBatch = 32
	}
	if cfg.Retrieval.TopK <= 0 {
		cfg.Retrieval.TopK = 3
	}
	if cfg.AI.Timeout <= 0 {
		cfg.AI.Timeout = 60
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
	}
	if cfg.Jobs.AudioKeepHours <= 0 {
		cfg.Jobs.AudioKeepHours = 24
	}
	if cfg.Jobs.EmbedCacheKeepDays <= 0 {
		cfg.Jobs.EmbedCacheKeepDays = 30
	}
	return &cfg, nil
}

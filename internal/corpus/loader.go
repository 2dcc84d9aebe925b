package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/nyaysetu/nyaysetu/internal/model"
	appErr "github.com/nyaysetu/nyaysetu/internal/pkg/errors"
)

// sourceDocument mirrors one entry of a normalized corpus file
// (normalized_ipc.json and friends): an array of these per file.
type sourceDocument struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Metadata struct {
		Section  string `json:"section"`
		Category string `json:"category"`
	} `json:"metadata"`
}

// LoadResult carries the documents of one source plus the count of
// entries that were skipped as malformed.
type LoadResult struct {
	Documents []model.Document
	Skipped   int
}

// LoadSource reads one corpus source file. A document without text is
// an ingestion error: it is skipped and counted, never fatal to the
// batch. An unreadable or non-JSON file is fatal for that source.
func LoadSource(ctx context.Context, source, path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus source %s: %w", source, err)
	}
	var raw []sourceDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse corpus source %s: %w", source, err)
	}

	logger := logutil.GetLogger(ctx).With(zap.String("source", source))
	res := &LoadResult{Documents: make([]model.Document, 0, len(raw))}
	for idx, entry := range raw {
		doc, err := toDocument(source, idx, entry)
		if err != nil {
			res.Skipped++
			logger.Warn("skipping malformed document", zap.Int("index", idx), zap.Error(err))
			continue
		}
		res.Documents = append(res.Documents, doc)
	}
	return res, nil
}

// LoadAll loads every configured source in deterministic (sorted
// source name) order, so downstream chunk ordering is stable too.
func LoadAll(ctx context.Context, sources map[string]string) ([]model.Document, int, error) {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	var docs []model.Document
	skipped := 0
	for _, name := range names {
		res, err := LoadSource(ctx, name, sources[name])
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, res.Documents...)
		skipped += res.Skipped
	}
	return docs, skipped, nil
}

func toDocument(source string, idx int, entry sourceDocument) (model.Document, error) {
	text := strings.TrimSpace(entry.Text)
	if text == "" {
		return model.Document{}, fmt.Errorf("%w: empty text field", appErr.ErrIngestion)
	}
	id := strings.TrimSpace(entry.ID)
	if id == "" {
		// Positional fallback keeps IDs stable for sources that ship
		// without explicit identifiers.
		id = fmt.Sprintf("%s-%04d", source, idx)
	}
	return model.Document{
		ID:       id,
		Source:   source,
		Title:    strings.TrimSpace(entry.Title),
		Text:     text,
		Section:  strings.TrimSpace(entry.Metadata.Section),
		Category: strings.TrimSpace(entry.Metadata.Category),
	}, nil
}

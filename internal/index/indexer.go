package index

import (
	"context"
	"fmt"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/nyaysetu/nyaysetu/internal/ai"
	"github.com/nyaysetu/nyaysetu/internal/config"
	"github.com/nyaysetu/nyaysetu/internal/corpus"
	"github.com/nyaysetu/nyaysetu/internal/model"
	"github.com/nyaysetu/nyaysetu/internal/vectorstore"
)

// BuildReport summarizes one corpus index build.
type BuildReport struct {
	DocsProcessed int           `json:"docs_processed"`
	DocsSkipped   int           `json:"docs_skipped"`
	ChunksWritten int           `json:"chunks_written"`
	Dimension     int           `json:"dimension"`
	Elapsed       time.Duration `json:"elapsed"`
}

type Builder struct {
	cfg      config.CorpusConfig
	embedder ai.IEmbedder
	store    vectorstore.Store
}

func NewBuilder(cfg config.CorpusConfig, embedder ai.IEmbedder, store vectorstore.Store) *Builder {
	return &Builder{cfg: cfg, embedder: embedder, store: store}
}

// Build loads every configured source, splits documents into
// deterministic chunks, embeds them and atomically replaces the
// collection. Malformed documents are skipped and counted; any other
// failure aborts the build without touching the served collection.
func (b *Builder) Build(ctx context.Context) (*BuildReport, error) {
	start := time.Now()
	logger := logutil.GetLogger(ctx).With(zap.String("collection", b.cfg.Collection))

	docs, skipped, err := corpus.LoadAll(ctx, b.cfg.Sources)
	if err != nil {
		return nil, err
	}

	var chunks []model.Chunk
	for _, doc := range docs {
		chunks = append(chunks, corpus.Split(doc, b.cfg.ChunkRunes, b.cfg.OverlapRunes)...)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("corpus produced no chunks")
	}
	logger.Info("corpus loaded",
		zap.Int("documents", len(docs)),
		zap.Int("skipped", skipped),
		zap.Int("chunks", len(chunks)),
	)

	dim, err := b.embedChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}

	if err := b.store.ReplaceCollection(ctx, b.cfg.Collection, dim, chunks); err != nil {
		return nil, err
	}

	report := &BuildReport{
		DocsProcessed: len(docs),
		DocsSkipped:   skipped,
		ChunksWritten: len(chunks),
		Dimension:     dim,
		Elapsed:       time.Since(start),
	}
	logger.Info("index build finished",
		zap.Int("docs", report.DocsProcessed),
		zap.Int("skipped", report.DocsSkipped),
		zap.Int("chunks", report.ChunksWritten),
		zap.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

// embedChunks fills in chunk embeddings in batches and returns the
// dimensionality. Every vector must share it: a drifting embedding
// model mid-build would poison the collection.
func (b *Builder) embedChunks(ctx context.Context, chunks []model.Chunk) (int, error) {
	dim := 0
	batch := b.cfg.EmbedBatch
	for start := 0; start < len(chunks); start += batch {
		end := start + batch
		if end > len(chunks) {
			end = len(chunks)
		}
		for i := start; i < end; i++ {
			text := chunks[i].Text
			if t := chunks[i].Title; t != "" {
				text = t + "\n" + text
			}
			vec, err := b.embedder.Embed(ctx, text, "RETRIEVAL_DOCUMENT")
			if err != nil {
				return 0, fmt.Errorf("embed chunk %s: %w", chunks[i].ID, err)
			}
			if len(vec) == 0 {
				return 0, fmt.Errorf("embed chunk %s: empty vector", chunks[i].ID)
			}
			if dim == 0 {
				dim = len(vec)
			}
			if len(vec) != dim {
				return 0, fmt.Errorf("embed chunk %s: dimension %d != %d", chunks[i].ID, len(vec), dim)
			}
			chunks[i].Embedding = vec
		}
		logutil.GetLogger(ctx).Debug("embedded chunk batch", zap.Int("done", end), zap.Int("total", len(chunks)))
	}
	return dim, nil
}

package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/nyaysetu/nyaysetu/internal/ai"
	"github.com/nyaysetu/nyaysetu/internal/model"
	appErr "github.com/nyaysetu/nyaysetu/internal/pkg/errors"
	"github.com/nyaysetu/nyaysetu/internal/vectorstore"
)

const DefaultTopK = 3

// preferredSources narrows the first search pass per intent. A narrow
// pass that comes back short falls through to the full collection.
var preferredSources = map[model.QueryIntent][]string{
	model.IntentStatuteLookup:     {"ipc", "crpc"},
	model.IntentLegalConcept:      {"glossary", "ipc"},
	model.IntentDocumentProcedure: {"crpc", "glossary"},
	model.IntentSafetyOrThreat:    {"crpc", "ipc"},
}

// corpusRank orders corpora for score tie-breaking: statute text
// before glossary before amendments.
func corpusRank(source string) int {
	switch strings.ToLower(source) {
	case "ipc", "crpc":
		return 0
	case "glossary":
		return 1
	case "amendments":
		return 2
	default:
		return 3
	}
}

type Retriever struct {
	embedder   ai.IEmbedder
	store      vectorstore.Store
	collection string
	topK       int
}

func NewRetriever(embedder ai.IEmbedder, store vectorstore.Store, collection string, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		embedder:   embedder,
		store:      store,
		collection: collection,
		topK:       topK,
	}
}

// VerifyCollection checks that the served collection exists and was
// built with the active embedding model's dimensionality. A mismatch
// is a configuration error and must prevent serving.
func (r *Retriever) VerifyCollection(ctx context.Context) error {
	probe, err := r.embedder.Embed(ctx, "startup probe", "RETRIEVAL_QUERY")
	if err != nil {
		return fmt.Errorf("%w: %v", appErr.ErrModelUnavailable, err)
	}
	if len(probe) == 0 {
		return fmt.Errorf("%w: empty probe embedding", appErr.ErrModelUnavailable)
	}
	dim, err := r.store.Dimension(ctx, r.collection)
	if err != nil {
		return fmt.Errorf("%w: %v", appErr.ErrModelUnavailable, err)
	}
	if dim != len(probe) {
		return fmt.Errorf("%w: collection dimension %d does not match embedding model dimension %d",
			appErr.ErrModelUnavailable, dim, len(probe))
	}
	return nil
}

// Retrieve returns at most k chunks ordered by descending similarity;
// ties break by corpus priority then chunk ID. An empty result is a
// valid outcome, never an error.
func (r *Retriever) Retrieve(ctx context.Context, queryText string, intent model.QueryIntent) ([]model.ScoredChunk, error) {
	q := strings.TrimSpace(queryText)
	if q == "" {
		return nil, nil
	}
	vec, err := r.embedder.Embed(ctx, q, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := r.store.Search(ctx, r.collection, vec, r.topK, preferredSources[intent])
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	if len(results) < r.topK && len(preferredSources[intent]) > 0 {
		logutil.GetLogger(ctx).Debug("narrowed search came up short, widening",
			zap.String("intent", intent.String()),
			zap.Int("narrow_hits", len(results)),
		)
		results, err = r.store.Search(ctx, r.collection, vec, r.topK, nil)
		if err != nil {
			return nil, fmt.Errorf("vector search: %w", err)
		}
	}

	out := make([]model.ScoredChunk, 0, len(results))
	for _, res := range results {
		out = append(out, model.ScoredChunk{Chunk: res.Chunk, Score: res.Score})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		ri, rj := corpusRank(out[i].Chunk.Source), corpusRank(out[j].Chunk.Source)
		if ri != rj {
			return ri < rj
		}
		return out[i].Chunk.ID < out[j].Chunk.ID
	})
	if len(out) > r.topK {
		out = out[:r.topK]
	}
	return out, nil
}

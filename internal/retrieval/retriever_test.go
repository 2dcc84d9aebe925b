package retrieval

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nyaysetu/nyaysetu/internal/model"
	appErr "github.com/nyaysetu/nyaysetu/internal/pkg/errors"
	"github.com/nyaysetu/nyaysetu/internal/vectorstore"
)

type fakeEmbedder struct {
	dim  int
	err  error
	name string
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return make([]float32, f.dim), nil
}

func (f *fakeEmbedder) ModelName() string {
	if f.name == "" {
		return "fake-embed"
	}
	return f.name
}

type fakeStore struct {
	dim      int
	dimErr   error
	narrowed []vectorstore.SearchResult
	widened  []vectorstore.SearchResult
	searches [][]string
}

func (f *fakeStore) ReplaceCollection(ctx context.Context, name string, dim int, chunks []model.Chunk) error {
	return nil
}

func (f *fakeStore) Search(ctx context.Context, name string, vec []float32, k int, sources []string) ([]vectorstore.SearchResult, error) {
	f.searches = append(f.searches, sources)
	if len(sources) > 0 {
		return f.narrowed, nil
	}
	return f.widened, nil
}

func (f *fakeStore) Dimension(ctx context.Context, name string) (int, error) {
	if f.dimErr != nil {
		return 0, f.dimErr
	}
	return f.dim, nil
}

func (f *fakeStore) Count(ctx context.Context, name string) (int64, error) {
	return int64(len(f.widened)), nil
}

func hit(id, source string, score float64) vectorstore.SearchResult {
	return vectorstore.SearchResult{
		Chunk: model.Chunk{ID: id, DocumentID: id, Source: source, Text: "text " + id},
		Score: score,
	}
}

func TestVerifyCollection(t *testing.T) {
	r := NewRetriever(&fakeEmbedder{dim: 8}, &fakeStore{dim: 8}, "legal_knowledge", 3)
	require.NoError(t, r.VerifyCollection(context.Background()))

	r = NewRetriever(&fakeEmbedder{dim: 8}, &fakeStore{dim: 16}, "legal_knowledge", 3)
	err := r.VerifyCollection(context.Background())
	require.Error(t, err)
	require.True(t, appErr.IsModelUnavailable(err))

	r = NewRetriever(&fakeEmbedder{err: fmt.Errorf("no api key")}, &fakeStore{dim: 8}, "legal_knowledge", 3)
	err = r.VerifyCollection(context.Background())
	require.Error(t, err)
	require.True(t, appErr.IsModelUnavailable(err))
}

func TestRetrieveOrdersByScoreThenCorpus(t *testing.T) {
	store := &fakeStore{
		narrowed: []vectorstore.SearchResult{
			hit("glossary-1#0", "glossary", 0.9),
			hit("ipc-420#0", "ipc", 0.9),
			hit("amend-1#0", "amendments", 0.95),
		},
	}
	r := NewRetriever(&fakeEmbedder{dim: 8}, store, "legal_knowledge", 3)
	out, err := r.Retrieve(context.Background(), "cheating punishment", model.IntentLegalConcept)
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Equal(t, "amend-1#0", out[0].Chunk.ID)
	// Equal scores: statute text outranks the glossary.
	require.Equal(t, "ipc-420#0", out[1].Chunk.ID)
	require.Equal(t, "glossary-1#0", out[2].Chunk.ID)
}

func TestRetrieveWidensWhenNarrowPassIsShort(t *testing.T) {
	store := &fakeStore{
		narrowed: []vectorstore.SearchResult{hit("ipc-1#0", "ipc", 0.8)},
		widened: []vectorstore.SearchResult{
			hit("ipc-1#0", "ipc", 0.8),
			hit("glossary-2#0", "glossary", 0.7),
			hit("amend-3#0", "amendments", 0.6),
		},
	}
	r := NewRetriever(&fakeEmbedder{dim: 8}, store, "legal_knowledge", 3)
	out, err := r.Retrieve(context.Background(), "what is bail", model.IntentLegalConcept)
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Len(t, store.searches, 2)
	require.Equal(t, []string{"glossary", "ipc"}, store.searches[0])
	require.Nil(t, store.searches[1])
}

func TestRetrieveTruncatesToTopK(t *testing.T) {
	store := &fakeStore{
		narrowed: []vectorstore.SearchResult{
			hit("a#0", "ipc", 0.9),
			hit("b#0", "ipc", 0.8),
			hit("c#0", "ipc", 0.7),
			hit("d#0", "ipc", 0.6),
		},
	}
	r := NewRetriever(&fakeEmbedder{dim: 8}, store, "legal_knowledge", 2)
	out, err := r.Retrieve(context.Background(), "section 420 of ipc", model.IntentStatuteLookup)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "a#0", out[0].Chunk.ID)
}

func TestRetrieveEmptyResultIsNotAnError(t *testing.T) {
	r := NewRetriever(&fakeEmbedder{dim: 8}, &fakeStore{}, "legal_knowledge", 3)
	out, err := r.Retrieve(context.Background(), "quantum jurisprudence of mars", model.IntentUnknown)
	require.NoError(t, err)
	require.Empty(t, out)
}

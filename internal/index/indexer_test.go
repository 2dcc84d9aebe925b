package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nyaysetu/nyaysetu/internal/config"
	"github.com/nyaysetu/nyaysetu/internal/model"
	"github.com/nyaysetu/nyaysetu/internal/vectorstore"
)

type fakeEmbedder struct {
	dims []int
	call int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	dim := f.dims[0]
	if f.call < len(f.dims) {
		dim = f.dims[f.call]
	}
	f.call++
	return make([]float32, dim), nil
}

func (f *fakeEmbedder) ModelName() string {
	return "fake-embed"
}

type captureStore struct {
	collection string
	dim        int
	chunks     []model.Chunk
	replaceErr error
}

func (s *captureStore) ReplaceCollection(ctx context.Context, name string, dim int, chunks []model.Chunk) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.collection = name
	s.dim = dim
	s.chunks = chunks
	return nil
}

func (s *captureStore) Search(ctx context.Context, name string, vec []float32, k int, sources []string) ([]vectorstore.SearchResult, error) {
	return nil, nil
}

func (s *captureStore) Dimension(ctx context.Context, name string) (int, error) {
	return s.dim, nil
}

func (s *captureStore) Count(ctx context.Context, name string) (int64, error) {
	return int64(len(s.chunks)), nil
}

func writeSourceFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testCorpusConfig(t *testing.T) config.CorpusConfig {
	dir := t.TempDir()
	ipc := writeSourceFile(t, dir, "ipc.json", `[
		{"id": "ipc-420", "title": "Cheating", "text": "Whoever cheats shall be punished.", "metadata": {"section": "420"}},
		{"id": "ipc-bad", "text": "  "}
	]`)
	glossary := writeSourceFile(t, dir, "glossary.json", `[
		{"id": "g-bail", "title": "Bail", "text": "Temporary release of an accused person."}
	]`)
	return config.CorpusConfig{
		Sources:      map[string]string{"ipc": ipc, "glossary": glossary},
		ChunkRunes:   800,
		OverlapRunes: 80,
		EmbedBatch:   2,
		Collection:   "legal_knowledge",
	}
}

func TestBuildReportsAndReplacesCollection(t *testing.T) {
	store := &captureStore{}
	builder := NewBuilder(testCorpusConfig(t), &fakeEmbedder{dims: []int{8}}, store)

	report, err := builder.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report.DocsProcessed)
	require.Equal(t, 1, report.DocsSkipped)
	require.Equal(t, 2, report.ChunksWritten)
	require.Equal(t, 8, report.Dimension)

	require.Equal(t, "legal_knowledge", store.collection)
	require.Equal(t, 8, store.dim)
	require.Len(t, store.chunks, 2)
	for _, c := range store.chunks {
		require.Len(t, c.Embedding, 8)
	}
}

func TestBuildRejectsDimensionDrift(t *testing.T) {
	store := &captureStore{}
	builder := NewBuilder(testCorpusConfig(t), &fakeEmbedder{dims: []int{8, 16}}, store)

	_, err := builder.Build(context.Background())
	require.Error(t, err)
	require.Empty(t, store.collection)
}

func TestBuildFailsWhenStoreRejects(t *testing.T) {
	store := &captureStore{replaceErr: fmt.Errorf("connection reset")}
	builder := NewBuilder(testCorpusConfig(t), &fakeEmbedder{dims: []int{8}}, store)

	_, err := builder.Build(context.Background())
	require.Error(t, err)
}

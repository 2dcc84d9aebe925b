package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeCorpusFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSourceSkipsMalformedDocuments(t *testing.T) {
	path := writeCorpusFile(t, "ipc.json", `[
		{"id": "ipc-420", "title": "Cheating", "text": "Whoever cheats...", "metadata": {"section": "420", "category": "offence"}},
		{"id": "ipc-bad", "title": "Empty", "text": "   "},
		{"title": "No id", "text": "Some text"}
	]`)

	res, err := LoadSource(context.Background(), "ipc", path)
	require.NoError(t, err)
	require.Equal(t, 1, res.Skipped)
	require.Len(t, res.Documents, 2)

	require.Equal(t, "ipc-420", res.Documents[0].ID)
	require.Equal(t, "420", res.Documents[0].Section)
	require.Equal(t, "ipc", res.Documents[0].Source)
	// Positional fallback id for the entry that shipped without one.
	require.Equal(t, "ipc-0002", res.Documents[1].ID)
}

func TestLoadSourceBadFileIsFatal(t *testing.T) {
	path := writeCorpusFile(t, "broken.json", `{"not": "an array"`)
	_, err := LoadSource(context.Background(), "ipc", path)
	require.Error(t, err)

	_, err = LoadSource(context.Background(), "ipc", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestLoadAllDeterministicOrder(t *testing.T) {
	ipc := writeCorpusFile(t, "ipc.json", `[{"id": "ipc-1", "text": "ipc text"}]`)
	glossary := writeCorpusFile(t, "glossary.json", `[{"id": "g-1", "text": "glossary text"}]`)

	docs, skipped, err := LoadAll(context.Background(), map[string]string{
		"ipc":      ipc,
		"glossary": glossary,
	})
	require.NoError(t, err)
	require.Equal(t, 0, skipped)
	require.Len(t, docs, 2)
	// Sources load in sorted name order.
	require.Equal(t, "g-1", docs[0].ID)
	require.Equal(t, "ipc-1", docs[1].ID)
}

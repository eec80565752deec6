package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drp-labs/spokesbot/config"
	"github.com/drp-labs/spokesbot/schema"
	"github.com/drp-labs/spokesbot/vectordb"
)

type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	return []float32{float32(len(text)), 1, 0}, nil
}

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func newTestIngestor(t *testing.T, store vectordb.VectorStoreProvider, embed *fakeEmbedder) *Ingestor {
	t.Helper()
	in, err := NewIngestor(embed, store, config.SplitterConfig{Provider: "recursive", ChunkSize: 2000, ChunkOverlap: 200})
	require.NoError(t, err)
	return in
}

func TestSectionName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"01_minimum_wage.txt", "Minimum Wage"},
		{"02_introduction.txt", "Introduction"},
		{"healthcare.txt", "Healthcare"},
		{"10_party_history_overview.txt", "Party History Overview"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SectionName(tt.filename))
	}
}

func TestIngestDirectoryStoresTaggedChunks(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"01_minimum_wage.txt": "We support raising the minimum wage to a living wage.",
		"02_healthcare.txt":   "Universal access to affordable healthcare is a core commitment.",
		"notes.md":            "ignored, wrong extension",
	})
	store := vectordb.NewMemoryStore()
	embed := &fakeEmbedder{}
	in := newTestIngestor(t, store, embed)

	require.NoError(t, in.IngestDirectory(context.Background(), dir, schema.DocTypePlatform))

	docs, err := store.ListDocs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	for _, d := range docs {
		assert.Equal(t, schema.DocTypePlatform, d.DocType)
		assert.NotEmpty(t, d.ID)
		assert.NotEmpty(t, d.Metadata["section"])
	}
	assert.Equal(t, 2, embed.calls)
}

func TestIngestDirectorySkipsEmptyFiles(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"01_empty.txt":   "   \n  ",
		"02_content.txt": "A substantive platform position on education funding.",
	})
	store := vectordb.NewMemoryStore()
	in := newTestIngestor(t, store, &fakeEmbedder{})

	require.NoError(t, in.IngestDirectory(context.Background(), dir, schema.DocTypePlatform))

	docs, err := store.ListDocs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "02_content.txt", docs[0].Source)
}

func TestIngestLargeDocumentIsChunked(t *testing.T) {
	paragraph := strings.Repeat("Our economic policy rests on evidence and fairness. ", 20)
	large := strings.Repeat(paragraph+"\n\n", 5)
	require.Greater(t, len(large), 2000)

	dir := writeCorpus(t, map[string]string{"03_economy.txt": large})
	store := vectordb.NewMemoryStore()
	in := newTestIngestor(t, store, &fakeEmbedder{})

	require.NoError(t, in.IngestDirectory(context.Background(), dir, schema.DocTypePlatform))

	docs, err := store.ListDocs(context.Background(), 0)
	require.NoError(t, err)
	assert.Greater(t, len(docs), 1)
	for _, d := range docs {
		assert.LessOrEqual(t, len(d.Content), 2000)
	}
}

func TestIngestSmallDocumentStaysWhole(t *testing.T) {
	small := strings.Repeat("short position statement. ", 10)
	require.Less(t, len(small), 1000)

	dir := writeCorpus(t, map[string]string{"04_small.txt": small})
	store := vectordb.NewMemoryStore()
	in := newTestIngestor(t, store, &fakeEmbedder{})

	require.NoError(t, in.IngestDirectory(context.Background(), dir, schema.DocTypePlatform))

	docs, err := store.ListDocs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, small, docs[0].Content)
}

func TestIngestCorpusToleratesMissingHistoryDir(t *testing.T) {
	platform := writeCorpus(t, map[string]string{"01_wage.txt": "Raise the minimum wage."})
	store := vectordb.NewMemoryStore()
	in := newTestIngestor(t, store, &fakeEmbedder{})

	err := in.IngestCorpus(context.Background(), config.CorpusConfig{
		PlatformDir: platform,
		HistoryDir:  filepath.Join(platform, "does-not-exist"),
	})
	require.NoError(t, err)
}

// Package ingest loads the document corpus, chunks it, embeds it, and
// writes it into the vector store.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/drp-labs/spokesbot/common/logger"
	"github.com/drp-labs/spokesbot/config"
	"github.com/drp-labs/spokesbot/embedding"
	"github.com/drp-labs/spokesbot/schema"
	"github.com/drp-labs/spokesbot/textsplitter"
	"github.com/drp-labs/spokesbot/vectordb"
)

const (
	// Documents below wholeDocumentLimit are stored as a single chunk;
	// below gentleSplitLimit they get an oversized splitter that rarely
	// cuts. Only genuinely large documents take the configured splitter.
	wholeDocumentLimit = 1000
	gentleSplitLimit   = 2000
)

// Ingestor builds the vector index from corpus directories.
type Ingestor struct {
	Embed    embedding.Provider
	Store    vectordb.VectorStoreProvider
	Splitter textsplitter.TextSplitter
}

func NewIngestor(embed embedding.Provider, store vectordb.VectorStoreProvider, cfg config.SplitterConfig) (*Ingestor, error) {
	splitter, err := textsplitter.NewTextSplitter(&cfg)
	if err != nil {
		return nil, fmt.Errorf("create text splitter failed, err: %w", err)
	}
	return &Ingestor{Embed: embed, Store: store, Splitter: splitter}, nil
}

// IngestCorpus loads both corpus directories. A missing history directory
// is tolerated; the platform directory is required.
func (in *Ingestor) IngestCorpus(ctx context.Context, corpus config.CorpusConfig) error {
	if err := in.IngestDirectory(ctx, corpus.PlatformDir, schema.DocTypePlatform); err != nil {
		return err
	}
	if corpus.HistoryDir == "" {
		return nil
	}
	if _, err := os.Stat(corpus.HistoryDir); os.IsNotExist(err) {
		logger.Warnf("ingest: history directory %s does not exist, skipping", corpus.HistoryDir)
		return nil
	}
	return in.IngestDirectory(ctx, corpus.HistoryDir, schema.DocTypeHistory)
}

// IngestDirectory loads every .txt file under dir, tags it with docType,
// chunks and embeds it, and writes the chunks to the store.
func (in *Ingestor) IngestDirectory(ctx context.Context, dir string, docType schema.DocType) error {
	files, err := listTextFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Warnf("ingest: no .txt files found in %s", dir)
		return nil
	}

	var docs []schema.Document
	for _, filename := range files {
		content, err := os.ReadFile(filepath.Join(dir, filename))
		if err != nil {
			return fmt.Errorf("read %s failed, err: %w", filename, err)
		}
		text := string(content)
		if strings.TrimSpace(text) == "" {
			continue
		}

		chunks, err := in.chunk(text)
		if err != nil {
			return fmt.Errorf("split %s failed, err: %w", filename, err)
		}
		section := SectionName(filename)
		logger.Infof("ingest: loaded %s (section %q, %d chunks)", filename, section, len(chunks))

		for _, chunk := range chunks {
			vec, err := in.Embed.GetEmbedding(ctx, chunk)
			if err != nil {
				return fmt.Errorf("embed chunk of %s failed, err: %w", filename, err)
			}
			docs = append(docs, schema.Document{
				ID:      uuid.NewString(),
				Content: chunk,
				DocType: docType,
				Source:  filename,
				Metadata: map[string]string{
					"section": section,
				},
				Vector:    vec,
				CreatedAt: time.Now(),
			})
		}
	}

	if len(docs) == 0 {
		return nil
	}
	if err := in.Store.AddDocs(ctx, docs); err != nil {
		return fmt.Errorf("store %s documents failed, err: %w", docType, err)
	}
	logger.Infof("ingest: stored %d %s chunks from %s", len(docs), docType, dir)
	return nil
}

// chunk applies size-adaptive splitting: small documents stay intact, large
// ones go through the configured splitter.
func (in *Ingestor) chunk(text string) ([]string, error) {
	switch {
	case len(text) < wholeDocumentLimit:
		return []string{text}, nil
	case len(text) < gentleSplitLimit:
		gentle := &textsplitter.RecursiveCharacterSplitter{
			ChunkSize:    len(text) + 100,
			ChunkOverlap: 0,
		}
		return gentle.SplitText(text)
	default:
		return in.Splitter.SplitText(text)
	}
}

// SectionName derives a human-readable section from a corpus filename:
// "01_minimum_wage.txt" becomes "Minimum Wage".
func SectionName(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	if _, rest, found := strings.Cut(name, "_"); found {
		name = rest
	}
	words := strings.Split(strings.ReplaceAll(name, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func listTextFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus directory %s failed, err: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

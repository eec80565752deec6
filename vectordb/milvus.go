package vectordb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/drp-labs/spokesbot/config"
	"github.com/drp-labs/spokesbot/schema"
)

const (
	milvusFieldID       = "id"
	milvusFieldContent  = "content"
	milvusFieldDocType  = "doc_type"
	milvusFieldSource   = "source"
	milvusFieldMetadata = "metadata"
	milvusFieldVector   = "vector"

	milvusMaxContentLength = 65535
	milvusMaxIDLength      = 128
)

// MilvusStore persists passages in a Milvus collection with an HNSW index.
type MilvusStore struct {
	cli        client.Client
	collection string
	dimensions int
}

func NewMilvusStore(ctx context.Context, cfg config.VectorDBConfig, dimensions int) (*MilvusStore, error) {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 19530
	}
	collection := cfg.Collection
	if collection == "" {
		collection = "spokesbot_passages"
	}
	if dimensions <= 0 {
		return nil, fmt.Errorf("milvus store needs positive embedding dimensions, got %d", dimensions)
	}

	cli, err := client.NewClient(ctx, client.Config{
		Address:  fmt.Sprintf("%s:%d", host, port),
		Username: cfg.Username,
		Password: cfg.Password,
		DBName:   cfg.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to milvus failed, err: %w", err)
	}

	store := &MilvusStore{cli: cli, collection: collection, dimensions: dimensions}
	if err := store.ensureCollection(ctx); err != nil {
		cli.Close()
		return nil, err
	}
	return store, nil
}

func (s *MilvusStore) ensureCollection(ctx context.Context) error {
	exists, err := s.cli.HasCollection(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("check collection failed, err: %w", err)
	}
	if !exists {
		milvusSchema := entity.NewSchema().
			WithName(s.collection).
			WithField(entity.NewField().WithName(milvusFieldID).WithDataType(entity.FieldTypeVarChar).
				WithMaxLength(milvusMaxIDLength).WithIsPrimaryKey(true)).
			WithField(entity.NewField().WithName(milvusFieldContent).WithDataType(entity.FieldTypeVarChar).
				WithMaxLength(milvusMaxContentLength)).
			WithField(entity.NewField().WithName(milvusFieldDocType).WithDataType(entity.FieldTypeVarChar).
				WithMaxLength(32)).
			WithField(entity.NewField().WithName(milvusFieldSource).WithDataType(entity.FieldTypeVarChar).
				WithMaxLength(512)).
			WithField(entity.NewField().WithName(milvusFieldMetadata).WithDataType(entity.FieldTypeJSON)).
			WithField(entity.NewField().WithName(milvusFieldVector).WithDataType(entity.FieldTypeFloatVector).
				WithDim(int64(s.dimensions)))
		if err := s.cli.CreateCollection(ctx, milvusSchema, entity.DefaultShardNumber); err != nil {
			return fmt.Errorf("create collection failed, err: %w", err)
		}

		index, err := entity.NewIndexHNSW(entity.IP, 8, 64)
		if err != nil {
			return fmt.Errorf("build index definition failed, err: %w", err)
		}
		if err := s.cli.CreateIndex(ctx, s.collection, milvusFieldVector, index, false); err != nil {
			return fmt.Errorf("create index failed, err: %w", err)
		}
	}

	if err := s.cli.LoadCollection(ctx, s.collection, false); err != nil {
		return fmt.Errorf("load collection failed, err: %w", err)
	}
	return nil
}

func (s *MilvusStore) AddDocs(ctx context.Context, docs []schema.Document) error {
	if len(docs) == 0 {
		return nil
	}

	ids := make([]string, 0, len(docs))
	contents := make([]string, 0, len(docs))
	docTypes := make([]string, 0, len(docs))
	sources := make([]string, 0, len(docs))
	metadatas := make([][]byte, 0, len(docs))
	vectors := make([][]float32, 0, len(docs))
	for _, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("document has no id")
		}
		if len(doc.Vector) != s.dimensions {
			return fmt.Errorf("document %s vector has %d dimensions, want %d", doc.ID, len(doc.Vector), s.dimensions)
		}
		meta, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata for %s failed, err: %w", doc.ID, err)
		}
		ids = append(ids, doc.ID)
		contents = append(contents, doc.Content)
		docTypes = append(docTypes, string(doc.DocType))
		sources = append(sources, doc.Source)
		metadatas = append(metadatas, meta)
		vectors = append(vectors, doc.Vector)
	}

	columns := []entity.Column{
		entity.NewColumnVarChar(milvusFieldID, ids),
		entity.NewColumnVarChar(milvusFieldContent, contents),
		entity.NewColumnVarChar(milvusFieldDocType, docTypes),
		entity.NewColumnVarChar(milvusFieldSource, sources),
		entity.NewColumnJSONBytes(milvusFieldMetadata, metadatas),
		entity.NewColumnFloatVector(milvusFieldVector, s.dimensions, vectors),
	}
	if _, err := s.cli.Upsert(ctx, s.collection, "", columns...); err != nil {
		return fmt.Errorf("upsert documents failed, err: %w", err)
	}
	return nil
}

func (s *MilvusStore) SearchDocs(ctx context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.SearchResult, error) {
	if opts == nil {
		opts = &schema.SearchOptions{}
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = 10
	}

	expr := ""
	if opts.DocType != "" {
		expr = fmt.Sprintf("%s == %q", milvusFieldDocType, string(opts.DocType))
	}

	sp, err := entity.NewIndexHNSWSearchParam(64)
	if err != nil {
		return nil, fmt.Errorf("build search param failed, err: %w", err)
	}
	searchResults, err := s.cli.Search(ctx, s.collection, nil, expr,
		[]string{milvusFieldID, milvusFieldContent, milvusFieldDocType, milvusFieldSource, milvusFieldMetadata},
		[]entity.Vector{entity.FloatVector(vector)},
		milvusFieldVector, entity.IP, topK, sp)
	if err != nil {
		return nil, fmt.Errorf("search documents failed, err: %w", err)
	}

	results := make([]schema.SearchResult, 0, topK)
	for _, sr := range searchResults {
		for i := 0; i < sr.ResultCount; i++ {
			score := float64(sr.Scores[i])
			if opts.Threshold > 0 && score < opts.Threshold {
				continue
			}
			doc, err := documentFromColumns(sr.Fields, i)
			if err != nil {
				return nil, err
			}
			results = append(results, schema.SearchResult{Document: doc, Score: score})
		}
	}
	return results, nil
}

func (s *MilvusStore) ListDocs(ctx context.Context, limit int) ([]schema.Document, error) {
	if limit <= 0 {
		limit = 100
	}
	rs, err := s.cli.Query(ctx, s.collection, nil, fmt.Sprintf("%s != \"\"", milvusFieldID),
		[]string{milvusFieldID, milvusFieldContent, milvusFieldDocType, milvusFieldSource, milvusFieldMetadata},
		client.WithLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("list documents failed, err: %w", err)
	}

	count := 0
	if len(rs) > 0 {
		count = rs[0].Len()
	}
	docs := make([]schema.Document, 0, count)
	for i := 0; i < count; i++ {
		doc, err := documentFromColumns(rs, i)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *MilvusStore) DeleteDocs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	quoted := make([]string, 0, len(ids))
	for _, id := range ids {
		quoted = append(quoted, fmt.Sprintf("%q", id))
	}
	expr := fmt.Sprintf("%s in [%s]", milvusFieldID, strings.Join(quoted, ", "))
	if err := s.cli.Delete(ctx, s.collection, "", expr); err != nil {
		return fmt.Errorf("delete documents failed, err: %w", err)
	}
	return nil
}

func (s *MilvusStore) Close() error {
	return s.cli.Close()
}

func documentFromColumns(columns []entity.Column, idx int) (schema.Document, error) {
	doc := schema.Document{}
	for _, col := range columns {
		switch col.Name() {
		case milvusFieldID:
			v, err := col.GetAsString(idx)
			if err != nil {
				return doc, fmt.Errorf("read id column failed, err: %w", err)
			}
			doc.ID = v
		case milvusFieldContent:
			v, err := col.GetAsString(idx)
			if err != nil {
				return doc, fmt.Errorf("read content column failed, err: %w", err)
			}
			doc.Content = v
		case milvusFieldDocType:
			v, err := col.GetAsString(idx)
			if err != nil {
				return doc, fmt.Errorf("read doc_type column failed, err: %w", err)
			}
			doc.DocType = schema.DocType(v)
		case milvusFieldSource:
			v, err := col.GetAsString(idx)
			if err != nil {
				return doc, fmt.Errorf("read source column failed, err: %w", err)
			}
			doc.Source = v
		case milvusFieldMetadata:
			jsonCol, ok := col.(*entity.ColumnJSONBytes)
			if !ok {
				continue
			}
			raw, err := jsonCol.ValueByIdx(idx)
			if err != nil {
				return doc, fmt.Errorf("read metadata column failed, err: %w", err)
			}
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &doc.Metadata); err != nil {
					return doc, fmt.Errorf("decode metadata failed, err: %w", err)
				}
			}
		}
	}
	return doc, nil
}

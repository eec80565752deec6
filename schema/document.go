package schema

import (
	"strings"
	"time"
)

// DocType labels the corpus a passage belongs to and the scope a question is
// routed to. DocTypeBoth is a synthetic scope for questions that need evidence
// from both corpora.
type DocType string

const (
	DocTypePlatform DocType = "platform"
	DocTypeHistory  DocType = "history"
	DocTypeBoth     DocType = "both"
)

// Valid reports whether the doc type is one of the known scope labels.
func (d DocType) Valid() bool {
	switch d {
	case DocTypePlatform, DocTypeHistory, DocTypeBoth:
		return true
	}
	return false
}

// Scopes returns the concrete corpus scopes the label resolves to.
// DocTypeBoth expands to its constituents in declaration order.
func (d DocType) Scopes() []DocType {
	if d == DocTypeBoth {
		return []DocType{DocTypePlatform, DocTypeHistory}
	}
	return []DocType{d}
}

// Document is a stored unit of source text eligible for retrieval.
type Document struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	DocType   DocType           `json:"doc_type"`
	Source    string            `json:"source"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Vector    []float32         `json:"-"`
	CreatedAt time.Time         `json:"created_at,omitempty"`
}

// SearchResult pairs a retrieved document with its similarity score.
type SearchResult struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// SearchOptions controls a single vector search call.
type SearchOptions struct {
	TopK      int
	Threshold float64
	// DocType restricts the search to one corpus. Empty means unfiltered.
	DocType DocType
}

// RetrievalResult is the ordered, deduplicated passage set handed to the
// prompt assembler, together with the scope actually used (which may differ
// from the classifier output when retrieval fell back).
type RetrievalResult struct {
	Passages []Document
	DocType  DocType
	// Degraded is set when the scope filter starved and the retriever fell
	// back to an index-wide search.
	Degraded bool
}

// Contents returns the passage texts in order.
func (r RetrievalResult) Contents() []string {
	out := make([]string, 0, len(r.Passages))
	for _, p := range r.Passages {
		out = append(out, p.Content)
	}
	return out
}

// JoinedContext concatenates the passage texts with double newlines, the form
// embedded into prompts as grounding context.
func (r RetrievalResult) JoinedContext() string {
	return strings.Join(r.Contents(), "\n\n")
}

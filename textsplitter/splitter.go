// Package textsplitter chunks corpus documents into indexable passages.
package textsplitter

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/drp-labs/spokesbot/config"
)

// TextSplitter splits a document into passage-sized chunks.
type TextSplitter interface {
	SplitText(text string) ([]string, error)
}

// NewTextSplitter creates a splitter from configuration.
func NewTextSplitter(cfg *config.SplitterConfig) (TextSplitter, error) {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 2000
	}
	overlap := cfg.ChunkOverlap
	if overlap < 0 {
		overlap = 0
	}
	switch cfg.Provider {
	case "recursive", "":
		return &RecursiveCharacterSplitter{
			ChunkSize:    chunkSize,
			ChunkOverlap: overlap,
			Separators:   []string{"\n\n", "\n", ". ", " ", ""},
		}, nil
	case "token":
		return NewTokenSplitter(chunkSize, overlap)
	default:
		return nil, fmt.Errorf("unknown splitter provider: %s", cfg.Provider)
	}
}

// RecursiveCharacterSplitter splits on the coarsest separator that keeps
// chunks under ChunkSize, recursing into finer separators as needed.
type RecursiveCharacterSplitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

func (s *RecursiveCharacterSplitter) SplitText(text string) ([]string, error) {
	if len(text) <= s.ChunkSize {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil, nil
		}
		return []string{trimmed}, nil
	}
	chunks := s.split(text, s.Separators)
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		c = strings.TrimSpace(c)
		if c != "" {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *RecursiveCharacterSplitter) split(text string, separators []string) []string {
	if len(text) <= s.ChunkSize {
		return []string{text}
	}
	if len(separators) == 0 {
		return s.hardSplit(text)
	}
	sep := separators[0]
	rest := separators[1:]
	if sep == "" {
		return s.hardSplit(text)
	}

	parts := strings.Split(text, sep)
	var chunks []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}
	for _, part := range parts {
		piece := part
		if len(piece) > s.ChunkSize {
			flush()
			chunks = append(chunks, s.split(piece, rest)...)
			continue
		}
		if current.Len() > 0 && current.Len()+len(sep)+len(piece) > s.ChunkSize {
			flush()
			// carry overlap from the previous chunk for continuity
			if s.ChunkOverlap > 0 && len(chunks) > 0 {
				prev := chunks[len(chunks)-1]
				if len(prev) > s.ChunkOverlap {
					current.WriteString(prev[len(prev)-s.ChunkOverlap:])
					current.WriteString(sep)
				}
			}
		}
		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(piece)
	}
	flush()
	return chunks
}

func (s *RecursiveCharacterSplitter) hardSplit(text string) []string {
	var chunks []string
	step := s.ChunkSize - s.ChunkOverlap
	if step <= 0 {
		step = s.ChunkSize
	}
	for start := 0; start < len(text); start += step {
		end := start + s.ChunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
		if end == len(text) {
			break
		}
	}
	return chunks
}

// TokenSplitter chunks by token count using the cl100k_base encoding.
type TokenSplitter struct {
	ChunkSize    int
	ChunkOverlap int
	encoding     *tiktoken.Tiktoken
}

func NewTokenSplitter(chunkSize, overlap int) (*TokenSplitter, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding failed, err: %w", err)
	}
	return &TokenSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: overlap,
		encoding:     enc,
	}, nil
}

func (s *TokenSplitter) SplitText(text string) ([]string, error) {
	tokens := s.encoding.Encode(text, nil, nil)
	if len(tokens) <= s.ChunkSize {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil, nil
		}
		return []string{trimmed}, nil
	}
	step := s.ChunkSize - s.ChunkOverlap
	if step <= 0 {
		step = s.ChunkSize
	}
	var chunks []string
	for start := 0; start < len(tokens); start += step {
		end := start + s.ChunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		chunk := strings.TrimSpace(s.encoding.Decode(tokens[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(tokens) {
			break
		}
	}
	return chunks, nil
}

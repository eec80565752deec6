package textsplitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drp-labs/spokesbot/config"
)

func TestNewTextSplitterDefaultsToRecursive(t *testing.T) {
	s, err := NewTextSplitter(&config.SplitterConfig{})
	require.NoError(t, err)
	_, ok := s.(*RecursiveCharacterSplitter)
	assert.True(t, ok)
}

func TestNewTextSplitterRejectsUnknownProvider(t *testing.T) {
	_, err := NewTextSplitter(&config.SplitterConfig{Provider: "semantic"})
	assert.Error(t, err)
}

func TestRecursiveSplitterKeepsShortTextWhole(t *testing.T) {
	s := &RecursiveCharacterSplitter{ChunkSize: 100, Separators: []string{"\n\n", "\n", ". ", " ", ""}}

	chunks, err := s.SplitText("a short paragraph")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short paragraph", chunks[0])
}

func TestRecursiveSplitterSplitsOnParagraphs(t *testing.T) {
	s := &RecursiveCharacterSplitter{ChunkSize: 60, Separators: []string{"\n\n", "\n", ". ", " ", ""}}
	text := strings.Repeat("first paragraph of modest size.", 1) + "\n\n" +
		"second paragraph that stands alone." + "\n\n" +
		"third paragraph rounding things out."

	chunks, err := s.SplitText(text)
	require.NoError(t, err)
	assert.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(c))
	}
	// All content survives splitting.
	joined := strings.Join(chunks, " ")
	assert.Contains(t, joined, "second paragraph")
	assert.Contains(t, joined, "third paragraph")
}

func TestRecursiveSplitterHardSplitsUnbrokenText(t *testing.T) {
	s := &RecursiveCharacterSplitter{ChunkSize: 50, Separators: []string{"\n\n", "\n", ". ", " ", ""}}
	text := strings.Repeat("x", 180)

	chunks, err := s.SplitText(text)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(chunks), 4)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 50)
	}
}

func TestRecursiveSplitterEmptyText(t *testing.T) {
	s := &RecursiveCharacterSplitter{ChunkSize: 100}
	chunks, err := s.SplitText("   ")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

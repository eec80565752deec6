// Package post normalizes raw model output before it reaches the caller.
package post

import "strings"

// answerMarkers are literal labels models emit despite being told not to.
var answerMarkers = []string{
	"**Answer:**",
	"**Answer**:",
	"Answer:",
	"Answer :",
}

// hedgingPhrases mark meta-commentary lines worth dropping. Only short
// lines are dropped; a substantive line that merely mentions a phrase in
// passing survives.
var hedgingPhrases = []string{
	"however, the passage does not",
	"leaving this answer as inferred",
	"inferred from the context",
	"the passage does not explicitly",
}

// hedgingLineMaxLength bounds how long a line may be and still count as
// pure meta-commentary.
const hedgingLineMaxLength = 150

// Clean strips formatting markers and hedging meta-commentary from a raw
// model answer. Idempotent on already-clean input.
func Clean(raw string) string {
	for _, marker := range answerMarkers {
		raw = strings.ReplaceAll(raw, marker, "")
	}
	raw = strings.ReplaceAll(raw, "**", "")

	lines := strings.Split(raw, "\n")
	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < hedgingLineMaxLength && containsHedging(strings.ToLower(trimmed)) {
			continue
		}
		kept = append(kept, line)
	}

	out := strings.TrimSpace(strings.Join(kept, "\n"))
	return strings.TrimRight(out, ". ")
}

func containsHedging(line string) bool {
	for _, phrase := range hedgingPhrases {
		if strings.Contains(line, phrase) {
			return true
		}
	}
	return false
}

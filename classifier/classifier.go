// Package classifier assigns a document scope to incoming questions.
//
// Classification is an ordered decision list over keyword tables. Earlier
// rules short-circuit later ones, so an override phrase beats any keyword
// score. The function is pure and never fails; unmatched input falls
// through to the platform scope.
package classifier

import (
	"strings"

	"github.com/drp-labs/spokesbot/schema"
)

var foundingVerbs = []string{
	"found", "founded", "founding",
	"start", "started",
	"begin", "began",
	"establish", "established",
	"form", "formed",
	"originate", "originated",
	"create", "created",
}

var comparativeTerms = []string{
	"differ", "difference", "compare", "comparison", "contrast",
	"versus", " vs ", " vs.",
	"changed", "change over", "evolved", "evolution",
}

var revivalTerms = []string{
	"revive", "revived", "revival", "reform", "reformed", "modern incarnation",
}

// temporalWords are matched as whole words; "now" as a substring would
// light up on "know".
var temporalWords = []string{
	"modern", "today", "now", "current", "currently", "nowadays",
}

var temporalPhrases = []string{
	"these days",
}

var historyKeywords = []string{
	"history", "historical", "historically",
	"founded", "founding", "founder",
	"origin", "original", "originally",
	"jefferson", "madison",
	"19th century", "18th century", "1790s", "1800s",
	"dissolved", "legacy", "past",
}

var platformKeywords = []string{
	"platform", "policy", "policies", "position", "stance",
	"support", "oppose", "believe", "propose", "plan",
	"wage", "tax", "taxes", "healthcare", "health care",
	"education", "immigration", "climate", "economy", "economic",
	"vote", "voting", "reform agenda",
}

// Classify maps a question to the document scope its answer should draw on.
func Classify(question string) schema.DocType {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return schema.DocTypePlatform
	}
	words := strings.Fields(q)

	// Rule 1: where/when questions about founding are always historical.
	if strings.HasPrefix(q, "where") || strings.HasPrefix(q, "when") {
		if containsAny(q, foundingVerbs) {
			return schema.DocTypeHistory
		}
	}
	// Terse "where" questions about the party itself ("where from?",
	// "where founded?") carry no platform signal at all.
	if len(words) <= 3 && strings.HasPrefix(q, "where") &&
		(strings.Contains(q, "party") || strings.Contains(q, "from") || containsAny(q, foundingVerbs)) {
		return schema.DocTypeHistory
	}

	// Rule 2: comparison and revival questions need evidence from both
	// scopes to answer.
	if containsAny(q, comparativeTerms) || containsAny(q, revivalTerms) {
		return schema.DocTypeBoth
	}

	// Rule 3: historical vocabulary anchored to the present also spans
	// both scopes.
	if containsAny(q, historyKeywords) && hasTemporalMarker(q, words) {
		return schema.DocTypeBoth
	}

	// Rule 4: keyword score comparison, platform wins ties.
	historyScore := countHits(q, historyKeywords)
	platformScore := countHits(q, platformKeywords)
	if historyScore > platformScore {
		return schema.DocTypeHistory
	}
	return schema.DocTypePlatform
}

func hasTemporalMarker(q string, words []string) bool {
	if containsAny(q, temporalPhrases) {
		return true
	}
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:'\"")
		for _, marker := range temporalWords {
			if w == marker {
				return true
			}
		}
	}
	return false
}

func containsAny(q string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(q, term) {
			return true
		}
	}
	return false
}

func countHits(q string, terms []string) int {
	hits := 0
	for _, term := range terms {
		if strings.Contains(q, term) {
			hits++
		}
	}
	return hits
}

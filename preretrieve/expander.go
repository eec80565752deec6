// Package preretrieve rewrites questions before they hit the vector index.
package preretrieve

import "strings"

type synonymRule struct {
	negative string
	related  []string
}

// synonymRules pair a negative action word with the subject terms whose
// positive phrasing should be searched alongside it. A vector index matches
// surface text, so "would you lower the minimum wage" needs the positive
// form to surface the passage stating support for raising it. Order is
// fixed so expansion is deterministic.
var synonymRules = []synonymRule{
	{"lower", []string{"wage", "minimum wage", "raise", "increase"}},
	{"decrease", []string{"wage", "minimum wage", "raise", "increase"}},
	{"reduce", []string{"wage", "minimum wage", "raise", "increase"}},
	{"cut", []string{"wage", "minimum wage", "raise", "increase"}},
}

// Expand appends positive-sense completions to a negatively phrased
// question. The original text is always the prefix of the result; with no
// matches the question comes back unchanged.
func Expand(question string) string {
	lower := strings.ToLower(question)

	expanded := []string{question}
	for _, rule := range synonymRules {
		if !strings.Contains(lower, rule.negative) {
			continue
		}
		for _, term := range rule.related {
			if strings.Contains(lower, term) {
				expanded = append(expanded,
					"raise "+term,
					"increase "+term,
					"support "+term)
			}
		}
	}
	if len(expanded) == 1 {
		return question
	}
	return strings.Join(expanded, " ")
}

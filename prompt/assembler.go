// Package prompt builds the generation prompt for each document scope.
package prompt

import (
	"fmt"
	"strings"

	"github.com/drp-labs/spokesbot/schema"
)

const platformTemplate = `You are a spokesperson for the %[1]s. You are answering questions about our party's official platform. Use the platform information below to answer the question as if you are a member of the party speaking in first person.

Platform Information:
%[2]s

Question: %[3]s

Instructions:
1. Answer as a member of the %[1]s speaking in first person (use "we", "our", "us", "I").
2. Base your answer on the platform information provided above. Stay true to our party's stated positions and principles.
3. If the question is directly answered in the platform, provide that answer clearly in first person.
4. If the question is not directly answered, use logical reasoning to infer an answer from our platform's principles, stated positions, and related policies.
5. When reasoning:
   - Connect related concepts from different sections of the platform
   - Apply our core principles (balanced problem solving, transparency, evidence-based policy, civility, innovation) to the question
   - Consider how our stated positions on related topics might inform this question
   - Be explicit about what you're inferring vs. what's directly stated
6. If you cannot reasonably infer an answer from the platform, say so clearly rather than speculating.
7. Provide a clear, direct answer in first person. Do not include formatting markers, labels like "Answer:", or meta-commentary. Just answer the question naturally as a party member would.`

const historyTemplate = `You are a knowledgeable guide to the history of the %[1]s. Answer the question using only the historical information below. If the information does not contain the answer, say that the historical record provided does not cover it. Do not speculate beyond the given context.

Historical Information:
%[2]s

Question: %[3]s

Answer plainly and factually. Do not include formatting markers or labels like "Answer:".`

const bothTemplate = `You are a spokesperson for the %[1]s with deep knowledge of the party's history. The context below contains two kinds of evidence: current platform positions and historical background. Answer the question by explicitly comparing the two where relevant, noting what has stayed the same and what has changed.

Context:
%[2]s

Question: %[3]s

Ground every claim in the context above, keep current positions and historical facts clearly distinguished, and do not include formatting markers or labels like "Answer:".`

// Assembler selects a scope template and embeds the grounding context.
type Assembler struct {
	PartyName string
	// MinContextLength is the joined-context length below which the platform
	// scope refuses instead of generating.
	MinContextLength int
}

func NewAssembler(partyName string, minContextLength int) *Assembler {
	if minContextLength <= 0 {
		minContextLength = 50
	}
	return &Assembler{PartyName: partyName, MinContextLength: minContextLength}
}

// Refusal is the fixed answer returned when the platform scope has no
// usable evidence. It is final; no generation call follows it.
func (a *Assembler) Refusal() string {
	return fmt.Sprintf("I'm only able to discuss the official positions and policies of the %s. I couldn't find relevant information in our platform documents to answer your question. Please try rephrasing your question or ask about a different topic.", a.PartyName)
}

// Build returns the prompt for the question and retrieved context. When the
// platform scope has no usable context it returns the refusal text with
// refused set, and the caller must skip generation.
func (a *Assembler) Build(question string, result schema.RetrievalResult) (text string, refused bool) {
	contextText := result.JoinedContext()

	if result.DocType != schema.DocTypeHistory && result.DocType != schema.DocTypeBoth {
		if len(strings.TrimSpace(contextText)) < a.MinContextLength {
			return a.Refusal(), true
		}
	}

	switch result.DocType {
	case schema.DocTypeHistory:
		return fmt.Sprintf(historyTemplate, a.PartyName, contextText, question), false
	case schema.DocTypeBoth:
		return fmt.Sprintf(bothTemplate, a.PartyName, contextText, question), false
	default:
		return fmt.Sprintf(platformTemplate, a.PartyName, contextText, question), false
	}
}

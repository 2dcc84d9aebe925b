package query

import (
	"strings"

	"github.com/nyaysetu/nyaysetu/internal/model"
)

// Anchor terms: a query naming any concrete procedure, document,
// offence or actor is specific enough to retrieve against, however
// short it is ("What is FIR?" must never be flagged).
var anchorTerms = map[string]struct{}{
	"fir": {}, "rti": {}, "bail": {}, "ipc": {}, "crpc": {},
	"section": {}, "arrest": {}, "arrested": {}, "warrant": {},
	"police": {}, "complaint": {}, "chargesheet": {}, "charge": {},
	"summons": {}, "notice": {}, "petition": {}, "appeal": {},
	"custody": {}, "theft": {}, "cheating": {}, "cheated": {},
	"fraud": {}, "threat": {}, "threatened": {}, "threatening": {},
	"assault": {}, "harassment": {}, "harassed": {}, "dowry": {},
	"divorce": {}, "murder": {}, "kidnapping": {}, "extortion": {},
	"blackmail": {}, "defamation": {}, "trespass": {}, "affidavit": {},
	"court": {}, "judge": {}, "lawyer": {}, "advocate": {},
	"offence": {}, "offense": {}, "accused": {}, "victim": {},
	"witness": {}, "evidence": {}, "propertydispute": {},
}

// Generic terms that carry no retrievable topic on their own.
var genericTerms = map[string]struct{}{
	"law": {}, "laws": {}, "legal": {}, "help": {}, "right": {},
	"rights": {}, "india": {}, "indian": {}, "justice": {},
	"question": {}, "info": {}, "information": {}, "advice": {},
	"problem": {}, "issue": {}, "case": {}, "system": {},
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {},
	"were": {}, "be": {}, "been": {}, "i": {}, "me": {}, "my": {},
	"we": {}, "our": {}, "you": {}, "your": {}, "he": {}, "she": {},
	"it": {}, "they": {}, "them": {}, "what": {}, "which": {},
	"who": {}, "how": {}, "when": {}, "where": {}, "why": {},
	"tell": {}, "explain": {}, "about": {}, "of": {}, "on": {},
	"in": {}, "to": {}, "for": {}, "with": {}, "do": {}, "does": {},
	"did": {}, "can": {}, "could": {}, "should": {}, "would": {},
	"please": {}, "and": {}, "or": {}, "not": {}, "some": {},
	"something": {}, "know": {}, "want": {}, "need": {}, "there": {},
	"this": {}, "that": {}, "under": {}, "say": {}, "says": {},
}

const minDescriptiveTokens = 5

// DetectVagueness decides whether a query is too underspecified to
// retrieve against. It is advisory: anchored queries always pass, and
// long incident descriptions pass even without a known anchor word.
func DetectVagueness(text string) model.VaguenessVerdict {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return model.VaguenessVerdict{
			IsVague: true,
			Reason:  "Please type your legal question so I can help.",
		}
	}

	content := 0
	for _, tok := range tokens {
		if _, ok := anchorTerms[tok]; ok {
			return model.VaguenessVerdict{IsVague: false}
		}
		if hasSectionNumber(tok) {
			return model.VaguenessVerdict{IsVague: false}
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if _, generic := genericTerms[tok]; generic {
			continue
		}
		content++
	}

	if content == 0 {
		return model.VaguenessVerdict{
			IsVague: true,
			Reason:  "Could you mention the specific document, offence or situation you want to know about? For example: \"How do I file an FIR?\"",
		}
	}
	if len(tokens) < minDescriptiveTokens {
		return model.VaguenessVerdict{
			IsVague: true,
			Reason:  "Could you add a little more detail, such as the document or incident involved?",
		}
	}
	return model.VaguenessVerdict{IsVague: false}
}

func tokenize(text string) []string {
	lowered := strings.ToLower(text)
	return strings.FieldsFunc(lowered, func(r rune) bool {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= '0' && r <= '9' {
			return false
		}
		return true
	})
}

func hasSectionNumber(tok string) bool {
	if len(tok) == 0 {
		return false
	}
	digits := 0
	for _, r := range tok {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	// Bare numbers like "420" or "154a" anchor a statute lookup.
	return digits >= 2 && digits >= len(tok)-1
}

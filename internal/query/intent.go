package query

import (
	"regexp"
	"strings"

	"github.com/nyaysetu/nyaysetu/internal/model"
)

// Lexical signals per category. Classification is deterministic for
// identical input; ties resolve by fixed priority so a safety-relevant
// query is never routed into an academic explanation path.
var (
	sectionRe = regexp.MustCompile(`(?i)\b(section\s+\d+[a-z]?|sec\.?\s*\d+[a-z]?|\d{1,4}[a-z]?\s+of\s+(the\s+)?(ipc|crpc)|(ipc|crpc)\s+(section\s+)?\d+[a-z]?)\b`)

	threatTerms = []string{
		"threat", "threatened", "threatening", "attacked", "attacking",
		"beat me", "beaten", "hit me", "violence", "violent", "abuse",
		"abusing", "abused", "kill", "stab", "rape", "molest",
		"kidnap", "stalking", "stalked", "blackmail", "extort",
		"in danger", "afraid", "scared", "following me", "acid",
	}

	procedureTerms = []string{
		"fir", "rti", "bail", "how to file", "how do i file", "file a",
		"filing", "apply for", "application", "register a complaint",
		"complaint", "obtain", "petition", "appeal", "affidavit",
		"summons", "chargesheet", "procedure", "process for",
	}

	conceptTerms = []string{
		"what is", "what does", "meaning", "means", "define",
		"definition", "explain", "difference between", "arrest",
		"cheating", "cheated", "theft", "fraud", "defamation",
		"negligence", "custody", "offence", "offense", "punishment",
		"penalty", "rights of", "liable", "liability",
	}
)

// ClassifyIntent maps informal phrasing onto the closed QueryIntent
// set using lexical signals only.
func ClassifyIntent(text string) model.QueryIntent {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return model.IntentUnknown
	}

	matched := map[model.QueryIntent]bool{}
	if containsAny(lowered, threatTerms) {
		matched[model.IntentSafetyOrThreat] = true
	}
	if sectionRe.MatchString(lowered) {
		matched[model.IntentStatuteLookup] = true
	}
	if containsAny(lowered, procedureTerms) {
		matched[model.IntentDocumentProcedure] = true
	}
	if containsAny(lowered, conceptTerms) {
		matched[model.IntentLegalConcept] = true
	}

	// Priority: safety > statute > procedure > concept > unknown.
	for _, intent := range []model.QueryIntent{
		model.IntentSafetyOrThreat,
		model.IntentStatuteLookup,
		model.IntentDocumentProcedure,
		model.IntentLegalConcept,
	} {
		if matched[intent] {
			return intent
		}
	}
	return model.IntentUnknown
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(term, " ") {
			if strings.Contains(text, term) {
				return true
			}
			continue
		}
		if containsWord(text, term) {
			return true
		}
	}
	return false
}

// containsWord matches whole words only, so "firm" never triggers the
// "fir" signal.
func containsWord(text, word string) bool {
	idx := 0
	for {
		pos := strings.Index(text[idx:], word)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(word)
		beforeOK := start == 0 || !isWordRune(text[start-1])
		afterOK := end == len(text) || !isWordRune(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordRune(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

package model

// QueryIntent is the closed set of legal question categories. The
// classifier and the synthesizer both switch exhaustively on it, so a
// new category is a compile-time visible change in both places.
type QueryIntent int

const (
	IntentUnknown QueryIntent = iota
	IntentLegalConcept
	IntentDocumentProcedure
	IntentStatuteLookup
	IntentSafetyOrThreat
)

func (i QueryIntent) String() string {
	switch i {
	case IntentLegalConcept:
		return "legal_concept"
	case IntentDocumentProcedure:
		return "document_procedure"
	case IntentStatuteLookup:
		return "statute_lookup"
	case IntentSafetyOrThreat:
		return "safety_or_threat"
	default:
		return "unknown"
	}
}

// VaguenessVerdict is the advisory output of the vagueness detector.
// Reason is phrased so it can be shown to the user as-is.
type VaguenessVerdict struct {
	IsVague bool   `json:"is_vague"`
	Reason  string `json:"reason"`
}

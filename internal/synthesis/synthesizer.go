package synthesis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/nyaysetu/nyaysetu/internal/ai"
	"github.com/nyaysetu/nyaysetu/internal/model"
)

// FallbackNoInformation is returned whenever retrieval produced no
// grounding. The synthesizer must never invent statutory content to
// paper over an empty result.
const FallbackNoInformation = "I could not find information about this in the legal knowledge base. " +
	"Try rephrasing your question with the specific section, document or offence involved."

const safetyLead = "If you are in immediate danger, call the police emergency number 112 right away. " +
	"You can also file a complaint at your nearest police station."

type Synthesizer struct {
	polisher ai.IGenerator // optional; nil disables the polish pass
}

func NewSynthesizer(polisher ai.IGenerator) *Synthesizer {
	return &Synthesizer{polisher: polisher}
}

// Synthesize merges retrieved chunks into one grounded reply. The
// template output is deterministic for identical input; the optional
// polish pass rephrases it but any polish failure falls back to the
// template text, never to fabricated content.
func (s *Synthesizer) Synthesize(ctx context.Context, queryText string, intent model.QueryIntent, retrieved []model.ScoredChunk) (string, []string, error) {
	if len(retrieved) == 0 {
		return FallbackNoInformation, nil, nil
	}

	deduped := collapseAdjacent(retrieved)
	grouped := groupBySource(deduped)

	var sb strings.Builder
	sb.WriteString(lead(intent))

	used := make([]string, 0, len(deduped))
	for _, group := range grouped {
		sb.WriteString("\n\n")
		sb.WriteString(sourceHeading(group.source))
		for _, sc := range group.chunks {
			sb.WriteString("\n")
			sb.WriteString(renderChunk(intent, sc.Chunk))
			used = append(used, sc.Chunk.ID)
		}
	}
	if intent == model.IntentSafetyOrThreat {
		sb.WriteString("\n\nConsider keeping any evidence (messages, call records) safe, and consult a lawyer or a legal aid clinic as soon as possible.")
	} else {
		sb.WriteString("\n\nThis is general legal information, not legal advice.")
	}
	reply := strings.TrimSpace(sb.String())

	if s.polisher != nil {
		polished, err := s.polish(ctx, queryText, reply)
		if err != nil {
			logutil.GetLogger(ctx).Warn("polish pass failed, using template reply", zap.Error(err))
		} else if polished != "" {
			reply = polished
		}
	}
	return reply, used, nil
}

func lead(intent model.QueryIntent) string {
	switch intent {
	case model.IntentStatuteLookup:
		return "Here is what the cited provision says:"
	case model.IntentDocumentProcedure:
		return "Here is how this works, step by step:"
	case model.IntentSafetyOrThreat:
		return safetyLead + "\n\nWhat the law says about your situation:"
	case model.IntentLegalConcept:
		return "Here is what the legal sources say:"
	default:
		return "Based on the legal knowledge base:"
	}
}

func sourceHeading(source string) string {
	switch strings.ToLower(source) {
	case "ipc":
		return "From the Indian Penal Code:"
	case "crpc":
		return "From the Code of Criminal Procedure:"
	case "glossary":
		return "From the legal glossary:"
	case "amendments":
		return "From recent amendments:"
	default:
		return fmt.Sprintf("From %s:", source)
	}
}

func renderChunk(intent model.QueryIntent, c model.Chunk) string {
	citation := citationFor(c)
	text := strings.TrimSpace(c.Text)
	switch intent {
	case model.IntentStatuteLookup:
		if citation != "" {
			return fmt.Sprintf("%s: %s", citation, text)
		}
		return text
	default:
		if citation != "" {
			return fmt.Sprintf("%s (%s)", text, citation)
		}
		return text
	}
}

func citationFor(c model.Chunk) string {
	source := strings.ToUpper(c.Source)
	switch {
	case c.Section != "" && (source == "IPC" || source == "CRPC"):
		return fmt.Sprintf("%s Section %s", source, c.Section)
	case c.Section != "":
		return fmt.Sprintf("%s, Section %s", c.Title, c.Section)
	case c.Title != "":
		return c.Title
	default:
		return ""
	}
}

// collapseAdjacent removes near-duplicate chunks: slices of the same
// document whose rune ranges overlap cite the same passage, so only
// the best-scoring one survives.
func collapseAdjacent(in []model.ScoredChunk) []model.ScoredChunk {
	kept := make([]model.ScoredChunk, 0, len(in))
	for _, cand := range in {
		overlap := false
		for _, prev := range kept {
			if prev.Chunk.DocumentID != cand.Chunk.DocumentID {
				continue
			}
			if rangesOverlap(prev.Chunk.Offset, prev.Chunk.Length, cand.Chunk.Offset, cand.Chunk.Length) {
				overlap = true
				break
			}
		}
		if !overlap {
			kept = append(kept, cand)
		}
	}
	return kept
}

func rangesOverlap(aOff, aLen, bOff, bLen int) bool {
	return aOff < bOff+bLen && bOff < aOff+aLen
}

type sourceGroup struct {
	source string
	chunks []model.ScoredChunk
}

// groupBySource keeps statute text ahead of glossary ahead of
// amendments so cited sections stay clearly attributable.
func groupBySource(in []model.ScoredChunk) []sourceGroup {
	order := func(source string) int {
		switch strings.ToLower(source) {
		case "ipc", "crpc":
			return 0
		case "glossary":
			return 1
		case "amendments":
			return 2
		default:
			return 3
		}
	}
	byName := map[string]*sourceGroup{}
	var names []string
	for _, sc := range in {
		g, ok := byName[sc.Chunk.Source]
		if !ok {
			g = &sourceGroup{source: sc.Chunk.Source}
			byName[sc.Chunk.Source] = g
			names = append(names, sc.Chunk.Source)
		}
		g.chunks = append(g.chunks, sc)
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, oj := order(names[i]), order(names[j])
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})
	out := make([]sourceGroup, 0, len(names))
	for _, name := range names {
		out = append(out, *byName[name])
	}
	return out
}

func (s *Synthesizer) polish(ctx context.Context, queryText, draft string) (string, error) {
	prompt := fmt.Sprintf(`You are a legal information assistant.
Rewrite the draft answer below so it reads naturally, keeping EVERY factual statement and citation exactly as given.
- Do not add any legal claim that is not in the draft.
- Keep it concise and plain-spoken for a non-lawyer.
- Output ONLY the rewritten answer.

QUESTION:
%s

DRAFT ANSWER:
%s`, queryText, draft)
	out, err := s.polisher.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

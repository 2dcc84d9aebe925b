package corpus

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/nyaysetu/nyaysetu/internal/model"
)

// Split cuts a document into rune windows of maxRunes with the given
// overlap. The rule is purely positional, so re-running on unchanged
// input yields byte-identical chunk boundaries and IDs.
func Split(doc model.Document, maxRunes, overlapRunes int) []model.Chunk {
	raw := strings.TrimSpace(doc.Text)
	if raw == "" {
		return nil
	}
	if maxRunes <= 0 {
		return []model.Chunk{newChunk(doc, 0, raw)}
	}
	if overlapRunes < 0 {
		overlapRunes = 0
	}
	runes := []rune(raw)
	if len(runes) <= maxRunes {
		return []model.Chunk{newChunk(doc, 0, raw)}
	}
	step := maxRunes - overlapRunes
	if step <= 0 {
		step = maxRunes
	}

	out := make([]model.Chunk, 0, (len(runes)/step)+1)
	for start := 0; start < len(runes); start += step {
		end := start + maxRunes
		if end > len(runes) {
			end = len(runes)
		}
		// Trim the window in rune space so Offset and Length name the
		// exact range of the kept text.
		lead := start
		for lead < end && unicode.IsSpace(runes[lead]) {
			lead++
		}
		tail := end
		for tail > lead && unicode.IsSpace(runes[tail-1]) {
			tail--
		}
		if lead < tail {
			// Long runs of whitespace can trim two windows to the same
			// kept offset; keep one chunk per offset, preferring the
			// longer window.
			if n := len(out); n > 0 && out[n-1].Offset == lead {
				out[n-1] = newChunk(doc, lead, string(runes[lead:tail]))
			} else {
				out = append(out, newChunk(doc, lead, string(runes[lead:tail])))
			}
		}
		if end >= len(runes) {
			break
		}
	}
	return out
}

func newChunk(doc model.Document, offset int, text string) model.Chunk {
	return model.Chunk{
		ID:         fmt.Sprintf("%s#%d", doc.ID, offset),
		DocumentID: doc.ID,
		Source:     doc.Source,
		Title:      doc.Title,
		Section:    doc.Section,
		Text:       text,
		Offset:     offset,
		Length:     len([]rune(text)),
	}
}

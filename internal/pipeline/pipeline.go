package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/nyaysetu/nyaysetu/internal/model"
	"github.com/nyaysetu/nyaysetu/internal/query"
)

// ApologyReply is the only reply a caller sees when any internal stage
// fails. The cause goes to the log, never to the user.
const ApologyReply = "I apologize, but I'm temporarily unable to process your request. Please try again."

type IRetriever interface {
	Retrieve(ctx context.Context, queryText string, intent model.QueryIntent) ([]model.ScoredChunk, error)
}

type ISynthesizer interface {
	Synthesize(ctx context.Context, queryText string, intent model.QueryIntent, retrieved []model.ScoredChunk) (string, []string, error)
}

type Pipeline struct {
	retriever   IRetriever
	synthesizer ISynthesizer
}

func New(retriever IRetriever, synthesizer ISynthesizer) *Pipeline {
	return &Pipeline{retriever: retriever, synthesizer: synthesizer}
}

// AnswerQuery runs the vagueness check, classify, retrieve and
// synthesize for a single query. Vague input short-circuits before
// classification ever runs. It holds no per-conversation state, so one
// Pipeline value serves concurrent callers.
func (p *Pipeline) AnswerQuery(ctx context.Context, queryText string) model.Answer {
	text := strings.TrimSpace(queryText)

	verdict := query.DetectVagueness(text)
	if verdict.IsVague {
		return model.Answer{
			Reply:   clarifyReply(verdict),
			Intent:  model.IntentUnknown,
			Clarify: true,
		}
	}

	intent := query.ClassifyIntent(text)

	retrieved, err := p.retriever.Retrieve(ctx, text, intent)
	if err != nil {
		logutil.GetLogger(ctx).Error("retrieval failed", zap.String("intent", intent.String()), zap.Error(err))
		return model.Answer{Reply: ApologyReply, Intent: intent, Failed: true}
	}

	reply, used, err := p.synthesizer.Synthesize(ctx, text, intent, retrieved)
	if err != nil {
		logutil.GetLogger(ctx).Error("synthesis failed", zap.String("intent", intent.String()), zap.Error(err))
		return model.Answer{Reply: ApologyReply, Intent: intent, Failed: true}
	}
	return model.Answer{Reply: reply, Intent: intent, UsedChunks: used}
}

func clarifyReply(verdict model.VaguenessVerdict) string {
	if verdict.Reason == "" {
		return "Could you share a bit more detail about your legal question?"
	}
	return fmt.Sprintf("Could you clarify your question? %s", verdict.Reason)
}

package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nyaysetu/nyaysetu/internal/model"
	"github.com/nyaysetu/nyaysetu/internal/synthesis"
)

type fakeRetriever struct {
	results []model.ScoredChunk
	err     error
	calls   int
}

func (f *fakeRetriever) Retrieve(ctx context.Context, queryText string, intent model.QueryIntent) ([]model.ScoredChunk, error) {
	f.calls++
	return f.results, f.err
}

type fakeSynthesizer struct {
	reply string
	used  []string
	err   error
	calls int
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, queryText string, intent model.QueryIntent, retrieved []model.ScoredChunk) (string, []string, error) {
	f.calls++
	return f.reply, f.used, f.err
}

func TestAnswerQueryHappyPath(t *testing.T) {
	retriever := &fakeRetriever{
		results: []model.ScoredChunk{
			{Chunk: model.Chunk{ID: "ipc-420#0", Source: "ipc", Section: "420", Text: "Whoever cheats..."}, Score: 0.9},
		},
	}
	synthesizer := &fakeSynthesizer{
		reply: "IPC Section 420: Whoever cheats...",
		used:  []string{"ipc-420#0"},
	}
	p := New(retriever, synthesizer)

	answer := p.AnswerQuery(context.Background(), "What does section 420 of IPC say about cheating?")
	require.Equal(t, model.IntentStatuteLookup, answer.Intent)
	require.False(t, answer.Clarify)
	require.False(t, answer.Failed)
	require.Contains(t, answer.Reply, "420")
	require.Contains(t, answer.Reply, "cheats")
	require.Equal(t, []string{"ipc-420#0"}, answer.UsedChunks)
}

func TestAnswerQueryBlankInputAsksForClarification(t *testing.T) {
	retriever := &fakeRetriever{}
	synthesizer := &fakeSynthesizer{}
	p := New(retriever, synthesizer)

	answer := p.AnswerQuery(context.Background(), "   ")
	require.True(t, answer.Clarify)
	require.NotEmpty(t, answer.Reply)
	require.Equal(t, 0, retriever.calls)
	require.Equal(t, 0, synthesizer.calls)
}

func TestAnswerQueryVagueInputShortCircuits(t *testing.T) {
	retriever := &fakeRetriever{}
	synthesizer := &fakeSynthesizer{}
	p := New(retriever, synthesizer)

	answer := p.AnswerQuery(context.Background(), "Tell me about law")
	require.True(t, answer.Clarify)
	require.Contains(t, answer.Reply, "clarify")
	// Vague input never reaches the classifier.
	require.Equal(t, model.IntentUnknown, answer.Intent)
	require.Equal(t, 0, retriever.calls)
	require.Equal(t, 0, synthesizer.calls)
}

func TestAnswerQueryRetrievalFailureYieldsApology(t *testing.T) {
	retriever := &fakeRetriever{err: fmt.Errorf("connection refused")}
	synthesizer := &fakeSynthesizer{}
	p := New(retriever, synthesizer)

	answer := p.AnswerQuery(context.Background(), "How do I file an FIR at the police station?")
	require.Equal(t, ApologyReply, answer.Reply)
	require.False(t, answer.Clarify)
	require.True(t, answer.Failed)
	require.Equal(t, 0, synthesizer.calls)
}

func TestAnswerQuerySynthesisFailureYieldsApology(t *testing.T) {
	retriever := &fakeRetriever{}
	synthesizer := &fakeSynthesizer{err: fmt.Errorf("template exploded")}
	p := New(retriever, synthesizer)

	answer := p.AnswerQuery(context.Background(), "How do I file an FIR at the police station?")
	require.Equal(t, ApologyReply, answer.Reply)
	require.True(t, answer.Failed)
	require.Empty(t, answer.UsedChunks)
}

func TestAnswerQueryEndToEndWithTemplateSynthesizer(t *testing.T) {
	retriever := &fakeRetriever{
		results: []model.ScoredChunk{
			{
				Chunk: model.Chunk{
					ID:         "ipc-420#0",
					DocumentID: "ipc-420",
					Source:     "ipc",
					Section:    "420",
					Text:       "Cheating and dishonestly inducing delivery of property shall be punished with imprisonment.",
				},
				Score: 0.93,
			},
		},
	}
	p := New(retriever, synthesis.NewSynthesizer(nil))

	answer := p.AnswerQuery(context.Background(), "What is IPC Section 420?")
	require.Equal(t, model.IntentStatuteLookup, answer.Intent)
	require.Contains(t, answer.Reply, "420")
	require.Contains(t, answer.Reply, "Cheating")
	require.NotEqual(t, synthesis.FallbackNoInformation, answer.Reply)
	require.Equal(t, []string{"ipc-420#0"}, answer.UsedChunks)
}

func TestAnswerQueryEmptyIndexReturnsFixedFallback(t *testing.T) {
	p := New(&fakeRetriever{}, synthesis.NewSynthesizer(nil))

	answer := p.AnswerQuery(context.Background(), "What is the punishment for cheating someone?")
	require.Equal(t, synthesis.FallbackNoInformation, answer.Reply)
	require.Empty(t, answer.UsedChunks)
}

func TestAnswerQueryStateless(t *testing.T) {
	retriever := &fakeRetriever{}
	synthesizer := &fakeSynthesizer{reply: "same answer"}
	p := New(retriever, synthesizer)

	first := p.AnswerQuery(context.Background(), "How do I file an FIR at the police station?")
	second := p.AnswerQuery(context.Background(), "How do I file an FIR at the police station?")
	require.Equal(t, first, second)
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ritcompass/internal/llm"
	"ritcompass/internal/metrics"
	"ritcompass/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const scholarshipTimeline = `[{"type": "timeline", "timeline": [
	{"title": "Submit FAFSA", "description": "File online.", "responsible_authority": "Student"}
], "remarks": ""}]`

const weatherMessage = `[{"type": "message", "message": "I can only help with college processes."}]`

type pipelineFixture struct {
	svc        *PipelineService
	classifier *fakeModel
	strict     *fakeModel
	free       *fakeModel
	metrics    *metrics.Metrics
}

// newPipeline wires the pipeline with separate fakes for the classifier and
// the two extraction models so call counts can be checked per role.
func newPipeline(t *testing.T, classifierOutput string, strictOutput, freeOutput string) *pipelineFixture {
	t.Helper()

	kb := testBase(t)
	f := &pipelineFixture{
		classifier: newFakeModel(llm.StrictConfig("classifier"), classifierOutput),
		strict:     newFakeModel(llm.StrictConfig("strict"), strictOutput),
		free:       newFakeModel(llm.FreeConfig("free"), freeOutput),
		metrics:    metrics.New(prometheus.NewRegistry()),
	}

	logger := zaptest.NewLogger(t)
	svc, err := NewPipelineService(
		kb,
		NewClassifierService(kb, f.classifier, logger),
		NewPromptBuilder("RITCompass", "RIT"),
		llm.Models{Strict: f.strict, Free: f.free},
		PipelineConfig{},
		f.metrics,
		logger,
	)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestAsk_ScenarioA_Scholarship(t *testing.T) {
	f := newPipeline(t, `["scholarship"]`, scholarshipTimeline, "")

	res, err := f.svc.Ask(context.Background(), AskRequest{Message: "How do I apply for a scholarship?", ChatID: "c1"})
	require.NoError(t, err)

	assert.Equal(t, []string{"scholarship"}, res.Categories)
	require.Len(t, res.Data, 1)
	assert.Equal(t, models.EntryTypeTimeline, res.Data[0].Type)
	assert.GreaterOrEqual(t, len(res.Data[0].Timeline), 1)

	assert.Len(t, f.strict.Calls(), 1)
	assert.Empty(t, f.free.Calls())

	extraction := f.strict.Calls()[0]
	require.Len(t, extraction, 2)
	assert.Contains(t, extraction[0].Content, "```md\n# Scholarships")
	assert.Equal(t, llm.HumanMessage("How do I apply for a scholarship?"), extraction[1])

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Requests.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ModelSelections.WithLabelValues("strict")))
}

func TestAsk_ScenarioB_NoCategory(t *testing.T) {
	f := newPipeline(t, `[]`, "", weatherMessage)

	res, err := f.svc.Ask(context.Background(), AskRequest{Message: "What's the weather today?", ChatID: "c2"})
	require.NoError(t, err)

	assert.Empty(t, res.Categories)
	require.Len(t, res.Data, 1)
	assert.Equal(t, models.EntryTypeMessage, res.Data[0].Type)
	assert.False(t, res.Data.HasType(models.EntryTypeTimeline))

	assert.Len(t, f.free.Calls(), 1)
	assert.Empty(t, f.strict.Calls())
	assert.NotContains(t, f.free.Calls()[0][0].Content, "```md")
}

func TestAsk_ScenarioC_ClassifierFailure(t *testing.T) {
	f := newPipeline(t, "", scholarshipTimeline, weatherMessage)
	f.classifier.err = errors.New("provider unavailable")

	_, err := f.svc.Ask(context.Background(), AskRequest{Message: "How do I apply?", ChatID: "c3"})
	require.ErrorIs(t, err, ErrClassification)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageClassifying, stageErr.Stage)

	assert.Empty(t, f.strict.Calls())
	assert.Empty(t, f.free.Calls())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Requests.WithLabelValues("classification_error")))
}

func TestAsk_ScenarioD_UnknownCategory(t *testing.T) {
	f := newPipeline(t, `["scholarship", "time_travel"]`, scholarshipTimeline, "")

	_, err := f.svc.Ask(context.Background(), AskRequest{Message: "q", ChatID: "c4"})
	require.ErrorIs(t, err, ErrUnknownCategory)
	assert.Equal(t, "unknown_category", ErrorKind(err))

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageFormatting, stageErr.Stage)
	assert.Empty(t, f.strict.Calls())
}

func TestAsk_InvalidRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     AskRequest
		message string
	}{
		{name: "missing msg", req: AskRequest{ChatID: "c"}, message: "msg is required"},
		{name: "missing chat id", req: AskRequest{Message: "hi"}, message: "chat_id is required"},
		{name: "missing both", req: AskRequest{}, message: "msg and chat_id are required"},
		{name: "blank msg", req: AskRequest{Message: "   ", ChatID: "c"}, message: "msg is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPipeline(t, `["scholarship"]`, scholarshipTimeline, weatherMessage)

			_, err := f.svc.Ask(context.Background(), tt.req)
			require.ErrorIs(t, err, ErrInvalidRequest)

			var invalid *InvalidRequestError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.message, invalid.Error())

			assert.Empty(t, f.classifier.Calls())
			assert.Empty(t, f.strict.Calls())
			assert.Empty(t, f.free.Calls())
		})
	}
}

func TestAsk_ClassifierParseError(t *testing.T) {
	f := newPipeline(t, "```json\n[\"scholarship\"]\n```", scholarshipTimeline, "")

	_, err := f.svc.Ask(context.Background(), AskRequest{Message: "q", ChatID: "c"})
	require.ErrorIs(t, err, ErrClassificationParse)
	assert.Equal(t, "classification_parse_error", ErrorKind(err))
	assert.Empty(t, f.strict.Calls())
	assert.Empty(t, f.free.Calls())
}

func TestAsk_ExtractionError(t *testing.T) {
	f := newPipeline(t, `["scholarship"]`, "", "")
	f.strict.err = errors.New("rate limited")

	_, err := f.svc.Ask(context.Background(), AskRequest{Message: "q", ChatID: "c"})
	require.ErrorIs(t, err, ErrExtraction)
	assert.Len(t, f.strict.Calls(), 1)
}

func TestAsk_ResponseParseError(t *testing.T) {
	f := newPipeline(t, `["scholarship"]`, "Here you go: "+scholarshipTimeline, "")

	_, err := f.svc.Ask(context.Background(), AskRequest{Message: "q", ChatID: "c"})
	require.ErrorIs(t, err, ErrResponseParse)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageParsingResponse, stageErr.Stage)
}

func TestAsk_CallTimeout(t *testing.T) {
	f := newPipeline(t, `["scholarship"]`, "", "")
	f.strict.block = true
	f.svc.cfg.CallTimeout = 20 * time.Millisecond

	_, err := f.svc.Ask(context.Background(), AskRequest{Message: "q", ChatID: "c"})
	require.ErrorIs(t, err, ErrExtraction)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAsk_ClassifierTimeout(t *testing.T) {
	f := newPipeline(t, "", scholarshipTimeline, "")
	f.classifier.block = true
	f.svc.cfg.CallTimeout = 20 * time.Millisecond

	_, err := f.svc.Ask(context.Background(), AskRequest{Message: "q", ChatID: "c"})
	require.ErrorIs(t, err, ErrClassification)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.EqualError(t, err, "classifying: classification failed: context deadline exceeded")
	assert.Equal(t, "classification_error", ErrorKind(err))

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageClassifying, stageErr.Stage)

	assert.Len(t, f.classifier.Calls(), 1)
	assert.Empty(t, f.strict.Calls())
	assert.Empty(t, f.free.Calls())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Requests.WithLabelValues("classification_error")))
}

func TestAsk_MultipleCategoriesKeepOrder(t *testing.T) {
	f := newPipeline(t, `["gym_membership", "scholarship"]`, scholarshipTimeline, "")

	res, err := f.svc.Ask(context.Background(), AskRequest{
		Message: "gym and scholarship",
		ChatID:  "c",
		Claims:  jwt.MapClaims{"sub": "user-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"gym_membership", "scholarship"}, res.Categories)

	system := f.strict.Calls()[0][0].Content
	assert.Less(t, strings.Index(system, "# Gym"), strings.Index(system, "# Scholarships"))
	assert.Contains(t, system, "\n---\n")
}

func TestNewPipelineService_RejectsMismatchedModels(t *testing.T) {
	kb := testBase(t)
	logger := zaptest.NewLogger(t)
	strict := newFakeModel(llm.StrictConfig("s"))

	_, err := NewPipelineService(kb, NewClassifierService(kb, strict, logger), NewPromptBuilder("a", "b"),
		llm.Models{Strict: strict, Free: newFakeModel(llm.StrictConfig("not-free"))},
		PipelineConfig{}, metrics.New(prometheus.NewRegistry()), logger)
	require.Error(t, err)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ritcompass/internal/knowledge"
	"ritcompass/internal/llm"
	"ritcompass/internal/metrics"
	"ritcompass/internal/models"
	"ritcompass/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AskRequest is one user question. Claims are the decoded identity token, if
// the caller sent one; the pipeline only logs them.
type AskRequest struct {
	RequestID string
	Message   string
	ChatID    string
	Claims    jwt.MapClaims
}

// AskResult is the combined outcome of a successful request.
type AskResult struct {
	Categories []string
	Data       models.ExtractionResult
}

type PipelineConfig struct {
	// CallTimeout bounds each model call. Zero means no deadline beyond ctx.
	CallTimeout time.Duration
}

// PipelineService runs classify-then-extract for one request at a time. It
// holds only read-only collaborators and is safe for concurrent use.
type PipelineService struct {
	kb         *knowledge.Base
	classifier *ClassifierService
	prompts    *PromptBuilder
	models     llm.Models
	cfg        PipelineConfig
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewPipelineService(
	kb *knowledge.Base,
	classifier *ClassifierService,
	prompts *PromptBuilder,
	models llm.Models,
	cfg PipelineConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*PipelineService, error) {
	if err := models.Validate(); err != nil {
		return nil, err
	}
	return &PipelineService{
		kb:         kb,
		classifier: classifier,
		prompts:    prompts,
		models:     models,
		cfg:        cfg,
		metrics:    m,
		logger:     logger,
	}, nil
}

// Ask validates the request, classifies the query, builds the context-augmented
// instruction and parses the extraction model's answer. Any failure ends the
// request with a *StageError; no partial result is returned.
func (s *PipelineService) Ask(ctx context.Context, req AskRequest) (*AskResult, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	log := logger.WithRequest(s.logger, req.RequestID, req.ChatID)

	result, err := s.run(ctx, req, log)
	if err != nil {
		s.metrics.ObserveRequest(ErrorKind(err))
		return nil, err
	}
	s.metrics.ObserveRequest("ok")
	return result, nil
}

func (s *PipelineService) run(ctx context.Context, req AskRequest, log *zap.Logger) (*AskResult, error) {
	req.Message = sanitizeUTF8(req.Message)
	stage := StageValidatingInput
	fail := func(err error, fields ...zap.Field) error {
		fields = append(fields,
			zap.String("stage", string(stage)),
			zap.String("query", req.Message),
			zap.String("kind", ErrorKind(err)),
			zap.Error(err),
		)
		if errors.Is(err, ErrInvalidRequest) {
			log.Warn("Ask request rejected", fields...)
		} else {
			log.Error("Ask pipeline failed", fields...)
		}
		return &StageError{Stage: stage, Err: err}
	}

	if err := validate(req); err != nil {
		return nil, fail(err)
	}
	if sub, err := req.Claims.GetSubject(); err == nil && sub != "" {
		log = log.With(zap.String("subject", sub))
	}

	stage = StageClassifying
	var categories []string
	err := s.call(ctx, stage, func(ctx context.Context) error {
		var err error
		categories, err = s.classifier.Classify(ctx, req.Message)
		return err
	})
	if err != nil {
		return nil, fail(err)
	}
	s.metrics.ObserveCategories(len(categories))
	log.Info("Query classified", zap.Strings("categories", categories))

	stage = StageFormatting
	docs := make([]string, 0, len(categories))
	for _, key := range categories {
		rec, err := s.kb.Get(key)
		if err != nil {
			if errors.Is(err, knowledge.ErrCategoryNotFound) {
				return nil, fail(fmt.Errorf("%w: %q", ErrUnknownCategory, key), zap.Strings("categories", categories))
			}
			return nil, fail(err)
		}
		docs = append(docs, knowledge.Format(rec))
	}

	stage = StageSelectingModel
	model := SelectModel(categories, s.models)
	mode := model.Config().Mode
	s.metrics.ObserveSelection(string(mode))
	if mode == llm.ModeFree {
		log.Info("Using the free model; no category matched")
	}

	stage = StageBuildingPrompt
	messages := s.prompts.Build(req.Message, docs)

	stage = StageExtracting
	var raw string
	err = s.call(ctx, stage, func(ctx context.Context) error {
		var err error
		raw, err = model.Invoke(ctx, messages)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExtraction, err)
		}
		return nil
	})
	if err != nil {
		return nil, fail(err, zap.String("model", model.Config().Name))
	}

	stage = StageParsingResponse
	data, err := ParseResponse(raw)
	if err != nil {
		return nil, fail(err, zap.String("raw_output", raw), zap.String("mode", string(mode)))
	}

	stage = StageDone
	log.Info("Ask request completed",
		zap.String("mode", string(mode)),
		zap.Int("entries", len(data)),
	)
	return &AskResult{Categories: categories, Data: data}, nil
}

// call runs one model invocation under the per-call deadline and records its
// duration.
func (s *PipelineService) call(ctx context.Context, stage Stage, fn func(ctx context.Context) error) error {
	if s.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.CallTimeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)

	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.ObserveModelCall(string(stage), status, time.Since(start).Seconds())
	return err
}

func validate(req AskRequest) error {
	var missing []string
	if strings.TrimSpace(req.Message) == "" {
		missing = append(missing, "msg")
	}
	if strings.TrimSpace(req.ChatID) == "" {
		missing = append(missing, "chat_id")
	}
	if len(missing) > 0 {
		return &InvalidRequestError{Missing: missing}
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/apex/log"
	"google.golang.org/genai"

	"wardrobe-matcher/apperror"
	"wardrobe-matcher/llm"
	"wardrobe-matcher/metrics"
	"wardrobe-matcher/models"
	"wardrobe-matcher/parser"
	"wardrobe-matcher/payload"
)

// Stage is a step of the per-request pipeline.
type Stage string

const (
	StageReceived  Stage = "received"
	StageAssembled Stage = "assembled"
	StageSubmitted Stage = "submitted"
	StageParsed    Stage = "parsed"
	StageFailed    Stage = "failed"
	StageResponded Stage = "responded"
)

// Analyzer runs the received → assembled → submitted → parsed pipeline for
// one request at a time. It holds no per-request state and is safe for
// concurrent use.
type Analyzer struct {
	client    llm.Client
	assembler *payload.Assembler
	timeout   time.Duration
}

// NewAnalyzer creates an Analyzer. A zero timeout leaves the caller's context
// deadline as the only bound.
func NewAnalyzer(client llm.Client, assembler *payload.Assembler, timeout time.Duration) *Analyzer {
	return &Analyzer{
		client:    client,
		assembler: assembler,
		timeout:   timeout,
	}
}

// Analyze picks the best top/bottom combination among images.
func (a *Analyzer) Analyze(ctx context.Context, requestID string, images []models.UploadedImage, cfg models.RequestConfig) (*models.AnalysisResult, error) {
	logger := log.WithFields(log.Fields{
		"request_id": requestID,
		"kind":       "analyze",
		"images":     len(images),
		"provider":   a.client.SourceName(),
	})
	logger.WithField("stage", StageReceived).Debug("analysis request")

	p, err := a.assembler.Assemble(images, cfg)
	if err != nil {
		return nil, a.fail(logger, "analyze", err)
	}
	logger.WithFields(log.Fields{"stage": StageAssembled, "parts": len(p.Parts)}).Debug("payload assembled")
	metrics.ImagesPerRequest.Observe(float64(len(images)))

	raw, err := a.submit(ctx, logger, llm.Request{
		SystemInstruction: payload.WardrobeInstruction,
		Parts:             p.Parts,
		Schema:            p.Schema,
	})
	if err != nil {
		return nil, a.fail(logger, "analyze", err)
	}

	result, err := parser.ParseAnalysis(raw)
	if err != nil {
		return nil, a.fail(logger, "analyze", err)
	}
	logger.WithFields(log.Fields{"stage": StageParsed, "top": result.Top, "bottom": result.Bottom}).Info("analysis complete")
	metrics.RequestsTotal.WithLabelValues("analyze", "ok").Inc()
	return result, nil
}

// Prompt forwards a free-form prompt and returns the provider's answer.
func (a *Analyzer) Prompt(ctx context.Context, requestID, prompt string) (*models.PromptResult, error) {
	logger := log.WithFields(log.Fields{
		"request_id": requestID,
		"kind":       "prompt",
		"provider":   a.client.SourceName(),
	})
	logger.WithField("stage", StageReceived).Debug("prompt request")

	if prompt == "" {
		return nil, a.fail(logger, "prompt", apperror.NewValidation("", "Prompt field required"))
	}

	raw, err := a.submit(ctx, logger, llm.Request{
		SystemInstruction: payload.PromptInstruction,
		Parts:             []*genai.Part{genai.NewPartFromText(prompt)},
		Schema:            payload.PromptSchema(),
	})
	if err != nil {
		return nil, a.fail(logger, "prompt", err)
	}

	result, err := parser.ParsePromptReply(raw)
	if err != nil {
		return nil, a.fail(logger, "prompt", err)
	}
	logger.WithField("stage", StageParsed).Info("prompt answered")
	metrics.RequestsTotal.WithLabelValues("prompt", "ok").Inc()
	return result, nil
}

func (a *Analyzer) submit(ctx context.Context, logger *log.Entry, req llm.Request) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	logger.WithField("stage", StageSubmitted).Debug("calling provider")
	start := time.Now()
	raw, err := a.client.Generate(ctx, req)
	elapsed := time.Since(start)

	result := "ok"
	if err != nil {
		result = "error"
		var providerErr *apperror.ProviderError
		if !errors.As(err, &providerErr) {
			err = &apperror.ProviderError{Provider: a.client.SourceName(), Err: err}
		}
	}
	metrics.ProviderDurationSeconds.WithLabelValues(a.client.SourceName(), result).Observe(elapsed.Seconds())
	logger.WithFields(log.Fields{"elapsed": elapsed.String(), "result": result}).Debug("provider returned")
	return raw, err
}

func (a *Analyzer) fail(logger *log.Entry, kind string, err error) error {
	errKind := apperror.Kind(err)
	logger.WithFields(log.Fields{"stage": StageFailed, "error_kind": errKind}).WithError(err).Warn("request failed")
	metrics.RequestsTotal.WithLabelValues(kind, errKind).Inc()
	return err
}

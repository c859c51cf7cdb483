// Package pipeline implements the four-stage message workflow:
// ingest -> classify -> extract -> draft. One Orchestrator invocation
// owns one PipelineState; stages run strictly in order and the only
// branch point is the short-circuit check after classification.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/al-mudeer/inbox-agent/internal/analytics"
	"github.com/al-mudeer/inbox-agent/internal/config"
	"github.com/al-mudeer/inbox-agent/internal/fetch"
	"github.com/al-mudeer/inbox-agent/internal/llm"
	"github.com/al-mudeer/inbox-agent/internal/model"
)

// Stage is one step of the workflow.
type Stage string

const (
	StageIngest   Stage = "ingest"
	StageClassify Stage = "classify"
	StageExtract  Stage = "extract"
	StageDraft    Stage = "draft"
	StageDone     Stage = "done"
)

// Orchestrator sequences the stages over a single PipelineState.
type Orchestrator struct {
	cfg      *config.Config
	gateway  llm.Gateway
	fetcher  fetch.Fetcher
	recorder analytics.Recorder
}

// New creates an Orchestrator with all collaborators. fetcher and
// recorder may be nil; the corresponding side effects are skipped.
func New(cfg *config.Config, gateway llm.Gateway, fetcher fetch.Fetcher, recorder analytics.Recorder) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		gateway:  gateway,
		fetcher:  fetcher,
		recorder: recorder,
	}
}

// next returns the stage following cur. The only conditional edge is
// after classify: short-circuit intents end the pipeline early.
func (o *Orchestrator) next(cur Stage, state *model.PipelineState) Stage {
	switch cur {
	case StageIngest:
		return StageClassify
	case StageClassify:
		if o.shortCircuit(state.Intent) {
			return StageDone
		}
		return StageExtract
	case StageExtract:
		return StageDraft
	default:
		return StageDone
	}
}

func (o *Orchestrator) shortCircuit(intent model.Intent) bool {
	for _, s := range o.cfg.Pipeline.ShortCircuitIntents {
		if string(intent) == s {
			return true
		}
	}
	return false
}

// Process runs one message through the pipeline. It never returns a Go
// error: stage-local LLM failures degrade the state, and unexpected
// panics are converted into a structured failure result.
func (o *Orchestrator) Process(ctx context.Context, req model.ProcessRequest) (result model.ProcessResult) {
	invocation := uuid.New().String()
	log := zap.L().With(zap.String("invocation", invocation))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline: recovered from panic", zap.Any("panic", r))
			result = model.ProcessResult{
				Success: false,
				Error:   fmt.Sprintf("unexpected processing failure: %v", r),
			}
		}
	}()

	// Local blocking pre-pass: obviously automated traffic never
	// reaches the model.
	if reason, blocked := blockedByFilters(req); blocked {
		log.Info("pipeline: message filtered", zap.String("reason", reason))
		return filteredResult(req, reason)
	}

	state := &model.PipelineState{
		RawMessage:          req.Message,
		MessageType:         req.MessageType,
		SenderName:          req.SenderName,
		SenderContact:       req.SenderContact,
		KeyPoints:           []string{},
		ActionItems:         []string{},
		ExtractedEntities:   map[string][]string{},
		SuggestedActions:    []string{},
		Preferences:         req.Preferences,
		ConversationHistory: req.ConversationHistory,
		Attachments:         req.Attachments,
	}

	for stage := StageIngest; stage != StageDone; stage = o.next(stage, state) {
		state.ProcessingStep = string(stage)

		switch stage {
		case StageIngest:
			o.ingest(ctx, state, log)
		case StageClassify:
			o.classify(ctx, state, log)
		case StageExtract:
			o.extract(ctx, state, log)
		case StageDraft:
			o.draft(ctx, state, log)
		}
	}

	log.Info("pipeline: done",
		zap.String("intent", string(state.Intent)),
		zap.String("urgency", string(state.Urgency)),
		zap.String("step", state.ProcessingStep),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return model.ProcessResult{
		Success:   true,
		Data:      state,
		Retryable: state.Intent == model.IntentPending,
	}
}

// filteredResult is the terminal result for locally blocked messages.
// Shaped like a classify short-circuit so callers handle both the same
// way.
func filteredResult(req model.ProcessRequest, reason string) model.ProcessResult {
	state := &model.PipelineState{
		RawMessage:        req.Message,
		MessageType:       req.MessageType,
		Intent:            model.IntentAutomated,
		Urgency:           model.UrgencyLow,
		Sentiment:         model.SentimentNeutral,
		Language:          "ar",
		SenderName:        req.SenderName,
		SenderContact:     req.SenderContact,
		KeyPoints:         []string{},
		ActionItems:       []string{},
		ExtractedEntities: map[string][]string{},
		SuggestedActions:  []string{},
		Summary:           "تم تجاهل الرسالة: " + reason,
		ProcessingStep:    string(StageClassify),
	}
	if state.MessageType == "" {
		state.MessageType = model.MessageTypeGeneral
	}
	return model.ProcessResult{Success: true, Data: state}
}

func (o *Orchestrator) licenseID(state *model.PipelineState) int64 {
	if state.Preferences == nil {
		return 0
	}
	return state.Preferences.LicenseID
}

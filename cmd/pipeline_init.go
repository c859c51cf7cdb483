package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/al-mudeer/inbox-agent/internal/analytics"
	"github.com/al-mudeer/inbox-agent/internal/fetch"
	"github.com/al-mudeer/inbox-agent/internal/llm"
	"github.com/al-mudeer/inbox-agent/internal/pipeline"
	anthropicpkg "github.com/al-mudeer/inbox-agent/pkg/anthropic"
	"github.com/al-mudeer/inbox-agent/pkg/openai"
)

// pipelineEnv holds the initialized collaborators needed by the
// process/serve/stats commands.
type pipelineEnv struct {
	Orchestrator *pipeline.Orchestrator
	Gateway      *llm.Service
	Recorder     analytics.Recorder
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Recorder != nil {
		_ = pe.Recorder.Close()
	}
}

// initPipeline builds the LLM gateway, the link fetcher, and the
// analytics recorder, then assembles the orchestrator. Callers should
// defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	if cfg.OpenAI.Key == "" && cfg.Anthropic.Key == "" {
		return nil, eris.New("init: no LLM provider configured (set MUDEER_OPENAI_KEY or MUDEER_ANTHROPIC_KEY)")
	}

	var providers []llm.Provider
	if cfg.OpenAI.Key != "" {
		client := openai.NewClient(cfg.OpenAI.Key,
			openai.WithBaseURL(cfg.OpenAI.BaseURL),
			openai.WithModel(cfg.OpenAI.Model),
		)
		providers = append(providers, llm.NewOpenAIProvider(client, cfg.OpenAI.Model))
	}
	if cfg.Anthropic.Key != "" {
		client := anthropicpkg.NewClient(cfg.Anthropic.Key)
		providers = append(providers, llm.NewAnthropicProvider(client, cfg.Anthropic.Model))
	}
	zap.L().Info("llm gateway configured", zap.Int("providers", len(providers)))

	gateway := llm.NewService(cfg.LLM, providers...)
	fetcher := fetch.New(cfg.Fetch)

	var recorder analytics.Recorder = analytics.Noop{}
	if cfg.Analytics.Enabled {
		rec, err := analytics.NewSQLite(cfg.Analytics.DBPath)
		if err != nil {
			return nil, eris.Wrap(err, "init: open analytics db")
		}
		if err := rec.Migrate(ctx); err != nil {
			_ = rec.Close()
			return nil, eris.Wrap(err, "init: migrate analytics db")
		}
		recorder = rec
	}

	return &pipelineEnv{
		Orchestrator: pipeline.New(cfg, gateway, fetcher, recorder),
		Gateway:      gateway,
		Recorder:     recorder,
	}, nil
}

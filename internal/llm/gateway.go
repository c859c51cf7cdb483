// Package llm implements the gateway the pipeline calls for every model
// completion: ordered provider failover, response caching, per-provider
// circuit breaking, and global concurrency/rate limiting.
package llm

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/al-mudeer/inbox-agent/internal/config"
	"github.com/al-mudeer/inbox-agent/internal/model"
	"github.com/al-mudeer/inbox-agent/internal/resilience"
)

// Request carries one completion request through the gateway.
type Request struct {
	Prompt      string
	System      string
	JSONMode    bool
	MaxTokens   int
	Temperature float64
	Attachments []model.MediaRef
}

// Gateway is the single boundary the pipeline talks to. A non-nil error
// means every provider was exhausted; callers degrade, they never retry
// inline.
type Gateway interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Provider is one upstream model API in the failover chain.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// ErrAllProvidersFailed is returned when no provider produced a usable
// completion.
var ErrAllProvidersFailed = eris.New("llm: all providers failed")

// Stats is a point-in-time snapshot of gateway activity.
type Stats struct {
	TotalRequests int64             `json:"total_requests"`
	CacheHits     int64             `json:"cache_hits"`
	Failures      int64             `json:"failures"`
	ProviderCalls map[string]int64  `json:"provider_calls"`
	Breakers      map[string]string `json:"breakers"`
}

// Service is the production Gateway: tries providers in order, caches
// successful completions, trips a breaker per failing provider, and
// bounds concurrency and request rate across all pipeline invocations.
type Service struct {
	providers []Provider
	breakers  map[string]*resilience.Breaker
	cache     *responseCache
	sem       *semaphore.Weighted
	limiter   *rate.Limiter
	retry     resilience.RetryPolicy
	timeout   time.Duration

	mu            sync.Mutex
	totalRequests int64
	cacheHits     int64
	failures      int64
	providerCalls map[string]int64
}

// NewService builds a gateway over the given providers, first to last.
func NewService(cfg config.LLMConfig, providers ...Provider) *Service {
	var cache *responseCache
	if cfg.CacheEnabled {
		cache = newResponseCache(cfg.CacheMaxEntries, time.Duration(cfg.CacheTTLHours)*time.Hour)
	}

	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 3
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2.0
	}
	timeout := time.Duration(cfg.CallTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	retry := resilience.DefaultRetryPolicy()
	if cfg.MaxRetries > 0 {
		retry.MaxAttempts = cfg.MaxRetries
	}

	breakers := make(map[string]*resilience.Breaker, len(providers))
	for _, p := range providers {
		b := resilience.NewBreaker(cfg.BreakerThreshold, time.Duration(cfg.BreakerCooldownSec)*time.Second)
		name := p.Name()
		b.OnTransition(func(from, to resilience.BreakerState) {
			zap.L().Warn("llm: provider breaker state change",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		})
		breakers[name] = b
	}

	return &Service{
		providers:     providers,
		breakers:      breakers,
		cache:         cache,
		sem:           semaphore.NewWeighted(int64(maxConcurrent)),
		limiter:       rate.NewLimiter(rate.Limit(rps), 1),
		retry:         retry,
		timeout:       timeout,
		providerCalls: make(map[string]int64),
	}
}

// Generate runs the failover chain. Attachments are forwarded to each
// provider unmodified; providers that cannot carry them ignore them.
func (s *Service) Generate(ctx context.Context, req Request) (string, error) {
	s.mu.Lock()
	s.totalRequests++
	s.mu.Unlock()

	if s.cache != nil {
		if text, ok := s.cache.get(req); ok {
			s.mu.Lock()
			s.cacheHits++
			s.mu.Unlock()
			zap.L().Debug("llm: cache hit")
			return text, nil
		}
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", eris.Wrap(err, "llm: acquire slot")
	}
	defer s.sem.Release(1)

	if err := s.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "llm: rate limit wait")
	}

	var lastErr error
	for _, p := range s.providers {
		breaker := s.breakers[p.Name()]
		if err := breaker.Allow(); err != nil {
			zap.L().Debug("llm: provider skipped, breaker open", zap.String("provider", p.Name()))
			lastErr = err
			continue
		}

		policy := s.retry
		policy.OnRetry = resilience.RetryLogger(p.Name(), "generate")

		start := time.Now()
		text, err := resilience.Retry(ctx, policy, func(ctx context.Context) (string, error) {
			callCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			return p.Generate(callCtx, req)
		})
		if err == nil && strings.TrimSpace(text) == "" {
			err = eris.Errorf("llm: %s returned empty completion", p.Name())
		}
		breaker.Record(err)

		if err != nil {
			zap.L().Warn("llm: provider failed",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			lastErr = err
			continue
		}

		s.mu.Lock()
		s.providerCalls[p.Name()]++
		s.mu.Unlock()

		if s.cache != nil {
			s.cache.set(req, text)
		}

		zap.L().Info("llm: completion",
			zap.String("provider", p.Name()),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
		)
		return text, nil
	}

	s.mu.Lock()
	s.failures++
	s.mu.Unlock()

	if lastErr != nil {
		return "", eris.Wrap(lastErr, "llm: all providers failed")
	}
	return "", ErrAllProvidersFailed
}

// Stats returns a snapshot of gateway counters and breaker states.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	calls := make(map[string]int64, len(s.providerCalls))
	for k, v := range s.providerCalls {
		calls[k] = v
	}
	breakers := make(map[string]string, len(s.breakers))
	for name, b := range s.breakers {
		breakers[name] = b.State().String()
	}

	return Stats{
		TotalRequests: s.totalRequests,
		CacheHits:     s.cacheHits,
		Failures:      s.failures,
		ProviderCalls: calls,
		Breakers:      breakers,
	}
}

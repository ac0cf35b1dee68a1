// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"call_analysis/internal/feature/callanalysis/adapters/gemini"
	"call_analysis/internal/feature/callanalysis/adapters/heuristic"
	"call_analysis/internal/feature/callanalysis/adapters/openai"
	"call_analysis/internal/feature/callanalysis/usecase"
	"call_analysis/internal/platform/cache"
	infrahttp "call_analysis/internal/platform/http"
	"call_analysis/internal/shared/ratelimiter"
)

const (
	BackendHeuristic = "heuristic"
	BackendGemini    = "gemini"
	BackendOpenAI    = "openai"
)

// AnalyzerConfig selects and tunes the transcript analyzer.
type AnalyzerConfig struct {
	Backend     string        // heuristic | gemini | openai
	LexiconFile string        // optional YAML keyword lists for the heuristic backend
	RateLimit   int           // model calls per minute; 0 disables throttling
	CacheTTL    time.Duration // Redis cache TTL for model results
}

// LoadAnalyzerConfig loads analyzer settings from environment variables.
func LoadAnalyzerConfig() AnalyzerConfig {
	backend := os.Getenv("ANALYZER_BACKEND")
	if backend == "" {
		backend = BackendHeuristic
	}
	rl, _ := strconv.Atoi(os.Getenv("ANALYZER_RATE_LIMIT"))
	ttl, _ := time.ParseDuration(os.Getenv("ANALYSIS_CACHE_TTL"))
	return AnalyzerConfig{
		Backend:     backend,
		LexiconFile: os.Getenv("SENTIMENT_LEXICON_FILE"),
		RateLimit:   rl,
		CacheTTL:    ttl,
	}
}

// NewAnalyzer builds the configured analyzer.
// The heuristic backend is pure and cheap, so it is returned undecorated.
// Model backends are rate limited and, when rdb is non-nil, cached in Redis.
func NewAnalyzer(ctx context.Context, cfg AnalyzerConfig, rdb *redis.Client) (usecase.TranscriptAnalyzer, error) {
	var base usecase.TranscriptAnalyzer
	switch cfg.Backend {
	case "", BackendHeuristic:
		lx, err := heuristic.LoadLexicon(cfg.LexiconFile)
		if err != nil {
			return nil, err
		}
		return heuristic.NewAnalyzer(lx), nil
	case BackendGemini:
		g, err := gemini.NewGeminiAnalyzer(ctx, gemini.LoadConfig())
		if err != nil {
			return nil, err
		}
		base = g
	case BackendOpenAI:
		ocfg := openai.LoadConfig()
		o, err := openai.NewAnalyzer(ocfg, infrahttp.NewHTTPClient(ocfg.Timeout))
		if err != nil {
			return nil, err
		}
		base = o
	default:
		return nil, fmt.Errorf("unsupported ANALYZER_BACKEND %q", cfg.Backend)
	}

	if cfg.RateLimit > 0 {
		base = ratelimiter.NewLimitedAnalyzer(base, ratelimiter.NewRateLimiter(cfg.RateLimit, time.Minute))
	}
	// キャッシュは制限の外側に置き、ヒット時はトークンを消費しない
	return cache.NewCachingAnalyzer(rdb, cfg.CacheTTL, base, cfg.Backend), nil
}

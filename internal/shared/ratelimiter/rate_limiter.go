// Package ratelimiter throttles calls to model-backed analyzers.
package ratelimiter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"call_analysis/internal/feature/callanalysis/domain/entity"
	"call_analysis/internal/feature/callanalysis/usecase"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	Wait(ctx context.Context) error
}

// RateLimiter は interval あたり limit 回まで呼び出しを許可します。
type RateLimiter struct {
	limiter *rate.Limiter
	limit   int
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
// バーストはlimitと同じで、トークンはinterval全体に均等に補充されます。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 1
	}
	every := rate.Every(interval / time.Duration(limit))
	return &RateLimiter{limiter: rate.NewLimiter(every, limit), limit: limit}
}

// Wait はトークンが得られるまで待機します。ctxがキャンセルされるとエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.limiter.Tokens() < 1 {
		slog.Debug("[RATE LIMIT] waiting for a token", "limit", rl.limit)
	}
	return rl.limiter.Wait(ctx)
}

// LimitedAnalyzer はTranscriptAnalyzerの呼び出しをレート制限します。
type LimitedAnalyzer struct {
	inner   usecase.TranscriptAnalyzer
	limiter RateLimiterInterface
}

var _ usecase.TranscriptAnalyzer = (*LimitedAnalyzer)(nil)

// NewLimitedAnalyzer はinnerをlimiterで包みます。
func NewLimitedAnalyzer(inner usecase.TranscriptAnalyzer, limiter RateLimiterInterface) *LimitedAnalyzer {
	return &LimitedAnalyzer{inner: inner, limiter: limiter}
}

// Analyze はトークン取得後にinnerを呼び出します。
func (a *LimitedAnalyzer) Analyze(ctx context.Context, transcript string) (entity.AnalysisResult, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return entity.AnalysisResult{}, fmt.Errorf("rate limit wait: %w", err)
	}
	return a.inner.Analyze(ctx, transcript)
}

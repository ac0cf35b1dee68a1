package router

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	callanalysishandler "call_analysis/internal/feature/callanalysis/transport/handler"
	"call_analysis/internal/platform/http/handler"
)

// Options configures optional router features.
type Options struct {
	AllowedOrigins []string                 // CORS is enabled only when non-empty
	ReadyChecks    map[string]handler.Check // dependency checks for /readyz
}

// ParseOrigins splits a comma-separated CORS_ALLOWED_ORIGINS value.
func ParseOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func NewRouter(callAnalysis *callanalysishandler.CallAnalysisHandler, opts Options) *gin.Engine {
	r := gin.Default()

	if len(opts.AllowedOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = opts.AllowedOrigins
		r.Use(cors.New(cfg))
	}

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)
	r.GET("/readyz", handler.Readiness(opts.ReadyChecks))

	// 入力フォーム
	r.GET("/", callAnalysis.Index)
	// 分析（JSON / フォーム）
	r.POST("/analyze", callAnalysis.Analyze)
	// 履歴
	r.GET("/records", callAnalysis.Records)

	return r
}

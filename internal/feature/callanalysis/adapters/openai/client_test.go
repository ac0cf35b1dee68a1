package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"call_analysis/internal/feature/callanalysis/domain/entity"
)

// newTestServer returns a chat completion endpoint replying with content.
func newTestServer(t *testing.T, status int, content string) (*httptest.Server, *map[string]any) {
	t.Helper()

	captured := map[string]any{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&captured)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func newTestAnalyzer(t *testing.T, srv *httptest.Server) *Analyzer {
	t.Helper()

	a, err := NewAnalyzer(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1", Model: "test-model"}, srv.Client())
	require.NoError(t, err)
	return a
}

func TestAnalyzer_Analyze_Success(t *testing.T) {
	t.Parallel()

	srv, captured := newTestServer(t, http.StatusOK, `{"summary":"Payment failed.","sentiment":"Negative"}`)
	a := newTestAnalyzer(t, srv)

	got, err := a.Analyze(context.Background(), "The payment failed.")

	require.NoError(t, err)
	assert.Equal(t, entity.AnalysisResult{Summary: "Payment failed.", Sentiment: entity.SentimentNegative}, got)
	assert.Equal(t, "test-model", (*captured)["model"])
	messages, ok := (*captured)["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
}

func TestAnalyzer_Analyze_BadContent(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, http.StatusOK, "I think it was negative")
	a := newTestAnalyzer(t, srv)

	_, err := a.Analyze(context.Background(), "hello")

	assert.Error(t, err)
}

func TestAnalyzer_Analyze_ServerError(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, http.StatusInternalServerError, "")
	a := newTestAnalyzer(t, srv)

	_, err := a.Analyze(context.Background(), "hello")

	assert.Error(t, err)
}

func TestNewAnalyzer_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewAnalyzer(Config{}, nil)

	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "k")
	t.Setenv("OPENAI_BASE_URL", "https://api.groq.com/openai/v1")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("ANALYZER_TIMEOUT", "")

	cfg := LoadConfig()

	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.BaseURL)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestLoadConfig_Timeout(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want time.Duration
	}{
		{"valid", "5s", 5 * time.Second},
		{"invalid", "soon", DefaultTimeout},
		{"negative", "-1s", DefaultTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ANALYZER_TIMEOUT", tt.env)
			assert.Equal(t, tt.want, LoadConfig().Timeout)
		})
	}
}

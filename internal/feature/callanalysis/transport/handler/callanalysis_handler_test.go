package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"call_analysis/internal/feature/callanalysis/domain/entity"
	"call_analysis/internal/feature/callanalysis/transport/handler"
	"call_analysis/internal/feature/callanalysis/usecase"
)

// mockCallAnalysisUsecase はCallAnalysisUsecaseインターフェースのモック実装です。
type mockCallAnalysisUsecase struct {
	AnalyzeCallFunc   func(ctx context.Context, transcript string) (*entity.LogRecord, error)
	RecentRecordsFunc func(ctx context.Context, limit int) ([]entity.StoredRecord, error)
	AnalyzeCallCalls  int
}

func (m *mockCallAnalysisUsecase) AnalyzeCall(ctx context.Context, transcript string) (*entity.LogRecord, error) {
	m.AnalyzeCallCalls++
	return m.AnalyzeCallFunc(ctx, transcript)
}

func (m *mockCallAnalysisUsecase) RecentRecords(ctx context.Context, limit int) ([]entity.StoredRecord, error) {
	return m.RecentRecordsFunc(ctx, limit)
}

func analyzedAs(summary string, s entity.Sentiment) func(ctx context.Context, transcript string) (*entity.LogRecord, error) {
	return func(ctx context.Context, transcript string) (*entity.LogRecord, error) {
		return &entity.LogRecord{Transcript: transcript, Summary: summary, Sentiment: s}, nil
	}
}

func newRouter(uc handler.CallAnalysisUsecase) *gin.Engine {
	h := handler.NewCallAnalysisHandler(uc)
	router := gin.New()
	router.GET("/", h.Index)
	router.POST("/analyze", h.Analyze)
	router.GET("/records", h.Records)
	return router
}

func TestCallAnalysisHandler_Analyze_JSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		contentType    string
		requestBody    string
		mockFunc       func(ctx context.Context, transcript string) (*entity.LogRecord, error)
		expectedStatus int
		expectedBody   string
		expectedCalls  int
	}{
		{
			name:           "success: analysis returned",
			contentType:    "application/json",
			requestBody:    `{"transcript":"Thanks so much, that was great help!"}`,
			mockFunc:       analyzedAs("Thanks so much, that was great help!.", entity.SentimentPositive),
			expectedStatus: http.StatusOK,
			expectedBody:   `{"transcript":"Thanks so much, that was great help!","summary":"Thanks so much, that was great help!.","sentiment":"Positive"}`,
			expectedCalls:  1,
		},
		{
			name:           "success: vendor json content type",
			contentType:    "application/vnd.api+json",
			requestBody:    `{"transcript":"hello"}`,
			mockFunc:       analyzedAs("hello.", entity.SentimentNeutral),
			expectedStatus: http.StatusOK,
			expectedBody:   `{"transcript":"hello","summary":"hello.","sentiment":"Neutral"}`,
			expectedCalls:  1,
		},
		{
			name:           "error: missing transcript",
			contentType:    "application/json",
			requestBody:    `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"No transcript provided"}`,
		},
		{
			name:           "error: empty transcript",
			contentType:    "application/json",
			requestBody:    `{"transcript":""}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"No transcript provided"}`,
		},
		{
			name:           "error: invalid json",
			contentType:    "application/json",
			requestBody:    `invalid`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request body"}`,
		},
		{
			name:        "error: record not persisted",
			contentType: "application/json",
			requestBody: `{"transcript":"hello"}`,
			mockFunc: func(ctx context.Context, transcript string) (*entity.LogRecord, error) {
				return nil, fmt.Errorf("%w: %w", usecase.ErrRecordNotPersisted, errors.New("permission denied"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"failed to save analysis"}`,
			expectedCalls:  1,
		},
		{
			name:        "error: analyzer failed",
			contentType: "application/json",
			requestBody: `{"transcript":"hello"}`,
			mockFunc: func(ctx context.Context, transcript string) (*entity.LogRecord, error) {
				return nil, fmt.Errorf("%w: %w", usecase.ErrAnalysisFailed, errors.New("timeout"))
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"analysis failed"}`,
			expectedCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockCallAnalysisUsecase{AnalyzeCallFunc: tt.mockFunc}
			router := newRouter(mockUC)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/analyze", strings.NewReader(tt.requestBody))
			req.Header.Set("Content-Type", tt.contentType)

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			assert.Equal(t, tt.expectedCalls, mockUC.AnalyzeCallCalls)
		})
	}
}

func TestCallAnalysisHandler_Analyze_Form(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success: html result page", func(t *testing.T) {
		mockUC := &mockCallAnalysisUsecase{AnalyzeCallFunc: analyzedAs("Payment failed.", entity.SentimentNegative)}
		router := newRouter(mockUC)

		form := url.Values{"transcript": {"Payment failed. <b>help</b>"}}
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		body := w.Body.String()
		assert.Contains(t, body, "<strong>Summary:</strong> Payment failed.")
		assert.Contains(t, body, "<strong>Sentiment:</strong> Negative")
		assert.Contains(t, body, "&lt;b&gt;help&lt;/b&gt;", "transcript must be escaped")
		assert.Contains(t, body, `<a href="/">Back</a>`)
	})

	t.Run("error: missing form field", func(t *testing.T) {
		mockUC := &mockCallAnalysisUsecase{}
		router := newRouter(mockUC)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/analyze", strings.NewReader("other=1"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"No transcript provided"}`, w.Body.String())
		assert.Zero(t, mockUC.AnalyzeCallCalls)
	})
}

func TestCallAnalysisHandler_Index(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := newRouter(&mockCallAnalysisUsecase{})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<form method="post" action="/analyze">`)
	assert.Contains(t, w.Body.String(), `name="transcript"`)
}

func TestCallAnalysisHandler_Records(t *testing.T) {
	gin.SetMode(gin.TestMode)

	createdAt := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		query          string
		mockFunc       func(ctx context.Context, limit int) ([]entity.StoredRecord, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "success: records listed",
			query: "?limit=1",
			mockFunc: func(ctx context.Context, limit int) ([]entity.StoredRecord, error) {
				assert.Equal(t, 1, limit)
				return []entity.StoredRecord{{
					ID:        "abc",
					LogRecord: entity.LogRecord{Transcript: "t", Summary: "s.", Sentiment: entity.SentimentNeutral},
					CreatedAt: createdAt,
				}}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"id":"abc","transcript":"t","summary":"s.","sentiment":"Neutral","created_at":"2024-01-01T09:00:00Z"}]`,
		},
		{
			name: "success: empty list",
			mockFunc: func(ctx context.Context, limit int) ([]entity.StoredRecord, error) {
				assert.Equal(t, 0, limit)
				return nil, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "error: history not configured",
			mockFunc: func(ctx context.Context, limit int) ([]entity.StoredRecord, error) {
				return nil, usecase.ErrHistoryUnavailable
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"error":"record history is not configured"}`,
		},
		{
			name: "error: store failure",
			mockFunc: func(ctx context.Context, limit int) ([]entity.StoredRecord, error) {
				return nil, errors.New("db down")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"failed to load records"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&mockCallAnalysisUsecase{RecentRecordsFunc: tt.mockFunc})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/records"+tt.query, nil)

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

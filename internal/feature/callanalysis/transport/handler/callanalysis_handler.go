// Package handler はcallanalysisフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"call_analysis/internal/feature/callanalysis/domain/entity"
	"call_analysis/internal/feature/callanalysis/transport/http/dto"
	"call_analysis/internal/feature/callanalysis/usecase"
)

const (
	msgMissingTranscript = "No transcript provided"
	msgInvalidBody       = "invalid request body"
	msgAnalysisFailed    = "analysis failed"
	msgNotPersisted      = "failed to save analysis"
	msgHistoryDisabled   = "record history is not configured"
	msgHistoryFailed     = "failed to load records"
)

// CallAnalysisUsecase は通話分析のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CallAnalysisUsecase interface {
	AnalyzeCall(ctx context.Context, transcript string) (*entity.LogRecord, error)
	RecentRecords(ctx context.Context, limit int) ([]entity.StoredRecord, error)
}

// CallAnalysisHandler は通話分析のHTTPリクエストを処理します。
type CallAnalysisHandler struct {
	uc CallAnalysisUsecase
}

// NewCallAnalysisHandler はCallAnalysisHandlerの新しいインスタンスを生成します。
func NewCallAnalysisHandler(uc CallAnalysisUsecase) *CallAnalysisHandler {
	return &CallAnalysisHandler{uc: uc}
}

// Index はトランスクリプト入力フォームを返します。
//
// エンドポイント: GET /
func (h *CallAnalysisHandler) Index(c *gin.Context) {
	render(c, http.StatusOK, indexTemplate, SampleTranscript)
}

// Analyze はトランスクリプトを分析し、CSVへ追記します。
// JSONで受け取った場合はJSONで、フォームで受け取った場合はHTMLで結果を返します。
//
// エンドポイント: POST /analyze
// Content-Type: application/json または application/x-www-form-urlencoded
func (h *CallAnalysisHandler) Analyze(c *gin.Context) {
	asJSON := isJSON(c.ContentType())

	var transcript string
	if asJSON {
		var req dto.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			slog.Warn("analyze request binding failed", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidBody})
			return
		}
		transcript = req.Transcript
	} else {
		transcript = c.PostForm("transcript")
	}

	// 空の場合は分析もCSV追記も行わない
	if transcript == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgMissingTranscript})
		return
	}

	record, err := h.uc.AnalyzeCall(c.Request.Context(), transcript)
	if err != nil {
		status, msg := errorStatus(err)
		slog.Error("call analysis failed", "error", err, "status", status, "remote_addr", c.ClientIP())
		c.JSON(status, dto.ErrorResponse{Error: msg})
		return
	}

	out := dto.AnalyzeResponse{
		Transcript: record.Transcript,
		Summary:    record.Summary,
		Sentiment:  record.Sentiment.String(),
	}
	if asJSON {
		c.JSON(http.StatusOK, out)
		return
	}
	render(c, http.StatusOK, resultTemplate, out)
}

// Records は履歴ストアの新しいレコードを返します。
//
// エンドポイント例:
// GET /records?limit=20
func (h *CallAnalysisHandler) Records(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	records, err := h.uc.RecentRecords(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, usecase.ErrHistoryUnavailable) {
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: msgHistoryDisabled})
			return
		}
		slog.Error("failed to load records", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msgHistoryFailed})
		return
	}

	out := make([]dto.RecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.RecordResponse{
			ID:         r.ID,
			Transcript: r.Transcript,
			Summary:    r.Summary,
			Sentiment:  r.Sentiment.String(),
			CreatedAt:  r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrMissingTranscript):
		return http.StatusBadRequest, msgMissingTranscript
	case errors.Is(err, usecase.ErrAnalysisFailed):
		return http.StatusBadGateway, msgAnalysisFailed
	default:
		return http.StatusInternalServerError, msgNotPersisted
	}
}

// isJSON はapplication/jsonおよび application/*+json を判定します。
func isJSON(contentType string) bool {
	return contentType == binding.MIMEJSON ||
		(strings.HasPrefix(contentType, "application/") && strings.HasSuffix(contentType, "+json"))
}

func render(c *gin.Context, status int, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		slog.Error("template rendering failed", "template", tmpl.Name(), "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "rendering failed"})
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maryamMilad/ai-trading-agent/internal/model"
	"github.com/maryamMilad/ai-trading-agent/internal/watchlist"
)

const (
	StatusNotFound = "not_found"
	StatusError    = "error"
	StatusInvalid  = "invalid"

	maxBatchTickers = 50
)

type PredictionStore interface {
	Latest(ctx context.Context, ticker string) (*model.Prediction, error)
	History(ctx context.Context, ticker string, limit int) ([]model.Prediction, error)
	Ping(ctx context.Context) error
}

type RunStore interface {
	LatestRun(ctx context.Context) (*model.AnalysisRun, error)
}

type PredictionHandler struct {
	repository PredictionStore
	runs       RunStore
	now        func() time.Time
}

func NewPredictionHandler(repository PredictionStore, runs RunStore) *PredictionHandler {
	return &PredictionHandler{repository: repository, runs: runs, now: time.Now}
}

func (h *PredictionHandler) GetRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "AI Trading Agent API",
		"status":  "operational",
		"version": "1.0.0",
		"endpoints": gin.H{
			"health":  "/health",
			"predict": "/predict?ticker=AAPL",
			"batch":   "/batch-predict?tickers=AAPL,MSFT,GOOGL",
			"history": "/history/AAPL?limit=10",
			"runs":    "/runs/latest",
		},
	})
}

// GetHealth always answers 200; a failing database only degrades the status.
func (h *PredictionHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	res := HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Database:  "connected",
	}

	if err := h.repository.Ping(ctx); err != nil {
		slog.Warn("health check database ping failed", "error", err)
		res.Status = "degraded"
		res.Database = "disconnected"
	}

	c.JSON(http.StatusOK, res)
}

func (h *PredictionHandler) GetPrediction(c *gin.Context) {
	raw := c.Query("ticker")
	ticker := watchlist.NormalizeTicker(raw)

	if ticker == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Query parameter 'ticker' is required"})
		return
	}

	if !watchlist.ValidTicker(ticker) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: fmt.Sprintf("Invalid ticker: %s", raw)})
		return
	}

	p, err := h.repository.Latest(c.Request.Context(), ticker)
	if err != nil {
		slog.Error("error fetching prediction", "error", err, "ticker", ticker)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "Error retrieving prediction"})
		return
	}

	if p == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Detail: notFoundDetail(ticker)})
		return
	}

	c.JSON(http.StatusOK, toPredictionResponse(p))
}

// GetBatchPredictions answers in request order. Per-ticker problems become
// items with a status instead of failing the whole request.
func (h *PredictionHandler) GetBatchPredictions(c *gin.Context) {
	var tickers []string
	for _, part := range strings.Split(c.Query("tickers"), ",") {
		if t := watchlist.NormalizeTicker(part); t != "" {
			tickers = append(tickers, t)
		}
	}

	if len(tickers) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Query parameter 'tickers' is required"})
		return
	}

	if len(tickers) > maxBatchTickers {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: fmt.Sprintf("At most %d tickers per request", maxBatchTickers)})
		return
	}

	items := make([]any, 0, len(tickers))
	for _, ticker := range tickers {
		if !watchlist.ValidTicker(ticker) {
			items = append(items, BatchErrorItem{Ticker: ticker, Error: "Invalid ticker", Status: StatusInvalid})
			continue
		}

		p, err := h.repository.Latest(c.Request.Context(), ticker)
		if err != nil {
			slog.Error("error fetching prediction", "error", err, "ticker", ticker)
			items = append(items, BatchErrorItem{Ticker: ticker, Error: "Error retrieving prediction", Status: StatusError})
			continue
		}

		if p == nil {
			items = append(items, BatchErrorItem{Ticker: ticker, Error: notFoundDetail(ticker), Status: StatusNotFound})
			continue
		}

		items = append(items, toPredictionResponse(p))
	}

	c.JSON(http.StatusOK, BatchResponse{
		Predictions: items,
		Count:       len(items),
		Timestamp:   h.now().UTC().Format(time.RFC3339),
	})
}

func (h *PredictionHandler) GetHistory(c *gin.Context) {
	raw := c.Param("ticker")
	ticker := watchlist.NormalizeTicker(raw)

	if !watchlist.ValidTicker(ticker) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: fmt.Sprintf("Invalid ticker: %s", raw)})
		return
	}

	limit := getQueryLimit(c)

	predictions, err := h.repository.History(c.Request.Context(), ticker, limit)
	if err != nil {
		slog.Error("error fetching history", "error", err, "ticker", ticker)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "Error retrieving history"})
		return
	}

	history := make([]HistoryItem, 0, len(predictions))
	for _, p := range predictions {
		history = append(history, toHistoryItem(p))
	}

	c.JSON(http.StatusOK, HistoryResponse{
		Ticker:  ticker,
		History: history,
		Count:   len(history),
	})
}

func (h *PredictionHandler) GetLatestRun(c *gin.Context) {
	run, err := h.runs.LatestRun(c.Request.Context())
	if err != nil {
		slog.Error("error fetching latest run", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "Error retrieving analysis run"})
		return
	}

	if run == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Detail: "No analysis runs found"})
		return
	}

	c.JSON(http.StatusOK, toRunResponse(run))
}

func notFoundDetail(ticker string) string {
	return fmt.Sprintf("No predictions found for %s", ticker)
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	paramLimit := c.Query(name)

	if paramLimit == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(paramLimit)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", paramLimit, "error", err)
		return defaultValue
	}

	return parsedValue
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 10
		maxLimit     = 50
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the public and key-protected endpoints.
func RegisterRoutes(r *gin.Engine, h *PredictionHandler, apiKey string) {
	r.GET("/", h.GetRoot)
	r.GET("/health", h.GetHealth)

	api := r.Group("/", RequireAPIKey(apiKey))
	api.GET("/predict", h.GetPrediction)
	api.GET("/batch-predict", h.GetBatchPredictions)
	api.GET("/history/:ticker", h.GetHistory)
	api.GET("/runs/latest", h.GetLatestRun)
}

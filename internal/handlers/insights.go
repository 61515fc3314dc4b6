package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/energylog/backend/internal/apierror"
	"github.com/JonnyWalker81/energylog/backend/internal/logger"
	"github.com/JonnyWalker81/energylog/backend/internal/service"
)

// InsightsHandler handles insights-related HTTP requests
type InsightsHandler struct {
	insightService service.InsightService
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(insightService service.InsightService) *InsightsHandler {
	return &InsightsHandler{
		insightService: insightService,
	}
}

// GetInsights returns the full insight bundle for the authenticated user
// GET /api/v1/insights
func (h *InsightsHandler) GetInsights(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	bundle, err := h.insightService.GetInsights(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "failed to get insights", err)
		return
	}

	c.JSON(http.StatusOK, bundle)
}

// GetDiscoveries returns factor discoveries and unlock progress
// GET /api/v1/insights/discoveries
func (h *InsightsHandler) GetDiscoveries(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	discoveries, err := h.insightService.GetDiscoveries(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "failed to get discoveries", err)
		return
	}

	c.JSON(http.StatusOK, discoveries)
}

// GetHistory returns the monthly trend alongside discoveries
// GET /api/v1/insights/history
func (h *InsightsHandler) GetHistory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	history, err := h.insightService.GetHistory(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "failed to get insight history", err)
		return
	}

	c.JSON(http.StatusOK, history)
}

func (h *InsightsHandler) internalError(c *gin.Context, msg string, err error) {
	logger.Ctx(c.Request.Context()).Error(msg, logger.Err(err))
	apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
}

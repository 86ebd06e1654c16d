package handler

import (
	"net/http"
	"time"

	"importhub/internal/middleware"
	"importhub/internal/service"
	"importhub/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
	auth              *middleware.Auth
}

func NewStatisticsHandler(statisticsService service.StatisticsService, auth *middleware.Auth) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService, auth: auth}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	statsGroup := router.Group("/api/pricing/statistics")
	statsGroup.Use(h.auth.RequireAuth())
	{
		statsGroup.GET("", h.GetStatistics)
	}
}

// @Summary      Calculation statistics
// @Description  Per-channel count, average profit and margin range of saved calculations
// @Tags         pricing
// @Produce      json
// @Param        start_date query string false "Start Date (RFC3339), defaults to the first day of the month"
// @Param        end_date   query string false "End Date (RFC3339), defaults to now"
// @Success      200 {object} response.Response{data=model.CalculationStatistics}
// @Failure      400 {object} response.Response "Invalid date format"
// @Security     BearerAuth
// @Router       /api/pricing/statistics [get]
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	now := time.Now()
	startDate := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	endDate := now

	var err error
	if s := c.Query("start_date"); s != "" {
		if startDate, err = time.Parse(time.RFC3339, s); err != nil {
			badRequest(c, "invalid start_date format, expected RFC3339")
			return
		}
	}
	if s := c.Query("end_date"); s != "" {
		if endDate, err = time.Parse(time.RFC3339, s); err != nil {
			badRequest(c, "invalid end_date format, expected RFC3339")
			return
		}
	}

	stats, err := h.statisticsService.GetStatistics(c.Request.Context(), userID, startDate, endDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

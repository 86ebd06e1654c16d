package handler

import (
	"net/http"

	"importhub/internal/middleware"
	"importhub/internal/repository"
	"importhub/internal/service"
	"importhub/pkg/response"

	"github.com/gin-gonic/gin"
)

type RateTableHandler struct {
	rateTableService service.RateTableService
	auth             *middleware.Auth
}

func NewRateTableHandler(rateTableService service.RateTableService, auth *middleware.Auth) *RateTableHandler {
	return &RateTableHandler{rateTableService: rateTableService, auth: auth}
}

func (h *RateTableHandler) RegisterRoutes(router *gin.RouterGroup) {
	rates := router.Group("/api/rates")
	rates.Use(h.auth.RequireAuth(), h.auth.RequireRole(middleware.RoleAdmin))
	{
		rates.GET("/freight", h.ListFreightRates)
		rates.POST("/freight", h.CreateFreightRate)
		rates.PUT("/freight/:id", h.UpdateFreightRate)
		rates.DELETE("/freight/:id", h.DeleteFreightRate)

		rates.GET("/commission", h.ListCommissionRates)
		rates.POST("/commission", h.CreateCommissionRate)
		rates.PUT("/commission/:id", h.UpdateCommissionRate)
		rates.DELETE("/commission/:id", h.DeleteCommissionRate)
	}
}

// ListFreightRates
// @Summary      List freight bands
// @Tags         rates
// @Security     BearerAuth
// @Produce      json
// @Param        region_id     query  string  false  "Region"
// @Param        service_type  query  string  false  "FBA, FBM or STANDARD"
// @Success      200  {object}  response.Response{data=[]model.FreightRate}
// @Router       /api/rates/freight [get]
func (h *RateTableHandler) ListFreightRates(c *gin.Context) {
	rates, err := h.rateTableService.ListFreightRates(c.Request.Context(), repository.FreightRateFilter{
		RegionID:    c.Query("region_id"),
		ServiceType: c.Query("service_type"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rates))
}

// CreateFreightRate adds a weight band. Active bands of one region and service may not overlap.
// @Summary      Create freight band
// @Tags         rates
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body service.FreightRateRequest true "Band"
// @Success      201  {object}  response.Response{data=model.FreightRate}
// @Failure      400  {object}  response.Response
// @Router       /api/rates/freight [post]
func (h *RateTableHandler) CreateFreightRate(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.FreightRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	rate, err := h.rateTableService.CreateFreightRate(c.Request.Context(), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rate))
}

func (h *RateTableHandler) UpdateFreightRate(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.FreightRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	rate, err := h.rateTableService.UpdateFreightRate(c.Request.Context(), actorID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rate))
}

func (h *RateTableHandler) DeleteFreightRate(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.rateTableService.DeleteFreightRate(c.Request.Context(), actorID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, nil))
}

func (h *RateTableHandler) ListCommissionRates(c *gin.Context) {
	rates, err := h.rateTableService.ListCommissionRates(c.Request.Context(), repository.CommissionRateFilter{
		CategoryID:  c.Query("category_id"),
		ChannelType: c.Query("channel_type"),
		ServiceType: c.Query("service_type"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rates))
}

// CreateCommissionRate adds a sale-price band for a category, channel type and service.
// @Summary      Create commission band
// @Tags         rates
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body service.CommissionRateRequest true "Band"
// @Success      201  {object}  response.Response{data=model.CommissionRate}
// @Failure      400  {object}  response.Response
// @Router       /api/rates/commission [post]
func (h *RateTableHandler) CreateCommissionRate(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.CommissionRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	rate, err := h.rateTableService.CreateCommissionRate(c.Request.Context(), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rate))
}

func (h *RateTableHandler) UpdateCommissionRate(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.CommissionRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	rate, err := h.rateTableService.UpdateCommissionRate(c.Request.Context(), actorID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rate))
}

func (h *RateTableHandler) DeleteCommissionRate(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.rateTableService.DeleteCommissionRate(c.Request.Context(), actorID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, nil))
}

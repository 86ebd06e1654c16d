package handler

import (
	"net/http"

	"importhub/internal/middleware"
	"importhub/internal/pricing"
	"importhub/internal/service"
	"importhub/pkg/pagination"
	"importhub/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PricingHandler struct {
	pricingService service.PricingService
	auth           *middleware.Auth
}

func NewPricingHandler(pricingService service.PricingService, auth *middleware.Auth) *PricingHandler {
	return &PricingHandler{pricingService: pricingService, auth: auth}
}

// SavedCalculation is returned when a calculation is computed and stored in one call.
type SavedCalculation struct {
	Log    *service.CalculationLogResponse `json:"log"`
	Result *pricing.Result                 `json:"result"`
}

func (h *PricingHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/pricing")
	group.Use(h.auth.RequireAuth())
	{
		group.POST("/calculations", h.Calculate)
		group.POST("/calculations/logs", h.CalculateAndSave)
		group.GET("/calculations/logs", h.ListCalculationLogs)
		group.GET("/calculations/logs/:id", h.GetCalculationLog)
		group.POST("/compare", h.CompareChannels)
	}
}

func bindInput(c *gin.Context) (pricing.Input, bool) {
	var in pricing.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return in, false
	}
	if !in.SalePrice.IsPositive() {
		c.JSON(http.StatusBadRequest, response.FieldError(http.StatusBadRequest, "sale_price", "sale_price: must be greater than 0"))
		return in, false
	}
	return in, true
}

// Calculate prices a product on one channel
// @Summary      Calculate price breakdown
// @Description  Runs the cost pipeline for a product on a channel and returns every step
// @Tags         pricing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body pricing.Input true "Calculation input"
// @Success      200  {object}  response.Response{data=pricing.Result}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/pricing/calculations [post]
func (h *PricingHandler) Calculate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	in, ok := bindInput(c)
	if !ok {
		return
	}

	res, err := h.pricingService.Calculate(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// CalculateAndSave computes a calculation and stores it as a log entry
// @Summary      Calculate and save
// @Tags         pricing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body pricing.Input true "Calculation input"
// @Success      201  {object}  response.Response{data=SavedCalculation}
// @Router       /api/pricing/calculations/logs [post]
func (h *PricingHandler) CalculateAndSave(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	in, ok := bindInput(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	res, err := h.pricingService.Calculate(ctx, userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	entry, err := h.pricingService.SaveCalculationLog(ctx, userID, in, res)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, SavedCalculation{Log: entry, Result: res}))
}

// ListCalculationLogs
// @Summary      List calculation logs
// @Tags         pricing
// @Security     BearerAuth
// @Produce      json
// @Param        product_id  query  string  false  "Filter by product"
// @Param        page        query  int     false  "Page number (default 1)"
// @Param        limit       query  int     false  "Items per page (default 20)"
// @Success      200  {object}  response.Response{data=response.PageData}
// @Router       /api/pricing/calculations/logs [get]
func (h *PricingHandler) ListCalculationLogs(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var productID *uuid.UUID
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "Invalid product_id")
			return
		}
		productID = &id
	}

	p := pagination.Parse(c)
	logs, total, err := h.pricingService.ListCalculationLogs(c.Request.Context(), userID, productID, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Page(http.StatusOK, logs, total, p.Page, p.Limit))
}

func (h *PricingHandler) GetCalculationLog(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	entry, err := h.pricingService.GetCalculationLog(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// CompareChannels prices a product on every active channel, best first
// @Summary      Compare channels
// @Tags         pricing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body service.CompareRequest true "Comparison input"
// @Success      200  {object}  response.Response{data=[]pricing.ChannelComparison}
// @Router       /api/pricing/compare [post]
func (h *PricingHandler) CompareChannels(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req service.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	if req.ProductID == uuid.Nil {
		c.JSON(http.StatusBadRequest, response.FieldError(http.StatusBadRequest, "product_id", "product_id: is required"))
		return
	}
	if !req.SalePrice.IsPositive() {
		c.JSON(http.StatusBadRequest, response.FieldError(http.StatusBadRequest, "sale_price", "sale_price: must be greater than 0"))
		return
	}

	out, err := h.pricingService.CompareChannels(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, out))
}

package handler

import (
	"net/http"

	"importhub/internal/middleware"
	"importhub/internal/service"
	"importhub/pkg/pagination"
	"importhub/pkg/response"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService service.CatalogService
	auth           *middleware.Auth
}

func NewCatalogHandler(catalogService service.CatalogService, auth *middleware.Auth) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, auth: auth}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/api/products")
	products.Use(h.auth.RequireAuth())
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.POST("", h.CreateProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}

	channels := router.Group("/api/channels")
	channels.Use(h.auth.RequireAuth())
	{
		channels.GET("", h.ListChannels)
		channels.GET("/:id", h.GetChannel)
		channels.POST("", h.CreateChannel)
		channels.PUT("/:id", h.UpdateChannel)
		channels.DELETE("/:id", h.DeleteChannel)
	}
}

// ListProducts
// @Summary      List products
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        search  query  string  false  "Name contains"
// @Param        page    query  int     false  "Page number (default 1)"
// @Param        limit   query  int     false  "Items per page (default 20)"
// @Success      200  {object}  response.Response{data=response.PageData}
// @Router       /api/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)

	products, total, err := h.catalogService.ListProducts(c.Request.Context(), userID, p.Page, p.Limit, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Page(http.StatusOK, products, total, p.Page, p.Limit))
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), userID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, nil))
}

// ListChannels returns every channel of the caller, active or not
// @Summary      List channels
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Channel}
// @Router       /api/channels [get]
func (h *CatalogHandler) ListChannels(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	channels, err := h.catalogService.ListChannels(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, channels))
}

func (h *CatalogHandler) GetChannel(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	channel, err := h.catalogService.GetChannel(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, channel))
}

func (h *CatalogHandler) CreateChannel(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.ChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	channel, err := h.catalogService.CreateChannel(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, channel))
}

func (h *CatalogHandler) UpdateChannel(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.ChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	channel, err := h.catalogService.UpdateChannel(c.Request.Context(), userID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, channel))
}

func (h *CatalogHandler) DeleteChannel(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteChannel(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, nil))
}

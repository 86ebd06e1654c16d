package handler

import (
	"net/http"
	"strings"

	"importhub/internal/middleware"
	"importhub/internal/repository"
	"importhub/internal/service"
	"importhub/pkg/pagination"
	"importhub/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
	auth         *middleware.Auth
}

func NewAuditHandler(auditService service.AuditService, auth *middleware.Auth) *AuditHandler {
	return &AuditHandler{auditService: auditService, auth: auth}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	group.Use(h.auth.RequireAuth(), h.auth.RequireRole(middleware.RoleAdmin))
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs lists catalog, settings and rate table changes, newest first
// @Summary      Get audit logs
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Param        action     query  string  false  "Action, e.g. CREATE_FREIGHT_RATE"
// @Param        entity_id  query  string  false  "Id of the changed record"
// @Success      200    {object}  response.Response{data=response.PageData}
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)

	filter := repository.AuditFilter{
		Action:   strings.ToUpper(c.Query("action")),
		EntityID: c.Query("entity_id"),
		Page:     p.Page,
		Limit:    p.Limit,
	}

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Page(http.StatusOK, logs, total, p.Page, p.Limit))
}

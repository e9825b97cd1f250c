package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"resource-pulse/internal/dto"
	"resource-pulse/internal/service"
	"resource-pulse/pkg/response"
)

// DashboardHandler 仪表盘模块 HTTP 处理器
type DashboardHandler struct {
	dashSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashSvc: dashSvc}
}

// Summary 总览统计
// GET /api/v1/dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashSvc.Summary(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, summary)
}

// DepartmentUtilization 部门利用率报表
// GET /api/v1/dashboard/utilization
func (h *DashboardHandler) DepartmentUtilization(c *gin.Context) {
	var req dto.UtilizationReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	rows, err := h.dashSvc.DepartmentUtilization(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			response.BadRequest(c, 17001, "日期区间无效")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": rows})
}

// ProjectHours 项目工时统计
// GET /api/v1/dashboard/project-hours
func (h *DashboardHandler) ProjectHours(c *gin.Context) {
	rows, err := h.dashSvc.ProjectHours(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": rows})
}

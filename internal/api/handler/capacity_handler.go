package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"resource-pulse/internal/dto"
	"resource-pulse/internal/service"
	"resource-pulse/pkg/response"
)

// CapacityHandler 容量热力图模块 HTTP 处理器
type CapacityHandler struct {
	capSvc service.CapacityService
}

// NewCapacityHandler 创建 CapacityHandler
func NewCapacityHandler(capSvc service.CapacityService) *CapacityHandler {
	return &CapacityHandler{capSvc: capSvc}
}

// GetHeatmap 获取容量热力图
// GET /api/v1/capacity/heatmap
func (h *CapacityHandler) GetHeatmap(c *gin.Context) {
	var req dto.HeatmapRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	heatmap, err := h.capSvc.GetHeatmap(c.Request.Context(), &req)
	if err != nil {
		h.handleCapacityError(c, err)
		return
	}

	response.OK(c, heatmap)
}

// handleCapacityError 统一处理容量模块业务错误
func (h *CapacityHandler) handleCapacityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 17001, "日期区间无效")
	case errors.Is(err, service.ErrHeatmapRangeTooLarge):
		response.BadRequest(c, 17002, "热力图查询区间过大")
	default:
		response.InternalError(c)
	}
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"resource-pulse/internal/dto"
	"resource-pulse/internal/service"
	"resource-pulse/pkg/response"
)

// AllocationHandler 分配模块 HTTP 处理器
type AllocationHandler struct {
	allocSvc service.AllocationService
}

// NewAllocationHandler 创建 AllocationHandler
func NewAllocationHandler(allocSvc service.AllocationService) *AllocationHandler {
	return &AllocationHandler{allocSvc: allocSvc}
}

// ListAllocations 获取分配列表
// GET /api/v1/allocations
func (h *AllocationHandler) ListAllocations(c *gin.Context) {
	var req dto.AllocationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	allocs, total, err := h.allocSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}

	response.OKPage(c, allocs, total, req.GetPage(), req.GetPageSize())
}

// GetAllocation 获取分配详情
// GET /api/v1/allocations/:id
func (h *AllocationHandler) GetAllocation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "分配ID不能为空")
		return
	}

	alloc, err := h.allocSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}

	response.OK(c, alloc)
}

// CreateAllocation 创建分配（落库前强制超配检测）
// POST /api/v1/allocations
func (h *AllocationHandler) CreateAllocation(c *gin.Context) {
	var req dto.CreateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	alloc, err := h.allocSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}

	response.Created(c, alloc)
}

// UpdateAllocation 更新分配
// PUT /api/v1/allocations/:id
func (h *AllocationHandler) UpdateAllocation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "分配ID不能为空")
		return
	}

	var req dto.UpdateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	alloc, err := h.allocSvc.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}

	response.OK(c, alloc)
}

// CancelAllocation 取消分配
// DELETE /api/v1/allocations/:id
func (h *AllocationHandler) CancelAllocation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "分配ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.allocSvc.Cancel(c.Request.Context(), id, userID); err != nil {
		h.handleAllocationError(c, err)
		return
	}

	response.OK(c, nil)
}

// CheckAllocation 超配预检（不落库）
// POST /api/v1/allocations/check
func (h *AllocationHandler) CheckAllocation(c *gin.Context) {
	var req dto.CheckAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	warning, err := h.allocSvc.Check(c.Request.Context(), &req)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}

	// warning 为 nil 表示无冲突
	response.OK(c, gin.H{"has_conflict": warning != nil, "warning": warning})
}

// ListConflicts 全量超配扫描
// GET /api/v1/allocations/conflicts
func (h *AllocationHandler) ListConflicts(c *gin.Context) {
	warnings, err := h.allocSvc.ListConflicts(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": warnings, "total": len(warnings)})
}

// handleAllocationError 统一处理分配模块业务错误
func (h *AllocationHandler) handleAllocationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAllocationNotFound):
		response.NotFound(c, 16001, "分配不存在")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 16002, "日期区间无效")
	case errors.Is(err, service.ErrAllocationCancelled):
		response.BadRequest(c, 16003, "分配已取消，不可修改")
	case errors.Is(err, service.ErrAllocationBlocked):
		response.BadRequest(c, 16004, "分配将导致严重超配，已被拒绝")
	case errors.Is(err, service.ErrProjectNotActive):
		response.BadRequest(c, 16005, "项目不在可分配状态")
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 12001, "员工不存在")
	case errors.Is(err, service.ErrProjectNotFound):
		response.NotFound(c, 15001, "项目不存在")
	default:
		response.InternalError(c)
	}
}

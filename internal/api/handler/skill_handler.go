package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"resource-pulse/internal/dto"
	"resource-pulse/internal/service"
	"resource-pulse/pkg/response"
)

// SkillHandler 技能模块 HTTP 处理器
type SkillHandler struct {
	skillSvc service.SkillService
}

// NewSkillHandler 创建 SkillHandler
func NewSkillHandler(skillSvc service.SkillService) *SkillHandler {
	return &SkillHandler{skillSvc: skillSvc}
}

// ListSkills 获取技能列表
// GET /api/v1/skills
func (h *SkillHandler) ListSkills(c *gin.Context) {
	skills, err := h.skillSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": skills})
}

// GetSkill 获取技能详情
// GET /api/v1/skills/:id
func (h *SkillHandler) GetSkill(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "技能ID不能为空")
		return
	}

	skill, err := h.skillSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleSkillError(c, err)
		return
	}

	response.OK(c, skill)
}

// CreateSkill 创建技能
// POST /api/v1/skills
func (h *SkillHandler) CreateSkill(c *gin.Context) {
	var req dto.CreateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	skill, err := h.skillSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleSkillError(c, err)
		return
	}

	response.Created(c, skill)
}

// UpdateSkill 更新技能
// PUT /api/v1/skills/:id
func (h *SkillHandler) UpdateSkill(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "技能ID不能为空")
		return
	}

	var req dto.UpdateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	skill, err := h.skillSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleSkillError(c, err)
		return
	}

	response.OK(c, skill)
}

// DeleteSkill 删除技能
// DELETE /api/v1/skills/:id
func (h *SkillHandler) DeleteSkill(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "技能ID不能为空")
		return
	}

	if err := h.skillSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleSkillError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleSkillError 统一处理技能模块业务错误
func (h *SkillHandler) handleSkillError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSkillNotFound):
		response.NotFound(c, 14001, "技能不存在")
	case errors.Is(err, service.ErrSkillNameTaken):
		response.BadRequest(c, 14002, "技能名称已存在")
	case errors.Is(err, service.ErrSkillInUse):
		response.BadRequest(c, 14003, "技能已被员工引用，无法删除")
	default:
		response.InternalError(c)
	}
}

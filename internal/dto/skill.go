package dto

// ── 技能模块 DTO ──

// CreateSkillRequest 创建技能请求
type CreateSkillRequest struct {
	Name     string `json:"name"     binding:"required,min=1,max=100"`
	Category string `json:"category" binding:"omitempty,max=50"`
}

// UpdateSkillRequest 更新技能请求
type UpdateSkillRequest struct {
	Name     *string `json:"name"     binding:"omitempty,min=1,max=100"`
	Category *string `json:"category" binding:"omitempty,max=50"`
}

// SkillResponse 技能信息响应
type SkillResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category,omitempty"`
	CreatedAt string `json:"created_at"`
}

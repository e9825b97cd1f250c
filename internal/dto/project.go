package dto

// ── 项目模块 DTO ──

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Status      string `json:"status"      binding:"omitempty,oneof=planned active completed archived"`
	StartDate   string `json:"start_date"  binding:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"end_date"    binding:"omitempty,datetime=2006-01-02"`
}

// UpdateProjectRequest 更新项目请求
type UpdateProjectRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Status      *string `json:"status"      binding:"omitempty,oneof=planned active completed archived"`
	StartDate   *string `json:"start_date"  binding:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date"    binding:"omitempty,datetime=2006-01-02"`
}

// ProjectListRequest 项目列表查询参数
type ProjectListRequest struct {
	PaginationRequest
	Status  string `form:"status"  binding:"omitempty,oneof=planned active completed archived"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

// ProjectResponse 项目信息响应
type ProjectResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

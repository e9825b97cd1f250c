package dto

// ── 员工模块 DTO ──

// CreateEmployeeRequest 创建员工请求
type CreateEmployeeRequest struct {
	FirstName      string   `json:"first_name"      binding:"required,min=1,max=100"`
	LastName       string   `json:"last_name"       binding:"required,min=1,max=100"`
	Email          string   `json:"email"           binding:"required,email"`
	Title          string   `json:"title"           binding:"omitempty,max=100"`
	WeeklyCapacity *float64 `json:"weekly_capacity" binding:"omitempty,gt=0,lte=168"`
	DepartmentID   string   `json:"department_id"   binding:"required,uuid"`
}

// UpdateEmployeeRequest 更新员工请求
type UpdateEmployeeRequest struct {
	FirstName      *string  `json:"first_name"      binding:"omitempty,min=1,max=100"`
	LastName       *string  `json:"last_name"       binding:"omitempty,min=1,max=100"`
	Email          *string  `json:"email"           binding:"omitempty,email"`
	Title          *string  `json:"title"           binding:"omitempty,max=100"`
	WeeklyCapacity *float64 `json:"weekly_capacity" binding:"omitempty,gt=0,lte=168"`
	DepartmentID   *string  `json:"department_id"   binding:"omitempty,uuid"`
	IsActive       *bool    `json:"is_active"`
}

// EmployeeListRequest 员工列表查询参数
type EmployeeListRequest struct {
	PaginationRequest
	DepartmentID    string `form:"department_id" binding:"omitempty,uuid"`
	SkillID         string `form:"skill_id"      binding:"omitempty,uuid"`
	Keyword         string `form:"keyword"       binding:"omitempty,max=100"`
	IncludeInactive bool   `form:"include_inactive"`
}

// SetEmployeeSkillsRequest 设置员工技能请求（全量替换）
type SetEmployeeSkillsRequest struct {
	Skills []EmployeeSkillInput `json:"skills" binding:"required,dive"`
}

// EmployeeSkillInput 员工技能条目
type EmployeeSkillInput struct {
	SkillID     string `json:"skill_id"    binding:"required,uuid"`
	Proficiency int16  `json:"proficiency" binding:"required,min=1,max=5"`
}

// EmployeeResponse 员工信息响应
type EmployeeResponse struct {
	ID             string                  `json:"id"`
	FirstName      string                  `json:"first_name"`
	LastName       string                  `json:"last_name"`
	Email          string                  `json:"email"`
	Title          string                  `json:"title,omitempty"`
	WeeklyCapacity float64                 `json:"weekly_capacity"`
	Department     *DepartmentBrief        `json:"department,omitempty"`
	Skills         []EmployeeSkillResponse `json:"skills,omitempty"`
	IsActive       bool                    `json:"is_active"`
	CreatedAt      string                  `json:"created_at"`
	UpdatedAt      string                  `json:"updated_at"`
}

// EmployeeSkillResponse 员工技能响应
type EmployeeSkillResponse struct {
	SkillID     string `json:"skill_id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Proficiency int16  `json:"proficiency"`
}

// ImportEmployeesResponse CSV 导入结果响应
type ImportEmployeesResponse struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError CSV 导入行级错误
type ImportRowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

package dto

// ── 分配模块 DTO ──

// CreateAllocationRequest 创建分配请求
type CreateAllocationRequest struct {
	EmployeeID     string  `json:"employee_id"     binding:"required,uuid"`
	ProjectID      string  `json:"project_id"      binding:"required,uuid"`
	StartDate      string  `json:"start_date"      binding:"required,datetime=2006-01-02"`
	EndDate        string  `json:"end_date"        binding:"required,datetime=2006-01-02"`
	AllocatedHours float64 `json:"allocated_hours" binding:"required,gt=0,lte=80"`
	Status         string  `json:"status"          binding:"omitempty,oneof=planned active completed"`
	Role           string  `json:"role"            binding:"omitempty,max=100"`
	Notes          string  `json:"notes"           binding:"omitempty,max=2000"`
}

// UpdateAllocationRequest 更新分配请求
type UpdateAllocationRequest struct {
	StartDate      *string  `json:"start_date"      binding:"omitempty,datetime=2006-01-02"`
	EndDate        *string  `json:"end_date"        binding:"omitempty,datetime=2006-01-02"`
	AllocatedHours *float64 `json:"allocated_hours" binding:"omitempty,gt=0,lte=80"`
	Status         *string  `json:"status"          binding:"omitempty,oneof=planned active completed"`
	Role           *string  `json:"role"            binding:"omitempty,max=100"`
	Notes          *string  `json:"notes"           binding:"omitempty,max=2000"`
}

// AllocationListRequest 分配列表查询参数
type AllocationListRequest struct {
	PaginationRequest
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	ProjectID  string `form:"project_id"  binding:"omitempty,uuid"`
	Status     string `form:"status"      binding:"omitempty,oneof=planned active completed cancelled"`
	From       string `form:"from"        binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to"          binding:"omitempty,datetime=2006-01-02"`
}

// AllocationResponse 分配信息响应
type AllocationResponse struct {
	ID             string           `json:"id"`
	EmployeeID     string           `json:"employee_id"`
	EmployeeName   string           `json:"employee_name,omitempty"`
	Project        *ProjectBrief    `json:"project,omitempty"`
	StartDate      string           `json:"start_date"`
	EndDate        string           `json:"end_date"`
	AllocatedHours float64          `json:"allocated_hours"`
	Status         string           `json:"status"`
	Role           string           `json:"role,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	CreatedAt      string           `json:"created_at"`
	UpdatedAt      string           `json:"updated_at"`
	Warning        *WarningResponse `json:"warning,omitempty"` // 创建/更新时的超配提示
}

// ── 冲突检测 DTO ──

// CheckAllocationRequest 超配检测请求（不落库）
type CheckAllocationRequest struct {
	EmployeeID          string  `json:"employee_id"           binding:"required,uuid"`
	StartDate           string  `json:"start_date"            binding:"required,datetime=2006-01-02"`
	EndDate             string  `json:"end_date"              binding:"required,datetime=2006-01-02"`
	AllocatedHours      float64 `json:"allocated_hours"       binding:"required,gt=0,lte=80"`
	ExcludeAllocationID string  `json:"exclude_allocation_id" binding:"omitempty,uuid"`
}

// WarningResponse 超配告警响应
// 单次检测返回区间内超配最严重的一周（worst week）
type WarningResponse struct {
	EmployeeID      string                   `json:"employee_id"`
	EmployeeName    string                   `json:"employee_name"`
	WeekStart       string                   `json:"week_start"`
	WeekEnd         string                   `json:"week_end"`
	TotalHours      float64                  `json:"total_hours"`
	WeeklyCapacity  float64                  `json:"weekly_capacity"`
	OverageHours    float64                  `json:"overage_hours"`
	UtilizationRate float64                  `json:"utilization_rate"` // 百分比
	Severity        string                   `json:"severity"`         // warning | critical
	Allocations     []ContributingAllocation `json:"allocations"`
}

// ContributingAllocation 构成超配的分配明细
// AllocationID 为空串表示本次提交、尚未落库的分配
type ContributingAllocation struct {
	AllocationID   string  `json:"allocation_id,omitempty"`
	ProjectID      string  `json:"project_id,omitempty"`
	ProjectName    string  `json:"project_name"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	AllocatedHours float64 `json:"allocated_hours"`
}

package dto

// ── 仪表盘 DTO ──

// DashboardSummaryResponse 总览统计
type DashboardSummaryResponse struct {
	EmployeeCount         int64   `json:"employee_count"`
	ProjectCount          int64   `json:"project_count"`
	ActiveAllocationCount int64   `json:"active_allocation_count"`
	OverAllocationCount   int     `json:"over_allocation_count"`
	AverageUtilization    float64 `json:"average_utilization"`
}

// DepartmentUtilizationRow 部门利用率行
type DepartmentUtilizationRow struct {
	DepartmentID       string  `json:"department_id"`
	DepartmentName     string  `json:"department_name"`
	EmployeeCount      int     `json:"employee_count"`
	TotalCapacity      float64 `json:"total_capacity"`      // 小时/周
	TotalAllocated     float64 `json:"total_allocated"`     // 小时/周
	AverageUtilization float64 `json:"average_utilization"` // 百分比
}

// UtilizationReportRequest 利用率报表查询参数
type UtilizationReportRequest struct {
	StartDate string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   binding:"required,datetime=2006-01-02"`
}

// ProjectHoursRow 项目工时行
type ProjectHoursRow struct {
	ProjectID       string  `json:"project_id"`
	ProjectName     string  `json:"project_name"`
	Status          string  `json:"status"`
	AllocationCount int     `json:"allocation_count"`
	WeeklyHours     float64 `json:"weekly_hours"` // 有效分配的周小时合计
}

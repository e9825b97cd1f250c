package dto

// ── 容量热力图 DTO ──

// HeatmapRequest 热力图查询参数
type HeatmapRequest struct {
	StartDate    string `form:"start_date"    binding:"required,datetime=2006-01-02"`
	EndDate      string `form:"end_date"      binding:"required,datetime=2006-01-02"`
	Granularity  string `form:"granularity"   binding:"omitempty,oneof=daily weekly monthly"`
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
}

// HeatmapCellResponse 热力图单元格
type HeatmapCellResponse struct {
	EmployeeID            string  `json:"employee_id"`
	EmployeeName          string  `json:"employee_name"`
	BucketStart           string  `json:"bucket_start"`
	BucketEnd             string  `json:"bucket_end"`
	AvailableHours        float64 `json:"available_hours"`
	AllocatedHours        float64 `json:"allocated_hours"`
	UtilizationPercentage float64 `json:"utilization_percentage"`
	HeatLevel             string  `json:"heat_level"` // available | green | blue | yellow | red | unavailable
	ProjectCount          int     `json:"project_count"`
}

// HeatmapSummaryResponse 热力图汇总统计
type HeatmapSummaryResponse struct {
	AverageUtilization float64 `json:"average_utilization"`
	PeakUtilization    float64 `json:"peak_utilization"`
	OverAllocatedCount int     `json:"over_allocated_count"` // >100%
	UnderUtilizedCount int     `json:"under_utilized_count"` // <60%
}

// HeatmapResponse 热力图响应
type HeatmapResponse struct {
	Granularity string                 `json:"granularity"`
	Cells       []HeatmapCellResponse  `json:"cells"`
	Summary     HeatmapSummaryResponse `json:"summary"`
}

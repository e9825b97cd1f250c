package handler

import "resource-pulse/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Employee     *EmployeeHandler
	Department   *DepartmentHandler
	Skill        *SkillHandler
	Project      *ProjectHandler
	Allocation   *AllocationHandler
	Capacity     *CapacityHandler
	Dashboard    *DashboardHandler
	Notification *NotificationHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Employee:     NewEmployeeHandler(svc.Employee),
		Department:   NewDepartmentHandler(svc.Department),
		Skill:        NewSkillHandler(svc.Skill),
		Project:      NewProjectHandler(svc.Project),
		Allocation:   NewAllocationHandler(svc.Allocation),
		Capacity:     NewCapacityHandler(svc.Capacity),
		Dashboard:    NewDashboardHandler(svc.Dashboard),
		Notification: NewNotificationHandler(svc.Notification),
		Export:       NewExportHandler(svc.Export),
	}
}

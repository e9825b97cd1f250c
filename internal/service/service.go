package service

import (
	"go.uber.org/zap"

	"resource-pulse/config"
	"resource-pulse/internal/repository"
	"resource-pulse/pkg/jwt"
	"resource-pulse/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Employee     EmployeeService
	Department   DepartmentService
	Skill        SkillService
	Project      ProjectService
	Allocation   AllocationService
	Conflict     ConflictService
	Capacity     CapacityService
	Dashboard    DashboardService
	Notification NotificationService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	conflict := NewConflictService(cfg, repo, logger)
	capacity := NewCapacityService(cfg, repo, logger)
	notification := NewNotificationService(repo, logger)
	dashboard := NewDashboardService(cfg, repo, conflict, capacity, logger)

	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Employee:     NewEmployeeService(cfg, repo, logger),
		Department:   NewDepartmentService(repo, logger),
		Skill:        NewSkillService(repo, logger),
		Project:      NewProjectService(repo, logger),
		Allocation:   NewAllocationService(cfg, repo, conflict, notification, logger),
		Conflict:     conflict,
		Capacity:     capacity,
		Dashboard:    dashboard,
		Notification: notification,
		Export:       NewExportService(repo, dashboard, logger),
	}
}

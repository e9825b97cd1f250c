package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	Department   DepartmentRepository
	Employee     EmployeeRepository
	Skill        SkillRepository
	Project      ProjectRepository
	Allocation   AllocationRepository
	Notification NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Department:   NewDepartmentRepo(db),
		Employee:     NewEmployeeRepo(db),
		Skill:        NewSkillRepo(db),
		Project:      NewProjectRepo(db),
		Allocation:   NewAllocationRepo(db),
		Notification: NewNotificationRepo(db),
	}
}

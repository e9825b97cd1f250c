package model

import "time"

// 分配状态
const (
	AllocationStatusPlanned   = "planned"
	AllocationStatusActive    = "active"
	AllocationStatusCompleted = "completed"
	AllocationStatusCancelled = "cancelled"
)

// Allocation 资源分配表 — 对应 allocations
// 起止日期均为闭区间；取消（cancelled）即逻辑删除，不做物理删除
type Allocation struct {
	AllocationID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"allocation_id"`
	EmployeeID     string    `gorm:"type:uuid;not null"                             json:"employee_id"`
	ProjectID      string    `gorm:"type:uuid;not null"                             json:"project_id"`
	StartDate      time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate        time.Time `gorm:"type:date;not null"                             json:"end_date"`
	AllocatedHours float64   `gorm:"type:numeric(5,2);not null"                     json:"allocated_hours"` // 小时/周，(0, 80]
	Status         string    `gorm:"type:varchar(20);not null;default:'planned'"    json:"status"`          // planned | active | completed | cancelled
	Role           string    `gorm:"type:varchar(100)"                              json:"role,omitempty"`
	Notes          string    `gorm:"type:text"                                      json:"notes,omitempty"`
	VersionedModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
	Project  *Project  `gorm:"foreignKey:ProjectID;references:ProjectID"   json:"project,omitempty"`
}

// TableName 指定表名
func (Allocation) TableName() string { return "allocations" }

// IsCountable 是否计入容量核算（已取消的分配不计）
func (a *Allocation) IsCountable() bool {
	return a.Status != AllocationStatusCancelled
}

// Overlaps 判断分配区间与 [from, to] 是否相交（两端均为闭区间）
func (a *Allocation) Overlaps(from, to time.Time) bool {
	return !a.StartDate.After(to) && !a.EndDate.Before(from)
}

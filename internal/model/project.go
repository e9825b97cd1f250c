package model

import "time"

// 项目状态
const (
	ProjectStatusPlanned   = "planned"
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

// Project 项目表 — 对应 projects
type Project struct {
	ProjectID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"project_id"`
	Name        string     `gorm:"type:varchar(200);not null"                     json:"name"`
	Description string     `gorm:"type:text"                                      json:"description,omitempty"`
	Status      string     `gorm:"type:varchar(20);not null;default:'planned'"    json:"status"` // planned | active | completed | archived
	StartDate   *time.Time `gorm:"type:date"                                      json:"start_date,omitempty"`
	EndDate     *time.Time `gorm:"type:date"                                      json:"end_date,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (Project) TableName() string { return "projects" }

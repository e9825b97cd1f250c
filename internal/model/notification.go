package model

// 通知类型
const (
	NotificationTypeOverAllocation    = "over_allocation"
	NotificationTypeAllocationChanged = "allocation_changed"
	NotificationTypeProjectChanged    = "project_changed"
)

// Notification 通知消息表 — 对应 notifications
type Notification struct {
	NotificationID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string  `gorm:"type:uuid;not null"                             json:"user_id"`
	Type           string  `gorm:"type:varchar(50);not null"                      json:"type"`
	Title          string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Content        string  `gorm:"type:text;not null"                             json:"content"`
	IsRead         bool    `gorm:"not null;default:false"                         json:"is_read"`
	RelatedType    *string `gorm:"type:varchar(20)"                               json:"related_type,omitempty"` // allocation | project | employee
	RelatedID      *string `gorm:"type:uuid"                                      json:"related_id,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// NotificationPreference 通知偏好表 — 对应 notification_preferences（与 users 1:1）
type NotificationPreference struct {
	UserID              string `gorm:"type:uuid;primaryKey"  json:"user_id"`
	OverAllocationAlert bool   `gorm:"not null;default:true" json:"over_allocation_alert"`
	AllocationChanged   bool   `gorm:"not null;default:true" json:"allocation_changed"`
	ProjectChanged      bool   `gorm:"not null;default:true" json:"project_changed"`
	BaseModel
}

// TableName 指定表名
func (NotificationPreference) TableName() string { return "notification_preferences" }

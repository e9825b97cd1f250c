package dto

// ── 通知模块 DTO ──

// NotificationListRequest 通知列表查询参数
type NotificationListRequest struct {
	PaginationRequest
	UnreadOnly bool `form:"unread_only"`
}

// NotificationResponse 通知信息响应
type NotificationResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	IsRead      bool   `json:"is_read"`
	RelatedType string `json:"related_type,omitempty"`
	RelatedID   string `json:"related_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// UpdatePreferenceRequest 更新通知偏好请求
type UpdatePreferenceRequest struct {
	OverAllocationAlert *bool `json:"over_allocation_alert"`
	AllocationChanged   *bool `json:"allocation_changed"`
	ProjectChanged      *bool `json:"project_changed"`
}

// PreferenceResponse 通知偏好响应
type PreferenceResponse struct {
	OverAllocationAlert bool `json:"over_allocation_alert"`
	AllocationChanged   bool `json:"allocation_changed"`
	ProjectChanged      bool `json:"project_changed"`
}

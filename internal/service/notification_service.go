package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"resource-pulse/internal/dto"
	"resource-pulse/internal/model"
	"resource-pulse/internal/repository"
)

// ── 通知模块业务错误 ──

var ErrNotificationNotFound = errors.New("通知不存在")

// NotificationService 通知业务接口
type NotificationService interface {
	List(ctx context.Context, userID string, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID string, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
	GetPreference(ctx context.Context, userID string) (*dto.PreferenceResponse, error)
	UpdatePreference(ctx context.Context, userID string, req *dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error)
	// NotifyOverAllocation 向开启超配提醒的 admin/manager 推送站内通知
	NotifyOverAllocation(ctx context.Context, warning *dto.WarningResponse, allocationID string) error
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) List(ctx context.Context, userID string, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error) {
	ns, total, err := s.repo.Notification.ListByUser(ctx, userID, req.UnreadOnly, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询通知列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, err
	}

	resps := make([]dto.NotificationResponse, 0, len(ns))
	for i := range ns {
		resps = append(resps, toNotificationResponse(&ns[i]))
	}
	return resps, total, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.Notification.CountUnread(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, userID string, notificationID string) error {
	err := s.repo.Notification.MarkRead(ctx, notificationID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.Notification.MarkAllRead(ctx, userID)
}

func (s *notificationService) GetPreference(ctx context.Context, userID string) (*dto.PreferenceResponse, error) {
	pref, err := s.repo.Notification.GetPreference(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 未显式设置过偏好时按全部开启处理
			return &dto.PreferenceResponse{
				OverAllocationAlert: true,
				AllocationChanged:   true,
				ProjectChanged:      true,
			}, nil
		}
		return nil, err
	}
	return toPreferenceResponse(pref), nil
}

func (s *notificationService) UpdatePreference(ctx context.Context, userID string, req *dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error) {
	pref, err := s.repo.Notification.GetPreference(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		pref = &model.NotificationPreference{
			UserID:              userID,
			OverAllocationAlert: true,
			AllocationChanged:   true,
			ProjectChanged:      true,
		}
	}

	if req.OverAllocationAlert != nil {
		pref.OverAllocationAlert = *req.OverAllocationAlert
	}
	if req.AllocationChanged != nil {
		pref.AllocationChanged = *req.AllocationChanged
	}
	if req.ProjectChanged != nil {
		pref.ProjectChanged = *req.ProjectChanged
	}

	if err := s.repo.Notification.UpsertPreference(ctx, pref); err != nil {
		s.logger.Error("更新通知偏好失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toPreferenceResponse(pref), nil
}

// ═══════════════════════════════════════════════════════════
// NotifyOverAllocation — 超配告警站内推送
// ═══════════════════════════════════════════════════════════
//
// 接收方为全部 admin/manager 账户，过滤掉关闭超配提醒的用户。

func (s *notificationService) NotifyOverAllocation(ctx context.Context, warning *dto.WarningResponse, allocationID string) error {
	recipients, err := s.repo.User.ListByRoles(ctx, model.RoleAdmin, model.RoleManager)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return nil
	}

	title := fmt.Sprintf("员工 %s 存在超配风险", warning.EmployeeName)
	content := fmt.Sprintf("员工 %s 在 %s ~ %s 当周分配 %.1f 小时，超出周容量 %.1f 小时（利用率 %.0f%%，级别 %s）。",
		warning.EmployeeName, warning.WeekStart, warning.WeekEnd,
		warning.TotalHours, warning.OverageHours, warning.UtilizationRate, warning.Severity)

	relatedType := "allocation"
	ns := make([]model.Notification, 0, len(recipients))
	for i := range recipients {
		if !s.wantsOverAllocationAlert(ctx, recipients[i].UserID) {
			continue
		}
		n := model.Notification{
			UserID:      recipients[i].UserID,
			Type:        model.NotificationTypeOverAllocation,
			Title:       title,
			Content:     content,
			RelatedType: &relatedType,
		}
		if allocationID != "" {
			id := allocationID
			n.RelatedID = &id
		}
		ns = append(ns, n)
	}
	if len(ns) == 0 {
		return nil
	}

	if err := s.repo.Notification.BatchCreate(ctx, ns); err != nil {
		return err
	}
	s.logger.Info("超配通知已推送",
		zap.String("employee_id", warning.EmployeeID),
		zap.String("week_start", warning.WeekStart),
		zap.Int("recipients", len(ns)))
	return nil
}

// ── 内部辅助函数 ──

// wantsOverAllocationAlert 用户是否接收超配提醒（无偏好记录视为开启）
func (s *notificationService) wantsOverAllocationAlert(ctx context.Context, userID string) bool {
	pref, err := s.repo.Notification.GetPreference(ctx, userID)
	if err != nil {
		return true
	}
	return pref.OverAllocationAlert
}

func toNotificationResponse(n *model.Notification) dto.NotificationResponse {
	resp := dto.NotificationResponse{
		ID:        n.NotificationID,
		Type:      n.Type,
		Title:     n.Title,
		Content:   n.Content,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if n.RelatedType != nil {
		resp.RelatedType = *n.RelatedType
	}
	if n.RelatedID != nil {
		resp.RelatedID = *n.RelatedID
	}
	return resp
}

func toPreferenceResponse(pref *model.NotificationPreference) *dto.PreferenceResponse {
	return &dto.PreferenceResponse{
		OverAllocationAlert: pref.OverAllocationAlert,
		AllocationChanged:   pref.AllocationChanged,
		ProjectChanged:      pref.ProjectChanged,
	}
}

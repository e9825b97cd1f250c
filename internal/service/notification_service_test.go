package service

import (
	"context"
	"strings"
	"testing"

	"resource-pulse/internal/dto"
	"resource-pulse/internal/model"
	"resource-pulse/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// 通知服务测试
// ═══════════════════════════════════════════════════════════

func newNotificationFixture(t *testing.T) (*repository.Repository, NotificationService) {
	t.Helper()
	repo := newTestRepo()
	svc := NewNotificationService(repo, testLogger())
	return repo, svc
}

func sampleWarning() *dto.WarningResponse {
	return &dto.WarningResponse{
		EmployeeID:      "e1",
		EmployeeName:    "测试 员工e1",
		WeekStart:       "2024-03-04",
		WeekEnd:         "2024-03-10",
		TotalHours:      50,
		WeeklyCapacity:  40,
		OverageHours:    10,
		UtilizationRate: 125,
		Severity:        SeverityWarning,
	}
}

func TestNotifyOverAllocation_RecipientsByRole(t *testing.T) {
	repo, svc := newNotificationFixture(t)
	seedUser(t, repo, "u-admin", model.RoleAdmin)
	seedUser(t, repo, "u-manager", model.RoleManager)
	seedUser(t, repo, "u-member", model.RoleMember)

	if err := svc.NotifyOverAllocation(context.Background(), sampleWarning(), "a1"); err != nil {
		t.Fatalf("推送失败: %v", err)
	}

	for _, userID := range []string{"u-admin", "u-manager"} {
		ns, total, err := repo.Notification.ListByUser(context.Background(), userID, false, 0, 10)
		if err != nil || total != 1 {
			t.Fatalf("期望 %s 收到 1 条通知, 实际 %d 条 (err=%v)", userID, total, err)
		}
		n := ns[0]
		if n.Type != model.NotificationTypeOverAllocation {
			t.Errorf("期望类型 over_allocation, 实际 %s", n.Type)
		}
		if !strings.Contains(n.Title, "测试 员工e1") {
			t.Errorf("期望标题包含员工姓名, 实际 %q", n.Title)
		}
		if n.RelatedID == nil || *n.RelatedID != "a1" {
			t.Error("期望通知关联分配 ID")
		}
	}

	_, total, _ := repo.Notification.ListByUser(context.Background(), "u-member", false, 0, 10)
	if total != 0 {
		t.Errorf("member 不应收到通知, 实际 %d 条", total)
	}
}

func TestNotifyOverAllocation_HonorsPreference(t *testing.T) {
	repo, svc := newNotificationFixture(t)
	seedUser(t, repo, "u-admin", model.RoleAdmin)
	// 显式关闭超配提醒
	err := repo.Notification.UpsertPreference(context.Background(), &model.NotificationPreference{
		UserID:              "u-admin",
		OverAllocationAlert: false,
		AllocationChanged:   true,
		ProjectChanged:      true,
	})
	if err != nil {
		t.Fatalf("预置偏好失败: %v", err)
	}

	if err := svc.NotifyOverAllocation(context.Background(), sampleWarning(), "a1"); err != nil {
		t.Fatalf("推送失败: %v", err)
	}

	_, total, _ := repo.Notification.ListByUser(context.Background(), "u-admin", false, 0, 10)
	if total != 0 {
		t.Errorf("关闭超配提醒后不应收到通知, 实际 %d 条", total)
	}
}

func TestNotifyOverAllocation_NoRecipients(t *testing.T) {
	_, svc := newNotificationFixture(t)

	if err := svc.NotifyOverAllocation(context.Background(), sampleWarning(), "a1"); err != nil {
		t.Errorf("无接收方时应静默成功, 实际 %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// 已读状态与偏好
// ═══════════════════════════════════════════════════════════

func TestMarkRead(t *testing.T) {
	repo, svc := newNotificationFixture(t)
	err := repo.Notification.Create(context.Background(), &model.Notification{
		NotificationID: "n1",
		UserID:         "u1",
		Type:           model.NotificationTypeOverAllocation,
		Title:          "测试",
		Content:        "测试内容",
	})
	if err != nil {
		t.Fatalf("预置通知失败: %v", err)
	}

	if err := svc.MarkRead(context.Background(), "u1", "n1"); err != nil {
		t.Fatalf("标记已读失败: %v", err)
	}
	count, _ := svc.UnreadCount(context.Background(), "u1")
	if count != 0 {
		t.Errorf("期望未读 0 条, 实际 %d 条", count)
	}

	// 他人的通知不可标记
	if err := svc.MarkRead(context.Background(), "u2", "n1"); err != ErrNotificationNotFound {
		t.Errorf("期望 ErrNotificationNotFound, 实际 %v", err)
	}
}

func TestGetPreference_DefaultsWhenUnset(t *testing.T) {
	_, svc := newNotificationFixture(t)

	pref, err := svc.GetPreference(context.Background(), "u1")
	if err != nil {
		t.Fatalf("查询偏好失败: %v", err)
	}
	if !pref.OverAllocationAlert || !pref.AllocationChanged || !pref.ProjectChanged {
		t.Error("未设置过偏好时应全部开启")
	}
}

func TestUpdatePreference(t *testing.T) {
	_, svc := newNotificationFixture(t)

	off := false
	pref, err := svc.UpdatePreference(context.Background(), "u1", &dto.UpdatePreferenceRequest{
		OverAllocationAlert: &off,
	})
	if err != nil {
		t.Fatalf("更新偏好失败: %v", err)
	}
	if pref.OverAllocationAlert {
		t.Error("期望超配提醒已关闭")
	}
	if !pref.AllocationChanged || !pref.ProjectChanged {
		t.Error("未指定的偏好项应保持开启")
	}

	// 再次读取应持久化
	got, err := svc.GetPreference(context.Background(), "u1")
	if err != nil {
		t.Fatalf("查询偏好失败: %v", err)
	}
	if got.OverAllocationAlert {
		t.Error("期望关闭状态已持久化")
	}
}

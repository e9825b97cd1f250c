package service

import (
	"context"
	"testing"

	"resource-pulse/internal/dto"
	"resource-pulse/internal/model"
	"resource-pulse/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// 项目服务测试
// ═══════════════════════════════════════════════════════════

func newProjectFixture(t *testing.T) (*repository.Repository, ProjectService) {
	t.Helper()
	repo := newTestRepo()
	svc := NewProjectService(repo, testLogger())
	return repo, svc
}

func TestCreateProject(t *testing.T) {
	_, svc := newProjectFixture(t)

	resp, err := svc.Create(context.Background(), &dto.CreateProjectRequest{
		Name:      "CRM 重构",
		StartDate: "2024-03-01",
		EndDate:   "2024-06-30",
	}, "op1")
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if resp.Status != model.ProjectStatusPlanned {
		t.Errorf("期望缺省状态 planned, 实际 %s", resp.Status)
	}
	if resp.StartDate != "2024-03-01" || resp.EndDate != "2024-06-30" {
		t.Errorf("期望起止 2024-03-01 ~ 2024-06-30, 实际 %s ~ %s", resp.StartDate, resp.EndDate)
	}

	// 同名重复
	_, err = svc.Create(context.Background(), &dto.CreateProjectRequest{Name: "CRM 重构"}, "op1")
	if err != ErrProjectNameTaken {
		t.Errorf("期望 ErrProjectNameTaken, 实际 %v", err)
	}
}

func TestCreateProject_EndBeforeStart(t *testing.T) {
	_, svc := newProjectFixture(t)

	_, err := svc.Create(context.Background(), &dto.CreateProjectRequest{
		Name:      "时间倒挂",
		StartDate: "2024-06-30",
		EndDate:   "2024-03-01",
	}, "op1")
	if err != ErrInvalidDateRange {
		t.Errorf("期望 ErrInvalidDateRange, 实际 %v", err)
	}
}

func TestCreateProject_DatesOptional(t *testing.T) {
	_, svc := newProjectFixture(t)

	resp, err := svc.Create(context.Background(), &dto.CreateProjectRequest{Name: "预研"}, "op1")
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if resp.StartDate != "" || resp.EndDate != "" {
		t.Errorf("未填日期时期望为空, 实际 %q ~ %q", resp.StartDate, resp.EndDate)
	}
}

func TestUpdateProject_StatusFlow(t *testing.T) {
	repo, svc := newProjectFixture(t)
	seedProject(t, repo, "p1", "CRM 重构", model.ProjectStatusPlanned)

	status := model.ProjectStatusActive
	resp, err := svc.Update(context.Background(), "p1", &dto.UpdateProjectRequest{Status: &status}, "op1")
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if resp.Status != model.ProjectStatusActive {
		t.Errorf("期望状态 active, 实际 %s", resp.Status)
	}
}

func TestGetProject_NotFound(t *testing.T) {
	_, svc := newProjectFixture(t)

	if _, err := svc.GetByID(context.Background(), "ghost"); err != ErrProjectNotFound {
		t.Errorf("期望 ErrProjectNotFound, 实际 %v", err)
	}
}

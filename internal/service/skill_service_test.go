package service

import (
	"context"
	"testing"

	"resource-pulse/internal/dto"
	"resource-pulse/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// 技能服务测试
// ═══════════════════════════════════════════════════════════

func newSkillFixture(t *testing.T) (*repository.Repository, SkillService) {
	t.Helper()
	repo := newTestRepo()
	svc := NewSkillService(repo, testLogger())
	return repo, svc
}

func TestCreateSkill(t *testing.T) {
	_, svc := newSkillFixture(t)

	resp, err := svc.Create(context.Background(), &dto.CreateSkillRequest{
		Name:     "Go",
		Category: "后端",
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if resp.Name != "Go" || resp.Category != "后端" {
		t.Errorf("期望 Go/后端, 实际 %s/%s", resp.Name, resp.Category)
	}

	_, err = svc.Create(context.Background(), &dto.CreateSkillRequest{Name: "Go"})
	if err != ErrSkillNameTaken {
		t.Errorf("期望 ErrSkillNameTaken, 实际 %v", err)
	}
}

func TestDeleteSkill_RefusedWhenInUse(t *testing.T) {
	repo, svc := newSkillFixture(t)

	resp, err := svc.Create(context.Background(), &dto.CreateSkillRequest{Name: "Go"})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	repo.Skill.(*mockSkillRepo).assignments[resp.ID] = 2

	if err := svc.Delete(context.Background(), resp.ID); err != ErrSkillInUse {
		t.Fatalf("期望 ErrSkillInUse, 实际 %v", err)
	}

	repo.Skill.(*mockSkillRepo).assignments[resp.ID] = 0
	if err := svc.Delete(context.Background(), resp.ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), resp.ID); err != ErrSkillNotFound {
		t.Errorf("删除后期望 ErrSkillNotFound, 实际 %v", err)
	}
}

func TestUpdateSkill_NotFound(t *testing.T) {
	_, svc := newSkillFixture(t)

	name := "Rust"
	_, err := svc.Update(context.Background(), "ghost", &dto.UpdateSkillRequest{Name: &name})
	if err != ErrSkillNotFound {
		t.Errorf("期望 ErrSkillNotFound, 实际 %v", err)
	}
}

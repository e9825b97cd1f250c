package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"resource-pulse/internal/dto"
	"resource-pulse/internal/model"
	"resource-pulse/internal/repository"
)

// ── 技能模块业务错误 ──

var (
	ErrSkillNotFound  = errors.New("技能不存在")
	ErrSkillNameTaken = errors.New("技能名称已存在")
	ErrSkillInUse     = errors.New("技能已被员工引用，无法删除")
)

// SkillService 技能业务接口
type SkillService interface {
	Create(ctx context.Context, req *dto.CreateSkillRequest) (*dto.SkillResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SkillResponse, error)
	List(ctx context.Context) ([]dto.SkillResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSkillRequest) (*dto.SkillResponse, error)
	Delete(ctx context.Context, id string) error
}

type skillService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSkillService 创建 SkillService 实例
func NewSkillService(repo *repository.Repository, logger *zap.Logger) SkillService {
	return &skillService{repo: repo, logger: logger}
}

func (s *skillService) Create(ctx context.Context, req *dto.CreateSkillRequest) (*dto.SkillResponse, error) {
	if _, err := s.repo.Skill.GetByName(ctx, req.Name); err == nil {
		return nil, ErrSkillNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	skill := &model.Skill{
		Name:     req.Name,
		Category: req.Category,
	}
	if err := s.repo.Skill.Create(ctx, skill); err != nil {
		s.logger.Error("创建技能失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	s.logger.Info("技能创建成功", zap.String("skill_id", skill.SkillID))

	return toSkillResponse(skill), nil
}

func (s *skillService) GetByID(ctx context.Context, id string) (*dto.SkillResponse, error) {
	skill, err := s.repo.Skill.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}
	return toSkillResponse(skill), nil
}

func (s *skillService) List(ctx context.Context) ([]dto.SkillResponse, error) {
	skills, err := s.repo.Skill.List(ctx)
	if err != nil {
		s.logger.Error("查询技能列表失败", zap.Error(err))
		return nil, err
	}
	resps := make([]dto.SkillResponse, 0, len(skills))
	for i := range skills {
		resps = append(resps, *toSkillResponse(&skills[i]))
	}
	return resps, nil
}

func (s *skillService) Update(ctx context.Context, id string, req *dto.UpdateSkillRequest) (*dto.SkillResponse, error) {
	skill, err := s.repo.Skill.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}

	if req.Name != nil && *req.Name != skill.Name {
		if _, err := s.repo.Skill.GetByName(ctx, *req.Name); err == nil {
			return nil, ErrSkillNameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		skill.Name = *req.Name
	}
	if req.Category != nil {
		skill.Category = *req.Category
	}

	if err := s.repo.Skill.Update(ctx, skill); err != nil {
		s.logger.Error("更新技能失败", zap.String("skill_id", id), zap.Error(err))
		return nil, err
	}
	return toSkillResponse(skill), nil
}

// Delete 删除技能；已被员工引用时拒绝
func (s *skillService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Skill.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSkillNotFound
		}
		return err
	}

	count, err := s.repo.Skill.CountAssignments(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSkillInUse
	}

	if err := s.repo.Skill.Delete(ctx, id); err != nil {
		s.logger.Error("删除技能失败", zap.String("skill_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("技能已删除", zap.String("skill_id", id))
	return nil
}

// ── 内部辅助函数 ──

func toSkillResponse(skill *model.Skill) *dto.SkillResponse {
	return &dto.SkillResponse{
		ID:        skill.SkillID,
		Name:      skill.Name,
		Category:  skill.Category,
		CreatedAt: skill.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

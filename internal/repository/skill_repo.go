package repository

import (
	"context"

	"gorm.io/gorm"

	"resource-pulse/internal/model"
)

// SkillRepository 技能数据访问接口
type SkillRepository interface {
	Create(ctx context.Context, skill *model.Skill) error
	GetByID(ctx context.Context, id string) (*model.Skill, error)
	GetByName(ctx context.Context, name string) (*model.Skill, error)
	List(ctx context.Context) ([]model.Skill, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Skill, error)
	Update(ctx context.Context, skill *model.Skill) error
	Delete(ctx context.Context, id string) error
	CountAssignments(ctx context.Context, skillID string) (int64, error)
}

// skillRepo SkillRepository 的 GORM 实现
type skillRepo struct {
	db *gorm.DB
}

// NewSkillRepo 创建 SkillRepository 实例
func NewSkillRepo(db *gorm.DB) SkillRepository {
	return &skillRepo{db: db}
}

func (r *skillRepo) Create(ctx context.Context, skill *model.Skill) error {
	return r.db.WithContext(ctx).Create(skill).Error
}

func (r *skillRepo) GetByID(ctx context.Context, id string) (*model.Skill, error) {
	var skill model.Skill
	err := r.db.WithContext(ctx).
		Where("skill_id = ?", id).
		First(&skill).Error
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *skillRepo) GetByName(ctx context.Context, name string) (*model.Skill, error) {
	var skill model.Skill
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&skill).Error
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *skillRepo) List(ctx context.Context) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&skills).Error
	return skills, err
}

func (r *skillRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.db.WithContext(ctx).
		Where("skill_id IN ?", ids).
		Find(&skills).Error
	return skills, err
}

func (r *skillRepo) Update(ctx context.Context, skill *model.Skill) error {
	return r.db.WithContext(ctx).Save(skill).Error
}

func (r *skillRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("skill_id = ?", id).
		Delete(&model.Skill{}).Error
}

func (r *skillRepo) CountAssignments(ctx context.Context, skillID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.EmployeeSkill{}).
		Where("skill_id = ?", skillID).
		Count(&count).Error
	return count, err
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"resource-pulse/internal/model"
)

// EmployeeListFilters 员工列表查询条件
type EmployeeListFilters struct {
	DepartmentID    string
	SkillID         string
	Keyword         string // 匹配姓名或邮箱
	IncludeInactive bool
}

// EmployeeRepository 员工数据访问接口
type EmployeeRepository interface {
	Create(ctx context.Context, emp *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	GetByEmail(ctx context.Context, email string) (*model.Employee, error)
	ListWithFilters(ctx context.Context, filters *EmployeeListFilters, offset, limit int) ([]model.Employee, int64, error)
	ListActive(ctx context.Context, departmentID string) ([]model.Employee, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Employee, error)
	Update(ctx context.Context, emp *model.Employee) error
	Delete(ctx context.Context, id string, deletedBy string) error
	ReplaceSkills(ctx context.Context, employeeID string, skills []model.EmployeeSkill) error
	CountActive(ctx context.Context) (int64, error)
}

// employeeRepo EmployeeRepository 的 GORM 实现
type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) Create(ctx context.Context, emp *model.Employee) error {
	return r.db.WithContext(ctx).Create(emp).Error
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("Skills.Skill").
		Where("employee_id = ?", id).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) GetByEmail(ctx context.Context, email string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) ListWithFilters(ctx context.Context, filters *EmployeeListFilters, offset, limit int) ([]model.Employee, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Employee{})

	if filters != nil {
		if filters.DepartmentID != "" {
			db = db.Where("department_id = ?", filters.DepartmentID)
		}
		if filters.SkillID != "" {
			db = db.Where(
				"employee_id IN (?)",
				r.db.Model(&model.EmployeeSkill{}).Select("employee_id").Where("skill_id = ?", filters.SkillID),
			)
		}
		if filters.Keyword != "" {
			kw := "%" + filters.Keyword + "%"
			db = db.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", kw, kw, kw)
		}
		if !filters.IncludeInactive {
			db = db.Where("is_active = ?", true)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var emps []model.Employee
	err := db.
		Preload("Department").
		Preload("Skills.Skill").
		Order("last_name ASC, first_name ASC").
		Offset(offset).
		Limit(limit).
		Find(&emps).Error
	return emps, total, err
}

func (r *employeeRepo) ListActive(ctx context.Context, departmentID string) ([]model.Employee, error) {
	db := r.db.WithContext(ctx).
		Where("is_active = ?", true)
	if departmentID != "" {
		db = db.Where("department_id = ?", departmentID)
	}
	var emps []model.Employee
	err := db.Order("last_name ASC, first_name ASC").Find(&emps).Error
	return emps, err
}

func (r *employeeRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Employee, error) {
	var emps []model.Employee
	err := r.db.WithContext(ctx).
		Where("employee_id IN ?", ids).
		Find(&emps).Error
	return emps, err
}

func (r *employeeRepo) Update(ctx context.Context, emp *model.Employee) error {
	return r.db.WithContext(ctx).Save(emp).Error
}

func (r *employeeRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("employee_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
			"is_active":  false,
		}).Error
}

// ReplaceSkills 全量替换员工技能（事务内先删后插）
func (r *employeeRepo) ReplaceSkills(ctx context.Context, employeeID string, skills []model.EmployeeSkill) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", employeeID).Delete(&model.EmployeeSkill{}).Error; err != nil {
			return err
		}
		if len(skills) == 0 {
			return nil
		}
		return tx.Create(&skills).Error
	})
}

func (r *employeeRepo) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

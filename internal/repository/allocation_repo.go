package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"resource-pulse/internal/model"
)

// AllocationListFilters 分配列表查询条件
type AllocationListFilters struct {
	EmployeeID string
	ProjectID  string
	Status     string
	From       *time.Time // 与 [From, To] 相交的分配
	To         *time.Time
}

// AllocationRepository 资源分配数据访问接口
type AllocationRepository interface {
	Create(ctx context.Context, alloc *model.Allocation) error
	GetByID(ctx context.Context, id string) (*model.Allocation, error)
	ListWithFilters(ctx context.Context, filters *AllocationListFilters, offset, limit int) ([]model.Allocation, int64, error)
	// ListCountableByEmployee 查询员工在 [from, to] 区间内计入容量的分配
	// （排除 cancelled；excludeID 非空时同时排除该分配，用于编辑场景）
	ListCountableByEmployee(ctx context.Context, employeeID string, from, to time.Time, excludeID string) ([]model.Allocation, error)
	// ListCountable 查询全量计入容量的分配（批量超配检测）
	ListCountable(ctx context.Context) ([]model.Allocation, error)
	// ListCountableInRange 查询与 [from, to] 相交的计入容量分配（热力图）
	ListCountableInRange(ctx context.Context, from, to time.Time, employeeIDs []string) ([]model.Allocation, error)
	Update(ctx context.Context, alloc *model.Allocation) error
	Cancel(ctx context.Context, id string, cancelledBy string) error
	CountActive(ctx context.Context) (int64, error)
}

// allocationRepo AllocationRepository 的 GORM 实现
type allocationRepo struct {
	db *gorm.DB
}

// NewAllocationRepo 创建 AllocationRepository 实例
func NewAllocationRepo(db *gorm.DB) AllocationRepository {
	return &allocationRepo{db: db}
}

func (r *allocationRepo) Create(ctx context.Context, alloc *model.Allocation) error {
	return r.db.WithContext(ctx).Create(alloc).Error
}

func (r *allocationRepo) GetByID(ctx context.Context, id string) (*model.Allocation, error) {
	var alloc model.Allocation
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Project").
		Where("allocation_id = ?", id).
		First(&alloc).Error
	if err != nil {
		return nil, err
	}
	return &alloc, nil
}

func (r *allocationRepo) ListWithFilters(ctx context.Context, filters *AllocationListFilters, offset, limit int) ([]model.Allocation, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Allocation{})

	if filters != nil {
		if filters.EmployeeID != "" {
			db = db.Where("employee_id = ?", filters.EmployeeID)
		}
		if filters.ProjectID != "" {
			db = db.Where("project_id = ?", filters.ProjectID)
		}
		if filters.Status != "" {
			db = db.Where("status = ?", filters.Status)
		}
		// 区间相交：start <= to AND end >= from（闭区间）
		if filters.To != nil {
			db = db.Where("start_date <= ?", *filters.To)
		}
		if filters.From != nil {
			db = db.Where("end_date >= ?", *filters.From)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var allocs []model.Allocation
	err := db.
		Preload("Employee").
		Preload("Project").
		Order("start_date ASC").
		Offset(offset).
		Limit(limit).
		Find(&allocs).Error
	return allocs, total, err
}

func (r *allocationRepo) ListCountableByEmployee(ctx context.Context, employeeID string, from, to time.Time, excludeID string) ([]model.Allocation, error) {
	db := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("status <> ?", model.AllocationStatusCancelled).
		Where("start_date <= ? AND end_date >= ?", to, from)
	if excludeID != "" {
		db = db.Where("allocation_id <> ?", excludeID)
	}
	var allocs []model.Allocation
	err := db.Order("start_date ASC").Find(&allocs).Error
	return allocs, err
}

func (r *allocationRepo) ListCountable(ctx context.Context) ([]model.Allocation, error) {
	var allocs []model.Allocation
	err := r.db.WithContext(ctx).
		Where("status <> ?", model.AllocationStatusCancelled).
		Order("start_date ASC").
		Find(&allocs).Error
	return allocs, err
}

func (r *allocationRepo) ListCountableInRange(ctx context.Context, from, to time.Time, employeeIDs []string) ([]model.Allocation, error) {
	db := r.db.WithContext(ctx).
		Where("status <> ?", model.AllocationStatusCancelled).
		Where("start_date <= ? AND end_date >= ?", to, from)
	if len(employeeIDs) > 0 {
		db = db.Where("employee_id IN ?", employeeIDs)
	}
	var allocs []model.Allocation
	err := db.Find(&allocs).Error
	return allocs, err
}

func (r *allocationRepo) Update(ctx context.Context, alloc *model.Allocation) error {
	return r.db.WithContext(ctx).Save(alloc).Error
}

// Cancel 取消分配（状态流转，保留记录）
func (r *allocationRepo) Cancel(ctx context.Context, id string, cancelledBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Allocation{}).
		Where("allocation_id = ?", id).
		Updates(map[string]interface{}{
			"status":     model.AllocationStatusCancelled,
			"updated_by": cancelledBy,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *allocationRepo) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Allocation{}).
		Where("status IN ?", []string{model.AllocationStatusPlanned, model.AllocationStatusActive}).
		Count(&count).Error
	return count, err
}

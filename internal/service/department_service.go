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

// ── 部门模块业务错误 ──

var (
	ErrDepartmentNotFound  = errors.New("部门不存在")
	ErrDepartmentNameTaken = errors.New("部门名称已存在")
	ErrDepartmentHasStaff  = errors.New("部门下仍有员工，无法删除")
)

// DepartmentService 部门业务接口
type DepartmentService interface {
	Create(ctx context.Context, req *dto.CreateDepartmentRequest, operatorID string) (*dto.DepartmentDetailResponse, error)
	GetByID(ctx context.Context, id string) (*dto.DepartmentDetailResponse, error)
	List(ctx context.Context, req *dto.DepartmentListRequest) ([]dto.DepartmentDetailResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateDepartmentRequest, operatorID string) (*dto.DepartmentDetailResponse, error)
	Delete(ctx context.Context, id string, operatorID string) error
}

type departmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDepartmentService 创建 DepartmentService 实例
func NewDepartmentService(repo *repository.Repository, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, logger: logger}
}

func (s *departmentService) Create(ctx context.Context, req *dto.CreateDepartmentRequest, operatorID string) (*dto.DepartmentDetailResponse, error) {
	if _, err := s.repo.Department.GetByName(ctx, req.Name); err == nil {
		return nil, ErrDepartmentNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	dept := &model.Department{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	dept.CreatedBy = &operatorID
	dept.UpdatedBy = &operatorID

	if err := s.repo.Department.Create(ctx, dept); err != nil {
		s.logger.Error("创建部门失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	s.logger.Info("部门创建成功", zap.String("department_id", dept.DepartmentID))

	return toDepartmentResponse(dept, 0), nil
}

func (s *departmentService) GetByID(ctx context.Context, id string) (*dto.DepartmentDetailResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	count, err := s.repo.Department.CountEmployees(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDepartmentResponse(dept, count), nil
}

func (s *departmentService) List(ctx context.Context, req *dto.DepartmentListRequest) ([]dto.DepartmentDetailResponse, error) {
	var (
		depts []model.Department
		err   error
	)
	if req.IncludeInactive {
		depts, err = s.repo.Department.ListAll(ctx)
	} else {
		depts, err = s.repo.Department.List(ctx)
	}
	if err != nil {
		s.logger.Error("查询部门列表失败", zap.Error(err))
		return nil, err
	}
	if len(depts) == 0 {
		return []dto.DepartmentDetailResponse{}, nil
	}

	ids := make([]string, 0, len(depts))
	for i := range depts {
		ids = append(ids, depts[i].DepartmentID)
	}
	counts, err := s.repo.Department.BatchCountEmployees(ctx, ids)
	if err != nil {
		return nil, err
	}

	resps := make([]dto.DepartmentDetailResponse, 0, len(depts))
	for i := range depts {
		resps = append(resps, *toDepartmentResponse(&depts[i], counts[depts[i].DepartmentID]))
	}
	return resps, nil
}

func (s *departmentService) Update(ctx context.Context, id string, req *dto.UpdateDepartmentRequest, operatorID string) (*dto.DepartmentDetailResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	if req.Name != nil && *req.Name != dept.Name {
		if _, err := s.repo.Department.GetByName(ctx, *req.Name); err == nil {
			return nil, ErrDepartmentNameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		dept.Name = *req.Name
	}
	if req.Description != nil {
		dept.Description = *req.Description
	}
	if req.IsActive != nil {
		dept.IsActive = *req.IsActive
	}

	dept.UpdatedBy = &operatorID
	dept.Version++
	if err := s.repo.Department.Update(ctx, dept); err != nil {
		s.logger.Error("更新部门失败", zap.String("department_id", id), zap.Error(err))
		return nil, err
	}
	s.logger.Info("部门更新成功", zap.String("department_id", id))

	return s.GetByID(ctx, id)
}

// Delete 删除部门；仍有在册员工时拒绝
func (s *departmentService) Delete(ctx context.Context, id string, operatorID string) error {
	if _, err := s.repo.Department.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return err
	}

	count, err := s.repo.Department.CountEmployees(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDepartmentHasStaff
	}

	if err := s.repo.Department.Delete(ctx, id, operatorID); err != nil {
		s.logger.Error("删除部门失败", zap.String("department_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("部门已删除", zap.String("department_id", id), zap.String("operator_id", operatorID))
	return nil
}

// ── 内部辅助函数 ──

func toDepartmentResponse(dept *model.Department, employeeCount int64) *dto.DepartmentDetailResponse {
	return &dto.DepartmentDetailResponse{
		ID:            dept.DepartmentID,
		Name:          dept.Name,
		Description:   dept.Description,
		IsActive:      dept.IsActive,
		EmployeeCount: employeeCount,
		CreatedAt:     dept.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:     dept.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"resource-pulse/config"
	"resource-pulse/internal/dto"
	"resource-pulse/internal/model"
	"resource-pulse/internal/repository"
)

// ── 分配模块业务错误 ──

var (
	ErrAllocationNotFound  = errors.New("分配不存在")
	ErrAllocationCancelled = errors.New("分配已取消，不可修改")
	ErrAllocationBlocked   = errors.New("分配将导致严重超配，已被拒绝")
	ErrProjectNotActive    = errors.New("项目不在可分配状态")
)

// AllocationService 资源分配业务接口
type AllocationService interface {
	Create(ctx context.Context, req *dto.CreateAllocationRequest, operatorID string) (*dto.AllocationResponse, error)
	GetByID(ctx context.Context, id string) (*dto.AllocationResponse, error)
	List(ctx context.Context, req *dto.AllocationListRequest) ([]dto.AllocationResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateAllocationRequest, operatorID string) (*dto.AllocationResponse, error)
	Cancel(ctx context.Context, id string, operatorID string) error
	// Check 对拟提交分配做超配检测，不落库
	Check(ctx context.Context, req *dto.CheckAllocationRequest) (*dto.WarningResponse, error)
	// ListConflicts 全量扫描现有分配中的超配周
	ListConflicts(ctx context.Context) ([]dto.WarningResponse, error)
}

type allocationService struct {
	cfg      *config.Config
	repo     *repository.Repository
	conflict ConflictService
	notifier NotificationService
	logger   *zap.Logger
}

// NewAllocationService 创建 AllocationService 实例
func NewAllocationService(cfg *config.Config, repo *repository.Repository, conflict ConflictService, notifier NotificationService, logger *zap.Logger) AllocationService {
	return &allocationService{cfg: cfg, repo: repo, conflict: conflict, notifier: notifier, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// Create — 创建分配（落库前强制超配检测）
// ═══════════════════════════════════════════════════════════
//
// 设计说明：
//   - 先检测后落库；检出 critical 且配置 block_on_critical 时拒绝保存
//   - warning 级别不阻断，但随响应返回告警并向管理侧推送通知
//   - 通知失败只记日志，不影响分配创建结果

func (s *allocationService) Create(ctx context.Context, req *dto.CreateAllocationRequest, operatorID string) (*dto.AllocationResponse, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	if _, err := s.repo.Employee.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	project, err := s.repo.Project.GetByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if project.Status == model.ProjectStatusCompleted || project.Status == model.ProjectStatusArchived {
		return nil, ErrProjectNotActive
	}

	warning, err := s.conflict.CheckOverAllocation(ctx, &OverAllocationCheckInput{
		EmployeeID:        req.EmployeeID,
		StartDate:         start,
		EndDate:           end,
		ProposedHours:     req.AllocatedHours,
		ProposedProjectID: req.ProjectID,
	})
	if err != nil {
		return nil, err
	}
	if warning != nil && warning.Severity == SeverityCritical && s.cfg.Feature.BlockOnCritical {
		return nil, ErrAllocationBlocked
	}

	status := req.Status
	if status == "" {
		status = model.AllocationStatusPlanned
	}
	alloc := &model.Allocation{
		EmployeeID:     req.EmployeeID,
		ProjectID:      req.ProjectID,
		StartDate:      start,
		EndDate:        end,
		AllocatedHours: req.AllocatedHours,
		Status:         status,
		Role:           req.Role,
		Notes:          req.Notes,
	}
	alloc.CreatedBy = &operatorID
	alloc.UpdatedBy = &operatorID

	if err := s.repo.Allocation.Create(ctx, alloc); err != nil {
		s.logger.Error("创建分配失败", zap.Error(err))
		return nil, err
	}
	s.logger.Info("分配创建成功",
		zap.String("allocation_id", alloc.AllocationID),
		zap.String("employee_id", alloc.EmployeeID),
		zap.String("project_id", alloc.ProjectID))

	if warning != nil {
		s.notifyOverAllocation(ctx, warning, alloc.AllocationID)
	}

	resp := s.toResponse(ctx, alloc)
	resp.Warning = warning
	return resp, nil
}

func (s *allocationService) GetByID(ctx context.Context, id string) (*dto.AllocationResponse, error) {
	alloc, err := s.repo.Allocation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAllocationNotFound
		}
		return nil, err
	}
	return s.toResponse(ctx, alloc), nil
}

func (s *allocationService) List(ctx context.Context, req *dto.AllocationListRequest) ([]dto.AllocationResponse, int64, error) {
	filters := &repository.AllocationListFilters{
		EmployeeID: req.EmployeeID,
		ProjectID:  req.ProjectID,
		Status:     req.Status,
	}
	if req.From != "" {
		from, err := parseDate(req.From)
		if err != nil {
			return nil, 0, ErrInvalidDateRange
		}
		filters.From = &from
	}
	if req.To != "" {
		to, err := parseDate(req.To)
		if err != nil {
			return nil, 0, ErrInvalidDateRange
		}
		filters.To = &to
	}

	allocs, total, err := s.repo.Allocation.ListWithFilters(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询分配列表失败", zap.Error(err))
		return nil, 0, err
	}

	resps := make([]dto.AllocationResponse, 0, len(allocs))
	for i := range allocs {
		resps = append(resps, *s.toResponse(ctx, &allocs[i]))
	}
	return resps, total, nil
}

// ═══════════════════════════════════════════════════════════
// Update — 更新分配（排除自身旧记录后重新检测）
// ═══════════════════════════════════════════════════════════

func (s *allocationService) Update(ctx context.Context, id string, req *dto.UpdateAllocationRequest, operatorID string) (*dto.AllocationResponse, error) {
	alloc, err := s.repo.Allocation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAllocationNotFound
		}
		return nil, err
	}
	if alloc.Status == model.AllocationStatusCancelled {
		return nil, ErrAllocationCancelled
	}

	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, ErrInvalidDateRange
		}
		alloc.StartDate = start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, ErrInvalidDateRange
		}
		alloc.EndDate = end
	}
	if alloc.EndDate.Before(alloc.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if req.AllocatedHours != nil {
		alloc.AllocatedHours = *req.AllocatedHours
	}
	if req.Status != nil {
		alloc.Status = *req.Status
	}
	if req.Role != nil {
		alloc.Role = *req.Role
	}
	if req.Notes != nil {
		alloc.Notes = *req.Notes
	}

	var warning *dto.WarningResponse
	if alloc.IsCountable() {
		warning, err = s.conflict.CheckOverAllocation(ctx, &OverAllocationCheckInput{
			EmployeeID:          alloc.EmployeeID,
			StartDate:           alloc.StartDate,
			EndDate:             alloc.EndDate,
			ProposedHours:       alloc.AllocatedHours,
			ProposedProjectID:   alloc.ProjectID,
			ExcludeAllocationID: alloc.AllocationID,
		})
		if err != nil {
			return nil, err
		}
		if warning != nil && warning.Severity == SeverityCritical && s.cfg.Feature.BlockOnCritical {
			return nil, ErrAllocationBlocked
		}
	}

	alloc.UpdatedBy = &operatorID
	alloc.Version++
	if err := s.repo.Allocation.Update(ctx, alloc); err != nil {
		s.logger.Error("更新分配失败", zap.String("allocation_id", id), zap.Error(err))
		return nil, err
	}
	s.logger.Info("分配更新成功", zap.String("allocation_id", id))

	if warning != nil {
		s.notifyOverAllocation(ctx, warning, alloc.AllocationID)
	}

	resp := s.toResponse(ctx, alloc)
	resp.Warning = warning
	return resp, nil
}

// Cancel 取消分配（状态流转为 cancelled，记录保留）
func (s *allocationService) Cancel(ctx context.Context, id string, operatorID string) error {
	alloc, err := s.repo.Allocation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAllocationNotFound
		}
		return err
	}
	if alloc.Status == model.AllocationStatusCancelled {
		return ErrAllocationCancelled
	}
	if err := s.repo.Allocation.Cancel(ctx, id, operatorID); err != nil {
		s.logger.Error("取消分配失败", zap.String("allocation_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("分配已取消", zap.String("allocation_id", id), zap.String("operator_id", operatorID))
	return nil
}

func (s *allocationService) Check(ctx context.Context, req *dto.CheckAllocationRequest) (*dto.WarningResponse, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	return s.conflict.CheckOverAllocation(ctx, &OverAllocationCheckInput{
		EmployeeID:          req.EmployeeID,
		StartDate:           start,
		EndDate:             end,
		ProposedHours:       req.AllocatedHours,
		ExcludeAllocationID: req.ExcludeAllocationID,
	})
}

func (s *allocationService) ListConflicts(ctx context.Context) ([]dto.WarningResponse, error) {
	return s.conflict.ListAllOverAllocations(ctx)
}

// ── 内部辅助方法 ──

// notifyOverAllocation 向管理侧推送超配通知；失败不影响主流程
func (s *allocationService) notifyOverAllocation(ctx context.Context, warning *dto.WarningResponse, allocationID string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyOverAllocation(ctx, warning, allocationID); err != nil {
		s.logger.Warn("超配通知发送失败",
			zap.String("allocation_id", allocationID),
			zap.Error(err))
	}
}

// toResponse 组装分配响应，关联未预加载时按需补查
func (s *allocationService) toResponse(ctx context.Context, alloc *model.Allocation) *dto.AllocationResponse {
	resp := &dto.AllocationResponse{
		ID:             alloc.AllocationID,
		EmployeeID:     alloc.EmployeeID,
		StartDate:      toDate(alloc.StartDate).Format(dateLayout),
		EndDate:        toDate(alloc.EndDate).Format(dateLayout),
		AllocatedHours: alloc.AllocatedHours,
		Status:         alloc.Status,
		Role:           alloc.Role,
		Notes:          alloc.Notes,
		CreatedAt:      alloc.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:      alloc.UpdatedAt.Format("2006-01-02 15:04:05"),
	}

	if alloc.Employee != nil {
		resp.EmployeeName = alloc.Employee.FullName()
	} else if emp, err := s.repo.Employee.GetByID(ctx, alloc.EmployeeID); err == nil {
		resp.EmployeeName = emp.FullName()
	}

	if alloc.Project != nil {
		resp.Project = &dto.ProjectBrief{ID: alloc.Project.ProjectID, Name: alloc.Project.Name}
	} else if project, err := s.repo.Project.GetByID(ctx, alloc.ProjectID); err == nil {
		resp.Project = &dto.ProjectBrief{ID: project.ProjectID, Name: project.Name}
	}
	return resp
}

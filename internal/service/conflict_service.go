package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"resource-pulse/config"
	"resource-pulse/internal/dto"
	"resource-pulse/internal/model"
	"resource-pulse/internal/repository"
)

// ── 冲突检测模块业务错误 ──

var ErrInvalidDateRange = errors.New("结束日期不能早于开始日期")

// 超配严重级别
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// criticalUtilizationRate 利用率达到该百分比时升级为 critical
const criticalUtilizationRate = 150.0

// OverAllocationCheckInput 单次超配检测入参
type OverAllocationCheckInput struct {
	EmployeeID    string
	StartDate     time.Time
	EndDate       time.Time
	ProposedHours float64
	// ProposedProjectID 本次提交分配的项目，仅用于冲突明细中的项目名解析，可为空
	ProposedProjectID string
	// ExcludeAllocationID 编辑场景下排除分配自身的旧记录，避免与自己重复计数
	ExcludeAllocationID string
}

// ConflictService 超配/冲突检测业务接口
//
// 设计说明：
//   - 核算单位为周一锚定的自然周，区间相交判断两端均为闭区间
//   - 分配在其触及的每一周都按完整的周小时数计入，不做部分周折算
//   - 已取消（cancelled）的分配不计入任何统计
//   - 员工记录不存在时视为"无法评估"，返回 nil 而非报错
type ConflictService interface {
	// CheckOverAllocation 检测一次拟提交分配是否造成超配
	// 返回区间内超配最严重一周的告警；无超配时返回 nil
	CheckOverAllocation(ctx context.Context, input *OverAllocationCheckInput) (*dto.WarningResponse, error)
	// ListAllOverAllocations 全量扫描现有分配，返回所有超配周的告警
	ListAllOverAllocations(ctx context.Context) ([]dto.WarningResponse, error)
}

type conflictService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewConflictService 创建 ConflictService 实例
func NewConflictService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ConflictService {
	return &conflictService{cfg: cfg, repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// CheckOverAllocation — 单次超配检测
// ═══════════════════════════════════════════════════════════
//
// 算法：
//  1. 枚举与 [start, end] 相交的全部周桶
//  2. 逐周累计该员工相交的现有分配小时数，再加上拟提交小时数
//  3. 跟踪超出周容量最多的一周（worst week）
//  4. 所有周均未超配 → nil；否则返回 worst week 的告警

func (s *conflictService) CheckOverAllocation(ctx context.Context, input *OverAllocationCheckInput) (*dto.WarningResponse, error) {
	start := toDate(input.StartDate)
	end := toDate(input.EndDate)
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	emp, err := s.repo.Employee.GetByID(ctx, input.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 员工不存在：无法评估，按"无冲突"放行
			return nil, nil
		}
		s.logger.Error("查询员工失败", zap.String("employee_id", input.EmployeeID), zap.Error(err))
		return nil, err
	}
	capacity := s.capacityOf(emp)

	// 一次取出覆盖全部周桶的分配（首周周一 ~ 末周周日）
	weeks := weeksInRange(start, end)
	rangeFrom := weeks[0]
	rangeTo := weeks[len(weeks)-1].AddDate(0, 0, 6)
	allocs, err := s.repo.Allocation.ListCountableByEmployee(ctx, input.EmployeeID, rangeFrom, rangeTo, input.ExcludeAllocationID)
	if err != nil {
		s.logger.Error("查询员工分配失败", zap.String("employee_id", input.EmployeeID), zap.Error(err))
		return nil, err
	}

	var (
		worstWeek     time.Time
		worstTotal    float64
		worstContribs []model.Allocation
		found         bool
	)

	for _, w := range weeks {
		wEnd := w.AddDate(0, 0, 6)
		total := input.ProposedHours
		var contribs []model.Allocation
		for i := range allocs {
			if allocs[i].Overlaps(w, wEnd) {
				total += allocs[i].AllocatedHours
				contribs = append(contribs, allocs[i])
			}
		}
		// 跟踪最大超配周；同值取更早的一周
		if !found || total-capacity > worstTotal-capacity {
			found = true
			worstWeek = w
			worstTotal = total
			worstContribs = contribs
		}
	}

	if worstTotal-capacity <= 0 {
		return nil, nil
	}

	warning := s.buildWarning(ctx, emp, capacity, worstWeek, worstTotal, worstContribs)
	// 追加本次提交的分配作为冲突来源之一
	warning.Allocations = append(warning.Allocations, dto.ContributingAllocation{
		ProjectID:      input.ProposedProjectID,
		ProjectName:    s.resolveProjectName(ctx, input.ProposedProjectID),
		StartDate:      start.Format(dateLayout),
		EndDate:        end.Format(dateLayout),
		AllocatedHours: input.ProposedHours,
	})
	return warning, nil
}

// ═══════════════════════════════════════════════════════════
// ListAllOverAllocations — 全量超配扫描
// ═══════════════════════════════════════════════════════════
//
// 以 (员工, 周起点) 去重：同一周无论被多少条分配触及，只核算一次。
// 每个超配周产出一条告警；结果按员工、周起点排序，保证幂等输出。

func (s *conflictService) ListAllOverAllocations(ctx context.Context) ([]dto.WarningResponse, error) {
	allocs, err := s.repo.Allocation.ListCountable(ctx)
	if err != nil {
		s.logger.Error("查询分配列表失败", zap.Error(err))
		return nil, err
	}
	if len(allocs) == 0 {
		return []dto.WarningResponse{}, nil
	}

	// 按员工分组，并收集待核算的 (员工, 周起点) 对
	byEmployee := make(map[string][]model.Allocation)
	type weekKey struct {
		employeeID string
		week       time.Time
	}
	seen := make(map[weekKey]bool)
	var keys []weekKey

	for i := range allocs {
		a := &allocs[i]
		byEmployee[a.EmployeeID] = append(byEmployee[a.EmployeeID], *a)
		for _, w := range weeksInRange(a.StartDate, a.EndDate) {
			k := weekKey{employeeID: a.EmployeeID, week: w}
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}

	// 批量取员工信息
	employeeIDs := make([]string, 0, len(byEmployee))
	for id := range byEmployee {
		employeeIDs = append(employeeIDs, id)
	}
	employees, err := s.repo.Employee.ListByIDs(ctx, employeeIDs)
	if err != nil {
		s.logger.Error("批量查询员工失败", zap.Error(err))
		return nil, err
	}
	empMap := make(map[string]*model.Employee, len(employees))
	for i := range employees {
		empMap[employees[i].EmployeeID] = &employees[i]
	}

	warnings := make([]dto.WarningResponse, 0)
	for _, k := range keys {
		emp, ok := empMap[k.employeeID]
		if !ok {
			continue // 员工记录缺失：无法评估
		}
		capacity := s.capacityOf(emp)

		wEnd := k.week.AddDate(0, 0, 6)
		var total float64
		var contribs []model.Allocation
		for _, a := range byEmployee[k.employeeID] {
			if a.Overlaps(k.week, wEnd) {
				total += a.AllocatedHours
				contribs = append(contribs, a)
			}
		}
		if total <= capacity {
			continue
		}
		warnings = append(warnings, *s.buildWarning(ctx, emp, capacity, k.week, total, contribs))
	}

	sort.Slice(warnings, func(i, j int) bool {
		if warnings[i].EmployeeID != warnings[j].EmployeeID {
			return warnings[i].EmployeeID < warnings[j].EmployeeID
		}
		return warnings[i].WeekStart < warnings[j].WeekStart
	})

	return warnings, nil
}

// ── 内部辅助方法 ──

// capacityOf 员工周容量，未设置时回退到配置默认值
func (s *conflictService) capacityOf(emp *model.Employee) float64 {
	if emp.WeeklyCapacity > 0 {
		return emp.WeeklyCapacity
	}
	return s.cfg.Feature.DefaultWeeklyCapacity
}

// buildWarning 组装单周超配告警（不含本次提交的分配）
func (s *conflictService) buildWarning(ctx context.Context, emp *model.Employee, capacity float64, week time.Time, total float64, contribs []model.Allocation) *dto.WarningResponse {
	rate := total / capacity * 100

	severity := SeverityWarning
	if rate >= criticalUtilizationRate {
		severity = SeverityCritical
	}

	// 批量解析项目名
	projectIDs := make([]string, 0, len(contribs))
	idSeen := make(map[string]bool)
	for i := range contribs {
		if !idSeen[contribs[i].ProjectID] {
			idSeen[contribs[i].ProjectID] = true
			projectIDs = append(projectIDs, contribs[i].ProjectID)
		}
	}
	nameMap := make(map[string]string)
	if len(projectIDs) > 0 {
		projects, err := s.repo.Project.ListByIDs(ctx, projectIDs)
		if err != nil {
			s.logger.Warn("批量查询项目失败，冲突明细将缺少项目名", zap.Error(err))
		} else {
			for i := range projects {
				nameMap[projects[i].ProjectID] = projects[i].Name
			}
		}
	}

	allocations := make([]dto.ContributingAllocation, 0, len(contribs))
	for i := range contribs {
		a := &contribs[i]
		allocations = append(allocations, dto.ContributingAllocation{
			AllocationID:   a.AllocationID,
			ProjectID:      a.ProjectID,
			ProjectName:    nameMap[a.ProjectID],
			StartDate:      toDate(a.StartDate).Format(dateLayout),
			EndDate:        toDate(a.EndDate).Format(dateLayout),
			AllocatedHours: a.AllocatedHours,
		})
	}

	return &dto.WarningResponse{
		EmployeeID:      emp.EmployeeID,
		EmployeeName:    emp.FullName(),
		WeekStart:       week.Format(dateLayout),
		WeekEnd:         week.AddDate(0, 0, 6).Format(dateLayout),
		TotalHours:      total,
		WeeklyCapacity:  capacity,
		OverageHours:    total - capacity,
		UtilizationRate: rate,
		Severity:        severity,
		Allocations:     allocations,
	}
}

// resolveProjectName 单个项目名解析，查询失败时返回空串
func (s *conflictService) resolveProjectName(ctx context.Context, projectID string) string {
	if projectID == "" {
		return ""
	}
	project, err := s.repo.Project.GetByID(ctx, projectID)
	if err != nil {
		return ""
	}
	return project.Name
}

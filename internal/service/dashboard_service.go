package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"resource-pulse/config"
	"resource-pulse/internal/dto"
	"resource-pulse/internal/model"
	"resource-pulse/internal/repository"
)

// DashboardService 仪表盘业务接口
type DashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardSummaryResponse, error)
	// DepartmentUtilization 按部门统计区间内的周均容量与利用率
	DepartmentUtilization(ctx context.Context, req *dto.UtilizationReportRequest) ([]dto.DepartmentUtilizationRow, error)
	// ProjectHours 按项目统计有效分配数量与周小时合计
	ProjectHours(ctx context.Context) ([]dto.ProjectHoursRow, error)
}

type dashboardService struct {
	cfg      *config.Config
	repo     *repository.Repository
	conflict ConflictService
	capacity CapacityService
	logger   *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(cfg *config.Config, repo *repository.Repository, conflict ConflictService, capacity CapacityService, logger *zap.Logger) DashboardService {
	return &dashboardService{cfg: cfg, repo: repo, conflict: conflict, capacity: capacity, logger: logger}
}

// Summary 总览统计；平均利用率取本周的周粒度热力图均值
func (s *dashboardService) Summary(ctx context.Context) (*dto.DashboardSummaryResponse, error) {
	employeeCount, err := s.repo.Employee.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	projectCount, err := s.repo.Project.Count(ctx)
	if err != nil {
		return nil, err
	}
	allocationCount, err := s.repo.Allocation.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	warnings, err := s.conflict.ListAllOverAllocations(ctx)
	if err != nil {
		return nil, err
	}

	week := weekStart(time.Now())
	heatmap, err := s.capacity.GetHeatmap(ctx, &dto.HeatmapRequest{
		StartDate:   week.Format(dateLayout),
		EndDate:     week.AddDate(0, 0, 6).Format(dateLayout),
		Granularity: GranularityWeekly,
	})
	if err != nil {
		return nil, err
	}

	return &dto.DashboardSummaryResponse{
		EmployeeCount:         employeeCount,
		ProjectCount:          projectCount,
		ActiveAllocationCount: allocationCount,
		OverAllocationCount:   len(warnings),
		AverageUtilization:    heatmap.Summary.AverageUtilization,
	}, nil
}

// ═══════════════════════════════════════════════════════════
// DepartmentUtilization — 部门维度利用率报表
// ═══════════════════════════════════════════════════════════
//
// 对区间内每个周桶累计部门容量与分配小时，再折算为周均值。
// 分配在其触及的每一周计入完整的周小时数，与冲突检测口径一致。

func (s *dashboardService) DepartmentUtilization(ctx context.Context, req *dto.UtilizationReportRequest) ([]dto.DepartmentUtilizationRow, error) {
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

	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := s.repo.Employee.ListActive(ctx, "")
	if err != nil {
		return nil, err
	}

	weeks := weeksInRange(start, end)
	rangeFrom := weeks[0]
	rangeTo := weeks[len(weeks)-1].AddDate(0, 0, 6)
	allocs, err := s.repo.Allocation.ListCountableInRange(ctx, rangeFrom, rangeTo, nil)
	if err != nil {
		return nil, err
	}

	allocsByEmployee := make(map[string][]*model.Allocation)
	for i := range allocs {
		allocsByEmployee[allocs[i].EmployeeID] = append(allocsByEmployee[allocs[i].EmployeeID], &allocs[i])
	}

	type agg struct {
		employees int
		capacity  float64
		allocated float64
	}
	byDept := make(map[string]*agg, len(depts))
	for i := range depts {
		byDept[depts[i].DepartmentID] = &agg{}
	}

	for i := range employees {
		emp := &employees[i]
		a, ok := byDept[emp.DepartmentID]
		if !ok {
			continue // 部门已停用
		}
		a.employees++

		capacity := emp.WeeklyCapacity
		if capacity <= 0 {
			capacity = s.cfg.Feature.DefaultWeeklyCapacity
		}
		for _, w := range weeks {
			a.capacity += capacity
			wEnd := w.AddDate(0, 0, 6)
			for _, alloc := range allocsByEmployee[emp.EmployeeID] {
				if alloc.Overlaps(w, wEnd) {
					a.allocated += alloc.AllocatedHours
				}
			}
		}
	}

	weekCount := float64(len(weeks))
	rows := make([]dto.DepartmentUtilizationRow, 0, len(depts))
	for i := range depts {
		a := byDept[depts[i].DepartmentID]
		row := dto.DepartmentUtilizationRow{
			DepartmentID:   depts[i].DepartmentID,
			DepartmentName: depts[i].Name,
			EmployeeCount:  a.employees,
			TotalCapacity:  a.capacity / weekCount,
			TotalAllocated: a.allocated / weekCount,
		}
		if a.capacity > 0 {
			row.AverageUtilization = a.allocated / a.capacity * 100
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ProjectHours 按项目汇总有效分配（排除 cancelled）
func (s *dashboardService) ProjectHours(ctx context.Context) ([]dto.ProjectHoursRow, error) {
	allocs, err := s.repo.Allocation.ListCountable(ctx)
	if err != nil {
		return nil, err
	}
	if len(allocs) == 0 {
		return []dto.ProjectHoursRow{}, nil
	}

	type agg struct {
		count int
		hours float64
	}
	byProject := make(map[string]*agg)
	for i := range allocs {
		a, ok := byProject[allocs[i].ProjectID]
		if !ok {
			a = &agg{}
			byProject[allocs[i].ProjectID] = a
		}
		a.count++
		a.hours += allocs[i].AllocatedHours
	}

	ids := make([]string, 0, len(byProject))
	for id := range byProject {
		ids = append(ids, id)
	}
	projects, err := s.repo.Project.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.ProjectHoursRow, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		a := byProject[p.ProjectID]
		if a == nil {
			continue
		}
		rows = append(rows, dto.ProjectHoursRow{
			ProjectID:       p.ProjectID,
			ProjectName:     p.Name,
			Status:          p.Status,
			AllocationCount: a.count,
			WeeklyHours:     a.hours,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].WeeklyHours > rows[j].WeeklyHours })
	return rows, nil
}

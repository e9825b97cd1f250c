package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"resource-pulse/config"
	"resource-pulse/internal/dto"
	"resource-pulse/internal/model"
	"resource-pulse/internal/repository"
)

// ── 容量模块业务错误 ──

var ErrHeatmapRangeTooLarge = errors.New("热力图查询区间过大")

// 热力图粒度
const (
	GranularityDaily   = "daily"
	GranularityWeekly  = "weekly"
	GranularityMonthly = "monthly"
)

// 热力等级
const (
	HeatLevelAvailable   = "available"
	HeatLevelGreen       = "green"
	HeatLevelBlue        = "blue"
	HeatLevelYellow      = "yellow"
	HeatLevelRed         = "red"
	HeatLevelUnavailable = "unavailable"
)

// maxHeatmapDays 热力图单次查询允许的最大天数
const maxHeatmapDays = 366

// CapacityRecord 容量核算的最小单元：员工 × 日
type CapacityRecord struct {
	EmployeeID     string
	Date           time.Time
	AvailableHours float64
	AllocatedHours float64
	ProjectIDs     []string // 当日有分配贡献的项目
}

// CapacityService 容量热力图业务接口
//
// 设计说明：
//   - 日粒度容量按工作日折算：可用小时 = 周容量 / 5（周末为 0）
//   - 分配同样按 1/5 折算到其覆盖的每个工作日
//   - BuildHeatmap 为纯聚合函数，便于独立测试；GetHeatmap 负责从
//     数据库派生 CapacityRecord 再聚合
type CapacityService interface {
	GetHeatmap(ctx context.Context, req *dto.HeatmapRequest) (*dto.HeatmapResponse, error)
	// BuildHeatmap 将容量记录按员工 × 时间桶聚合为热力图
	// names 为员工 ID → 姓名映射，缺失时单元格姓名为空串
	BuildHeatmap(records []CapacityRecord, granularity string, names map[string]string) *dto.HeatmapResponse
}

type capacityService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCapacityService 创建 CapacityService 实例
func NewCapacityService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) CapacityService {
	return &capacityService{cfg: cfg, repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// GetHeatmap — 派生容量记录并聚合
// ═══════════════════════════════════════════════════════════

func (s *capacityService) GetHeatmap(ctx context.Context, req *dto.HeatmapRequest) (*dto.HeatmapResponse, error) {
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
	if int(end.Sub(start).Hours()/24)+1 > maxHeatmapDays {
		return nil, ErrHeatmapRangeTooLarge
	}

	granularity := req.Granularity
	if granularity == "" {
		granularity = GranularityWeekly
	}

	employees, err := s.repo.Employee.ListActive(ctx, req.DepartmentID)
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, err
	}
	if len(employees) == 0 {
		return s.BuildHeatmap(nil, granularity, nil), nil
	}

	employeeIDs := make([]string, 0, len(employees))
	names := make(map[string]string, len(employees))
	for i := range employees {
		employeeIDs = append(employeeIDs, employees[i].EmployeeID)
		names[employees[i].EmployeeID] = employees[i].FullName()
	}

	allocs, err := s.repo.Allocation.ListCountableInRange(ctx, start, end, employeeIDs)
	if err != nil {
		s.logger.Error("查询分配列表失败", zap.Error(err))
		return nil, err
	}

	records := s.deriveRecords(employees, allocs, start, end)
	return s.BuildHeatmap(records, granularity, names), nil
}

// deriveRecords 为每个员工 × 日生成容量记录
func (s *capacityService) deriveRecords(employees []model.Employee, allocs []model.Allocation, start, end time.Time) []CapacityRecord {
	// 按员工索引分配，避免逐日全表扫描
	byEmployee := make(map[string][]*model.Allocation)
	for i := range allocs {
		byEmployee[allocs[i].EmployeeID] = append(byEmployee[allocs[i].EmployeeID], &allocs[i])
	}

	var records []CapacityRecord
	for i := range employees {
		emp := &employees[i]
		capacity := emp.WeeklyCapacity
		if capacity <= 0 {
			capacity = s.cfg.Feature.DefaultWeeklyCapacity
		}
		for d := toDate(start); !d.After(toDate(end)); d = d.AddDate(0, 0, 1) {
			rec := CapacityRecord{EmployeeID: emp.EmployeeID, Date: d}
			if !isWeekend(d) {
				rec.AvailableHours = capacity / 5
				for _, a := range byEmployee[emp.EmployeeID] {
					if a.Overlaps(d, d) {
						rec.AllocatedHours += a.AllocatedHours / 5
						rec.ProjectIDs = append(rec.ProjectIDs, a.ProjectID)
					}
				}
			}
			records = append(records, rec)
		}
	}
	return records
}

// ═══════════════════════════════════════════════════════════
// BuildHeatmap — 纯聚合：员工 × 时间桶 → 热力单元格
// ═══════════════════════════════════════════════════════════
//
// 空输入产出空网格与全零汇总，不报错。

func (s *capacityService) BuildHeatmap(records []CapacityRecord, granularity string, names map[string]string) *dto.HeatmapResponse {
	type bucketKey struct {
		employeeID string
		start      time.Time
	}
	type bucketAgg struct {
		end       time.Time
		available float64
		allocated float64
		projects  map[string]bool
	}

	buckets := make(map[bucketKey]*bucketAgg)
	var order []bucketKey

	for i := range records {
		rec := &records[i]
		bStart, bEnd := bucketOf(rec.Date, granularity)
		key := bucketKey{employeeID: rec.EmployeeID, start: bStart}
		agg, ok := buckets[key]
		if !ok {
			agg = &bucketAgg{end: bEnd, projects: make(map[string]bool)}
			buckets[key] = agg
			order = append(order, key)
		}
		agg.available += rec.AvailableHours
		agg.allocated += rec.AllocatedHours
		for _, pid := range rec.ProjectIDs {
			agg.projects[pid] = true
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].employeeID != order[j].employeeID {
			return order[i].employeeID < order[j].employeeID
		}
		return order[i].start.Before(order[j].start)
	})

	cells := make([]dto.HeatmapCellResponse, 0, len(order))
	var (
		sumUtilization float64
		peak           float64
		overAllocated  int
		underUtilized  int
	)
	for _, key := range order {
		agg := buckets[key]

		// 零可用小时时利用率按 0 处理，避免除零
		var pct float64
		if agg.available > 0 {
			pct = agg.allocated / agg.available * 100
		}

		cells = append(cells, dto.HeatmapCellResponse{
			EmployeeID:            key.employeeID,
			EmployeeName:          names[key.employeeID],
			BucketStart:           key.start.Format(dateLayout),
			BucketEnd:             agg.end.Format(dateLayout),
			AvailableHours:        agg.available,
			AllocatedHours:        agg.allocated,
			UtilizationPercentage: pct,
			HeatLevel:             heatLevel(pct, agg.available, agg.allocated),
			ProjectCount:          len(agg.projects),
		})

		sumUtilization += pct
		if pct > peak {
			peak = pct
		}
		if pct > 100 {
			overAllocated++
		}
		if pct < 60 {
			underUtilized++
		}
	}

	summary := dto.HeatmapSummaryResponse{
		PeakUtilization:    peak,
		OverAllocatedCount: overAllocated,
		UnderUtilizedCount: underUtilized,
	}
	if len(cells) > 0 {
		summary.AverageUtilization = sumUtilization / float64(len(cells))
	}

	return &dto.HeatmapResponse{
		Granularity: granularity,
		Cells:       cells,
		Summary:     summary,
	}
}

// ── 内部辅助函数 ──

// bucketOf 根据粒度计算日期所属时间桶的起止（闭区间）
func bucketOf(d time.Time, granularity string) (time.Time, time.Time) {
	switch granularity {
	case GranularityDaily:
		day := toDate(d)
		return day, day
	case GranularityMonthly:
		return monthStart(d), monthEnd(d)
	default: // weekly
		return weekStart(d), weekEnd(d)
	}
}

// heatLevel 按固定阈值将利用率映射为热力等级
//
//	0%          → available（无分配）
//	(0, 60)     → green
//	[60, 85]    → blue
//	(85, 100]   → yellow
//	> 100       → red
//	可用与分配均为 0 → unavailable；可用为 0 但有分配 → red
func heatLevel(pct, available, allocated float64) string {
	if available == 0 {
		if allocated > 0 {
			return HeatLevelRed
		}
		return HeatLevelUnavailable
	}
	switch {
	case pct == 0:
		return HeatLevelAvailable
	case pct < 60:
		return HeatLevelGreen
	case pct <= 85:
		return HeatLevelBlue
	case pct <= 100:
		return HeatLevelYellow
	default:
		return HeatLevelRed
	}
}

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"resource-pulse/internal/dto"
	"resource-pulse/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoData       = errors.New("查询区间内无可导出数据")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - Excel 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写入 Response
//   - 日历导出为标准 iCalendar (RFC 5545) 文本，每条有效分配对应一个
//     全天区间事件，可被主流日历客户端订阅
type ExportService interface {
	// ExportAllocations 导出区间内的分配明细为 Excel
	ExportAllocations(ctx context.Context, req *dto.UtilizationReportRequest) (*bytes.Buffer, string, error)
	// ExportUtilization 导出部门利用率报表为 Excel
	ExportUtilization(ctx context.Context, req *dto.UtilizationReportRequest) (*bytes.Buffer, string, error)
	// EmployeeCalendar 生成员工分配日历（ICS 文本）
	EmployeeCalendar(ctx context.Context, employeeID string) (string, string, error)
}

type exportService struct {
	repo      *repository.Repository
	dashboard DashboardService
	logger    *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, dashboard DashboardService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, dashboard: dashboard, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportAllocations — 分配明细导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 表头: | 员工 | 项目 | 开始日期 | 结束日期 | 小时/周 | 状态 | 角色 |

func (s *exportService) ExportAllocations(ctx context.Context, req *dto.UtilizationReportRequest) (*bytes.Buffer, string, error) {
	from, err := parseDate(req.StartDate)
	if err != nil {
		return nil, "", ErrInvalidDateRange
	}
	to, err := parseDate(req.EndDate)
	if err != nil {
		return nil, "", ErrInvalidDateRange
	}
	if to.Before(from) {
		return nil, "", ErrInvalidDateRange
	}

	allocs, err := s.repo.Allocation.ListCountableInRange(ctx, from, to, nil)
	if err != nil {
		s.logger.Error("查询分配失败", zap.Error(err))
		return nil, "", err
	}
	if len(allocs) == 0 {
		return nil, "", ErrExportNoData
	}

	// 批量解析员工/项目名
	empSeen := make(map[string]bool)
	projSeen := make(map[string]bool)
	var empIDs, projIDs []string
	for i := range allocs {
		if !empSeen[allocs[i].EmployeeID] {
			empSeen[allocs[i].EmployeeID] = true
			empIDs = append(empIDs, allocs[i].EmployeeID)
		}
		if !projSeen[allocs[i].ProjectID] {
			projSeen[allocs[i].ProjectID] = true
			projIDs = append(projIDs, allocs[i].ProjectID)
		}
	}
	empNames, projNames, err := s.resolveNames(ctx, empIDs, projIDs)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "分配明细"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "B", 20)
	f.SetColWidth(sheetName, "C", "D", 14)
	f.SetColWidth(sheetName, "E", "G", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"员工", "项目", "开始日期", "结束日期", "小时/周", "状态", "角色"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	row := 2
	for i := range allocs {
		a := &allocs[i]
		f.SetCellValue(sheetName, cell("A", row), empNames[a.EmployeeID])
		f.SetCellValue(sheetName, cell("B", row), projNames[a.ProjectID])
		f.SetCellValue(sheetName, cell("C", row), toDate(a.StartDate).Format(dateLayout))
		f.SetCellValue(sheetName, cell("D", row), toDate(a.EndDate).Format(dateLayout))
		f.SetCellValue(sheetName, cell("E", row), a.AllocatedHours)
		f.SetCellValue(sheetName, cell("F", row), a.Status)
		f.SetCellValue(sheetName, cell("G", row), a.Role)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("分配明细_%s_%s.xlsx", req.StartDate, req.EndDate)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportUtilization — 部门利用率报表导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 表头: | 部门 | 员工数 | 周均容量 | 周均分配 | 平均利用率 |

func (s *exportService) ExportUtilization(ctx context.Context, req *dto.UtilizationReportRequest) (*bytes.Buffer, string, error) {
	rows, err := s.dashboard.DepartmentUtilization(ctx, req)
	if err != nil {
		return nil, "", err
	}
	if len(rows) == 0 {
		return nil, "", ErrExportNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "部门利用率"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "E", 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("部门利用率报表 %s ~ %s", req.StartDate, req.EndDate))
	f.MergeCell(sheetName, "A1", "E1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	headers := []string{"部门", "员工数", "周均容量(小时)", "周均分配(小时)", "平均利用率(%)"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", "E2", headerStyle)

	row := 3
	for _, r := range rows {
		f.SetCellValue(sheetName, cell("A", row), r.DepartmentName)
		f.SetCellValue(sheetName, cell("B", row), r.EmployeeCount)
		f.SetCellValue(sheetName, cell("C", row), r.TotalCapacity)
		f.SetCellValue(sheetName, cell("D", row), r.TotalAllocated)
		f.SetCellValue(sheetName, cell("E", row), r.AverageUtilization)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("部门利用率_%s_%s.xlsx", req.StartDate, req.EndDate)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// EmployeeCalendar — 员工分配日历（ICS）
// ═══════════════════════════════════════════════════════════
//
// 每条有效分配产出一个事件，DTEND 为结束日次日（iCalendar 的
// 全天事件区间为半开区间）。

func (s *exportService) EmployeeCalendar(ctx context.Context, employeeID string) (string, string, error) {
	emp, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrEmployeeNotFound
		}
		return "", "", err
	}

	// 近一年与未来一年的分配都纳入日历
	now := toDate(time.Now())
	allocs, err := s.repo.Allocation.ListCountableByEmployee(ctx, employeeID, now.AddDate(-1, 0, 0), now.AddDate(1, 0, 0), "")
	if err != nil {
		s.logger.Error("查询员工分配失败", zap.String("employee_id", employeeID), zap.Error(err))
		return "", "", err
	}

	projIDs := make([]string, 0, len(allocs))
	seen := make(map[string]bool)
	for i := range allocs {
		if !seen[allocs[i].ProjectID] {
			seen[allocs[i].ProjectID] = true
			projIDs = append(projIDs, allocs[i].ProjectID)
		}
	}
	projNames := make(map[string]string)
	if len(projIDs) > 0 {
		projects, err := s.repo.Project.ListByIDs(ctx, projIDs)
		if err != nil {
			return "", "", err
		}
		for i := range projects {
			projNames[projects[i].ProjectID] = projects[i].Name
		}
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//resource-pulse//allocation-calendar//CN")
	cal.SetName(fmt.Sprintf("%s 的项目分配", emp.FullName()))

	for i := range allocs {
		a := &allocs[i]
		event := cal.AddEvent(fmt.Sprintf("%s@resource-pulse", a.AllocationID))
		event.SetCreatedTime(a.CreatedAt)
		event.SetDtStampTime(time.Now())
		event.SetAllDayStartAt(toDate(a.StartDate))
		event.SetAllDayEndAt(toDate(a.EndDate).AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("%s（%.0f 小时/周）", projNames[a.ProjectID], a.AllocatedHours))
		if a.Role != "" {
			event.SetDescription(fmt.Sprintf("角色: %s", a.Role))
		}
	}

	filename := fmt.Sprintf("allocations_%s.ics", emp.EmployeeID)
	return cal.Serialize(), filename, nil
}

// ── 辅助函数 ──

func (s *exportService) resolveNames(ctx context.Context, empIDs, projIDs []string) (map[string]string, map[string]string, error) {
	employees, err := s.repo.Employee.ListByIDs(ctx, empIDs)
	if err != nil {
		return nil, nil, err
	}
	empNames := make(map[string]string, len(employees))
	for i := range employees {
		empNames[employees[i].EmployeeID] = employees[i].FullName()
	}

	projects, err := s.repo.Project.ListByIDs(ctx, projIDs)
	if err != nil {
		return nil, nil, err
	}
	projNames := make(map[string]string, len(projects))
	for i := range projects {
		projNames[projects[i].ProjectID] = projects[i].Name
	}
	return empNames, projNames, nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"resource-pulse/config"
	"resource-pulse/internal/dto"
	"resource-pulse/internal/model"
	"resource-pulse/internal/repository"
)

// ── 员工模块业务错误 ──

var (
	ErrEmployeeNotFound   = errors.New("员工不存在")
	ErrEmployeeEmailTaken = errors.New("员工邮箱已存在")
	ErrInvalidImportFile  = errors.New("导入文件格式错误")
)

// EmployeeService 员工业务接口
type EmployeeService interface {
	Create(ctx context.Context, req *dto.CreateEmployeeRequest, operatorID string) (*dto.EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EmployeeResponse, error)
	List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateEmployeeRequest, operatorID string) (*dto.EmployeeResponse, error)
	Delete(ctx context.Context, id string, operatorID string) error
	// SetSkills 全量替换员工技能
	SetSkills(ctx context.Context, id string, req *dto.SetEmployeeSkillsRequest) (*dto.EmployeeResponse, error)
	// ImportCSV 从 CSV 批量导入员工，逐行校验并返回行级错误
	ImportCSV(ctx context.Context, r io.Reader, operatorID string) (*dto.ImportEmployeesResponse, error)
}

type employeeService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{cfg: cfg, repo: repo, logger: logger}
}

func (s *employeeService) Create(ctx context.Context, req *dto.CreateEmployeeRequest, operatorID string) (*dto.EmployeeResponse, error) {
	if _, err := s.repo.Employee.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmployeeEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.repo.Department.GetByID(ctx, req.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	capacity := s.cfg.Feature.DefaultWeeklyCapacity
	if req.WeeklyCapacity != nil {
		capacity = *req.WeeklyCapacity
	}

	emp := &model.Employee{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Title:          req.Title,
		WeeklyCapacity: capacity,
		DepartmentID:   req.DepartmentID,
		IsActive:       true,
	}
	emp.CreatedBy = &operatorID
	emp.UpdatedBy = &operatorID

	if err := s.repo.Employee.Create(ctx, emp); err != nil {
		s.logger.Error("创建员工失败", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}
	s.logger.Info("员工创建成功", zap.String("employee_id", emp.EmployeeID))

	return s.GetByID(ctx, emp.EmployeeID)
}

func (s *employeeService) GetByID(ctx context.Context, id string) (*dto.EmployeeResponse, error) {
	emp, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return toEmployeeResponse(emp), nil
}

func (s *employeeService) List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, int64, error) {
	filters := &repository.EmployeeListFilters{
		DepartmentID:    req.DepartmentID,
		SkillID:         req.SkillID,
		Keyword:         req.Keyword,
		IncludeInactive: req.IncludeInactive,
	}
	emps, total, err := s.repo.Employee.ListWithFilters(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, 0, err
	}

	resps := make([]dto.EmployeeResponse, 0, len(emps))
	for i := range emps {
		resps = append(resps, *toEmployeeResponse(&emps[i]))
	}
	return resps, total, nil
}

func (s *employeeService) Update(ctx context.Context, id string, req *dto.UpdateEmployeeRequest, operatorID string) (*dto.EmployeeResponse, error) {
	emp, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	if req.Email != nil && *req.Email != emp.Email {
		if _, err := s.repo.Employee.GetByEmail(ctx, *req.Email); err == nil {
			return nil, ErrEmployeeEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		emp.Email = *req.Email
	}
	if req.DepartmentID != nil && *req.DepartmentID != emp.DepartmentID {
		if _, err := s.repo.Department.GetByID(ctx, *req.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, err
		}
		emp.DepartmentID = *req.DepartmentID
	}
	if req.FirstName != nil {
		emp.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		emp.LastName = *req.LastName
	}
	if req.Title != nil {
		emp.Title = *req.Title
	}
	if req.WeeklyCapacity != nil {
		emp.WeeklyCapacity = *req.WeeklyCapacity
	}
	if req.IsActive != nil {
		emp.IsActive = *req.IsActive
	}

	emp.UpdatedBy = &operatorID
	emp.Version++
	// 清空预加载的关联，避免 Save 级联写入
	emp.Department = nil
	emp.Skills = nil
	if err := s.repo.Employee.Update(ctx, emp); err != nil {
		s.logger.Error("更新员工失败", zap.String("employee_id", id), zap.Error(err))
		return nil, err
	}
	s.logger.Info("员工更新成功", zap.String("employee_id", id))

	return s.GetByID(ctx, id)
}

func (s *employeeService) Delete(ctx context.Context, id string, operatorID string) error {
	if _, err := s.repo.Employee.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}
	if err := s.repo.Employee.Delete(ctx, id, operatorID); err != nil {
		s.logger.Error("删除员工失败", zap.String("employee_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("员工已删除", zap.String("employee_id", id), zap.String("operator_id", operatorID))
	return nil
}

func (s *employeeService) SetSkills(ctx context.Context, id string, req *dto.SetEmployeeSkillsRequest) (*dto.EmployeeResponse, error) {
	if _, err := s.repo.Employee.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	// 校验技能存在且无重复
	seen := make(map[string]bool, len(req.Skills))
	skills := make([]model.EmployeeSkill, 0, len(req.Skills))
	for _, item := range req.Skills {
		if seen[item.SkillID] {
			continue
		}
		seen[item.SkillID] = true
		if _, err := s.repo.Skill.GetByID(ctx, item.SkillID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSkillNotFound
			}
			return nil, err
		}
		skills = append(skills, model.EmployeeSkill{
			EmployeeID:  id,
			SkillID:     item.SkillID,
			Proficiency: item.Proficiency,
		})
	}

	if err := s.repo.Employee.ReplaceSkills(ctx, id, skills); err != nil {
		s.logger.Error("设置员工技能失败", zap.String("employee_id", id), zap.Error(err))
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// ═══════════════════════════════════════════════════════════
// ImportCSV — 员工批量导入
// ═══════════════════════════════════════════════════════════
//
// CSV 列：first_name, last_name, email, title, weekly_capacity, department_name
// 首行为表头；逐行独立校验，单行失败不影响其余行。

func (s *employeeService) ImportCSV(ctx context.Context, r io.Reader, operatorID string) (*dto.ImportEmployeesResponse, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, ErrInvalidImportFile
	}
	if len(header) < 6 {
		return nil, ErrInvalidImportFile
	}

	// 部门按名称解析，同名只查一次
	deptCache := make(map[string]string)

	result := &dto.ImportEmployeesResponse{}
	line := 1
	for {
		line++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, dto.ImportRowError{Line: line, Reason: "CSV 行解析失败"})
			continue
		}
		if reason := s.importRow(ctx, record, deptCache, operatorID); reason != "" {
			result.Skipped++
			result.Errors = append(result.Errors, dto.ImportRowError{Line: line, Reason: reason})
			continue
		}
		result.Imported++
	}

	s.logger.Info("员工导入完成",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// importRow 处理单行导入，返回空串表示成功，否则为失败原因
func (s *employeeService) importRow(ctx context.Context, record []string, deptCache map[string]string, operatorID string) string {
	if len(record) < 6 {
		return "列数不足"
	}
	firstName := strings.TrimSpace(record[0])
	lastName := strings.TrimSpace(record[1])
	email := strings.TrimSpace(record[2])
	title := strings.TrimSpace(record[3])
	capacityStr := strings.TrimSpace(record[4])
	deptName := strings.TrimSpace(record[5])

	if firstName == "" || lastName == "" {
		return "姓名不能为空"
	}
	if email == "" || !strings.Contains(email, "@") {
		return "邮箱格式错误"
	}
	if deptName == "" {
		return "部门不能为空"
	}

	capacity := s.cfg.Feature.DefaultWeeklyCapacity
	if capacityStr != "" {
		v, err := strconv.ParseFloat(capacityStr, 64)
		if err != nil || v <= 0 || v > 168 {
			return "周容量必须为 (0, 168] 内的数字"
		}
		capacity = v
	}

	deptID, ok := deptCache[deptName]
	if !ok {
		dept, err := s.repo.Department.GetByName(ctx, deptName)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Sprintf("部门 %q 不存在", deptName)
			}
			return "部门查询失败"
		}
		deptID = dept.DepartmentID
		deptCache[deptName] = deptID
	}

	if _, err := s.repo.Employee.GetByEmail(ctx, email); err == nil {
		return fmt.Sprintf("邮箱 %s 已存在", email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "员工查询失败"
	}

	emp := &model.Employee{
		FirstName:      firstName,
		LastName:       lastName,
		Email:          email,
		Title:          title,
		WeeklyCapacity: capacity,
		DepartmentID:   deptID,
		IsActive:       true,
	}
	emp.CreatedBy = &operatorID
	emp.UpdatedBy = &operatorID
	if err := s.repo.Employee.Create(ctx, emp); err != nil {
		return "写入数据库失败"
	}
	return ""
}

// ── 内部辅助函数 ──

func toEmployeeResponse(emp *model.Employee) *dto.EmployeeResponse {
	resp := &dto.EmployeeResponse{
		ID:             emp.EmployeeID,
		FirstName:      emp.FirstName,
		LastName:       emp.LastName,
		Email:          emp.Email,
		Title:          emp.Title,
		WeeklyCapacity: emp.WeeklyCapacity,
		IsActive:       emp.IsActive,
		CreatedAt:      emp.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:      emp.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if emp.Department != nil {
		resp.Department = &dto.DepartmentBrief{ID: emp.Department.DepartmentID, Name: emp.Department.Name}
	}
	for i := range emp.Skills {
		es := &emp.Skills[i]
		item := dto.EmployeeSkillResponse{
			SkillID:     es.SkillID,
			Proficiency: es.Proficiency,
		}
		if es.Skill != nil {
			item.Name = es.Skill.Name
			item.Category = es.Skill.Category
		}
		resp.Skills = append(resp.Skills, item)
	}
	return resp
}

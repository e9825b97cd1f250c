package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"resource-pulse/internal/dto"
	"resource-pulse/internal/model"
	"resource-pulse/internal/repository"
)

// ── 项目模块业务错误 ──

var (
	ErrProjectNotFound  = errors.New("项目不存在")
	ErrProjectNameTaken = errors.New("项目名称已存在")
)

// ProjectService 项目业务接口
type ProjectService interface {
	Create(ctx context.Context, req *dto.CreateProjectRequest, operatorID string) (*dto.ProjectResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ProjectResponse, error)
	List(ctx context.Context, req *dto.ProjectListRequest) ([]dto.ProjectResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateProjectRequest, operatorID string) (*dto.ProjectResponse, error)
	Delete(ctx context.Context, id string, operatorID string) error
}

type projectService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProjectService 创建 ProjectService 实例
func NewProjectService(repo *repository.Repository, logger *zap.Logger) ProjectService {
	return &projectService{repo: repo, logger: logger}
}

func (s *projectService) Create(ctx context.Context, req *dto.CreateProjectRequest, operatorID string) (*dto.ProjectResponse, error) {
	if _, err := s.repo.Project.GetByName(ctx, req.Name); err == nil {
		return nil, ErrProjectNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.ProjectStatusPlanned
	}
	project := &model.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
	}
	if req.StartDate != "" {
		start, err := parseDate(req.StartDate)
		if err != nil {
			return nil, ErrInvalidDateRange
		}
		project.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := parseDate(req.EndDate)
		if err != nil {
			return nil, ErrInvalidDateRange
		}
		project.EndDate = &end
	}
	if project.StartDate != nil && project.EndDate != nil && project.EndDate.Before(*project.StartDate) {
		return nil, ErrInvalidDateRange
	}
	project.CreatedBy = &operatorID
	project.UpdatedBy = &operatorID

	if err := s.repo.Project.Create(ctx, project); err != nil {
		s.logger.Error("创建项目失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	s.logger.Info("项目创建成功", zap.String("project_id", project.ProjectID))

	return toProjectResponse(project), nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	project, err := s.repo.Project.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return toProjectResponse(project), nil
}

func (s *projectService) List(ctx context.Context, req *dto.ProjectListRequest) ([]dto.ProjectResponse, int64, error) {
	filters := &repository.ProjectListFilters{
		Status:  req.Status,
		Keyword: req.Keyword,
	}
	projects, total, err := s.repo.Project.ListWithFilters(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询项目列表失败", zap.Error(err))
		return nil, 0, err
	}

	resps := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		resps = append(resps, *toProjectResponse(&projects[i]))
	}
	return resps, total, nil
}

func (s *projectService) Update(ctx context.Context, id string, req *dto.UpdateProjectRequest, operatorID string) (*dto.ProjectResponse, error) {
	project, err := s.repo.Project.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	if req.Name != nil && *req.Name != project.Name {
		if _, err := s.repo.Project.GetByName(ctx, *req.Name); err == nil {
			return nil, ErrProjectNameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, ErrInvalidDateRange
		}
		project.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, ErrInvalidDateRange
		}
		project.EndDate = &end
	}
	if project.StartDate != nil && project.EndDate != nil && project.EndDate.Before(*project.StartDate) {
		return nil, ErrInvalidDateRange
	}

	project.UpdatedBy = &operatorID
	project.Version++
	if err := s.repo.Project.Update(ctx, project); err != nil {
		s.logger.Error("更新项目失败", zap.String("project_id", id), zap.Error(err))
		return nil, err
	}
	s.logger.Info("项目更新成功", zap.String("project_id", id))

	return toProjectResponse(project), nil
}

func (s *projectService) Delete(ctx context.Context, id string, operatorID string) error {
	if _, err := s.repo.Project.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	if err := s.repo.Project.Delete(ctx, id, operatorID); err != nil {
		s.logger.Error("删除项目失败", zap.String("project_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("项目已删除", zap.String("project_id", id), zap.String("operator_id", operatorID))
	return nil
}

// ── 内部辅助函数 ──

func toProjectResponse(project *model.Project) *dto.ProjectResponse {
	resp := &dto.ProjectResponse{
		ID:          project.ProjectID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		CreatedAt:   project.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:   project.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if project.StartDate != nil {
		resp.StartDate = formatDatePtr(project.StartDate)
	}
	if project.EndDate != nil {
		resp.EndDate = formatDatePtr(project.EndDate)
	}
	return resp
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return toDate(*t).Format(dateLayout)
}

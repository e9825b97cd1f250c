package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"resource-pulse/config"
	"resource-pulse/internal/model"
	"resource-pulse/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) ListByRoles(_ context.Context, roles ...string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		for _, r := range roles {
			if u.Role == r {
				result = append(result, *u)
				break
			}
		}
	}
	return result, nil
}

// ── Mock DepartmentRepository ──

type mockDepartmentRepo struct {
	departments   map[string]*model.Department
	employeeCount map[string]int64
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{
		departments:   make(map[string]*model.Department),
		employeeCount: make(map[string]int64),
	}
}

func (m *mockDepartmentRepo) Create(_ context.Context, dept *model.Department) error {
	if dept.DepartmentID == "" {
		dept.DepartmentID = "dept-" + dept.Name
	}
	m.departments[dept.DepartmentID] = dept
	return nil
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.departments[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) GetByName(_ context.Context, name string) (*model.Department, error) {
	for _, d := range m.departments {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) List(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.departments {
		if d.IsActive {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (m *mockDepartmentRepo) ListAll(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.departments {
		result = append(result, *d)
	}
	return result, nil
}

func (m *mockDepartmentRepo) Update(_ context.Context, dept *model.Department) error {
	m.departments[dept.DepartmentID] = dept
	return nil
}

func (m *mockDepartmentRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.departments, id)
	return nil
}

func (m *mockDepartmentRepo) CountEmployees(_ context.Context, departmentID string) (int64, error) {
	return m.employeeCount[departmentID], nil
}

func (m *mockDepartmentRepo) BatchCountEmployees(_ context.Context, departmentIDs []string) (map[string]int64, error) {
	result := make(map[string]int64)
	for _, id := range departmentIDs {
		result[id] = m.employeeCount[id]
	}
	return result, nil
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[string]*model.Employee
	skills    map[string][]model.EmployeeSkill
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{
		employees: make(map[string]*model.Employee),
		skills:    make(map[string][]model.EmployeeSkill),
	}
}

func (m *mockEmployeeRepo) Create(_ context.Context, emp *model.Employee) error {
	if emp.EmployeeID == "" {
		emp.EmployeeID = "emp-" + emp.Email
	}
	m.employees[emp.EmployeeID] = emp
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByEmail(_ context.Context, email string) (*model.Employee, error) {
	for _, e := range m.employees {
		if e.Email == email {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) ListWithFilters(_ context.Context, filters *repository.EmployeeListFilters, _, _ int) ([]model.Employee, int64, error) {
	var result []model.Employee
	for _, e := range m.employees {
		if filters != nil {
			if filters.DepartmentID != "" && e.DepartmentID != filters.DepartmentID {
				continue
			}
			if !filters.IncludeInactive && !e.IsActive {
				continue
			}
			if filters.Keyword != "" && !strings.Contains(e.FirstName+" "+e.LastName+" "+e.Email, filters.Keyword) {
				continue
			}
		}
		result = append(result, *e)
	}
	return result, int64(len(result)), nil
}

func (m *mockEmployeeRepo) ListActive(_ context.Context, departmentID string) ([]model.Employee, error) {
	var result []model.Employee
	for _, e := range m.employees {
		if !e.IsActive {
			continue
		}
		if departmentID != "" && e.DepartmentID != departmentID {
			continue
		}
		result = append(result, *e)
	}
	return result, nil
}

func (m *mockEmployeeRepo) ListByIDs(_ context.Context, ids []string) ([]model.Employee, error) {
	var result []model.Employee
	for _, id := range ids {
		if e, ok := m.employees[id]; ok {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEmployeeRepo) Update(_ context.Context, emp *model.Employee) error {
	m.employees[emp.EmployeeID] = emp
	return nil
}

func (m *mockEmployeeRepo) Delete(_ context.Context, id string, _ string) error {
	if e, ok := m.employees[id]; ok {
		e.IsActive = false
	}
	return nil
}

func (m *mockEmployeeRepo) ReplaceSkills(_ context.Context, employeeID string, skills []model.EmployeeSkill) error {
	m.skills[employeeID] = skills
	return nil
}

func (m *mockEmployeeRepo) CountActive(_ context.Context) (int64, error) {
	var count int64
	for _, e := range m.employees {
		if e.IsActive {
			count++
		}
	}
	return count, nil
}

// ── Mock SkillRepository ──

type mockSkillRepo struct {
	skills      map[string]*model.Skill
	assignments map[string]int64
}

func newMockSkillRepo() *mockSkillRepo {
	return &mockSkillRepo{
		skills:      make(map[string]*model.Skill),
		assignments: make(map[string]int64),
	}
}

func (m *mockSkillRepo) Create(_ context.Context, skill *model.Skill) error {
	if skill.SkillID == "" {
		skill.SkillID = "skill-" + skill.Name
	}
	m.skills[skill.SkillID] = skill
	return nil
}

func (m *mockSkillRepo) GetByID(_ context.Context, id string) (*model.Skill, error) {
	if s, ok := m.skills[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSkillRepo) GetByName(_ context.Context, name string) (*model.Skill, error) {
	for _, s := range m.skills {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSkillRepo) List(_ context.Context) ([]model.Skill, error) {
	var result []model.Skill
	for _, s := range m.skills {
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSkillRepo) ListByIDs(_ context.Context, ids []string) ([]model.Skill, error) {
	var result []model.Skill
	for _, id := range ids {
		if s, ok := m.skills[id]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSkillRepo) Update(_ context.Context, skill *model.Skill) error {
	m.skills[skill.SkillID] = skill
	return nil
}

func (m *mockSkillRepo) Delete(_ context.Context, id string) error {
	delete(m.skills, id)
	return nil
}

func (m *mockSkillRepo) CountAssignments(_ context.Context, skillID string) (int64, error) {
	return m.assignments[skillID], nil
}

// ── Mock ProjectRepository ──

type mockProjectRepo struct {
	projects map[string]*model.Project
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{projects: make(map[string]*model.Project)}
}

func (m *mockProjectRepo) Create(_ context.Context, project *model.Project) error {
	if project.ProjectID == "" {
		project.ProjectID = "proj-" + project.Name
	}
	m.projects[project.ProjectID] = project
	return nil
}

func (m *mockProjectRepo) GetByID(_ context.Context, id string) (*model.Project, error) {
	if p, ok := m.projects[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProjectRepo) GetByName(_ context.Context, name string) (*model.Project, error) {
	for _, p := range m.projects {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProjectRepo) ListWithFilters(_ context.Context, filters *repository.ProjectListFilters, _, _ int) ([]model.Project, int64, error) {
	var result []model.Project
	for _, p := range m.projects {
		if filters != nil && filters.Status != "" && p.Status != filters.Status {
			continue
		}
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (m *mockProjectRepo) ListByIDs(_ context.Context, ids []string) ([]model.Project, error) {
	var result []model.Project
	for _, id := range ids {
		if p, ok := m.projects[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockProjectRepo) Update(_ context.Context, project *model.Project) error {
	m.projects[project.ProjectID] = project
	return nil
}

func (m *mockProjectRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.projects, id)
	return nil
}

func (m *mockProjectRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.projects)), nil
}

// ── Mock AllocationRepository ──

type mockAllocationRepo struct {
	allocations map[string]*model.Allocation
	nextID      int
}

func newMockAllocationRepo() *mockAllocationRepo {
	return &mockAllocationRepo{allocations: make(map[string]*model.Allocation)}
}

func (m *mockAllocationRepo) Create(_ context.Context, alloc *model.Allocation) error {
	if alloc.AllocationID == "" {
		m.nextID++
		alloc.AllocationID = fmt.Sprintf("alloc-%d", m.nextID)
	}
	m.allocations[alloc.AllocationID] = alloc
	return nil
}

func (m *mockAllocationRepo) GetByID(_ context.Context, id string) (*model.Allocation, error) {
	if a, ok := m.allocations[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAllocationRepo) ListWithFilters(_ context.Context, filters *repository.AllocationListFilters, _, _ int) ([]model.Allocation, int64, error) {
	var result []model.Allocation
	for _, a := range m.allocations {
		if filters != nil {
			if filters.EmployeeID != "" && a.EmployeeID != filters.EmployeeID {
				continue
			}
			if filters.ProjectID != "" && a.ProjectID != filters.ProjectID {
				continue
			}
			if filters.Status != "" && a.Status != filters.Status {
				continue
			}
			if filters.To != nil && a.StartDate.After(*filters.To) {
				continue
			}
			if filters.From != nil && a.EndDate.Before(*filters.From) {
				continue
			}
		}
		result = append(result, *a)
	}
	return result, int64(len(result)), nil
}

func (m *mockAllocationRepo) ListCountableByEmployee(_ context.Context, employeeID string, from, to time.Time, excludeID string) ([]model.Allocation, error) {
	var result []model.Allocation
	for _, a := range m.allocations {
		if a.EmployeeID != employeeID || !a.IsCountable() {
			continue
		}
		if excludeID != "" && a.AllocationID == excludeID {
			continue
		}
		if a.Overlaps(from, to) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAllocationRepo) ListCountable(_ context.Context) ([]model.Allocation, error) {
	var result []model.Allocation
	for _, a := range m.allocations {
		if a.IsCountable() {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAllocationRepo) ListCountableInRange(_ context.Context, from, to time.Time, employeeIDs []string) ([]model.Allocation, error) {
	idSet := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		idSet[id] = true
	}
	var result []model.Allocation
	for _, a := range m.allocations {
		if !a.IsCountable() || !a.Overlaps(from, to) {
			continue
		}
		if len(employeeIDs) > 0 && !idSet[a.EmployeeID] {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockAllocationRepo) Update(_ context.Context, alloc *model.Allocation) error {
	m.allocations[alloc.AllocationID] = alloc
	return nil
}

func (m *mockAllocationRepo) Cancel(_ context.Context, id string, _ string) error {
	if a, ok := m.allocations[id]; ok {
		a.Status = model.AllocationStatusCancelled
	}
	return nil
}

func (m *mockAllocationRepo) CountActive(_ context.Context) (int64, error) {
	var count int64
	for _, a := range m.allocations {
		if a.Status == model.AllocationStatusPlanned || a.Status == model.AllocationStatusActive {
			count++
		}
	}
	return count, nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications map[string]*model.Notification
	preferences   map[string]*model.NotificationPreference
	nextID        int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{
		notifications: make(map[string]*model.Notification),
		preferences:   make(map[string]*model.NotificationPreference),
	}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if n.NotificationID == "" {
		m.nextID++
		n.NotificationID = fmt.Sprintf("notif-%d", m.nextID)
	}
	m.notifications[n.NotificationID] = n
	return nil
}

func (m *mockNotificationRepo) BatchCreate(ctx context.Context, ns []model.Notification) error {
	for i := range ns {
		if err := m.Create(ctx, &ns[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	if n, ok := m.notifications[id]; ok {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, _, _ int) ([]model.Notification, int64, error) {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		result = append(result, *n)
	}
	return result, int64(len(result)), nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string, userID string) error {
	if n, ok := m.notifications[id]; ok && n.UserID == userID {
		n.IsRead = true
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) GetPreference(_ context.Context, userID string) (*model.NotificationPreference, error) {
	if p, ok := m.preferences[userID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) UpsertPreference(_ context.Context, pref *model.NotificationPreference) error {
	m.preferences[pref.UserID] = pref
	return nil
}

// ── 测试装配辅助 ──

// newTestRepo 返回由内存 Mock 组成的 Repository 聚合
func newTestRepo() *repository.Repository {
	return &repository.Repository{
		User:         newMockUserRepo(),
		Department:   newMockDepartmentRepo(),
		Employee:     newMockEmployeeRepo(),
		Skill:        newMockSkillRepo(),
		Project:      newMockProjectRepo(),
		Allocation:   newMockAllocationRepo(),
		Notification: newMockNotificationRepo(),
	}
}

// newTestConfig 测试用配置（周容量默认 40，critical 不阻断）
func newTestConfig() *config.Config {
	return &config.Config{
		Feature: config.FeatureConfig{
			BlockOnCritical:       false,
			DefaultWeeklyCapacity: 40,
		},
	}
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// date 测试日期构造辅助
func date(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

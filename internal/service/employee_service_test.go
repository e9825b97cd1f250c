package service

import (
	"context"
	"strings"
	"testing"

	"resource-pulse/internal/dto"
	"resource-pulse/internal/model"
	"resource-pulse/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// 员工服务测试
// ═══════════════════════════════════════════════════════════

func newEmployeeFixture(t *testing.T) (*repository.Repository, EmployeeService) {
	t.Helper()
	repo := newTestRepo()
	svc := NewEmployeeService(newTestConfig(), repo, testLogger())
	return repo, svc
}

func seedDepartment(t *testing.T, repo *repository.Repository, id, name string) {
	t.Helper()
	err := repo.Department.Create(context.Background(), &model.Department{
		DepartmentID: id,
		Name:         name,
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("预置部门失败: %v", err)
	}
}

func TestCreateEmployee_Success(t *testing.T) {
	repo, svc := newEmployeeFixture(t)
	seedDepartment(t, repo, "d1", "研发部")

	resp, err := svc.Create(context.Background(), &dto.CreateEmployeeRequest{
		FirstName:    "小明",
		LastName:     "王",
		Email:        "xiaoming@example.com",
		DepartmentID: "d1",
	}, "op1")
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	// 未指定周容量时回退到配置默认值
	if resp.WeeklyCapacity != 40 {
		t.Errorf("期望缺省周容量 40, 实际 %.1f", resp.WeeklyCapacity)
	}
	if !resp.IsActive {
		t.Error("新员工应为在职状态")
	}
}

func TestCreateEmployee_EmailTaken(t *testing.T) {
	repo, svc := newEmployeeFixture(t)
	seedDepartment(t, repo, "d1", "研发部")
	seedEmployee(t, repo, "e1", 40)

	_, err := svc.Create(context.Background(), &dto.CreateEmployeeRequest{
		FirstName:    "小明",
		LastName:     "王",
		Email:        "e1@example.com",
		DepartmentID: "d1",
	}, "op1")
	if err != ErrEmployeeEmailTaken {
		t.Errorf("期望 ErrEmployeeEmailTaken, 实际 %v", err)
	}
}

func TestCreateEmployee_DepartmentNotFound(t *testing.T) {
	_, svc := newEmployeeFixture(t)

	_, err := svc.Create(context.Background(), &dto.CreateEmployeeRequest{
		FirstName:    "小明",
		LastName:     "王",
		Email:        "xiaoming@example.com",
		DepartmentID: "ghost",
	}, "op1")
	if err != ErrDepartmentNotFound {
		t.Errorf("期望 ErrDepartmentNotFound, 实际 %v", err)
	}
}

func TestUpdateEmployee_NotFound(t *testing.T) {
	_, svc := newEmployeeFixture(t)

	name := "新名"
	_, err := svc.Update(context.Background(), "ghost", &dto.UpdateEmployeeRequest{
		FirstName: &name,
	}, "op1")
	if err != ErrEmployeeNotFound {
		t.Errorf("期望 ErrEmployeeNotFound, 实际 %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// ImportCSV — 批量导入
// ═══════════════════════════════════════════════════════════

const importHeader = "first_name,last_name,email,title,weekly_capacity,department_name\n"

func TestImportCSV_Success(t *testing.T) {
	repo, svc := newEmployeeFixture(t)
	seedDepartment(t, repo, "d1", "研发部")

	csvData := importHeader +
		"小明,王,xiaoming@example.com,后端工程师,40,研发部\n" +
		"小红,李,xiaohong@example.com,前端工程师,,研发部\n"

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(csvData), "op1")
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if result.Imported != 2 || result.Skipped != 0 {
		t.Errorf("期望导入 2 / 跳过 0, 实际 %d / %d", result.Imported, result.Skipped)
	}

	// 周容量缺省回退
	emp, err := repo.Employee.GetByEmail(context.Background(), "xiaohong@example.com")
	if err != nil {
		t.Fatalf("查询导入员工失败: %v", err)
	}
	if emp.WeeklyCapacity != 40 {
		t.Errorf("期望缺省周容量 40, 实际 %.1f", emp.WeeklyCapacity)
	}
	if emp.DepartmentID != "d1" {
		t.Errorf("期望部门按名称解析为 d1, 实际 %s", emp.DepartmentID)
	}
}

func TestImportCSV_RowErrors(t *testing.T) {
	repo, svc := newEmployeeFixture(t)
	seedDepartment(t, repo, "d1", "研发部")
	seedEmployee(t, repo, "e1", 40) // 占用 e1@example.com

	csvData := importHeader +
		"小明,王,xiaoming@example.com,工程师,40,研发部\n" + // 正常
		",王,noname@example.com,工程师,40,研发部\n" + // 姓名为空
		"小红,李,bad-email,工程师,40,研发部\n" + // 邮箱非法
		"小刚,张,xiaogang@example.com,工程师,200,研发部\n" + // 容量超限
		"小丽,赵,xiaoli@example.com,工程师,40,市场部\n" + // 部门不存在
		"重复,邮,e1@example.com,工程师,40,研发部\n" // 邮箱已存在

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(csvData), "op1")
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("期望成功导入 1 行, 实际 %d 行", result.Imported)
	}
	if result.Skipped != 5 {
		t.Errorf("期望跳过 5 行, 实际 %d 行", result.Skipped)
	}
	if len(result.Errors) != 5 {
		t.Fatalf("期望 5 条行级错误, 实际 %d 条", len(result.Errors))
	}
	// 行号从数据首行(第 2 行)起算
	if result.Errors[0].Line != 3 {
		t.Errorf("期望首条错误在第 3 行, 实际第 %d 行", result.Errors[0].Line)
	}
}

func TestImportCSV_InvalidHeader(t *testing.T) {
	_, svc := newEmployeeFixture(t)

	_, err := svc.ImportCSV(context.Background(), strings.NewReader("a,b,c\n"), "op1")
	if err != ErrInvalidImportFile {
		t.Errorf("表头列数不足期望 ErrInvalidImportFile, 实际 %v", err)
	}

	_, err = svc.ImportCSV(context.Background(), strings.NewReader(""), "op1")
	if err != ErrInvalidImportFile {
		t.Errorf("空文件期望 ErrInvalidImportFile, 实际 %v", err)
	}
}

package model

// Employee 员工表 — 对应 employees
type Employee struct {
	EmployeeID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_id"`
	FirstName      string  `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName       string  `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Email          string  `gorm:"type:varchar(255);not null"                     json:"email"`
	Title          string  `gorm:"type:varchar(100)"                              json:"title,omitempty"`
	WeeklyCapacity float64 `gorm:"type:numeric(5,2);not null;default:40"          json:"weekly_capacity"`
	DepartmentID   string  `gorm:"type:uuid;not null"                             json:"department_id"`
	IsActive       bool    `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Department *Department     `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
	Skills     []EmployeeSkill `gorm:"foreignKey:EmployeeID"                           json:"skills,omitempty"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// FullName 员工姓名展示形式
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

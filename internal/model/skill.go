package model

// Skill 技能表 — 对应 skills
type Skill struct {
	SkillID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"skill_id"`
	Name     string `gorm:"type:varchar(100);not null"                     json:"name"`
	Category string `gorm:"type:varchar(50)"                               json:"category,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Skill) TableName() string { return "skills" }

// EmployeeSkill 员工-技能关联表 — 对应 employee_skills
type EmployeeSkill struct {
	EmployeeSkillID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_skill_id"`
	EmployeeID      string `gorm:"type:uuid;not null"                             json:"employee_id"`
	SkillID         string `gorm:"type:uuid;not null"                             json:"skill_id"`
	Proficiency     int16  `gorm:"type:smallint;not null;default:3"               json:"proficiency"` // 1-5

	// 关联
	Skill *Skill `gorm:"foreignKey:SkillID;references:SkillID" json:"skill,omitempty"`
}

// TableName 指定表名
func (EmployeeSkill) TableName() string { return "employee_skills" }

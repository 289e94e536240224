package model

// Enrollment 选课记录表 — 对应 enrollments
//
// 不变量：一名学生全系统同时最多持有一条选课记录
// （student_id 上的唯一索引兜底，业务层在事务内先行校验）。
type Enrollment struct {
	EnrollmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"enrollment_id"`
	StudentID    string `gorm:"type:uuid;not null;uniqueIndex:uq_enrollments_student" json:"student_id"`
	CourseID     string `gorm:"type:uuid;not null;index"                       json:"course_id"`
	BaseModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "enrollments" }

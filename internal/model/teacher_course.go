package model

// TeacherCourse 教师-课程任课关系表 — 对应 teacher_courses
//
// 首次为某教师在某课程排入时段时自动建立（幂等），
// 亦承载该教师在该课程所授学科的关联，供成绩报表按学科聚合。
type TeacherCourse struct {
	TeacherCourseID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"               json:"teacher_course_id"`
	TeacherID       string  `gorm:"type:uuid;not null;uniqueIndex:uq_teacher_courses_teacher_course" json:"teacher_id"`
	CourseID        string  `gorm:"type:uuid;not null;uniqueIndex:uq_teacher_courses_teacher_course" json:"course_id"`
	SubjectID       *string `gorm:"type:uuid"                                                    json:"subject_id,omitempty"`
	BaseModel

	// 关联
	Course  *Course  `gorm:"foreignKey:CourseID;references:CourseID"    json:"course,omitempty"`
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID"  json:"subject,omitempty"`
}

// TableName 指定表名
func (TeacherCourse) TableName() string { return "teacher_courses" }

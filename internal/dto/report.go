package dto

// ── 报表模块 DTO ──

// SubjectGrade 学生报表中单个学科的最终成绩
type SubjectGrade struct {
	SubjectID   string `json:"subject_id,omitempty"`
	SubjectName string `json:"subject_name"`
	TeacherID   string `json:"teacher_id"`
	FinalGrade
}

// StudentReportResponse 学生学段报表：按学科一行
type StudentReportResponse struct {
	StudentID string         `json:"student_id"`
	PeriodID  string         `json:"period_id"`
	Course    *CourseBrief   `json:"course,omitempty"`
	Subjects  []SubjectGrade `json:"subjects"`
}

// StudentGrade 课程报表中单个学生的最终成绩
type StudentGrade struct {
	StudentID string `json:"student_id"`
	FinalGrade
}

// CourseReportResponse 课程学段报表：按学生一行，附全班平均
type CourseReportResponse struct {
	CourseID     string         `json:"course_id"`
	PeriodID     string         `json:"period_id"`
	Students     []StudentGrade `json:"students"`
	ClassAverage *float64       `json:"class_average"` // 已有最终成绩学生的均值；无人有成绩时为 null
	GradedCount  int            `json:"graded_count"`
}

package dto

// ── 选课模块 DTO ──

// BatchEnrollRequest 批量选课请求（逐个学生处理，部分成功）
type BatchEnrollRequest struct {
	CourseID   string   `json:"course_id"   binding:"required,uuid"`
	StudentIDs []string `json:"student_ids" binding:"required,min=1,dive,uuid"`
}

// 选课结果状态
const (
	EnrollStatusEnrolled        = "enrolled"          // 新建选课成功
	EnrollStatusAlreadyInCourse = "already_in_course" // 已在该课程中，视为已满足
	EnrollStatusAlreadyInOther  = "already_in_other"  // 已在其他课程中，硬拒绝
	EnrollStatusFailed          = "failed"            // 存储写入失败
)

// EnrollOutcome 单个学生的选课结果
type EnrollOutcome struct {
	StudentID string `json:"student_id"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"` // 拒绝/失败时的可读原因
}

// BatchEnrollResponse 批量选课结果（部分成功语义）
type BatchEnrollResponse struct {
	Enrolled int             `json:"enrolled"`
	Outcomes []EnrollOutcome `json:"outcomes"`
}

// EnrollmentResponse 选课记录响应
type EnrollmentResponse struct {
	ID        string       `json:"id"`
	StudentID string       `json:"student_id"`
	CourseID  string       `json:"course_id"`
	Course    *CourseBrief `json:"course,omitempty"`
	CreatedAt string       `json:"created_at"`
}

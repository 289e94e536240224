package dto

// ── 课程 / 学科 / 学段模块 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// CourseBrief 课程简要信息（嵌入其他响应）
type CourseBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateSubjectRequest 创建学科请求
type CreateSubjectRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// SubjectResponse 学科信息响应
type SubjectResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreatePeriodRequest 创建学段请求
type CreatePeriodRequest struct {
	Name      string `json:"name"       binding:"required,min=2,max=100"`
	StartDate string `json:"start_date" binding:"required"` // "2026-02-01"
	EndDate   string `json:"end_date"   binding:"required"` // "2026-06-15"
}

// PeriodResponse 学段信息响应
type PeriodResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

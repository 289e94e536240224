package dto

// ── 评分活动模块 DTO ──

// CreateActivityRequest 创建评分活动请求
type CreateActivityRequest struct {
	CourseID      string  `json:"course_id"      binding:"required,uuid"`
	PeriodID      string  `json:"period_id"      binding:"required,uuid"`
	Name          string  `json:"name"           binding:"required,min=2,max=100"`
	Description   string  `json:"description"    binding:"max=2000"`
	WeightPercent float64 `json:"weight_percent" binding:"required"`
}

// ActivityListRequest 活动列表查询参数
type ActivityListRequest struct {
	CourseID string `form:"course_id" binding:"required,uuid"`
	PeriodID string `form:"period_id" binding:"required,uuid"`
}

// ActivityResponse 活动信息响应
type ActivityResponse struct {
	ID            string  `json:"id"`
	CourseID      string  `json:"course_id"`
	PeriodID      string  `json:"period_id"`
	TeacherID     string  `json:"teacher_id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	WeightPercent float64 `json:"weight_percent"`
	CreatedAt     string  `json:"created_at"`
}

// WeightBudgetResponse 权重预算查询响应
type WeightBudgetResponse struct {
	CourseID  string  `json:"course_id"`
	PeriodID  string  `json:"period_id"`
	TeacherID string  `json:"teacher_id"`
	Total     float64 `json:"total"`     // 已分配权重之和
	Remaining float64 `json:"remaining"` // 100 − Total
}

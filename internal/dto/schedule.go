package dto

// ── 课表模块 DTO ──

// CreateScheduleSlotRequest 创建周课表时段请求
type CreateScheduleSlotRequest struct {
	TeacherID string `json:"teacher_id"  binding:"required,uuid"`
	CourseID  string `json:"course_id"   binding:"required,uuid"`
	DayOfWeek int    `json:"day_of_week" binding:"required,min=1,max=7"`
	StartTime string `json:"start_time"  binding:"required"` // "08:00"
	EndTime   string `json:"end_time"    binding:"required"` // "10:00"
	Room      string `json:"room"        binding:"max=50"`
}

// ScheduleSlotResponse 时段信息响应
type ScheduleSlotResponse struct {
	ID         string       `json:"id"`
	TeacherID  string       `json:"teacher_id"`
	CourseID   string       `json:"course_id"`
	Course     *CourseBrief `json:"course,omitempty"`
	DayOfWeek  int          `json:"day_of_week"`
	StartTime  string       `json:"start_time"`
	EndTime    string       `json:"end_time"`
	Room       string       `json:"room,omitempty"`
	CreatedAt  string       `json:"created_at"`
}

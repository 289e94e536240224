package model

// ScheduleSlot 周课表时段表 — 对应 schedule_slots
//
// 一条记录表示"某教师在某课程的每周固定上课时段"。
// 只插入、不修改；插入前由业务层在同作用域事务内做重叠校验：
// 同一教师同一星期的时段不得重叠，同一课程同一星期的时段不得重叠。
type ScheduleSlot struct {
	ScheduleSlotID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_slot_id"`
	TeacherID      string `gorm:"type:uuid;not null;index"                       json:"teacher_id"`
	CourseID       string `gorm:"type:uuid;not null;index"                       json:"course_id"`
	DayOfWeek      int    `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1=周一 … 7=周日
	StartTime      string `gorm:"type:time;not null"                             json:"start_time"`  // "08:00"
	EndTime        string `gorm:"type:time;not null"                             json:"end_time"`    // "10:00"
	Room           string `gorm:"type:varchar(50)"                               json:"room"`
	BaseModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (ScheduleSlot) TableName() string { return "schedule_slots" }

// Range 返回该时段的时间区间值
func (s *ScheduleSlot) Range() TimeRange {
	return TimeRange{Start: s.StartTime, End: s.EndTime}
}

package model

import "time"

// GradeEntry 活动成绩表 — 对应 grade_entries
//
// (student_id, activity_id) 唯一：重复写入覆盖旧值，不产生历史记录。
// WeightPercent 为写入时从所属 Activity 复制的快照，
// 不允许独立于活动权重另行指定（避免绕过 100% 权重预算校验）。
type GradeEntry struct {
	GradeEntryID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"              json:"grade_entry_id"`
	StudentID     string    `gorm:"type:uuid;not null;uniqueIndex:uq_grade_entries_student_activity" json:"student_id"`
	ActivityID    string    `gorm:"type:uuid;not null;uniqueIndex:uq_grade_entries_student_activity" json:"activity_id"`
	Score         float64   `gorm:"type:numeric(5,2);not null"                                  json:"score"`          // [0, 50]
	WeightPercent float64   `gorm:"type:numeric(5,2);not null"                                  json:"weight_percent"` // 活动权重快照
	RecordedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                          json:"recorded_at"`
	BaseModel

	// 关联
	Activity *Activity `gorm:"foreignKey:ActivityID;references:ActivityID" json:"activity,omitempty"`
}

// TableName 指定表名
func (GradeEntry) TableName() string { return "grade_entries" }

package model

// Activity 评分活动表 — 对应 activities
//
// 每个活动携带一个百分比权重，计入最终成绩。
// 不变量：同一 (course_id, period_id, teacher_id) 作用域下
// 所有活动的 weight_percent 之和不得超过 100。
// 权重在创建时确定，不提供修改路径。
type Activity struct {
	ActivityID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"activity_id"`
	CourseID      string  `gorm:"type:uuid;not null;index"                       json:"course_id"`
	PeriodID      string  `gorm:"type:uuid;not null;index"                       json:"period_id"`
	TeacherID     string  `gorm:"type:uuid;not null;index"                       json:"teacher_id"`
	Name          string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Description   string  `gorm:"type:text"                                      json:"description"`
	WeightPercent float64 `gorm:"type:numeric(5,2);not null"                     json:"weight_percent"` // (0, 100]
	BaseModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
	Period *Period `gorm:"foreignKey:PeriodID;references:PeriodID" json:"period,omitempty"`
}

// TableName 指定表名
func (Activity) TableName() string { return "activities" }

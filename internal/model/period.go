package model

import "time"

// Period 学段（学期/评分周期）表 — 对应 periods
// 创建后不可修改；成绩聚合严格按学段隔离，不跨学段平均。
type Period struct {
	PeriodID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"period_id"`
	Name      string    `gorm:"type:varchar(100);not null"                     json:"name"`
	StartDate time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null"                             json:"end_date"`
	BaseModel
}

// TableName 指定表名
func (Period) TableName() string { return "periods" }

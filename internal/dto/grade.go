package dto

// ── 成绩模块 DTO ──

// UpsertGradeRequest 单条成绩写入请求
// 权重不可指定：写入时从所属活动复制快照。
type UpsertGradeRequest struct {
	StudentID  string   `json:"student_id"  binding:"required,uuid"`
	ActivityID string   `json:"activity_id" binding:"required,uuid"`
	Score      *float64 `json:"score"       binding:"required"` // [0, 50]
}

// BatchUpsertGradesRequest 批量成绩写入请求（逐条处理，部分成功）
type BatchUpsertGradesRequest struct {
	Entries []UpsertGradeRequest `json:"entries" binding:"required,min=1,dive"`
}

// GradeEntryResponse 单条成绩响应
type GradeEntryResponse struct {
	ID            string  `json:"id"`
	StudentID     string  `json:"student_id"`
	ActivityID    string  `json:"activity_id"`
	Score         float64 `json:"score"`
	WeightPercent float64 `json:"weight_percent"`
	RecordedAt    string  `json:"recorded_at"`
}

// GradeFailure 批量写入中单条失败的原因
type GradeFailure struct {
	StudentID  string `json:"student_id"`
	ActivityID string `json:"activity_id"`
	Reason     string `json:"reason"`
}

// BatchGradeResponse 批量成绩写入结果（部分成功语义）
type BatchGradeResponse struct {
	Saved    int            `json:"saved"`
	Failures []GradeFailure `json:"failures"`
}

// FinalGrade 最终成绩（加权平均）
// Value 为 nil、Status 为 "none" 表示"暂无成绩"——
// 与数值 0 严格区分，渲染层不得混同。
type FinalGrade struct {
	Value   *float64 `json:"value"`             // 未舍入的加权平均
	Display string   `json:"display,omitempty"` // 两位小数展示值，仅供渲染
	Status  string   `json:"status"`            // "passed" | "failed" | "none"
}

// FinalGradeResponse 最终成绩查询响应
type FinalGradeResponse struct {
	StudentID string `json:"student_id"`
	CourseID  string `json:"course_id"`
	PeriodID  string `json:"period_id"`
	FinalGrade
}

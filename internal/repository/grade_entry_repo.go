package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/S3bast1an022/ClassScore-1.8/internal/model"
)

// GradeEntryRepository 活动成绩数据访问接口
type GradeEntryRepository interface {
	// Upsert 按 (student_id, activity_id) 幂等写入：已存在则覆盖分数与权重快照
	Upsert(ctx context.Context, entry *model.GradeEntry) error
	// ListByStudentCoursePeriod 列出某学生在某课程某学段的全部成绩（预加载所属活动）
	ListByStudentCoursePeriod(ctx context.Context, studentID, courseID, periodID string) ([]model.GradeEntry, error)
	// ListByCoursePeriod 列出某课程某学段的全部成绩（预加载所属活动）
	ListByCoursePeriod(ctx context.Context, courseID, periodID string) ([]model.GradeEntry, error)
}

type gradeEntryRepo struct {
	db *gorm.DB
}

// NewGradeEntryRepo 创建 GradeEntryRepository 实例
func NewGradeEntryRepo(db *gorm.DB) GradeEntryRepository {
	return &gradeEntryRepo{db: db}
}

func (r *gradeEntryRepo) Upsert(ctx context.Context, entry *model.GradeEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_id"}, {Name: "activity_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"score", "weight_percent", "recorded_at", "updated_at", "updated_by",
			}),
		}).
		Create(entry).Error
}

func (r *gradeEntryRepo) ListByStudentCoursePeriod(ctx context.Context, studentID, courseID, periodID string) ([]model.GradeEntry, error) {
	var entries []model.GradeEntry
	err := r.db.WithContext(ctx).
		Preload("Activity").
		Joins("JOIN activities ON activities.activity_id = grade_entries.activity_id").
		Where("grade_entries.student_id = ? AND activities.course_id = ? AND activities.period_id = ?",
			studentID, courseID, periodID).
		Order("grade_entries.recorded_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *gradeEntryRepo) ListByCoursePeriod(ctx context.Context, courseID, periodID string) ([]model.GradeEntry, error) {
	var entries []model.GradeEntry
	err := r.db.WithContext(ctx).
		Preload("Activity").
		Joins("JOIN activities ON activities.activity_id = grade_entries.activity_id").
		Where("activities.course_id = ? AND activities.period_id = ?", courseID, periodID).
		Order("grade_entries.student_id ASC, grade_entries.recorded_at ASC").
		Find(&entries).Error
	return entries, err
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/S3bast1an022/ClassScore-1.8/internal/model"
)

// ActivityRepository 评分活动数据访问接口
type ActivityRepository interface {
	// CreateWithGuard 在同作用域 (course, period, teacher) 串行化的事务内创建活动：
	// 先对作用域键取 advisory 事务锁，再读出该作用域下已有活动交由 guard 校验，
	// guard 返回错误则回滚。两个并发创建无法同时通过预算校验。
	CreateWithGuard(ctx context.Context, activity *model.Activity, guard func(existing []model.Activity) error) error
	GetByID(ctx context.Context, id string) (*model.Activity, error)
	ListByScope(ctx context.Context, courseID, periodID, teacherID string) ([]model.Activity, error)
	ListByCoursePeriod(ctx context.Context, courseID, periodID string) ([]model.Activity, error)
}

type activityRepo struct {
	db *gorm.DB
}

// NewActivityRepo 创建 ActivityRepository 实例
func NewActivityRepo(db *gorm.DB) ActivityRepository {
	return &activityRepo{db: db}
}

func (r *activityRepo) CreateWithGuard(ctx context.Context, activity *model.Activity, guard func(existing []model.Activity) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 作用域键锁：防止两个并发请求同时读到旧总和后都通过校验
		scopeKey := activity.CourseID + "|" + activity.PeriodID + "|" + activity.TeacherID
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", scopeKey).Error; err != nil {
			return err
		}

		var existing []model.Activity
		if err := tx.Where("course_id = ? AND period_id = ? AND teacher_id = ?",
			activity.CourseID, activity.PeriodID, activity.TeacherID).
			Find(&existing).Error; err != nil {
			return err
		}

		if err := guard(existing); err != nil {
			return err
		}

		return tx.Create(activity).Error
	})
}

func (r *activityRepo) GetByID(ctx context.Context, id string) (*model.Activity, error) {
	var activity model.Activity
	err := r.db.WithContext(ctx).
		Where("activity_id = ?", id).
		First(&activity).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *activityRepo) ListByScope(ctx context.Context, courseID, periodID, teacherID string) ([]model.Activity, error) {
	var activities []model.Activity
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND period_id = ? AND teacher_id = ?", courseID, periodID, teacherID).
		Order("created_at ASC").
		Find(&activities).Error
	return activities, err
}

func (r *activityRepo) ListByCoursePeriod(ctx context.Context, courseID, periodID string) ([]model.Activity, error) {
	var activities []model.Activity
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND period_id = ?", courseID, periodID).
		Order("created_at ASC").
		Find(&activities).Error
	return activities, err
}

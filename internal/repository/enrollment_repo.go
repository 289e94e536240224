package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/S3bast1an022/ClassScore-1.8/internal/model"
)

// EnrollmentRepository 选课数据访问接口
type EnrollmentRepository interface {
	// CreateWithGuard 在按学生串行化的事务内创建选课记录：
	// 先对学生键取 advisory 事务锁，再读出该学生已有选课（预加载课程）交由 guard 校验。
	// guard 返回错误则回滚、不插入。
	CreateWithGuard(ctx context.Context, enrollment *model.Enrollment, guard func(existing []model.Enrollment) error) error
	GetByStudent(ctx context.Context, studentID string) (*model.Enrollment, error)
	ListByCourse(ctx context.Context, courseID string) ([]model.Enrollment, error)
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) CreateWithGuard(ctx context.Context, enrollment *model.Enrollment, guard func(existing []model.Enrollment) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))",
			"enroll|"+enrollment.StudentID).Error; err != nil {
			return err
		}

		var existing []model.Enrollment
		if err := tx.Preload("Course").
			Where("student_id = ?", enrollment.StudentID).
			Find(&existing).Error; err != nil {
			return err
		}

		if err := guard(existing); err != nil {
			return err
		}

		return tx.Create(enrollment).Error
	})
}

func (r *enrollmentRepo) GetByStudent(ctx context.Context, studentID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) ListByCourse(ctx context.Context, courseID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		Find(&enrollments).Error
	return enrollments, err
}

package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/S3bast1an022/ClassScore-1.8/internal/model"
)

// TeacherCourseRepository 教师-课程任课关系数据访问接口
type TeacherCourseRepository interface {
	// Link 幂等建立任课关系；(teacher_id, course_id) 已存在则跳过
	Link(ctx context.Context, link *model.TeacherCourse) error
	ListByCourse(ctx context.Context, courseID string) ([]model.TeacherCourse, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]model.TeacherCourse, error)
}

type teacherCourseRepo struct {
	db *gorm.DB
}

// NewTeacherCourseRepo 创建 TeacherCourseRepository 实例
func NewTeacherCourseRepo(db *gorm.DB) TeacherCourseRepository {
	return &teacherCourseRepo{db: db}
}

func (r *teacherCourseRepo) Link(ctx context.Context, link *model.TeacherCourse) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "teacher_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(link).Error
}

func (r *teacherCourseRepo) ListByCourse(ctx context.Context, courseID string) ([]model.TeacherCourse, error) {
	var links []model.TeacherCourse
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("course_id = ?", courseID).
		Find(&links).Error
	return links, err
}

func (r *teacherCourseRepo) ListByTeacher(ctx context.Context, teacherID string) ([]model.TeacherCourse, error) {
	var links []model.TeacherCourse
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Subject").
		Where("teacher_id = ?", teacherID).
		Find(&links).Error
	return links, err
}

package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/S3bast1an022/ClassScore-1.8/internal/model"
)

// ScheduleSlotRepository 周课表时段数据访问接口
type ScheduleSlotRepository interface {
	// CreateWithGuard 在按 (教师,星期) 与 (课程,星期) 串行化的事务内创建时段：
	// 先按固定顺序取两把 advisory 事务锁（教师键在前，课程键在后，避免死锁），
	// 读出当日该教师与该课程的已有时段交由 guard 做重叠校验。
	// guard 通过后插入时段，并幂等补建教师-课程任课关系。
	CreateWithGuard(ctx context.Context, slot *model.ScheduleSlot, guard func(teacherSlots, courseSlots []model.ScheduleSlot) error) error
	ListByTeacher(ctx context.Context, teacherID string) ([]model.ScheduleSlot, error)
	ListByCourse(ctx context.Context, courseID string) ([]model.ScheduleSlot, error)
}

type scheduleSlotRepo struct {
	db *gorm.DB
}

// NewScheduleSlotRepo 创建 ScheduleSlotRepository 实例
func NewScheduleSlotRepo(db *gorm.DB) ScheduleSlotRepository {
	return &scheduleSlotRepo{db: db}
}

func (r *scheduleSlotRepo) CreateWithGuard(ctx context.Context, slot *model.ScheduleSlot, guard func(teacherSlots, courseSlots []model.ScheduleSlot) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		teacherKey := "slot|t|" + slot.TeacherID
		courseKey := "slot|c|" + slot.CourseID
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", teacherKey).Error; err != nil {
			return err
		}
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", courseKey).Error; err != nil {
			return err
		}

		var teacherSlots []model.ScheduleSlot
		if err := tx.Where("teacher_id = ? AND day_of_week = ?", slot.TeacherID, slot.DayOfWeek).
			Find(&teacherSlots).Error; err != nil {
			return err
		}

		var courseSlots []model.ScheduleSlot
		if err := tx.Where("course_id = ? AND day_of_week = ?", slot.CourseID, slot.DayOfWeek).
			Find(&courseSlots).Error; err != nil {
			return err
		}

		if err := guard(teacherSlots, courseSlots); err != nil {
			return err
		}

		if err := tx.Create(slot).Error; err != nil {
			return err
		}

		// 首次为该教师在该课程排课时补建任课关系；已存在则跳过
		link := &model.TeacherCourse{
			TeacherID: slot.TeacherID,
			CourseID:  slot.CourseID,
			BaseModel: model.BaseModel{CreatedBy: slot.CreatedBy, UpdatedBy: slot.UpdatedBy},
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "teacher_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).Create(link).Error
	})
}

func (r *scheduleSlotRepo) ListByTeacher(ctx context.Context, teacherID string) ([]model.ScheduleSlot, error) {
	var slots []model.ScheduleSlot
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("teacher_id = ?", teacherID).
		Order("day_of_week ASC, start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *scheduleSlotRepo) ListByCourse(ctx context.Context, courseID string) ([]model.ScheduleSlot, error) {
	var slots []model.ScheduleSlot
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("course_id = ?", courseID).
		Order("day_of_week ASC, start_time ASC").
		Find(&slots).Error
	return slots, err
}

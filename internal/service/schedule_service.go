package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/S3bast1an022/ClassScore-1.8/internal/dto"
	"github.com/S3bast1an022/ClassScore-1.8/internal/model"
	"github.com/S3bast1an022/ClassScore-1.8/internal/repository"
)

// ErrInvalidSlotRange 时段非法：星期超界、时刻格式错误或开始不早于结束
var ErrInvalidSlotRange = errors.New("时段不合法：星期须为 1-7，时刻须为 HH:MM 且开始早于结束")

// 冲突归属方
const (
	ConflictTeacher = "teacher" // 教师当天已有重叠时段
	ConflictCourse  = "course"  // 课程当天已有重叠时段
)

// ScheduleConflictError 排课冲突错误，携带冲突归属方与既有时段的区间
type ScheduleConflictError struct {
	Kind  string // ConflictTeacher | ConflictCourse
	Start string // 既有时段开始时刻
	End   string // 既有时段结束时刻
}

func (e *ScheduleConflictError) Error() string {
	if e.Kind == ConflictTeacher {
		return fmt.Sprintf("该教师当天已有 %s-%s 的时段，与所选时间重叠", e.Start, e.End)
	}
	return fmt.Sprintf("该课程当天已有 %s-%s 的时段，一门课程不能同时上两节课", e.Start, e.End)
}

// ScheduleService 周课表接口
type ScheduleService interface {
	// Propose 创建周课表时段；与教师或课程的既有时段重叠时返回 *ScheduleConflictError。
	// 首次为教师在该课程排课会顺带建立任课关系。
	Propose(ctx context.Context, req *dto.CreateScheduleSlotRequest, callerID string) (*dto.ScheduleSlotResponse, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]dto.ScheduleSlotResponse, error)
	ListByCourse(ctx context.Context, courseID string) ([]dto.ScheduleSlotResponse, error)
	// ListForStudent 按学生当前选课返回其课程的周课表
	ListForStudent(ctx context.Context, studentID string) ([]dto.ScheduleSlotResponse, error)
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger}
}

func (s *scheduleService) Propose(ctx context.Context, req *dto.CreateScheduleSlotRequest, callerID string) (*dto.ScheduleSlotResponse, error) {
	proposed := model.TimeRange{Start: req.StartTime, End: req.EndTime}
	if !model.IsWeekday(req.DayOfWeek) || !proposed.IsValid() {
		return nil, ErrInvalidSlotRange
	}

	if _, err := s.repo.Course.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("course_id", req.CourseID), zap.Error(err))
		return nil, storageErr(err)
	}

	slot := &model.ScheduleSlot{
		TeacherID: req.TeacherID,
		CourseID:  req.CourseID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      req.Room,
	}
	slot.CreatedBy = &callerID
	slot.UpdatedBy = &callerID

	// 重叠校验在教师键与课程键双锁内进行；教师冲突优先报告
	err := s.repo.ScheduleSlot.CreateWithGuard(ctx, slot, func(teacherSlots, courseSlots []model.ScheduleSlot) error {
		for i := range teacherSlots {
			if proposed.Overlaps(teacherSlots[i].Range()) {
				return &ScheduleConflictError{
					Kind:  ConflictTeacher,
					Start: teacherSlots[i].StartTime,
					End:   teacherSlots[i].EndTime,
				}
			}
		}
		for i := range courseSlots {
			if proposed.Overlaps(courseSlots[i].Range()) {
				return &ScheduleConflictError{
					Kind:  ConflictCourse,
					Start: courseSlots[i].StartTime,
					End:   courseSlots[i].EndTime,
				}
			}
		}
		return nil
	})
	if err != nil {
		var conflictErr *ScheduleConflictError
		if errors.As(err, &conflictErr) {
			return nil, conflictErr
		}
		s.logger.Error("创建时段失败",
			zap.String("teacher_id", req.TeacherID),
			zap.String("course_id", req.CourseID),
			zap.Int("day_of_week", req.DayOfWeek),
			zap.Error(err))
		return nil, storageErr(err)
	}

	s.logger.Info("时段已创建",
		zap.String("schedule_slot_id", slot.ScheduleSlotID),
		zap.Int("day_of_week", slot.DayOfWeek),
		zap.String("start_time", slot.StartTime))

	return toSlotResponse(slot), nil
}

func (s *scheduleService) ListByTeacher(ctx context.Context, teacherID string) ([]dto.ScheduleSlotResponse, error) {
	slots, err := s.repo.ScheduleSlot.ListByTeacher(ctx, teacherID)
	if err != nil {
		s.logger.Error("查询教师课表失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return nil, storageErr(err)
	}
	return toSlotResponses(slots), nil
}

func (s *scheduleService) ListByCourse(ctx context.Context, courseID string) ([]dto.ScheduleSlotResponse, error) {
	slots, err := s.repo.ScheduleSlot.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询课程课表失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, storageErr(err)
	}
	return toSlotResponses(slots), nil
}

func (s *scheduleService) ListForStudent(ctx context.Context, studentID string) ([]dto.ScheduleSlotResponse, error) {
	enrollment, err := s.repo.Enrollment.GetByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotEnrolled
		}
		s.logger.Error("查询选课失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, storageErr(err)
	}

	return s.ListByCourse(ctx, enrollment.CourseID)
}

// ── 内部辅助函数 ──

func toSlotResponse(slot *model.ScheduleSlot) *dto.ScheduleSlotResponse {
	resp := &dto.ScheduleSlotResponse{
		ID:        slot.ScheduleSlotID,
		TeacherID: slot.TeacherID,
		CourseID:  slot.CourseID,
		DayOfWeek: slot.DayOfWeek,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		Room:      slot.Room,
		CreatedAt: formatTime(slot.CreatedAt),
	}
	if slot.Course != nil {
		resp.Course = &dto.CourseBrief{ID: slot.Course.CourseID, Name: slot.Course.Name}
	}
	return resp
}

func toSlotResponses(slots []model.ScheduleSlot) []dto.ScheduleSlotResponse {
	result := make([]dto.ScheduleSlotResponse, 0, len(slots))
	for i := range slots {
		result = append(result, *toSlotResponse(&slots[i]))
	}
	return result
}

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

// errAlreadyInThisCourse 学生已在目标课程中（幂等情形，不算失败）
var errAlreadyInThisCourse = errors.New("该学生已在此课程中")

// AlreadyEnrolledError 学生已注册在另一门课程中（硬拒绝），携带该课程名
type AlreadyEnrolledError struct {
	CourseName string
}

func (e *AlreadyEnrolledError) Error() string {
	return fmt.Sprintf("该学生已注册在课程「%s」中，同一时间只能注册一门课程", e.CourseName)
}

// EnrollmentService 选课接口（管理员）
type EnrollmentService interface {
	// BatchEnroll 批量选课，逐个学生处理；单个学生被拒不影响其余学生（部分成功）
	BatchEnroll(ctx context.Context, req *dto.BatchEnrollRequest, callerID string) (*dto.BatchEnrollResponse, error)
	// Roster 课程花名册：当前注册在该课程的全部学生
	Roster(ctx context.Context, courseID string) ([]dto.EnrollmentResponse, error)
}

type enrollmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEnrollmentService 创建 EnrollmentService 实例
func NewEnrollmentService(repo *repository.Repository, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{repo: repo, logger: logger}
}

func (s *enrollmentService) BatchEnroll(ctx context.Context, req *dto.BatchEnrollRequest, callerID string) (*dto.BatchEnrollResponse, error) {
	if _, err := s.repo.Course.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("course_id", req.CourseID), zap.Error(err))
		return nil, storageErr(err)
	}

	resp := &dto.BatchEnrollResponse{
		Outcomes: make([]dto.EnrollOutcome, 0, len(req.StudentIDs)),
	}

	for _, studentID := range req.StudentIDs {
		outcome := s.enrollOne(ctx, req.CourseID, studentID, callerID)
		if outcome.Status == dto.EnrollStatusEnrolled {
			resp.Enrolled++
		}
		resp.Outcomes = append(resp.Outcomes, outcome)
	}

	return resp, nil
}

func (s *enrollmentService) Roster(ctx context.Context, courseID string) ([]dto.EnrollmentResponse, error) {
	if _, err := s.repo.Course.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, storageErr(err)
	}

	enrollments, err := s.repo.Enrollment.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询花名册失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, storageErr(err)
	}

	result := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		e := &enrollments[i]
		item := dto.EnrollmentResponse{
			ID:        e.EnrollmentID,
			StudentID: e.StudentID,
			CourseID:  e.CourseID,
			CreatedAt: formatTime(e.CreatedAt),
		}
		if e.Course != nil {
			item.Course = &dto.CourseBrief{ID: e.Course.CourseID, Name: e.Course.Name}
		}
		result = append(result, item)
	}
	return result, nil
}

// ── 内部辅助方法 ──

// enrollOne 在按学生串行化的事务内尝试为单个学生选课。
// "已在本课程"视为幂等满足，"已在他课"硬拒绝并报出课程名。
func (s *enrollmentService) enrollOne(ctx context.Context, courseID, studentID, callerID string) dto.EnrollOutcome {
	enrollment := &model.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
	}
	enrollment.CreatedBy = &callerID
	enrollment.UpdatedBy = &callerID

	err := s.repo.Enrollment.CreateWithGuard(ctx, enrollment, func(existing []model.Enrollment) error {
		for i := range existing {
			if existing[i].CourseID == courseID {
				return errAlreadyInThisCourse
			}
			name := existing[i].CourseID
			if existing[i].Course != nil {
				name = existing[i].Course.Name
			}
			return &AlreadyEnrolledError{CourseName: name}
		}
		return nil
	})

	switch {
	case err == nil:
		return dto.EnrollOutcome{StudentID: studentID, Status: dto.EnrollStatusEnrolled}
	case errors.Is(err, errAlreadyInThisCourse):
		return dto.EnrollOutcome{StudentID: studentID, Status: dto.EnrollStatusAlreadyInCourse}
	default:
		var enrolledErr *AlreadyEnrolledError
		if errors.As(err, &enrolledErr) {
			return dto.EnrollOutcome{
				StudentID: studentID,
				Status:    dto.EnrollStatusAlreadyInOther,
				Reason:    enrolledErr.Error(),
			}
		}
		// 存储失败记为 failed，不与业务拒绝混同
		s.logger.Error("选课写入失败",
			zap.String("student_id", studentID),
			zap.String("course_id", courseID),
			zap.Error(err))
		return dto.EnrollOutcome{
			StudentID: studentID,
			Status:    dto.EnrollStatusFailed,
			Reason:    "存储服务暂不可用",
		}
	}
}

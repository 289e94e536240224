package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/S3bast1an022/ClassScore-1.8/internal/dto"
	"github.com/S3bast1an022/ClassScore-1.8/internal/model"
	"github.com/S3bast1an022/ClassScore-1.8/internal/repository"
)

// ── 课程 / 学科 / 学段模块业务错误 ──

var (
	ErrCourseNotFound    = errors.New("课程不存在")
	ErrSubjectNotFound   = errors.New("学科不存在")
	ErrPeriodNotFound    = errors.New("学段不存在")
	ErrPeriodDateInvalid = errors.New("学段结束日期必须晚于开始日期")
)

// CourseService 课程 / 学科 / 学段管理接口（管理员）
type CourseService interface {
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error)
	GetCourse(ctx context.Context, id string) (*dto.CourseResponse, error)
	ListCourses(ctx context.Context) ([]dto.CourseResponse, error)

	CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest, callerID string) (*dto.SubjectResponse, error)
	ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error)

	CreatePeriod(ctx context.Context, req *dto.CreatePeriodRequest, callerID string) (*dto.PeriodResponse, error)
	ListPeriods(ctx context.Context) ([]dto.PeriodResponse, error)
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

// ────────────────────── 课程 ──────────────────────

func (s *courseService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	course := &model.Course{
		Name:        req.Name,
		Description: req.Description,
	}
	course.CreatedBy = &callerID
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, storageErr(err)
	}

	return s.toCourseResponse(course), nil
}

func (s *courseService) GetCourse(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, storageErr(err)
	}

	return s.toCourseResponse(course), nil
}

func (s *courseService) ListCourses(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return nil, storageErr(err)
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *s.toCourseResponse(&courses[i]))
	}
	return result, nil
}

// ────────────────────── 学科 ──────────────────────

func (s *courseService) CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest, callerID string) (*dto.SubjectResponse, error) {
	subject := &model.Subject{Name: req.Name}
	subject.CreatedBy = &callerID
	subject.UpdatedBy = &callerID

	if err := s.repo.Subject.Create(ctx, subject); err != nil {
		s.logger.Error("创建学科失败", zap.Error(err))
		return nil, storageErr(err)
	}

	return &dto.SubjectResponse{ID: subject.SubjectID, Name: subject.Name}, nil
}

func (s *courseService) ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error) {
	subjects, err := s.repo.Subject.List(ctx)
	if err != nil {
		s.logger.Error("列出学科失败", zap.Error(err))
		return nil, storageErr(err)
	}

	result := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		result = append(result, dto.SubjectResponse{ID: subjects[i].SubjectID, Name: subjects[i].Name})
	}
	return result, nil
}

// ────────────────────── 学段 ──────────────────────

func (s *courseService) CreatePeriod(ctx context.Context, req *dto.CreatePeriodRequest, callerID string) (*dto.PeriodResponse, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, ErrPeriodDateInvalid
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, ErrPeriodDateInvalid
	}
	if !endDate.After(startDate) {
		return nil, ErrPeriodDateInvalid
	}

	period := &model.Period{
		Name:      req.Name,
		StartDate: startDate,
		EndDate:   endDate,
	}
	period.CreatedBy = &callerID
	period.UpdatedBy = &callerID

	if err := s.repo.Period.Create(ctx, period); err != nil {
		s.logger.Error("创建学段失败", zap.Error(err))
		return nil, storageErr(err)
	}

	return s.toPeriodResponse(period), nil
}

func (s *courseService) ListPeriods(ctx context.Context) ([]dto.PeriodResponse, error) {
	periods, err := s.repo.Period.List(ctx)
	if err != nil {
		s.logger.Error("列出学段失败", zap.Error(err))
		return nil, storageErr(err)
	}

	result := make([]dto.PeriodResponse, 0, len(periods))
	for i := range periods {
		result = append(result, *s.toPeriodResponse(&periods[i]))
	}
	return result, nil
}

// ── 内部辅助方法 ──

func (s *courseService) toCourseResponse(course *model.Course) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:          course.CourseID,
		Name:        course.Name,
		Description: course.Description,
		CreatedAt:   formatTime(course.CreatedAt),
	}
}

func (s *courseService) toPeriodResponse(period *model.Period) *dto.PeriodResponse {
	return &dto.PeriodResponse{
		ID:        period.PeriodID,
		Name:      period.Name,
		StartDate: period.StartDate.Format(dateLayout),
		EndDate:   period.EndDate.Format(dateLayout),
	}
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/S3bast1an022/ClassScore-1.8/internal/dto"
	"github.com/S3bast1an022/ClassScore-1.8/internal/model"
	"github.com/S3bast1an022/ClassScore-1.8/internal/repository"
)

// reportCacheTTL 课程报表缓存时长，成绩写入时会主动失效，TTL 仅兜底
const reportCacheTTL = 60 * time.Second

// reportCache 报表缓存后端，生产环境由 *redis.Client 实现；nil 表示无缓存
type reportCache interface {
	GetReport(ctx context.Context, key string) (string, error)
	SetReport(ctx context.Context, key, payload string, ttl time.Duration) error
	InvalidateReport(ctx context.Context, key string) error
}

// courseReportCacheKey 课程报表缓存键；成绩写入路径按同一规则失效
func courseReportCacheKey(courseID, periodID string) string {
	return "course:" + courseID + ":" + periodID
}

// ReportService 成绩报表接口
type ReportService interface {
	// StudentReport 学生学段报表：按任课教师（学科）各算一行加权最终成绩
	StudentReport(ctx context.Context, studentID, periodID string) (*dto.StudentReportResponse, error)
	// CourseReport 课程学段报表：每名在册学生一行最终成绩，附全班平均
	CourseReport(ctx context.Context, courseID, periodID string) (*dto.CourseReportResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	cache  reportCache // 可为 nil：缓存降级为直查
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, cache reportCache, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, cache: cache, logger: logger}
}

func (s *reportService) StudentReport(ctx context.Context, studentID, periodID string) (*dto.StudentReportResponse, error) {
	enrollment, err := s.repo.Enrollment.GetByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotEnrolled
		}
		s.logger.Error("查询选课失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, storageErr(err)
	}

	links, err := s.repo.TeacherCourse.ListByCourse(ctx, enrollment.CourseID)
	if err != nil {
		s.logger.Error("查询任课关系失败", zap.String("course_id", enrollment.CourseID), zap.Error(err))
		return nil, storageErr(err)
	}

	entries, err := s.repo.GradeEntry.ListByStudentCoursePeriod(ctx, studentID, enrollment.CourseID, periodID)
	if err != nil {
		s.logger.Error("查询学生成绩失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, storageErr(err)
	}

	// 成绩按活动所属教师分组，每位任课教师对应报表一行
	byTeacher := make(map[string][]model.GradeEntry)
	for i := range entries {
		if entries[i].Activity == nil {
			continue
		}
		tid := entries[i].Activity.TeacherID
		byTeacher[tid] = append(byTeacher[tid], entries[i])
	}

	resp := &dto.StudentReportResponse{
		StudentID: studentID,
		PeriodID:  periodID,
		Subjects:  make([]dto.SubjectGrade, 0, len(links)),
	}

	courseName := enrollment.CourseID
	if enrollment.Course != nil {
		courseName = enrollment.Course.Name
		resp.Course = &dto.CourseBrief{ID: enrollment.Course.CourseID, Name: enrollment.Course.Name}
	}

	seen := make(map[string]bool, len(links))
	for i := range links {
		link := &links[i]
		seen[link.TeacherID] = true

		row := dto.SubjectGrade{
			SubjectName: courseName,
			TeacherID:   link.TeacherID,
			FinalGrade:  weightedFinal(byTeacher[link.TeacherID]),
		}
		if link.Subject != nil {
			row.SubjectID = link.Subject.SubjectID
			row.SubjectName = link.Subject.Name
		}
		resp.Subjects = append(resp.Subjects, row)
	}

	// 已有成绩但尚未建立任课关系的教师也要出现在报表里，成绩不得丢失
	for tid, group := range byTeacher {
		if seen[tid] {
			continue
		}
		resp.Subjects = append(resp.Subjects, dto.SubjectGrade{
			SubjectName: courseName,
			TeacherID:   tid,
			FinalGrade:  weightedFinal(group),
		})
	}

	return resp, nil
}

func (s *reportService) CourseReport(ctx context.Context, courseID, periodID string) (*dto.CourseReportResponse, error) {
	cacheKey := courseReportCacheKey(courseID, periodID)
	if cached := s.cacheGet(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	if _, err := s.repo.Course.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, storageErr(err)
	}

	roster, err := s.repo.Enrollment.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询花名册失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, storageErr(err)
	}

	entries, err := s.repo.GradeEntry.ListByCoursePeriod(ctx, courseID, periodID)
	if err != nil {
		s.logger.Error("查询课程成绩失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, storageErr(err)
	}

	byStudent := make(map[string][]model.GradeEntry)
	for i := range entries {
		byStudent[entries[i].StudentID] = append(byStudent[entries[i].StudentID], entries[i])
	}

	resp := &dto.CourseReportResponse{
		CourseID: courseID,
		PeriodID: periodID,
		Students: make([]dto.StudentGrade, 0, len(roster)),
	}

	var sum float64
	for i := range roster {
		studentID := roster[i].StudentID
		fg := weightedFinal(byStudent[studentID])
		if fg.Value != nil {
			sum += *fg.Value
			resp.GradedCount++
		}
		resp.Students = append(resp.Students, dto.StudentGrade{
			StudentID:  studentID,
			FinalGrade: fg,
		})
	}
	if resp.GradedCount > 0 {
		avg := sum / float64(resp.GradedCount)
		resp.ClassAverage = &avg
	}

	s.cacheSet(ctx, cacheKey, resp)
	return resp, nil
}

// ── 缓存辅助方法（Redis 不可用时静默降级） ──

func (s *reportService) cacheGet(ctx context.Context, key string) *dto.CourseReportResponse {
	if s.cache == nil {
		return nil
	}
	payload, err := s.cache.GetReport(ctx, key)
	if err != nil {
		s.logger.Warn("读取报表缓存失败", zap.String("key", key), zap.Error(err))
		return nil
	}
	if payload == "" {
		return nil
	}
	var resp dto.CourseReportResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		s.logger.Warn("报表缓存内容损坏", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &resp
}

func (s *reportService) cacheSet(ctx context.Context, key string, resp *dto.CourseReportResponse) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.SetReport(ctx, key, string(payload), reportCacheTTL); err != nil {
		s.logger.Warn("写入报表缓存失败", zap.String("key", key), zap.Error(err))
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/S3bast1an022/ClassScore-1.8/internal/dto"
	"github.com/S3bast1an022/ClassScore-1.8/internal/model"
	"github.com/S3bast1an022/ClassScore-1.8/internal/repository"
)

// 成绩量表常量
const (
	// ScoreMax 单项成绩上限（0–50 制）
	ScoreMax = 50.0
	// PassThreshold 及格线：最终成绩 >= 30 为及格
	PassThreshold = 30.0
)

// 最终成绩状态
const (
	GradeStatusPassed = "passed"
	GradeStatusFailed = "failed"
	GradeStatusNone   = "none" // 暂无成绩，与 0 分严格区分
)

// ── 成绩模块业务错误 ──

var (
	ErrActivityNotFound   = errors.New("评分活动不存在")
	ErrScoreOutOfRange    = errors.New("成绩必须在 0 到 50 之间")
	ErrNotActivityOwner   = errors.New("只能为自己创建的活动录入成绩")
	ErrStudentNotEnrolled = errors.New("该学生未注册在此课程中")
)

// GradeBookService 成绩册接口（教师录入、各方查询）
type GradeBookService interface {
	// Upsert 幂等写入一条成绩；权重从所属活动复制快照
	Upsert(ctx context.Context, req *dto.UpsertGradeRequest, teacherID string) (*dto.GradeEntryResponse, error)
	// BatchUpsert 批量写入，逐条处理；单条失败不影响其余条目（部分成功）
	BatchUpsert(ctx context.Context, req *dto.BatchUpsertGradesRequest, teacherID string) (*dto.BatchGradeResponse, error)
	// FinalGrade 计算某学生在某课程某学段的加权平均最终成绩
	FinalGrade(ctx context.Context, studentID, courseID, periodID string) (*dto.FinalGradeResponse, error)
}

type gradeBookService struct {
	repo   *repository.Repository
	cache  reportCache // 可为 nil：成绩写入后无缓存可失效
	logger *zap.Logger
}

// NewGradeBookService 创建 GradeBookService 实例
func NewGradeBookService(repo *repository.Repository, cache reportCache, logger *zap.Logger) GradeBookService {
	return &gradeBookService{repo: repo, cache: cache, logger: logger}
}

func (s *gradeBookService) Upsert(ctx context.Context, req *dto.UpsertGradeRequest, teacherID string) (*dto.GradeEntryResponse, error) {
	entry, err := s.upsertOne(ctx, req, teacherID)
	if err != nil {
		return nil, err
	}

	return &dto.GradeEntryResponse{
		ID:            entry.GradeEntryID,
		StudentID:     entry.StudentID,
		ActivityID:    entry.ActivityID,
		Score:         entry.Score,
		WeightPercent: entry.WeightPercent,
		RecordedAt:    formatTime(entry.RecordedAt),
	}, nil
}

func (s *gradeBookService) BatchUpsert(ctx context.Context, req *dto.BatchUpsertGradesRequest, teacherID string) (*dto.BatchGradeResponse, error) {
	resp := &dto.BatchGradeResponse{
		Failures: make([]dto.GradeFailure, 0),
	}

	for i := range req.Entries {
		item := req.Entries[i]
		if _, err := s.upsertOne(ctx, &item, teacherID); err != nil {
			resp.Failures = append(resp.Failures, dto.GradeFailure{
				StudentID:  item.StudentID,
				ActivityID: item.ActivityID,
				Reason:     err.Error(),
			})
			continue
		}
		resp.Saved++
	}

	return resp, nil
}

func (s *gradeBookService) FinalGrade(ctx context.Context, studentID, courseID, periodID string) (*dto.FinalGradeResponse, error) {
	entries, err := s.repo.GradeEntry.ListByStudentCoursePeriod(ctx, studentID, courseID, periodID)
	if err != nil {
		s.logger.Error("查询学生成绩失败",
			zap.String("student_id", studentID),
			zap.String("course_id", courseID),
			zap.Error(err))
		return nil, storageErr(err)
	}

	return &dto.FinalGradeResponse{
		StudentID:  studentID,
		CourseID:   courseID,
		PeriodID:   periodID,
		FinalGrade: weightedFinal(entries),
	}, nil
}

// ── 内部辅助方法 ──

// upsertOne 校验并写入单条成绩，供单条与批量路径共用
func (s *gradeBookService) upsertOne(ctx context.Context, req *dto.UpsertGradeRequest, teacherID string) (*model.GradeEntry, error) {
	if req.Score == nil {
		return nil, ErrScoreOutOfRange
	}
	score := *req.Score
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 || score > ScoreMax {
		return nil, ErrScoreOutOfRange
	}

	activity, err := s.repo.Activity.GetByID(ctx, req.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		s.logger.Error("查询活动失败", zap.String("activity_id", req.ActivityID), zap.Error(err))
		return nil, storageErr(err)
	}
	if activity.TeacherID != teacherID {
		return nil, ErrNotActivityOwner
	}

	enrollment, err := s.repo.Enrollment.GetByStudent(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotEnrolled
		}
		s.logger.Error("查询选课失败", zap.String("student_id", req.StudentID), zap.Error(err))
		return nil, storageErr(err)
	}
	if enrollment.CourseID != activity.CourseID {
		return nil, ErrStudentNotEnrolled
	}

	entry := &model.GradeEntry{
		StudentID:     req.StudentID,
		ActivityID:    req.ActivityID,
		Score:         score,
		WeightPercent: activity.WeightPercent, // 权重快照，不可由调用方指定
		RecordedAt:    time.Now().UTC(),
	}
	entry.CreatedBy = &teacherID
	entry.UpdatedBy = &teacherID

	if err := s.repo.GradeEntry.Upsert(ctx, entry); err != nil {
		s.logger.Error("写入成绩失败",
			zap.String("student_id", req.StudentID),
			zap.String("activity_id", req.ActivityID),
			zap.Error(err))
		return nil, storageErr(err)
	}

	// 成绩已变更，课程报表缓存立即失效，不等 TTL 到期
	s.invalidateReport(ctx, activity.CourseID, activity.PeriodID)

	return entry, nil
}

// invalidateReport 删除受成绩写入影响的课程报表缓存；失败只告警，不影响写入结果
func (s *gradeBookService) invalidateReport(ctx context.Context, courseID, periodID string) {
	if s.cache == nil {
		return
	}
	key := courseReportCacheKey(courseID, periodID)
	if err := s.cache.InvalidateReport(ctx, key); err != nil {
		s.logger.Warn("删除报表缓存失败", zap.String("key", key), zap.Error(err))
	}
}

// weightedFinal 计算加权平均最终成绩：Σ(score×weight) / Σ(weight)。
// 权重和为 0（无成绩）时返回 none 状态，Value 为 nil——绝不折算成 0 分。
func weightedFinal(entries []model.GradeEntry) dto.FinalGrade {
	var weightedSum, weightSum float64
	for i := range entries {
		weightedSum += entries[i].Score * entries[i].WeightPercent
		weightSum += entries[i].WeightPercent
	}

	if weightSum == 0 {
		return dto.FinalGrade{Status: GradeStatusNone}
	}

	value := weightedSum / weightSum
	status := GradeStatusFailed
	if value >= PassThreshold {
		status = GradeStatusPassed
	}
	return dto.FinalGrade{
		Value:   &value,
		Display: fmt.Sprintf("%.2f", value),
		Status:  status,
	}
}

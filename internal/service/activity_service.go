package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/S3bast1an022/ClassScore-1.8/internal/dto"
	"github.com/S3bast1an022/ClassScore-1.8/internal/model"
	"github.com/S3bast1an022/ClassScore-1.8/internal/repository"
)

// 权重预算常量
const (
	// WeightBudget 同一 (课程, 学段, 教师) 作用域内活动权重之和的上限
	WeightBudget = 100.0
	// weightEpsilon 浮点比较容差：恰好用满 100% 必须通过
	weightEpsilon = 1e-6
)

// ErrInvalidWeight 权重不在 (0, 100] 区间内
var ErrInvalidWeight = errors.New("活动权重必须大于 0 且不超过 100")

// WeightBudgetError 权重预算超限错误，携带当前已分配总额与剩余可分配额
type WeightBudgetError struct {
	Total     float64 // 作用域内已分配权重之和
	Remaining float64 // 还可分配的权重
}

func (e *WeightBudgetError) Error() string {
	return fmt.Sprintf("权重预算超限：已分配 %.2f%%，最多还可分配 %.2f%%", e.Total, e.Remaining)
}

// ActivityService 评分活动接口（教师）
type ActivityService interface {
	// Propose 在权重预算内创建活动；超出预算返回 *WeightBudgetError
	Propose(ctx context.Context, req *dto.CreateActivityRequest, teacherID string) (*dto.ActivityResponse, error)
	// List 列出教师在某课程某学段下的活动
	List(ctx context.Context, req *dto.ActivityListRequest, teacherID string) ([]dto.ActivityResponse, error)
	// Budget 查询作用域的权重预算使用情况
	Budget(ctx context.Context, courseID, periodID, teacherID string) (*dto.WeightBudgetResponse, error)
}

type activityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewActivityService 创建 ActivityService 实例
func NewActivityService(repo *repository.Repository, logger *zap.Logger) ActivityService {
	return &activityService{repo: repo, logger: logger}
}

func (s *activityService) Propose(ctx context.Context, req *dto.CreateActivityRequest, teacherID string) (*dto.ActivityResponse, error) {
	weight := req.WeightPercent
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 || weight > WeightBudget {
		return nil, ErrInvalidWeight
	}

	if _, err := s.repo.Course.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("course_id", req.CourseID), zap.Error(err))
		return nil, storageErr(err)
	}
	if _, err := s.repo.Period.GetByID(ctx, req.PeriodID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		s.logger.Error("查询学段失败", zap.String("period_id", req.PeriodID), zap.Error(err))
		return nil, storageErr(err)
	}

	activity := &model.Activity{
		CourseID:      req.CourseID,
		PeriodID:      req.PeriodID,
		TeacherID:     teacherID,
		Name:          req.Name,
		Description:   req.Description,
		WeightPercent: weight,
	}
	activity.CreatedBy = &teacherID
	activity.UpdatedBy = &teacherID

	// 预算校验在作用域锁内进行：读-算-写对同作用域的并发创建是串行的
	err := s.repo.Activity.CreateWithGuard(ctx, activity, func(existing []model.Activity) error {
		total := sumWeights(existing)
		if total+weight > WeightBudget+weightEpsilon {
			return &WeightBudgetError{Total: total, Remaining: WeightBudget - total}
		}
		return nil
	})
	if err != nil {
		var budgetErr *WeightBudgetError
		if errors.As(err, &budgetErr) {
			return nil, budgetErr
		}
		s.logger.Error("创建活动失败",
			zap.String("course_id", req.CourseID),
			zap.String("period_id", req.PeriodID),
			zap.String("teacher_id", teacherID),
			zap.Error(err))
		return nil, storageErr(err)
	}

	s.logger.Info("活动已创建",
		zap.String("activity_id", activity.ActivityID),
		zap.Float64("weight_percent", weight))

	return toActivityResponse(activity), nil
}

func (s *activityService) List(ctx context.Context, req *dto.ActivityListRequest, teacherID string) ([]dto.ActivityResponse, error) {
	activities, err := s.repo.Activity.ListByScope(ctx, req.CourseID, req.PeriodID, teacherID)
	if err != nil {
		s.logger.Error("列出活动失败", zap.Error(err))
		return nil, storageErr(err)
	}

	result := make([]dto.ActivityResponse, 0, len(activities))
	for i := range activities {
		result = append(result, *toActivityResponse(&activities[i]))
	}
	return result, nil
}

func (s *activityService) Budget(ctx context.Context, courseID, periodID, teacherID string) (*dto.WeightBudgetResponse, error) {
	activities, err := s.repo.Activity.ListByScope(ctx, courseID, periodID, teacherID)
	if err != nil {
		s.logger.Error("查询权重预算失败", zap.Error(err))
		return nil, storageErr(err)
	}

	total := sumWeights(activities)
	return &dto.WeightBudgetResponse{
		CourseID:  courseID,
		PeriodID:  periodID,
		TeacherID: teacherID,
		Total:     total,
		Remaining: WeightBudget - total,
	}, nil
}

// ── 内部辅助函数 ──

func sumWeights(activities []model.Activity) float64 {
	var total float64
	for i := range activities {
		total += activities[i].WeightPercent
	}
	return total
}

func toActivityResponse(activity *model.Activity) *dto.ActivityResponse {
	return &dto.ActivityResponse{
		ID:            activity.ActivityID,
		CourseID:      activity.CourseID,
		PeriodID:      activity.PeriodID,
		TeacherID:     activity.TeacherID,
		Name:          activity.Name,
		Description:   activity.Description,
		WeightPercent: activity.WeightPercent,
		CreatedAt:     formatTime(activity.CreatedAt),
	}
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/S3bast1an022/ClassScore-1.8/internal/dto"
	"github.com/S3bast1an022/ClassScore-1.8/internal/service"
	"github.com/S3bast1an022/ClassScore-1.8/pkg/response"
)

// ActivityHandler 评分活动模块 HTTP 处理器
type ActivityHandler struct {
	activitySvc service.ActivityService
}

// NewActivityHandler 创建 ActivityHandler
func NewActivityHandler(activitySvc service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activitySvc: activitySvc}
}

// Create 在权重预算内创建评分活动
// POST /api/v1/activities
func (h *ActivityHandler) Create(c *gin.Context) {
	var req dto.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	activity, err := h.activitySvc.Propose(c.Request.Context(), &req, teacherID)
	if err != nil {
		h.handleActivityError(c, err)
		return
	}

	response.Created(c, activity)
}

// List 当前教师在某课程某学段的活动列表
// GET /api/v1/activities?course_id=xxx&period_id=xxx
func (h *ActivityHandler) List(c *gin.Context) {
	var req dto.ActivityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	activities, err := h.activitySvc.List(c.Request.Context(), &req, teacherID)
	if err != nil {
		h.handleActivityError(c, err)
		return
	}

	response.OK(c, gin.H{"list": activities})
}

// Budget 当前教师在某课程某学段的权重预算使用情况
// GET /api/v1/activities/budget?course_id=xxx&period_id=xxx
func (h *ActivityHandler) Budget(c *gin.Context) {
	var req dto.ActivityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	budget, err := h.activitySvc.Budget(c.Request.Context(), req.CourseID, req.PeriodID, teacherID)
	if err != nil {
		h.handleActivityError(c, err)
		return
	}

	response.OK(c, budget)
}

// handleActivityError 统一处理活动模块业务错误
func (h *ActivityHandler) handleActivityError(c *gin.Context, err error) {
	if handleStorageError(c, err) {
		return
	}

	var budgetErr *service.WeightBudgetError
	if errors.As(err, &budgetErr) {
		// 预算超限携带剩余额度，前端据此提示可分配上限
		response.Conflict(c, 12102, budgetErr.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidWeight):
		response.BadRequest(c, 12101, "活动权重必须大于 0 且不超过 100")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 11101, "课程不存在")
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 11103, "学段不存在")
	default:
		response.InternalError(c)
	}
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/S3bast1an022/ClassScore-1.8/internal/dto"
	"github.com/S3bast1an022/ClassScore-1.8/internal/service"
	"github.com/S3bast1an022/ClassScore-1.8/pkg/response"
)

// ScheduleHandler 周课表模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// Create 创建周课表时段
// POST /api/v1/schedule-slots
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateScheduleSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	slot, err := h.scheduleSvc.Propose(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.Created(c, slot)
}

// List 按教师或课程查询周课表
// GET /api/v1/schedule-slots?teacher_id=xxx 或 ?course_id=xxx
func (h *ScheduleHandler) List(c *gin.Context) {
	teacherID := c.Query("teacher_id")
	courseID := c.Query("course_id")

	var (
		slots []dto.ScheduleSlotResponse
		err   error
	)
	switch {
	case teacherID != "":
		slots, err = h.scheduleSvc.ListByTeacher(c.Request.Context(), teacherID)
	case courseID != "":
		slots, err = h.scheduleSvc.ListByCourse(c.Request.Context(), courseID)
	default:
		response.BadRequest(c, 10001, "teacher_id 与 course_id 必须提供其一")
		return
	}
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": slots})
}

// StudentSchedule 学生所在课程的周课表
// GET /api/v1/students/:id/schedule
func (h *ScheduleHandler) StudentSchedule(c *gin.Context) {
	studentID := c.Param("id")
	if studentID == "" {
		response.BadRequest(c, 10001, "学生ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	if role == "student" && callerID != studentID {
		response.Forbidden(c, 10003, "无权查看他人课表")
		return
	}

	slots, err := h.scheduleSvc.ListForStudent(c.Request.Context(), studentID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": slots})
}

// handleScheduleError 统一处理课表模块业务错误
func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	if handleStorageError(c, err) {
		return
	}

	var conflictErr *service.ScheduleConflictError
	if errors.As(err, &conflictErr) {
		// 冲突消息报出既有时段区间，管理员据此改排
		response.Conflict(c, 15102, conflictErr.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidSlotRange):
		response.BadRequest(c, 15101, "时段不合法：星期须为 1-7，时刻须为 HH:MM 且开始早于结束")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 11101, "课程不存在")
	case errors.Is(err, service.ErrStudentNotEnrolled):
		response.NotFound(c, 13104, "该学生未注册在任何课程中")
	default:
		response.InternalError(c)
	}
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/S3bast1an022/ClassScore-1.8/internal/dto"
	"github.com/S3bast1an022/ClassScore-1.8/internal/service"
	"github.com/S3bast1an022/ClassScore-1.8/pkg/response"
)

// CourseHandler 课程 / 学科 / 学段模块 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// CreateCourse 创建课程
// POST /api/v1/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	course, err := h.courseSvc.CreateCourse(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.Created(c, course)
}

// ListCourses 课程列表
// GET /api/v1/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseSvc.ListCourses(c.Request.Context())
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, gin.H{"list": courses})
}

// GetCourse 课程详情
// GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	course, err := h.courseSvc.GetCourse(c.Request.Context(), id)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// CreateSubject 创建学科
// POST /api/v1/subjects
func (h *CourseHandler) CreateSubject(c *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	subject, err := h.courseSvc.CreateSubject(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.Created(c, subject)
}

// ListSubjects 学科列表
// GET /api/v1/subjects
func (h *CourseHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.courseSvc.ListSubjects(c.Request.Context())
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, gin.H{"list": subjects})
}

// CreatePeriod 创建学段
// POST /api/v1/periods
func (h *CourseHandler) CreatePeriod(c *gin.Context) {
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	period, err := h.courseSvc.CreatePeriod(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.Created(c, period)
}

// ListPeriods 学段列表
// GET /api/v1/periods
func (h *CourseHandler) ListPeriods(c *gin.Context) {
	periods, err := h.courseSvc.ListPeriods(c.Request.Context())
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, gin.H{"list": periods})
}

// handleCourseError 统一处理课程模块业务错误
func (h *CourseHandler) handleCourseError(c *gin.Context, err error) {
	if handleStorageError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 11101, "课程不存在")
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 11102, "学科不存在")
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 11103, "学段不存在")
	case errors.Is(err, service.ErrPeriodDateInvalid):
		response.BadRequest(c, 11104, "学段结束日期必须晚于开始日期")
	default:
		response.InternalError(c)
	}
}

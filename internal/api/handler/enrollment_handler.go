package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/S3bast1an022/ClassScore-1.8/internal/dto"
	"github.com/S3bast1an022/ClassScore-1.8/internal/service"
	"github.com/S3bast1an022/ClassScore-1.8/pkg/response"
)

// EnrollmentHandler 选课模块 HTTP 处理器
type EnrollmentHandler struct {
	enrollmentSvc service.EnrollmentService
}

// NewEnrollmentHandler 创建 EnrollmentHandler
func NewEnrollmentHandler(enrollmentSvc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentSvc: enrollmentSvc}
}

// BatchEnroll 批量选课（部分成功）
// POST /api/v1/enrollments
func (h *EnrollmentHandler) BatchEnroll(c *gin.Context) {
	var req dto.BatchEnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.BatchEnroll(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}

	response.OK(c, result)
}

// Roster 课程花名册
// GET /api/v1/courses/:id/roster
func (h *EnrollmentHandler) Roster(c *gin.Context) {
	courseID := c.Param("id")
	if courseID == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	roster, err := h.enrollmentSvc.Roster(c.Request.Context(), courseID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}

	response.OK(c, gin.H{"list": roster})
}

// handleEnrollmentError 统一处理选课模块业务错误
func (h *EnrollmentHandler) handleEnrollmentError(c *gin.Context, err error) {
	if handleStorageError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 11101, "课程不存在")
	default:
		response.InternalError(c)
	}
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/S3bast1an022/ClassScore-1.8/internal/service"
	"github.com/S3bast1an022/ClassScore-1.8/pkg/response"
)

// ReportHandler 报表模块 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// StudentReport 学生学段报表
// GET /api/v1/students/:id/report?period_id=xxx
func (h *ReportHandler) StudentReport(c *gin.Context) {
	studentID := c.Param("id")
	periodID := c.Query("period_id")
	if studentID == "" || periodID == "" {
		response.BadRequest(c, 10001, "student_id 与 period_id 不能为空")
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
		response.Forbidden(c, 10003, "无权查看他人报表")
		return
	}

	report, err := h.reportSvc.StudentReport(c.Request.Context(), studentID, periodID)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, report)
}

// CourseReport 课程学段报表
// GET /api/v1/courses/:id/report?period_id=xxx
func (h *ReportHandler) CourseReport(c *gin.Context) {
	courseID := c.Param("id")
	periodID := c.Query("period_id")
	if courseID == "" || periodID == "" {
		response.BadRequest(c, 10001, "course_id 与 period_id 不能为空")
		return
	}

	report, err := h.reportSvc.CourseReport(c.Request.Context(), courseID, periodID)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, report)
}

// handleReportError 统一处理报表模块业务错误
func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	if handleStorageError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 11101, "课程不存在")
	case errors.Is(err, service.ErrStudentNotEnrolled):
		response.NotFound(c, 13104, "该学生未注册在任何课程中")
	default:
		response.InternalError(c)
	}
}

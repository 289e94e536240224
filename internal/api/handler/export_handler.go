package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/S3bast1an022/ClassScore-1.8/internal/service"
	"github.com/S3bast1an022/ClassScore-1.8/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// CourseGradeSheet 导出课程成绩单 xlsx
// GET /api/v1/export/courses/:id/report.xlsx?period_id=xxx
func (h *ExportHandler) CourseGradeSheet(c *gin.Context) {
	courseID := c.Param("id")
	periodID := c.Query("period_id")
	if courseID == "" || periodID == "" {
		response.BadRequest(c, 10001, "course_id 与 period_id 不能为空")
		return
	}

	data, err := h.exportSvc.CourseGradeSheet(c.Request.Context(), courseID, periodID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	filename := url.QueryEscape("成绩单.xlsx")
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+filename)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// TeacherScheduleICS 导出教师周课表 iCalendar
// GET /api/v1/export/teachers/:id/schedule.ics
func (h *ExportHandler) TeacherScheduleICS(c *gin.Context) {
	teacherID := c.Param("id")
	if teacherID == "" {
		response.BadRequest(c, 10001, "教师ID不能为空")
		return
	}

	data, err := h.exportSvc.TeacherScheduleICS(c.Request.Context(), teacherID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

// handleExportError 统一处理导出模块业务错误
func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	if handleStorageError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 11101, "课程不存在")
	case errors.Is(err, service.ErrNoActivities):
		response.BadRequest(c, 16101, "该课程该学段尚无评分活动，无成绩可导出")
	case errors.Is(err, service.ErrNoScheduleSlots):
		response.BadRequest(c, 16102, "该教师尚无排课时段，无课表可导出")
	default:
		response.InternalError(c)
	}
}

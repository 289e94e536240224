package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/S3bast1an022/ClassScore-1.8/internal/dto"
	"github.com/S3bast1an022/ClassScore-1.8/internal/service"
	"github.com/S3bast1an022/ClassScore-1.8/pkg/response"
)

// GradeHandler 成绩模块 HTTP 处理器
type GradeHandler struct {
	gradeSvc service.GradeBookService
}

// NewGradeHandler 创建 GradeHandler
func NewGradeHandler(gradeSvc service.GradeBookService) *GradeHandler {
	return &GradeHandler{gradeSvc: gradeSvc}
}

// Upsert 写入单条成绩（幂等覆盖）
// PUT /api/v1/grades
func (h *GradeHandler) Upsert(c *gin.Context) {
	var req dto.UpsertGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := h.gradeSvc.Upsert(c.Request.Context(), &req, teacherID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, entry)
}

// BatchUpsert 批量写入成绩（部分成功）
// POST /api/v1/grades/batch
func (h *GradeHandler) BatchUpsert(c *gin.Context) {
	var req dto.BatchUpsertGradesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.gradeSvc.BatchUpsert(c.Request.Context(), &req, teacherID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, result)
}

// FinalGrade 查询学生最终成绩
// GET /api/v1/students/:id/final-grade?course_id=xxx&period_id=xxx
func (h *GradeHandler) FinalGrade(c *gin.Context) {
	studentID := c.Param("id")
	courseID := c.Query("course_id")
	periodID := c.Query("period_id")
	if studentID == "" || courseID == "" || periodID == "" {
		response.BadRequest(c, 10001, "student_id、course_id、period_id 均不能为空")
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
	// 学生只能查自己的成绩
	if role == "student" && callerID != studentID {
		response.Forbidden(c, 10003, "无权查看他人成绩")
		return
	}

	final, err := h.gradeSvc.FinalGrade(c.Request.Context(), studentID, courseID, periodID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, final)
}

// handleGradeError 统一处理成绩模块业务错误
func (h *GradeHandler) handleGradeError(c *gin.Context, err error) {
	if handleStorageError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrActivityNotFound):
		response.NotFound(c, 13101, "评分活动不存在")
	case errors.Is(err, service.ErrScoreOutOfRange):
		response.BadRequest(c, 13102, "成绩必须在 0 到 50 之间")
	case errors.Is(err, service.ErrNotActivityOwner):
		response.Forbidden(c, 13103, "只能为自己创建的活动录入成绩")
	case errors.Is(err, service.ErrStudentNotEnrolled):
		response.BadRequest(c, 13104, "该学生未注册在此课程中")
	default:
		response.InternalError(c)
	}
}

package handler

import "github.com/S3bast1an022/ClassScore-1.8/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Course     *CourseHandler
	Activity   *ActivityHandler
	Grade      *GradeHandler
	Enrollment *EnrollmentHandler
	Schedule   *ScheduleHandler
	Report     *ReportHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Course:     NewCourseHandler(svc.Course),
		Activity:   NewActivityHandler(svc.Activity),
		Grade:      NewGradeHandler(svc.GradeBook),
		Enrollment: NewEnrollmentHandler(svc.Enrollment),
		Schedule:   NewScheduleHandler(svc.Schedule),
		Report:     NewReportHandler(svc.Report),
		Export:     NewExportHandler(svc.Export),
	}
}

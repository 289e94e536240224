package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/S3bast1an022/ClassScore-1.8/config"
	"github.com/S3bast1an022/ClassScore-1.8/internal/api/handler"
	"github.com/S3bast1an022/ClassScore-1.8/internal/api/middleware"
	"github.com/S3bast1an022/ClassScore-1.8/pkg/jwt"
	"github.com/S3bast1an022/ClassScore-1.8/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1（全部需要认证，Token 由门户签发） ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(rdb, 300, time.Minute))
	v1.Use(middleware.JWTAuth(jwtMgr))
	{
		// 课程 / 学科 / 学段模块
		courses := v1.Group("/courses")
		{
			courses.GET("", h.Course.ListCourses)
			courses.GET("/:id", h.Course.GetCourse)
			courses.POST("", middleware.RoleAuth("admin"), h.Course.CreateCourse)
			courses.GET("/:id/roster", middleware.RoleAuth("admin", "teacher"), h.Enrollment.Roster)
			courses.GET("/:id/report", middleware.RoleAuth("admin", "teacher"), h.Report.CourseReport)
		}
		subjects := v1.Group("/subjects")
		{
			subjects.GET("", h.Course.ListSubjects)
			subjects.POST("", middleware.RoleAuth("admin"), h.Course.CreateSubject)
		}
		periods := v1.Group("/periods")
		{
			periods.GET("", h.Course.ListPeriods)
			periods.POST("", middleware.RoleAuth("admin"), h.Course.CreatePeriod)
		}

		// 选课模块
		v1.POST("/enrollments", middleware.RoleAuth("admin"), h.Enrollment.BatchEnroll)

		// 评分活动模块
		activities := v1.Group("/activities")
		activities.Use(middleware.RoleAuth("teacher"))
		{
			activities.POST("", h.Activity.Create)
			activities.GET("", h.Activity.List)
			activities.GET("/budget", h.Activity.Budget)
		}

		// 成绩模块
		grades := v1.Group("/grades")
		grades.Use(middleware.RoleAuth("teacher"))
		{
			grades.PUT("", h.Grade.Upsert)
			grades.POST("/batch", h.Grade.BatchUpsert)
		}

		// 学生视角（Handler 内校验学生只能查自己）
		students := v1.Group("/students")
		{
			students.GET("/:id/final-grade", h.Grade.FinalGrade)
			students.GET("/:id/report", h.Report.StudentReport)
			students.GET("/:id/schedule", h.Schedule.StudentSchedule)
		}

		// 周课表模块
		scheduleSlots := v1.Group("/schedule-slots")
		{
			scheduleSlots.GET("", h.Schedule.List)
			scheduleSlots.POST("", middleware.RoleAuth("admin"), h.Schedule.Create)
		}

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/courses/:id/report.xlsx", middleware.RoleAuth("admin", "teacher"), h.Export.CourseGradeSheet)
			export.GET("/teachers/:id/schedule.ics", middleware.RoleAuth("admin", "teacher"), h.Export.TeacherScheduleICS)
		}
	}

	return r
}

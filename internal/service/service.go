package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/S3bast1an022/ClassScore-1.8/config"
	"github.com/S3bast1an022/ClassScore-1.8/internal/repository"
	pkgerrors "github.com/S3bast1an022/ClassScore-1.8/pkg/errors"
	"github.com/S3bast1an022/ClassScore-1.8/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Course     CourseService
	Activity   ActivityService
	GradeBook  GradeBookService
	Enrollment EnrollmentService
	Schedule   ScheduleService
	Report     ReportService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	// Redis 连接失败时 rdb 为 nil，报表缓存整体降级为直查
	var cache reportCache
	if rdb != nil {
		cache = rdb
	}

	return &Service{
		Course:     NewCourseService(repo, logger),
		Activity:   NewActivityService(repo, logger),
		GradeBook:  NewGradeBookService(repo, cache, logger),
		Enrollment: NewEnrollmentService(repo, logger),
		Schedule:   NewScheduleService(repo, logger),
		Report:     NewReportService(repo, cache, logger),
		Export:     NewExportService(repo, logger),
	}
}

// storageErr 将非业务性的仓储错误包装为"存储不可用"类别。
// 业务校验错误不得经过此包装，Handler 依据该类别返回 503。
func storageErr(err error) error {
	return fmt.Errorf("%w: %v", pkgerrors.ErrStorageUnavailable, err)
}

// formatTime 响应中的统一时间格式：先归一到 UTC 再按 RFC3339 渲染。
// timestamptz 扫描出的时间可能带本地时区，直接格式化会把本地钟点标成 Z。
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// dateLayout 日期字段格式（学段起止日期）
const dateLayout = "2006-01-02"

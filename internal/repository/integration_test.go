//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/S3bast1an022/ClassScore-1.8/internal/model"
	"github.com/S3bast1an022/ClassScore-1.8/internal/repository"
	"github.com/S3bast1an022/ClassScore-1.8/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=classscore password=classscore dbname=classscore_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 用生产迁移建表，保证唯一索引与 CHECK 约束和线上一致
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取底层 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "数据库迁移失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// setupCoursePeriod 创建一门课与一个学段并返回清理函数
func setupCoursePeriod(t *testing.T) (courseID, periodID string, cleanup func()) {
	t.Helper()
	ctx := context.Background()

	course := &model.Course{Name: fmt.Sprintf("Grado-%d", time.Now().UnixNano())}
	if err := testDB.WithContext(ctx).Create(course).Error; err != nil {
		t.Fatalf("创建课程失败: %v", err)
	}

	period := &model.Period{
		Name:      fmt.Sprintf("Periodo-%d", time.Now().UnixNano()),
		StartDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	if err := testDB.WithContext(ctx).Create(period).Error; err != nil {
		t.Fatalf("创建学段失败: %v", err)
	}

	cleanup = func() {
		testDB.Where("period_id = ?", period.PeriodID).Delete(&model.Period{})
		testDB.Where("course_id = ?", course.CourseID).Delete(&model.Course{})
	}
	return course.CourseID, period.PeriodID, cleanup
}

// ═══════════════════════════════════════════════════════════
// Test: Activity CreateWithGuard（并发串行化）
// ═══════════════════════════════════════════════════════════

// 8 个并发请求各带 30% 权重争抢 100% 预算：守卫在 advisory 锁内
// 读到的必须是已提交的最新总和，恰好 3 个通过，落库总和不得超限。
func TestActivityCreateWithGuard_SerializesBudget(t *testing.T) {
	courseID, periodID, cleanup := setupCoursePeriod(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	teacherID := uuid.NewString()
	defer testDB.Where("course_id = ?", courseID).Delete(&model.Activity{})

	errBudget := errors.New("预算超限")

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			activity := &model.Activity{
				CourseID:      courseID,
				PeriodID:      periodID,
				TeacherID:     teacherID,
				Name:          fmt.Sprintf("Actividad %d", n),
				WeightPercent: 30,
			}
			err := repo.Activity.CreateWithGuard(ctx, activity, func(existing []model.Activity) error {
				var total float64
				for i := range existing {
					total += existing[i].WeightPercent
				}
				if total+30 > 100 {
					return errBudget
				}
				return nil
			})
			switch {
			case err == nil:
				mu.Lock()
				succeeded++
				mu.Unlock()
			case !errors.Is(err, errBudget):
				t.Errorf("期望通过或预算拒绝，实际错误: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if succeeded != 3 {
		t.Errorf("期望恰好 3 个 30%% 活动通过校验，实际=%d", succeeded)
	}

	var total float64
	if err := testDB.Model(&model.Activity{}).
		Where("course_id = ? AND period_id = ? AND teacher_id = ?", courseID, periodID, teacherID).
		Select("COALESCE(SUM(weight_percent), 0)").
		Scan(&total).Error; err != nil {
		t.Fatalf("统计权重总和失败: %v", err)
	}
	if total != 90 {
		t.Errorf("期望落库权重总和 90，实际=%v", total)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: ScheduleSlot CreateWithGuard（并发串行化 + 任课关系幂等）
// ═══════════════════════════════════════════════════════════

func TestScheduleSlotCreateWithGuard_SerializesOverlap(t *testing.T) {
	courseID, _, cleanup := setupCoursePeriod(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	teacherID := uuid.NewString()
	defer testDB.Where("course_id = ?", courseID).Delete(&model.TeacherCourse{})
	defer testDB.Where("course_id = ?", courseID).Delete(&model.ScheduleSlot{})

	errConflict := errors.New("时段冲突")

	// time 列回读为 "HH:MM:SS" 文本，区间比较两侧保持同一格式
	overlapGuard := func(rng model.TimeRange) func(teacherSlots, courseSlots []model.ScheduleSlot) error {
		return func(teacherSlots, courseSlots []model.ScheduleSlot) error {
			for i := range teacherSlots {
				if rng.Overlaps(teacherSlots[i].Range()) {
					return errConflict
				}
			}
			for i := range courseSlots {
				if rng.Overlaps(courseSlots[i].Range()) {
					return errConflict
				}
			}
			return nil
		}
	}

	// 6 个并发请求抢同一教师周一 08:00–10:00：只能有一个通过
	const workers = 6
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			slot := &model.ScheduleSlot{
				TeacherID: teacherID,
				CourseID:  courseID,
				DayOfWeek: 1,
				StartTime: "08:00:00",
				EndTime:   "10:00:00",
			}
			err := repo.ScheduleSlot.CreateWithGuard(ctx, slot,
				overlapGuard(model.TimeRange{Start: "08:00:00", End: "10:00:00"}))
			switch {
			case err == nil:
				mu.Lock()
				succeeded++
				mu.Unlock()
			case !errors.Is(err, errConflict):
				t.Errorf("期望通过或冲突拒绝，实际错误: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("期望恰好 1 个时段入库，实际=%d", succeeded)
	}

	// 端点相接的第二个时段应成功，且任课关系不重复建立（ON CONFLICT DO NOTHING）
	second := &model.ScheduleSlot{
		TeacherID: teacherID,
		CourseID:  courseID,
		DayOfWeek: 1,
		StartTime: "10:00:00",
		EndTime:   "12:00:00",
	}
	if err := repo.ScheduleSlot.CreateWithGuard(ctx, second,
		overlapGuard(model.TimeRange{Start: "10:00:00", End: "12:00:00"})); err != nil {
		t.Fatalf("端点相接的时段应创建成功: %v", err)
	}

	var slotCount, linkCount int64
	testDB.Model(&model.ScheduleSlot{}).Where("teacher_id = ?", teacherID).Count(&slotCount)
	testDB.Model(&model.TeacherCourse{}).
		Where("teacher_id = ? AND course_id = ?", teacherID, courseID).Count(&linkCount)
	if slotCount != 2 {
		t.Errorf("期望 2 个时段，实际=%d", slotCount)
	}
	if linkCount != 1 {
		t.Errorf("两次排课期望仅 1 条任课关系，实际=%d", linkCount)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Enrollment CreateWithGuard（并发下单一选课不变量）
// ═══════════════════════════════════════════════════════════

func TestEnrollmentCreateWithGuard_SingleEnrollment(t *testing.T) {
	courseID, _, cleanup := setupCoursePeriod(t)
	defer cleanup()

	otherCourse := &model.Course{Name: fmt.Sprintf("Grado-B-%d", time.Now().UnixNano())}
	if err := testDB.Create(otherCourse).Error; err != nil {
		t.Fatalf("创建第二门课程失败: %v", err)
	}
	defer testDB.Where("course_id = ?", otherCourse.CourseID).Delete(&model.Course{})

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	studentID := uuid.NewString()
	defer testDB.Where("student_id = ?", studentID).Delete(&model.Enrollment{})

	errEnrolled := errors.New("已有选课记录")
	courses := []string{courseID, otherCourse.CourseID}

	const workers = 6
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			enrollment := &model.Enrollment{
				StudentID: studentID,
				CourseID:  courses[n%len(courses)],
			}
			err := repo.Enrollment.CreateWithGuard(ctx, enrollment, func(existing []model.Enrollment) error {
				if len(existing) > 0 {
					return errEnrolled
				}
				return nil
			})
			switch {
			case err == nil:
				mu.Lock()
				succeeded++
				mu.Unlock()
			case !errors.Is(err, errEnrolled):
				t.Errorf("期望通过或重复选课拒绝，实际错误: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("期望恰好 1 次选课成功，实际=%d", succeeded)
	}

	var count int64
	testDB.Model(&model.Enrollment{}).Where("student_id = ?", studentID).Count(&count)
	if count != 1 {
		t.Errorf("期望学生仅 1 条选课记录，实际=%d", count)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: GradeEntry Upsert（ON CONFLICT 覆盖写）
// ═══════════════════════════════════════════════════════════

func TestGradeEntryUpsert_OverwritesOnConflict(t *testing.T) {
	courseID, periodID, cleanup := setupCoursePeriod(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	teacherID := uuid.NewString()
	studentID := uuid.NewString()

	activity := &model.Activity{
		CourseID:      courseID,
		PeriodID:      periodID,
		TeacherID:     teacherID,
		Name:          "Examen",
		WeightPercent: 60,
	}
	if err := testDB.Create(activity).Error; err != nil {
		t.Fatalf("创建活动失败: %v", err)
	}
	defer testDB.Where("activity_id = ?", activity.ActivityID).Delete(&model.Activity{})
	defer testDB.Where("activity_id = ?", activity.ActivityID).Delete(&model.GradeEntry{})

	first := &model.GradeEntry{
		StudentID:     studentID,
		ActivityID:    activity.ActivityID,
		Score:         20,
		WeightPercent: 60,
		RecordedAt:    time.Now().UTC(),
	}
	if err := repo.GradeEntry.Upsert(ctx, first); err != nil {
		t.Fatalf("首次写入成绩失败: %v", err)
	}

	second := &model.GradeEntry{
		StudentID:     studentID,
		ActivityID:    activity.ActivityID,
		Score:         45,
		WeightPercent: 60,
		RecordedAt:    time.Now().UTC(),
	}
	if err := repo.GradeEntry.Upsert(ctx, second); err != nil {
		t.Fatalf("覆盖写入成绩失败: %v", err)
	}

	var entries []model.GradeEntry
	if err := testDB.Where("student_id = ? AND activity_id = ?", studentID, activity.ActivityID).
		Find(&entries).Error; err != nil {
		t.Fatalf("查询成绩失败: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("期望唯一成绩记录，实际=%d 条", len(entries))
	}
	if entries[0].Score != 45 {
		t.Errorf("期望覆盖后分数 45，实际=%v", entries[0].Score)
	}
	if entries[0].GradeEntryID != first.GradeEntryID {
		t.Errorf("覆盖写不应更换主键: 首次=%s 现在=%s", first.GradeEntryID, entries[0].GradeEntryID)
	}
}

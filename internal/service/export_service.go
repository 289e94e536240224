package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/S3bast1an022/ClassScore-1.8/internal/model"
	"github.com/S3bast1an022/ClassScore-1.8/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrNoActivities    = errors.New("该课程该学段尚无评分活动，无成绩可导出")
	ErrNoScheduleSlots = errors.New("该教师尚无排课时段，无课表可导出")
)

// ExportService 文件导出接口
type ExportService interface {
	// CourseGradeSheet 导出某课程某学段的成绩单 xlsx：
	// 每名在册学生一行，每个活动一列，末列为加权最终成绩
	CourseGradeSheet(ctx context.Context, courseID, periodID string) ([]byte, error)
	// TeacherScheduleICS 导出某教师的周课表为 iCalendar（每周重复事件）
	TeacherScheduleICS(ctx context.Context, teacherID string) ([]byte, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) CourseGradeSheet(ctx context.Context, courseID, periodID string) ([]byte, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, storageErr(err)
	}

	activities, err := s.repo.Activity.ListByCoursePeriod(ctx, courseID, periodID)
	if err != nil {
		s.logger.Error("查询活动失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, storageErr(err)
	}
	if len(activities) == 0 {
		return nil, ErrNoActivities
	}

	roster, err := s.repo.Enrollment.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询花名册失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, storageErr(err)
	}

	entries, err := s.repo.GradeEntry.ListByCoursePeriod(ctx, courseID, periodID)
	if err != nil {
		s.logger.Error("查询课程成绩失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, storageErr(err)
	}

	// (学生, 活动) -> 分数
	scores := make(map[string]map[string]float64, len(roster))
	byStudent := make(map[string][]model.GradeEntry)
	for i := range entries {
		e := &entries[i]
		if scores[e.StudentID] == nil {
			scores[e.StudentID] = make(map[string]float64)
		}
		scores[e.StudentID][e.ActivityID] = e.Score
		byStudent[e.StudentID] = append(byStudent[e.StudentID], *e)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "成绩单"
	f.SetSheetName("Sheet1", sheet)

	setCell := func(col, row int, value interface{}) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, value)
	}

	// 表头：学生ID | 活动1 (w%) | … | 最终成绩 | 状态
	setCell(1, 1, "学生ID")
	for i := range activities {
		setCell(2+i, 1, fmt.Sprintf("%s (%.0f%%)", activities[i].Name, activities[i].WeightPercent))
	}
	finalCol := 2 + len(activities)
	setCell(finalCol, 1, "最终成绩")
	setCell(finalCol+1, 1, "状态")

	statusText := map[string]string{
		GradeStatusPassed: "及格",
		GradeStatusFailed: "不及格",
		GradeStatusNone:   "暂无成绩",
	}

	for r := range roster {
		row := r + 2
		studentID := roster[r].StudentID
		setCell(1, row, studentID)

		for i := range activities {
			if score, ok := scores[studentID][activities[i].ActivityID]; ok {
				setCell(2+i, row, score)
			}
		}

		fg := weightedFinal(byStudent[studentID])
		if fg.Value != nil {
			setCell(finalCol, row, *fg.Value)
		}
		setCell(finalCol+1, row, statusText[fg.Status])
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成成绩单文件失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, fmt.Errorf("生成成绩单文件失败: %w", err)
	}

	s.logger.Info("成绩单已导出",
		zap.String("course_id", courseID),
		zap.String("course_name", course.Name),
		zap.Int("students", len(roster)),
		zap.Int("activities", len(activities)))

	return buf.Bytes(), nil
}

func (s *exportService) TeacherScheduleICS(ctx context.Context, teacherID string) ([]byte, error) {
	slots, err := s.repo.ScheduleSlot.ListByTeacher(ctx, teacherID)
	if err != nil {
		s.logger.Error("查询教师课表失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return nil, storageErr(err)
	}
	if len(slots) == 0 {
		return nil, ErrNoScheduleSlots
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//ClassScore//Horario Semanal//ES")

	now := time.Now().UTC()
	for i := range slots {
		slot := &slots[i]

		start, err := nextSlotOccurrence(now, slot.DayOfWeek, slot.StartTime)
		if err != nil {
			continue
		}
		end, err := nextSlotOccurrence(now, slot.DayOfWeek, slot.EndTime)
		if err != nil {
			continue
		}

		event := cal.AddEvent(slot.ScheduleSlotID + "@classscore")
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.AddRrule("FREQ=WEEKLY;BYDAY=" + icsByDay[slot.DayOfWeek])

		summary := slot.CourseID
		if slot.Course != nil {
			summary = slot.Course.Name
		}
		event.SetSummary(summary)
		if slot.Room != "" {
			event.SetLocation(slot.Room)
		}
	}

	return []byte(cal.Serialize()), nil
}

// ── 内部辅助 ──

// icsByDay 星期（1=周一 … 7=周日）到 iCalendar BYDAY 代码的映射
var icsByDay = map[int]string{
	1: "MO", 2: "TU", 3: "WE", 4: "TH", 5: "FR", 6: "SA", 7: "SU",
}

// nextSlotOccurrence 计算从 from 起（含当天）下一个落在指定星期的 clock 时刻
func nextSlotOccurrence(from time.Time, dayOfWeek int, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}

	// time.Weekday 以周日为 0；课表以周一为 1、周日为 7
	target := time.Weekday(dayOfWeek % 7)
	days := (int(target) - int(from.Weekday()) + 7) % 7
	date := from.AddDate(0, 0, days)

	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

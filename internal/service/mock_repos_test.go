package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/S3bast1an022/ClassScore-1.8/internal/model"
	"github.com/S3bast1an022/ClassScore-1.8/internal/repository"
)

// errMockStorage 注入的存储故障
var errMockStorage = errors.New("mock: 存储故障")

// mockState 全部 mock 仓储共享的内存状态
type mockState struct {
	mu sync.Mutex

	courses  map[string]*model.Course
	subjects map[string]*model.Subject
	periods  map[string]*model.Period

	enrollments []*model.Enrollment
	links       []*model.TeacherCourse
	activities  []*model.Activity
	grades      map[string]*model.GradeEntry // key: studentID|activityID
	slots       []*model.ScheduleSlot

	failAll bool // 置位后所有操作返回存储故障
}

// newTestRepo 构造全部基于内存 mock 的仓储聚合
func newTestRepo() (*repository.Repository, *mockState) {
	st := &mockState{
		courses:  make(map[string]*model.Course),
		subjects: make(map[string]*model.Subject),
		periods:  make(map[string]*model.Period),
		grades:   make(map[string]*model.GradeEntry),
	}
	repo := &repository.Repository{
		Course:        &mockCourseRepo{st},
		Subject:       &mockSubjectRepo{st},
		Period:        &mockPeriodRepo{st},
		Enrollment:    &mockEnrollmentRepo{st},
		TeacherCourse: &mockTeacherCourseRepo{st},
		Activity:      &mockActivityRepo{st},
		GradeEntry:    &mockGradeEntryRepo{st},
		ScheduleSlot:  &mockScheduleSlotRepo{st},
	}
	return repo, st
}

// ── 种子数据辅助 ──

func (st *mockState) seedCourse(name string) *model.Course {
	st.mu.Lock()
	defer st.mu.Unlock()
	course := &model.Course{CourseID: uuid.NewString(), Name: name}
	course.CreatedAt = time.Now()
	st.courses[course.CourseID] = course
	return course
}

func (st *mockState) seedPeriod(name string) *model.Period {
	st.mu.Lock()
	defer st.mu.Unlock()
	period := &model.Period{
		PeriodID:  uuid.NewString(),
		Name:      name,
		StartDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	st.periods[period.PeriodID] = period
	return period
}

func (st *mockState) seedSubject(name string) *model.Subject {
	st.mu.Lock()
	defer st.mu.Unlock()
	subject := &model.Subject{SubjectID: uuid.NewString(), Name: name}
	st.subjects[subject.SubjectID] = subject
	return subject
}

func (st *mockState) seedEnrollment(studentID, courseID string) *model.Enrollment {
	st.mu.Lock()
	defer st.mu.Unlock()
	e := &model.Enrollment{
		EnrollmentID: uuid.NewString(),
		StudentID:    studentID,
		CourseID:     courseID,
		Course:       st.courses[courseID],
	}
	st.enrollments = append(st.enrollments, e)
	return e
}

func (st *mockState) seedLink(teacherID, courseID string, subjectID *string) *model.TeacherCourse {
	st.mu.Lock()
	defer st.mu.Unlock()
	link := &model.TeacherCourse{
		TeacherCourseID: uuid.NewString(),
		TeacherID:       teacherID,
		CourseID:        courseID,
		SubjectID:       subjectID,
		Course:          st.courses[courseID],
	}
	if subjectID != nil {
		link.Subject = st.subjects[*subjectID]
	}
	st.links = append(st.links, link)
	return link
}

// ── CourseRepository ──

type mockCourseRepo struct{ st *mockState }

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return errMockStorage
	}
	if course.CourseID == "" {
		course.CourseID = uuid.NewString()
	}
	course.CreatedAt = time.Now()
	m.st.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return nil, errMockStorage
	}
	course, ok := m.st.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return nil, errMockStorage
	}
	result := make([]model.Course, 0, len(m.st.courses))
	for _, c := range m.st.courses {
		result = append(result, *c)
	}
	return result, nil
}

// ── SubjectRepository ──

type mockSubjectRepo struct{ st *mockState }

func (m *mockSubjectRepo) Create(_ context.Context, subject *model.Subject) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return errMockStorage
	}
	if subject.SubjectID == "" {
		subject.SubjectID = uuid.NewString()
	}
	m.st.subjects[subject.SubjectID] = subject
	return nil
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id string) (*model.Subject, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	subject, ok := m.st.subjects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return subject, nil
}

func (m *mockSubjectRepo) List(_ context.Context) ([]model.Subject, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	result := make([]model.Subject, 0, len(m.st.subjects))
	for _, s := range m.st.subjects {
		result = append(result, *s)
	}
	return result, nil
}

// ── PeriodRepository ──

type mockPeriodRepo struct{ st *mockState }

func (m *mockPeriodRepo) Create(_ context.Context, period *model.Period) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return errMockStorage
	}
	if period.PeriodID == "" {
		period.PeriodID = uuid.NewString()
	}
	m.st.periods[period.PeriodID] = period
	return nil
}

func (m *mockPeriodRepo) GetByID(_ context.Context, id string) (*model.Period, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return nil, errMockStorage
	}
	period, ok := m.st.periods[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return period, nil
}

func (m *mockPeriodRepo) List(_ context.Context) ([]model.Period, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	result := make([]model.Period, 0, len(m.st.periods))
	for _, p := range m.st.periods {
		result = append(result, *p)
	}
	return result, nil
}

// ── EnrollmentRepository ──

type mockEnrollmentRepo struct{ st *mockState }

func (m *mockEnrollmentRepo) CreateWithGuard(_ context.Context, enrollment *model.Enrollment, guard func(existing []model.Enrollment) error) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return errMockStorage
	}

	var existing []model.Enrollment
	for _, e := range m.st.enrollments {
		if e.StudentID == enrollment.StudentID {
			copied := *e
			copied.Course = m.st.courses[e.CourseID]
			existing = append(existing, copied)
		}
	}
	if err := guard(existing); err != nil {
		return err
	}

	if enrollment.EnrollmentID == "" {
		enrollment.EnrollmentID = uuid.NewString()
	}
	enrollment.CreatedAt = time.Now()
	m.st.enrollments = append(m.st.enrollments, enrollment)
	return nil
}

func (m *mockEnrollmentRepo) GetByStudent(_ context.Context, studentID string) (*model.Enrollment, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return nil, errMockStorage
	}
	for _, e := range m.st.enrollments {
		if e.StudentID == studentID {
			copied := *e
			copied.Course = m.st.courses[e.CourseID]
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) ListByCourse(_ context.Context, courseID string) ([]model.Enrollment, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return nil, errMockStorage
	}
	var result []model.Enrollment
	for _, e := range m.st.enrollments {
		if e.CourseID == courseID {
			copied := *e
			copied.Course = m.st.courses[e.CourseID]
			result = append(result, copied)
		}
	}
	return result, nil
}

// ── TeacherCourseRepository ──

type mockTeacherCourseRepo struct{ st *mockState }

func (m *mockTeacherCourseRepo) Link(_ context.Context, link *model.TeacherCourse) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return errMockStorage
	}
	m.linkLocked(link)
	return nil
}

// linkLocked 幂等追加任课关系，调用方须已持锁
func (m *mockTeacherCourseRepo) linkLocked(link *model.TeacherCourse) {
	for _, l := range m.st.links {
		if l.TeacherID == link.TeacherID && l.CourseID == link.CourseID {
			return
		}
	}
	if link.TeacherCourseID == "" {
		link.TeacherCourseID = uuid.NewString()
	}
	m.st.links = append(m.st.links, link)
}

func (m *mockTeacherCourseRepo) ListByCourse(_ context.Context, courseID string) ([]model.TeacherCourse, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return nil, errMockStorage
	}
	var result []model.TeacherCourse
	for _, l := range m.st.links {
		if l.CourseID == courseID {
			copied := *l
			if l.SubjectID != nil {
				copied.Subject = m.st.subjects[*l.SubjectID]
			}
			result = append(result, copied)
		}
	}
	return result, nil
}

func (m *mockTeacherCourseRepo) ListByTeacher(_ context.Context, teacherID string) ([]model.TeacherCourse, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	var result []model.TeacherCourse
	for _, l := range m.st.links {
		if l.TeacherID == teacherID {
			copied := *l
			copied.Course = m.st.courses[l.CourseID]
			result = append(result, copied)
		}
	}
	return result, nil
}

// ── ActivityRepository ──

type mockActivityRepo struct{ st *mockState }

func (m *mockActivityRepo) CreateWithGuard(_ context.Context, activity *model.Activity, guard func(existing []model.Activity) error) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return errMockStorage
	}

	var existing []model.Activity
	for _, a := range m.st.activities {
		if a.CourseID == activity.CourseID && a.PeriodID == activity.PeriodID && a.TeacherID == activity.TeacherID {
			existing = append(existing, *a)
		}
	}
	if err := guard(existing); err != nil {
		return err
	}

	if activity.ActivityID == "" {
		activity.ActivityID = uuid.NewString()
	}
	activity.CreatedAt = time.Now()
	m.st.activities = append(m.st.activities, activity)
	return nil
}

func (m *mockActivityRepo) GetByID(_ context.Context, id string) (*model.Activity, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return nil, errMockStorage
	}
	for _, a := range m.st.activities {
		if a.ActivityID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockActivityRepo) ListByScope(_ context.Context, courseID, periodID, teacherID string) ([]model.Activity, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return nil, errMockStorage
	}
	var result []model.Activity
	for _, a := range m.st.activities {
		if a.CourseID == courseID && a.PeriodID == periodID && a.TeacherID == teacherID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockActivityRepo) ListByCoursePeriod(_ context.Context, courseID, periodID string) ([]model.Activity, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return nil, errMockStorage
	}
	var result []model.Activity
	for _, a := range m.st.activities {
		if a.CourseID == courseID && a.PeriodID == periodID {
			result = append(result, *a)
		}
	}
	return result, nil
}

// ── GradeEntryRepository ──

type mockGradeEntryRepo struct{ st *mockState }

func (m *mockGradeEntryRepo) Upsert(_ context.Context, entry *model.GradeEntry) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return errMockStorage
	}

	key := entry.StudentID + "|" + entry.ActivityID
	if old, ok := m.st.grades[key]; ok {
		old.Score = entry.Score
		old.WeightPercent = entry.WeightPercent
		old.RecordedAt = entry.RecordedAt
		entry.GradeEntryID = old.GradeEntryID
		return nil
	}

	if entry.GradeEntryID == "" {
		entry.GradeEntryID = uuid.NewString()
	}
	copied := *entry
	m.st.grades[key] = &copied
	return nil
}

func (m *mockGradeEntryRepo) ListByStudentCoursePeriod(_ context.Context, studentID, courseID, periodID string) ([]model.GradeEntry, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return nil, errMockStorage
	}
	var result []model.GradeEntry
	for _, g := range m.st.grades {
		if g.StudentID != studentID {
			continue
		}
		activity := m.findActivityLocked(g.ActivityID)
		if activity == nil || activity.CourseID != courseID || activity.PeriodID != periodID {
			continue
		}
		copied := *g
		copied.Activity = activity
		result = append(result, copied)
	}
	return result, nil
}

func (m *mockGradeEntryRepo) ListByCoursePeriod(_ context.Context, courseID, periodID string) ([]model.GradeEntry, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return nil, errMockStorage
	}
	var result []model.GradeEntry
	for _, g := range m.st.grades {
		activity := m.findActivityLocked(g.ActivityID)
		if activity == nil || activity.CourseID != courseID || activity.PeriodID != periodID {
			continue
		}
		copied := *g
		copied.Activity = activity
		result = append(result, copied)
	}
	return result, nil
}

func (m *mockGradeEntryRepo) findActivityLocked(activityID string) *model.Activity {
	for _, a := range m.st.activities {
		if a.ActivityID == activityID {
			return a
		}
	}
	return nil
}

// ── ScheduleSlotRepository ──

type mockScheduleSlotRepo struct{ st *mockState }

func (m *mockScheduleSlotRepo) CreateWithGuard(_ context.Context, slot *model.ScheduleSlot, guard func(teacherSlots, courseSlots []model.ScheduleSlot) error) error {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return errMockStorage
	}

	var teacherSlots, courseSlots []model.ScheduleSlot
	for _, s := range m.st.slots {
		if s.DayOfWeek != slot.DayOfWeek {
			continue
		}
		if s.TeacherID == slot.TeacherID {
			teacherSlots = append(teacherSlots, *s)
		}
		if s.CourseID == slot.CourseID {
			courseSlots = append(courseSlots, *s)
		}
	}
	if err := guard(teacherSlots, courseSlots); err != nil {
		return err
	}

	if slot.ScheduleSlotID == "" {
		slot.ScheduleSlotID = uuid.NewString()
	}
	slot.CreatedAt = time.Now()
	m.st.slots = append(m.st.slots, slot)

	link := &model.TeacherCourse{TeacherID: slot.TeacherID, CourseID: slot.CourseID}
	(&mockTeacherCourseRepo{m.st}).linkLocked(link)
	return nil
}

func (m *mockScheduleSlotRepo) ListByTeacher(_ context.Context, teacherID string) ([]model.ScheduleSlot, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return nil, errMockStorage
	}
	var result []model.ScheduleSlot
	for _, s := range m.st.slots {
		if s.TeacherID == teacherID {
			copied := *s
			copied.Course = m.st.courses[s.CourseID]
			result = append(result, copied)
		}
	}
	return result, nil
}

func (m *mockScheduleSlotRepo) ListByCourse(_ context.Context, courseID string) ([]model.ScheduleSlot, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if m.st.failAll {
		return nil, errMockStorage
	}
	var result []model.ScheduleSlot
	for _, s := range m.st.slots {
		if s.CourseID == courseID {
			copied := *s
			copied.Course = m.st.courses[s.CourseID]
			result = append(result, copied)
		}
	}
	return result, nil
}

package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Course        CourseRepository
	Subject       SubjectRepository
	Period        PeriodRepository
	Enrollment    EnrollmentRepository
	TeacherCourse TeacherCourseRepository
	Activity      ActivityRepository
	GradeEntry    GradeEntryRepository
	ScheduleSlot  ScheduleSlotRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Course:        NewCourseRepo(db),
		Subject:       NewSubjectRepo(db),
		Period:        NewPeriodRepo(db),
		Enrollment:    NewEnrollmentRepo(db),
		TeacherCourse: NewTeacherCourseRepo(db),
		Activity:      NewActivityRepo(db),
		GradeEntry:    NewGradeEntryRepo(db),
		ScheduleSlot:  NewScheduleSlotRepo(db),
	}
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/S3bast1an022/ClassScore-1.8/internal/dto"
)

const adminID = "00000000-0000-0000-0000-000000000001"

func newEnrollmentTestEnv(t *testing.T) (EnrollmentService, *mockState) {
	t.Helper()
	repo, st := newTestRepo()
	return NewEnrollmentService(repo, zap.NewNop()), st
}

func TestBatchEnrollOutcomes(t *testing.T) {
	svc, st := newEnrollmentTestEnv(t)
	ctx := context.Background()

	courseA := st.seedCourse("Grado 9-A")
	courseB := st.seedCourse("Grado 9-B")

	fresh := "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	inOther := "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	inThis := "cccccccc-cccc-cccc-cccc-cccccccccccc"
	st.seedEnrollment(inOther, courseA.CourseID)
	st.seedEnrollment(inThis, courseB.CourseID)

	resp, err := svc.BatchEnroll(ctx, &dto.BatchEnrollRequest{
		CourseID:   courseB.CourseID,
		StudentIDs: []string{fresh, inOther, inThis},
	}, adminID)
	if err != nil {
		t.Fatalf("批量选课应整体成功返回，实际错误=%v", err)
	}

	if resp.Enrolled != 1 {
		t.Errorf("期望新增选课 1 条，实际=%d", resp.Enrolled)
	}
	if len(resp.Outcomes) != 3 {
		t.Fatalf("期望 3 条结果，实际=%d", len(resp.Outcomes))
	}

	byStudent := make(map[string]dto.EnrollOutcome)
	for _, o := range resp.Outcomes {
		byStudent[o.StudentID] = o
	}

	if byStudent[fresh].Status != dto.EnrollStatusEnrolled {
		t.Errorf("新学生期望 enrolled，实际=%s", byStudent[fresh].Status)
	}
	if byStudent[inThis].Status != dto.EnrollStatusAlreadyInCourse {
		t.Errorf("已在本课程学生期望 already_in_course，实际=%s", byStudent[inThis].Status)
	}

	other := byStudent[inOther]
	if other.Status != dto.EnrollStatusAlreadyInOther {
		t.Errorf("已在他课学生期望 already_in_other，实际=%s", other.Status)
	}
	// 拒绝原因须报出已注册课程名，供管理员排查
	if !strings.Contains(other.Reason, "Grado 9-A") {
		t.Errorf("拒绝原因应包含课程名 Grado 9-A，实际=%q", other.Reason)
	}
}

func TestBatchEnrollSingleEnrollmentInvariant(t *testing.T) {
	svc, st := newEnrollmentTestEnv(t)
	ctx := context.Background()

	courseA := st.seedCourse("Grado 9-A")
	courseB := st.seedCourse("Grado 9-B")
	studentID := "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"

	if _, err := svc.BatchEnroll(ctx, &dto.BatchEnrollRequest{
		CourseID:   courseA.CourseID,
		StudentIDs: []string{studentID},
	}, adminID); err != nil {
		t.Fatalf("首次选课失败：%v", err)
	}

	// 转入另一门课被拒，且不产生第二条记录
	resp, err := svc.BatchEnroll(ctx, &dto.BatchEnrollRequest{
		CourseID:   courseB.CourseID,
		StudentIDs: []string{studentID},
	}, adminID)
	if err != nil {
		t.Fatalf("批量选课应整体成功返回：%v", err)
	}
	if resp.Outcomes[0].Status != dto.EnrollStatusAlreadyInOther {
		t.Errorf("期望 already_in_other，实际=%s", resp.Outcomes[0].Status)
	}
	if n := len(st.enrollments); n != 1 {
		t.Errorf("学生应只有一条选课记录，实际=%d", n)
	}
}

func TestBatchEnrollCourseNotFound(t *testing.T) {
	svc, _ := newEnrollmentTestEnv(t)
	_, err := svc.BatchEnroll(context.Background(), &dto.BatchEnrollRequest{
		CourseID:   "99999999-9999-9999-9999-999999999999",
		StudentIDs: []string{"aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"},
	}, adminID)
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际=%v", err)
	}
}

func TestRoster(t *testing.T) {
	svc, st := newEnrollmentTestEnv(t)
	ctx := context.Background()

	course := st.seedCourse("Grado 9-A")
	other := st.seedCourse("Grado 9-B")
	st.seedEnrollment("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa", course.CourseID)
	st.seedEnrollment("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb", course.CourseID)
	st.seedEnrollment("cccccccc-cccc-cccc-cccc-cccccccccccc", other.CourseID)

	roster, err := svc.Roster(ctx, course.CourseID)
	if err != nil {
		t.Fatalf("查询花名册失败：%v", err)
	}
	if len(roster) != 2 {
		t.Errorf("期望 2 名学生，实际=%d", len(roster))
	}
	for _, item := range roster {
		if item.CourseID != course.CourseID {
			t.Errorf("花名册混入他课学生：%+v", item)
		}
	}
}

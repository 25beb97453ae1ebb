package student

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/brightpath/academia/core"
)

type fakeRepo struct {
	students map[string]Student
	archived []Student
}

func newFakeRepo(students ...Student) *fakeRepo {
	repo := &fakeRepo{students: make(map[string]Student)}
	for _, stu := range students {
		repo.students[stu.ID] = stu
	}
	return repo
}

func (r *fakeRepo) CreateStudent(stu Student) (Student, error) {
	stu.ID = stu.StudentID
	r.students[stu.ID] = stu
	return stu, nil
}

func (r *fakeRepo) QueryAllStudents() ([]Student, error) {
	var all []Student
	for _, stu := range r.students {
		all = append(all, stu)
	}
	return all, nil
}

func (r *fakeRepo) GetStudentByID(id string) (Student, error) {
	if stu, ok := r.students[id]; ok {
		return stu, nil
	}
	return Student{}, ErrNotFound
}

func (r *fakeRepo) GetStudentByStudentID(studentID string) (Student, error) {
	for _, stu := range r.students {
		if stu.StudentID == studentID {
			return stu, nil
		}
	}
	return Student{}, ErrNotFound
}

func (r *fakeRepo) UpdateStudent(stu Student) (Student, error) {
	if _, ok := r.students[stu.ID]; !ok {
		return Student{}, ErrNotFound
	}
	r.students[stu.ID] = stu
	return stu, nil
}

func (r *fakeRepo) ArchiveStudent(id string) error {
	stu, ok := r.students[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.students, id)
	r.archived = append(r.archived, stu)
	return nil
}

func (r *fakeRepo) QueryArchivedStudents() ([]Student, error) {
	return r.archived, nil
}

type fakeCatalog []string

func (c fakeCatalog) HasPaper(code string) (bool, error) {
	for _, p := range c {
		if p == code {
			return true, nil
		}
	}
	return false, nil
}

func TestRecordGradeRequiresEnrollment(t *testing.T) {
	repo := newFakeRepo(Student{ID: "1", StudentID: "S12345", EnrolledPapers: []string{"FR"}})
	svc := NewService(repo, fakeCatalog{"FR", "SBR"})

	entry := GradeEntry{Score: 70, ExamType: ExamTypeMock}

	if _, err := svc.RecordGrade("1", "SBR", entry); errors.Cause(err) == nil {
		t.Fatal("RecordGrade() on a paper outside the enrolment should fail")
	} else if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
		t.Fatalf("RecordGrade() error = %v, want ValidationError", err)
	}

	stu, err := svc.RecordGrade("1", "FR", entry)
	if err != nil {
		t.Fatalf("RecordGrade() failed: %v", err)
	}
	if len(stu.Grades["FR"]) != 1 {
		t.Errorf("RecordGrade() grades = %v, want 1 entry for FR", stu.Grades)
	}
	if stu.Grades["FR"][0].Date.IsZero() {
		t.Error("RecordGrade() should default the entry date")
	}
}

func TestRecordAttendanceRequiresEnrollment(t *testing.T) {
	repo := newFakeRepo(Student{ID: "1", StudentID: "S12345", EnrolledPapers: []string{"FR"}})
	svc := NewService(repo, fakeCatalog{"FR", "SBR"})

	if _, err := svc.RecordAttendance("1", "SBR", 80); err == nil {
		t.Fatal("RecordAttendance() on a paper outside the enrolment should fail")
	}
	if _, err := svc.RecordAttendance("1", "FR", 120); err == nil {
		t.Fatal("RecordAttendance() above 100 should fail")
	}

	stu, err := svc.RecordAttendance("1", "FR", 85)
	if err != nil {
		t.Fatalf("RecordAttendance() failed: %v", err)
	}
	if stu.Attendance["FR"] != 85 {
		t.Errorf("RecordAttendance() = %v, want 85", stu.Attendance["FR"])
	}
}

func TestEnroll(t *testing.T) {
	repo := newFakeRepo(Student{ID: "1", StudentID: "S12345", EnrolledPapers: []string{"FR"}})
	svc := NewService(repo, fakeCatalog{"FR", "SBR"})

	if _, err := svc.Enroll("1", "LOL"); err == nil {
		t.Fatal("Enroll() with an unknown paper code should fail")
	}

	stu, err := svc.Enroll("1", "SBR")
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}
	if len(stu.EnrolledPapers) != 2 {
		t.Fatalf("Enroll() papers = %v, want 2", stu.EnrolledPapers)
	}

	// enrolling twice is a no-op
	stu, err = svc.Enroll("1", "SBR")
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}
	if len(stu.EnrolledPapers) != 2 {
		t.Errorf("Enroll() papers = %v, want 2", stu.EnrolledPapers)
	}
}

func TestCreateChecksStudentIDUniqueness(t *testing.T) {
	repo := newFakeRepo(Student{ID: "1", StudentID: "S12345"})
	svc := NewService(repo, fakeCatalog{"FR"})

	_, err := svc.Create(NewStudent{StudentID: "S12345", Name: "Dup", Program: "ACCA"})
	if err == nil {
		t.Fatal("Create() with a taken student ID should fail")
	}
	if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
		t.Errorf("Create() error = %v, want ValidationError", err)
	}
}

func TestArchive(t *testing.T) {
	repo := newFakeRepo(Student{ID: "1", StudentID: "S12345"})
	svc := NewService(repo, fakeCatalog{})

	if err := svc.Archive("1"); err != nil {
		t.Fatalf("Archive() failed: %v", err)
	}
	if _, err := svc.GetByID("1"); errors.Cause(err) != ErrNotFound {
		t.Errorf("GetByID() after archive error = %v, want ErrNotFound", err)
	}
	archived, _ := svc.QueryArchived()
	if len(archived) != 1 {
		t.Errorf("QueryArchived() = %v, want 1 record", archived)
	}
}

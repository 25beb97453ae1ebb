package student

import (
	"time"

	"github.com/pkg/errors"

	"github.com/brightpath/academia/core"
)

var (
	// errors
	ErrNotFound        = errors.New("student not found")
	ErrStudentIDExists = errors.New("a student with this student ID already exists")
	ErrNotEnrolled     = errors.New("student is not enrolled in this paper")
	ErrUnknownPaper    = errors.New("unknown paper code")
)

type (
	Repository interface {
		CreateStudent(stu Student) (Student, error)
		QueryAllStudents() ([]Student, error)
		GetStudentByID(id string) (Student, error)
		GetStudentByStudentID(studentID string) (Student, error)
		UpdateStudent(stu Student) (Student, error)
		// ArchiveStudent moves the record to the archived collection.
		// Students are never deleted.
		ArchiveStudent(id string) error
		QueryArchivedStudents() ([]Student, error)
	}

	// PaperCatalog resolves paper codes against the course collection.
	PaperCatalog interface {
		HasPaper(code string) (bool, error)
	}

	Service struct {
		repo   Repository
		papers PaperCatalog
	}
)

func NewService(repo Repository, papers PaperCatalog) *Service {
	return &Service{repo: repo, papers: papers}
}

func (svc *Service) Create(ns NewStudent) (Student, error) {
	for _, code := range ns.EnrolledPapers {
		if err := svc.checkPaper(code); err != nil {
			return Student{}, err
		}
	}
	if _, err := svc.repo.GetStudentByStudentID(ns.StudentID); err == nil {
		return Student{}, core.NewValidationError(ErrStudentIDExists,
			core.FieldError{Field: "student_id", Error: ErrStudentIDExists.Error()})
	} else if errors.Cause(err) != ErrNotFound {
		return Student{}, err
	}

	now := time.Now().UTC()
	stu := Student{
		StudentID:      ns.StudentID,
		Name:           ns.Name,
		Email:          ns.Email,
		Phone:          ns.Phone,
		Program:        ns.Program,
		EnrolledPapers: ns.EnrolledPapers,
		Grades:         make(map[string][]GradeEntry),
		Attendance:     make(map[string]float64),
		TotalFee:       ns.TotalFee,
		Discount:       ns.Discount,
		DueDate:        ns.DueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateStudent(stu)
}

func (svc *Service) QueryAll() ([]Student, error) {
	return svc.repo.QueryAllStudents()
}

func (svc *Service) GetByID(id string) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

func (svc *Service) GetByStudentID(studentID string) (Student, error) {
	return svc.repo.GetStudentByStudentID(core.CleanString(studentID))
}

func (svc *Service) Update(id string, us UpdateStudent) (Student, error) {
	stu, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	if us.Name != "" {
		stu.Name = us.Name
	}
	if us.Email != "" {
		stu.Email = us.Email
	}
	if us.Phone != "" {
		stu.Phone = us.Phone
	}
	if us.Program != "" {
		stu.Program = us.Program
	}
	if us.TotalFee != nil {
		stu.TotalFee = *us.TotalFee
	}
	if us.Discount != nil {
		stu.Discount = *us.Discount
	}
	if us.DueDate != nil {
		stu.DueDate = *us.DueDate
	}
	stu.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(stu)
}

// Enroll adds a paper to the student's enrolment. No-op if already enrolled.
func (svc *Service) Enroll(id, paper string) (Student, error) {
	if err := svc.checkPaper(paper); err != nil {
		return Student{}, err
	}
	stu, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	if stu.IsEnrolledIn(paper) {
		return stu, nil
	}
	stu.EnrolledPapers = append(stu.EnrolledPapers, paper)
	stu.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(stu)
}

// RecordGrade appends a grade entry for an enrolled paper.
func (svc *Service) RecordGrade(id, paper string, entry GradeEntry) (Student, error) {
	if err := core.Validate.Struct(&entry); err != nil {
		return Student{}, err
	}
	stu, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	if !stu.IsEnrolledIn(paper) {
		return Student{}, core.NewValidationError(ErrNotEnrolled,
			core.FieldError{Field: "paper", Error: ErrNotEnrolled.Error()})
	}
	if stu.Grades == nil {
		stu.Grades = make(map[string][]GradeEntry)
	}
	if entry.Date.IsZero() {
		entry.Date = time.Now().UTC()
	}
	stu.Grades[paper] = append(stu.Grades[paper], entry)
	stu.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(stu)
}

// RecordAttendance sets the attendance percentage for an enrolled paper.
func (svc *Service) RecordAttendance(id, paper string, pct float64) (Student, error) {
	if pct < 0 || pct > 100 {
		return Student{}, core.NewValidationError(errors.New("attendance must be between 0 and 100"),
			core.FieldError{Field: "attendance", Error: "must be between 0 and 100"})
	}
	stu, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	if !stu.IsEnrolledIn(paper) {
		return Student{}, core.NewValidationError(ErrNotEnrolled,
			core.FieldError{Field: "paper", Error: ErrNotEnrolled.Error()})
	}
	if stu.Attendance == nil {
		stu.Attendance = make(map[string]float64)
	}
	stu.Attendance[paper] = pct
	stu.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(stu)
}

func (svc *Service) Archive(id string) error {
	return svc.repo.ArchiveStudent(id)
}

func (svc *Service) QueryArchived() ([]Student, error) {
	return svc.repo.QueryArchivedStudents()
}

func (svc *Service) checkPaper(code string) error {
	ok, err := svc.papers.HasPaper(code)
	if err != nil {
		return errors.Wrap(err, "resolving paper code")
	}
	if !ok {
		return core.NewValidationError(ErrUnknownPaper,
			core.FieldError{Field: "paper", Error: ErrUnknownPaper.Error()})
	}
	return nil
}

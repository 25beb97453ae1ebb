package course

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/brightpath/academia/core"
)

var (
	// errors
	ErrNotFound   = errors.New("course not found")
	ErrCodeExists = errors.New("a course with this code already exists")
)

type (
	Repository interface {
		CreateCourse(c Course) (Course, error)
		QueryAllCourses() ([]Course, error)
		GetCourseByCode(code string) (Course, error)
		UpdateCourse(c Course) (Course, error)

		AppendCalendarEvent(e CalendarEvent) (CalendarEvent, error)
		QueryCalendarEvents(audience string) ([]CalendarEvent, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nc NewCourse) (Course, error) {
	if _, err := svc.repo.GetCourseByCode(nc.Code); err == nil {
		return Course{}, core.NewValidationError(ErrCodeExists,
			core.FieldError{Field: "code", Error: ErrCodeExists.Error()})
	} else if errors.Cause(err) != ErrNotFound {
		return Course{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateCourse(Course{
		Code:      nc.Code,
		Title:     nc.Title,
		Program:   nc.Program,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) QueryAll() ([]Course, error) {
	return svc.repo.QueryAllCourses()
}

func (svc *Service) GetByCode(code string) (Course, error) {
	return svc.repo.GetCourseByCode(core.CleanString(code))
}

// HasPaper implements student.PaperCatalog.
func (svc *Service) HasPaper(code string) (bool, error) {
	if _, err := svc.repo.GetCourseByCode(code); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AssignFaculty records a faculty member as teaching the paper.
func (svc *Service) AssignFaculty(code, facultyID string) (Course, error) {
	c, err := svc.repo.GetCourseByCode(code)
	if err != nil {
		return Course{}, err
	}
	for _, id := range c.AssignedFaculty {
		if id == facultyID {
			return c, nil
		}
	}
	c.AssignedFaculty = append(c.AssignedFaculty, facultyID)
	c.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCourse(c)
}

func (svc *Service) AddCalendarEvent(ne NewCalendarEvent) (CalendarEvent, error) {
	return svc.repo.AppendCalendarEvent(CalendarEvent{
		ID:        uuid.NewString(),
		Title:     ne.Title,
		Date:      ne.Date,
		Audience:  ne.Audience,
		PaperCode: ne.PaperCode,
		CreatedAt: time.Now().UTC(),
	})
}

// CalendarEvents lists events visible to the given audience
// ("all" events are always included).
func (svc *Service) CalendarEvents(audience string) ([]CalendarEvent, error) {
	return svc.repo.QueryCalendarEvents(audience)
}

package kvrepos

import (
	"context"
	"sync"

	"github.com/brightpath/academia/core"
	"github.com/brightpath/academia/core/course"
	"github.com/brightpath/academia/storage/kv"
)

type courseRepository struct {
	mu     sync.RWMutex
	st     kv.Store
	logger core.Logger
	seed   []course.Course
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(st kv.Store, logger core.Logger, seed []course.Course) course.Repository {
	return &courseRepository{st: st, logger: logger, seed: seed}
}

func (repo *courseRepository) load() []course.Course {
	var courses []course.Course
	kv.LoadSlice(context.Background(), repo.st, repo.logger, keyCourses, &courses, repo.seed)
	return courses
}

func (repo *courseRepository) save(courses []course.Course) error {
	return kv.SaveSlice(context.Background(), repo.st, keyCourses, courses)
}

func (repo *courseRepository) CreateCourse(c course.Course) (course.Course, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	courses := append(repo.load(), c)
	if err := repo.save(courses); err != nil {
		return course.Course{}, err
	}
	return c, nil
}

func (repo *courseRepository) QueryAllCourses() ([]course.Course, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.load(), nil
}

func (repo *courseRepository) GetCourseByCode(code string) (course.Course, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, c := range repo.load() {
		if c.Code == code {
			return c, nil
		}
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) UpdateCourse(c course.Course) (course.Course, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	courses := repo.load()
	for i := range courses {
		if courses[i].Code == c.Code {
			courses[i] = c
			if err := repo.save(courses); err != nil {
				return course.Course{}, err
			}
			return c, nil
		}
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) AppendCalendarEvent(e course.CalendarEvent) (course.CalendarEvent, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var events []course.CalendarEvent
	kv.LoadSlice(context.Background(), repo.st, repo.logger, keyCalendarEvents, &events, nil)
	events = append(events, e)
	if err := kv.SaveSlice(context.Background(), repo.st, keyCalendarEvents, events); err != nil {
		return course.CalendarEvent{}, err
	}
	return e, nil
}

func (repo *courseRepository) QueryCalendarEvents(audience string) ([]course.CalendarEvent, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var events []course.CalendarEvent
	kv.LoadSlice(context.Background(), repo.st, repo.logger, keyCalendarEvents, &events, nil)
	if audience == "" || audience == "all" {
		return events, nil
	}
	var matches []course.CalendarEvent
	for _, e := range events {
		if e.Audience == "all" || e.Audience == audience {
			matches = append(matches, e)
		}
	}
	return matches, nil
}

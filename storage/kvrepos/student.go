package kvrepos

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/brightpath/academia/core"
	"github.com/brightpath/academia/core/student"
	"github.com/brightpath/academia/storage/kv"
)

type studentRepository struct {
	mu     sync.RWMutex
	st     kv.Store
	logger core.Logger
	seed   []student.Student
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(st kv.Store, logger core.Logger, seed []student.Student) student.Repository {
	return &studentRepository{st: st, logger: logger, seed: seed}
}

func (repo *studentRepository) load() []student.Student {
	var students []student.Student
	kv.LoadSlice(context.Background(), repo.st, repo.logger, keyStudents, &students, repo.seed)
	return students
}

func (repo *studentRepository) save(students []student.Student) error {
	return kv.SaveSlice(context.Background(), repo.st, keyStudents, students)
}

func (repo *studentRepository) CreateStudent(stu student.Student) (student.Student, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stu.ID = uuid.NewString()
	students := append(repo.load(), stu)
	if err := repo.save(students); err != nil {
		return student.Student{}, err
	}
	return stu, nil
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.load(), nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, stu := range repo.load() {
		if stu.ID == id {
			return stu, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByStudentID(studentID string) (student.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, stu := range repo.load() {
		if stu.StudentID == studentID {
			return stu, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(stu student.Student) (student.Student, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	students := repo.load()
	for i := range students {
		if students[i].ID == stu.ID {
			students[i] = stu
			if err := repo.save(students); err != nil {
				return student.Student{}, err
			}
			return stu, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

// ArchiveStudent moves the record into the archived collection; students
// are never deleted.
func (repo *studentRepository) ArchiveStudent(id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	students := repo.load()
	for i, stu := range students {
		if stu.ID != id {
			continue
		}
		var archived []student.Student
		kv.LoadSlice(context.Background(), repo.st, repo.logger, keyArchivedStudents, &archived, nil)
		archived = append(archived, stu)
		if err := kv.SaveSlice(context.Background(), repo.st, keyArchivedStudents, archived); err != nil {
			return err
		}
		return repo.save(append(students[:i], students[i+1:]...))
	}
	return student.ErrNotFound
}

func (repo *studentRepository) QueryArchivedStudents() ([]student.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var archived []student.Student
	kv.LoadSlice(context.Background(), repo.st, repo.logger, keyArchivedStudents, &archived, nil)
	return archived, nil
}

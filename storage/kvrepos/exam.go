package kvrepos

import (
	"context"
	"sync"

	"github.com/brightpath/academia/core"
	"github.com/brightpath/academia/core/exam"
	"github.com/brightpath/academia/storage/kv"
)

type examRepository struct {
	mu     sync.RWMutex
	st     kv.Store
	logger core.Logger
	seed   []exam.MockTest
}

var _ exam.Repository = (*examRepository)(nil)

func NewExamRepository(st kv.Store, logger core.Logger, seed []exam.MockTest) exam.Repository {
	return &examRepository{st: st, logger: logger, seed: seed}
}

func (repo *examRepository) loadTests() []exam.MockTest {
	var tests []exam.MockTest
	kv.LoadSlice(context.Background(), repo.st, repo.logger, keyMockTests, &tests, repo.seed)
	return tests
}

func (repo *examRepository) saveTests(tests []exam.MockTest) error {
	return kv.SaveSlice(context.Background(), repo.st, keyMockTests, tests)
}

func (repo *examRepository) loadSubmissions() []exam.Submission {
	var subs []exam.Submission
	kv.LoadSlice(context.Background(), repo.st, repo.logger, keySubmissions, &subs, nil)
	return subs
}

func (repo *examRepository) saveSubmissions(subs []exam.Submission) error {
	return kv.SaveSlice(context.Background(), repo.st, keySubmissions, subs)
}

func (repo *examRepository) CreateTest(t exam.MockTest) (exam.MockTest, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	tests := append(repo.loadTests(), t)
	if err := repo.saveTests(tests); err != nil {
		return exam.MockTest{}, err
	}
	return t, nil
}

func (repo *examRepository) QueryAllTests() ([]exam.MockTest, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.loadTests(), nil
}

func (repo *examRepository) QueryTestsByPaper(paperCode string) ([]exam.MockTest, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var matches []exam.MockTest
	for _, t := range repo.loadTests() {
		if t.PaperCode == paperCode {
			matches = append(matches, t)
		}
	}
	return matches, nil
}

func (repo *examRepository) GetTestByID(id string) (exam.MockTest, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, t := range repo.loadTests() {
		if t.ID == id {
			return t, nil
		}
	}
	return exam.MockTest{}, exam.ErrTestNotFound
}

func (repo *examRepository) UpdateTest(t exam.MockTest) (exam.MockTest, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	tests := repo.loadTests()
	for i := range tests {
		if tests[i].ID == t.ID {
			tests[i] = t
			if err := repo.saveTests(tests); err != nil {
				return exam.MockTest{}, err
			}
			return t, nil
		}
	}
	return exam.MockTest{}, exam.ErrTestNotFound
}

func (repo *examRepository) CreateSubmission(sub exam.Submission) (exam.Submission, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	subs := append(repo.loadSubmissions(), sub)
	if err := repo.saveSubmissions(subs); err != nil {
		return exam.Submission{}, err
	}
	return sub, nil
}

func (repo *examRepository) QuerySubmissionsByStudent(studentID string) ([]exam.Submission, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var matches []exam.Submission
	for _, sub := range repo.loadSubmissions() {
		if sub.StudentID == studentID {
			matches = append(matches, sub)
		}
	}
	return matches, nil
}

func (repo *examRepository) GetSubmissionByID(id string) (exam.Submission, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, sub := range repo.loadSubmissions() {
		if sub.ID == id {
			return sub, nil
		}
	}
	return exam.Submission{}, exam.ErrSubmissionNotFound
}

func (repo *examRepository) GetInProgressSubmission(studentID, testID string) (exam.Submission, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, sub := range repo.loadSubmissions() {
		if sub.StudentID == studentID && sub.TestID == testID && sub.Status == exam.SubmissionInProgress {
			return sub, nil
		}
	}
	return exam.Submission{}, exam.ErrSubmissionNotFound
}

func (repo *examRepository) UpdateSubmission(sub exam.Submission) (exam.Submission, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	subs := repo.loadSubmissions()
	for i := range subs {
		if subs[i].ID == sub.ID {
			subs[i] = sub
			if err := repo.saveSubmissions(subs); err != nil {
				return exam.Submission{}, err
			}
			return sub, nil
		}
	}
	return exam.Submission{}, exam.ErrSubmissionNotFound
}

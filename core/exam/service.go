package exam

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/brightpath/academia/core"
)

var (
	// errors
	ErrTestNotFound       = errors.New("test not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrTestLocked         = errors.New("test has been locked by an administrator")
	ErrCompleted          = errors.New("submission has already been completed")
	ErrSessionNotFound    = errors.New("no test session found; return to the test list and start again")
)

type (
	Repository interface {
		CreateTest(t MockTest) (MockTest, error)
		QueryAllTests() ([]MockTest, error)
		QueryTestsByPaper(paperCode string) ([]MockTest, error)
		GetTestByID(id string) (MockTest, error)
		UpdateTest(t MockTest) (MockTest, error)

		CreateSubmission(sub Submission) (Submission, error)
		QuerySubmissionsByStudent(studentID string) ([]Submission, error)
		GetSubmissionByID(id string) (Submission, error)
		// GetInProgressSubmission returns the single in_progress attempt for
		// the (student, test) pair, or ErrSubmissionNotFound.
		GetInProgressSubmission(studentID, testID string) (Submission, error)
		UpdateSubmission(sub Submission) (Submission, error)
	}

	Service struct {
		repo   Repository
		logger core.Logger

		mu       sync.Mutex
		handoff  map[string]string                  // one-shot slot: student ID -> submission ID
		watchers map[string]map[chan struct{}]bool // test ID -> lock watchers
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{
		repo:     repo,
		logger:   logger,
		handoff:  make(map[string]string),
		watchers: make(map[string]map[chan struct{}]bool),
	}
}

func (svc *Service) CreateTest(nt NewMockTest) (MockTest, error) {
	now := time.Now().UTC()
	t := MockTest{
		ID:              uuid.NewString(),
		PaperCode:       nt.PaperCode,
		Title:           nt.Title,
		DurationMinutes: nt.DurationMinutes,
		Questions:       nt.Questions,
		ScheduledFor:    nt.ScheduledFor,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for i := range t.Questions {
		if t.Questions[i].ID == "" {
			t.Questions[i].ID = uuid.NewString()
		}
	}
	return svc.repo.CreateTest(t)
}

func (svc *Service) QueryTests() ([]MockTest, error) {
	return svc.repo.QueryAllTests()
}

func (svc *Service) QueryTestsByPaper(paperCode string) ([]MockTest, error) {
	return svc.repo.QueryTestsByPaper(paperCode)
}

func (svc *Service) GetTest(id string) (MockTest, error) {
	return svc.repo.GetTestByID(id)
}

// SetLocked flips the admin kill-switch. Locking wakes every live session
// watching the test so it can force-submit.
func (svc *Service) SetLocked(testID string, locked bool) (MockTest, error) {
	t, err := svc.repo.GetTestByID(testID)
	if err != nil {
		return MockTest{}, err
	}
	if t.IsLocked == locked {
		return t, nil
	}
	t.IsLocked = locked
	t.UpdatedAt = time.Now().UTC()
	t, err = svc.repo.UpdateTest(t)
	if err != nil {
		return MockTest{}, err
	}
	if locked {
		svc.notifyLocked(testID)
	}
	return t, nil
}

// Start begins (or resumes) the student's attempt. An existing in_progress
// submission is returned as-is so a reload never spawns a second attempt.
// The submission is placed in the one-shot handoff slot for OpenSession.
func (svc *Service) Start(studentID, testID string) (Submission, error) {
	t, err := svc.repo.GetTestByID(testID)
	if err != nil {
		return Submission{}, err
	}
	if t.IsLocked {
		return Submission{}, core.NewValidationError(ErrTestLocked)
	}

	sub, err := svc.repo.GetInProgressSubmission(studentID, testID)
	if err != nil {
		if errors.Cause(err) != ErrSubmissionNotFound {
			return Submission{}, err
		}
		sub, err = svc.repo.CreateSubmission(Submission{
			ID:        uuid.NewString(),
			TestID:    testID,
			StudentID: studentID,
			Status:    SubmissionInProgress,
			Answers:   make(map[string]string),
			StartedAt: time.Now().UTC(),
		})
		if err != nil {
			return Submission{}, err
		}
	}

	svc.mu.Lock()
	svc.handoff[studentID] = sub.ID
	svc.mu.Unlock()
	return sub, nil
}

// OpenSession binds a proctored session to the student's attempt: the
// one-shot handoff slot first (fresh navigation), then a scan for the
// in_progress record (reload recovery). Neither yields ErrSessionNotFound,
// the only user-facing error path here.
func (svc *Service) OpenSession(studentID, testID string) (*Session, error) {
	var sub Submission
	var err error

	svc.mu.Lock()
	subID, ok := svc.handoff[studentID]
	if ok {
		delete(svc.handoff, studentID) // one-shot
	}
	svc.mu.Unlock()

	if ok {
		sub, err = svc.repo.GetSubmissionByID(subID)
		if err != nil {
			ok = false
		}
	}
	if !ok {
		sub, err = svc.repo.GetInProgressSubmission(studentID, testID)
		if err != nil {
			return nil, errors.Wrap(ErrSessionNotFound, err.Error())
		}
	}
	if sub.TestID != testID || sub.Status != SubmissionInProgress {
		return nil, ErrSessionNotFound
	}

	t, err := svc.repo.GetTestByID(sub.TestID)
	if err != nil {
		return nil, errors.Wrap(ErrSessionNotFound, err.Error())
	}
	return newSession(svc, t, sub), nil
}

func (svc *Service) QuerySubmissionsByStudent(studentID string) ([]Submission, error) {
	return svc.repo.QuerySubmissionsByStudent(studentID)
}

func (svc *Service) GetSubmission(id string) (Submission, error) {
	return svc.repo.GetSubmissionByID(id)
}

// SaveAnswers merges the answer set into the submission without changing
// its status. Completed submissions are immutable.
func (svc *Service) SaveAnswers(subID string, answers map[string]string) (Submission, error) {
	sub, err := svc.repo.GetSubmissionByID(subID)
	if err != nil {
		return Submission{}, err
	}
	if sub.Status == SubmissionCompleted {
		return sub, ErrCompleted
	}
	if sub.Answers == nil {
		sub.Answers = make(map[string]string)
	}
	for q, a := range answers {
		sub.Answers[q] = a
	}
	sub.LastSavedAt = time.Now().UTC()
	return svc.repo.UpdateSubmission(sub)
}

// Finish transitions the submission to completed with the given reason.
// Idempotent: a second call (a stale timer, a late visibility event) returns
// the already-completed submission unchanged.
func (svc *Service) Finish(subID, reason string, answers map[string]string) (Submission, error) {
	sub, err := svc.repo.GetSubmissionByID(subID)
	if err != nil {
		return Submission{}, err
	}
	if sub.Status == SubmissionCompleted {
		return sub, nil
	}
	if sub.Answers == nil {
		sub.Answers = make(map[string]string)
	}
	for q, a := range answers {
		sub.Answers[q] = a
	}
	now := time.Now().UTC()
	sub.Status = SubmissionCompleted
	sub.CompletedAt = now
	sub.LastSavedAt = now
	sub.FinishReason = reason
	return svc.repo.UpdateSubmission(sub)
}

// watchLock registers a lock watcher for the test. The returned channel is
// closed when an admin locks the test; cancel unregisters.
func (svc *Service) watchLock(testID string) (<-chan struct{}, func()) {
	ch := make(chan struct{})

	svc.mu.Lock()
	ws, ok := svc.watchers[testID]
	if !ok {
		ws = make(map[chan struct{}]bool)
		svc.watchers[testID] = ws
	}
	ws[ch] = true
	svc.mu.Unlock()

	cancel := func() {
		svc.mu.Lock()
		if ws, ok := svc.watchers[testID]; ok {
			delete(ws, ch)
			if len(ws) == 0 {
				delete(svc.watchers, testID)
			}
		}
		svc.mu.Unlock()
	}
	return ch, cancel
}

func (svc *Service) notifyLocked(testID string) {
	svc.mu.Lock()
	ws := svc.watchers[testID]
	delete(svc.watchers, testID)
	svc.mu.Unlock()
	for ch := range ws {
		close(ch)
	}
}

package exam

import (
	"context"
	"sync"
	"time"

	"github.com/brightpath/academia/core"
)

// SessionState is the lifecycle of a proctored session.
// InProgress -> Completed is the only transition and it happens exactly once.
type SessionState int32

const (
	StateLoading SessionState = iota
	StateInProgress
	StateCompleted
)

// Signal is an integrity/control event fed to the session by the transport
// layer on behalf of the client.
type Signal int

const (
	SignalManualSubmit Signal = iota
	SignalVisibilityHidden
	SignalFocusLost
)

// Session drives one student's timed attempt: countdown, auto-save,
// integrity signals and the admin lock, racing to a single finalization.
type Session struct {
	svc  *Service
	test MockTest

	mu      sync.Mutex
	sub     Submission
	answers map[string]string // pending answers, flushed by auto-save
	state   SessionState
	reason  string

	finishOnce sync.Once
	done       chan struct{} // closed exactly once, on completion
	signals    chan Signal

	nowFunc func() time.Time // mockable
}

func newSession(svc *Service, t MockTest, sub Submission) *Session {
	return &Session{
		svc:     svc,
		test:    t,
		sub:     sub,
		answers: make(map[string]string),
		state:   StateInProgress,
		done:    make(chan struct{}),
		signals: make(chan Signal, 8),
		nowFunc: time.Now,
	}
}

func (s *Session) Test() MockTest { return s.test }

func (s *Session) Submission() Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sub
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reason returns the recorded finish reason, empty while in progress.
func (s *Session) Reason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// Done is closed exactly once when the session completes; the transport
// layer uses it to route the student to the review page a single time.
func (s *Session) Done() <-chan struct{} { return s.done }

// TimeLeft is always recomputed from the persisted start time so a paused
// or delayed ticker can never drift the countdown.
func (s *Session) TimeLeft(now time.Time) time.Duration {
	deadline := s.sub.StartedAt.Add(s.test.Duration())
	if left := deadline.Sub(now); left > 0 {
		return left
	}
	return 0
}

// SetAnswer records an answer locally; it reaches storage on the next
// auto-save or on finalization.
func (s *Session) SetAnswer(questionID, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return
	}
	s.answers[questionID] = answer
}

// Send feeds a client signal into the running session. Non-blocking; a
// signal arriving after completion is dropped, which is fine because the
// finish latch already fired.
func (s *Session) Send(sig Signal) {
	select {
	case s.signals <- sig:
	default:
	}
}

// Run blocks until the session finalizes or ctx is cancelled (the client
// went away: flush answers, keep the attempt in progress for recovery).
func (s *Session) Run(ctx context.Context) {
	tick := time.NewTicker(core.Conf.Exam.TickInterval)
	defer tick.Stop()
	save := time.NewTicker(core.Conf.Exam.AutoSaveInterval)
	defer save.Stop()
	lockCh, cancelWatch := s.svc.watchLock(s.test.ID)
	defer cancelWatch()

	// the test may have run out while the student was away
	if s.TimeLeft(s.nowFunc()) <= 0 {
		s.finish(FinishTimeout)
		return
	}

	for {
		select {
		case <-ctx.Done():
			s.autoSave()
			return
		case <-s.done:
			return
		case <-tick.C:
			if s.TimeLeft(s.nowFunc()) <= 0 {
				s.finish(FinishTimeout)
			}
		case <-save.C:
			s.autoSave()
		case sig := <-s.signals:
			switch sig {
			case SignalManualSubmit:
				s.finish(FinishManual)
			case SignalVisibilityHidden, SignalFocusLost:
				s.finish(FinishViolation)
			}
		case <-lockCh:
			s.finish(FinishLocked)
		}
	}
}

// autoSave flushes pending answers without touching the status.
func (s *Session) autoSave() {
	s.mu.Lock()
	if s.state != StateInProgress || len(s.answers) == 0 {
		s.mu.Unlock()
		return
	}
	pending := s.answers
	s.answers = make(map[string]string)
	s.mu.Unlock()

	sub, err := s.svc.SaveAnswers(s.sub.ID, pending)
	if err != nil {
		s.svc.logger.Error("exam: auto-saving answers", err)
		return
	}
	s.mu.Lock()
	if s.state == StateInProgress {
		s.sub = sub
	}
	s.mu.Unlock()
}

// finish finalizes the attempt. Multiple triggers (timeout tick, a late
// visibility event, the lock watcher) race here; the latch guarantees a
// single status transition and a single close of Done.
func (s *Session) finish(reason string) {
	s.finishOnce.Do(func() {
		s.mu.Lock()
		pending := s.answers
		s.answers = make(map[string]string)
		s.mu.Unlock()

		sub, err := s.svc.Finish(s.sub.ID, reason, pending)
		if err != nil {
			// the attempt still ends for the student; the record stays
			// in progress and is recoverable from the submissions scan
			s.svc.logger.Error("exam: finalizing submission", err)
		}

		s.mu.Lock()
		if err == nil {
			s.sub = sub
		}
		s.state = StateCompleted
		s.reason = reason
		s.mu.Unlock()

		close(s.done)
	})
}

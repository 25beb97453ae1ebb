package exam

import (
	"context"
	"testing"
	"time"

	"github.com/brightpath/academia/core"
)

func fastTicks(t *testing.T) {
	t.Helper()
	origTick := core.Conf.Exam.TickInterval
	origSave := core.Conf.Exam.AutoSaveInterval
	core.Conf.Exam.TickInterval = 5 * time.Millisecond
	core.Conf.Exam.AutoSaveInterval = 10 * time.Millisecond
	t.Cleanup(func() {
		core.Conf.Exam.TickInterval = origTick
		core.Conf.Exam.AutoSaveInterval = origSave
	})
}

func openSession(t *testing.T, svc *Service, mt MockTest, studentID string) *Session {
	t.Helper()
	if _, err := svc.Start(studentID, mt.ID); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	sess, err := svc.OpenSession(studentID, mt.ID)
	if err != nil {
		t.Fatalf("OpenSession() failed: %v", err)
	}
	return sess
}

func waitDone(t *testing.T, sess *Session) {
	t.Helper()
	select {
	case <-sess.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not finish in time")
	}
}

func TestSessionTimeLeftIsDriftFree(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	mt := seedTest(t, repo, false, 30)
	sess := openSession(t, svc, mt, "S12345")

	start := sess.Submission().StartedAt
	if got := sess.TimeLeft(start.Add(10 * time.Minute)); got != 20*time.Minute {
		t.Errorf("TimeLeft() = %v, want 20m", got)
	}
	// recomputed from the persisted start, not decremented
	if got := sess.TimeLeft(start.Add(10 * time.Minute)); got != 20*time.Minute {
		t.Errorf("TimeLeft() second read = %v, want 20m", got)
	}
	if got := sess.TimeLeft(start.Add(31 * time.Minute)); got != 0 {
		t.Errorf("TimeLeft() past deadline = %v, want 0", got)
	}
}

func TestSessionManualSubmit(t *testing.T) {
	fastTicks(t)
	repo := newMemRepo()
	svc := newTestService(repo)
	mt := seedTest(t, repo, false, 30)
	sess := openSession(t, svc, mt, "S12345")

	go sess.Run(context.Background())

	sess.SetAnswer("q1", "a")
	sess.Send(SignalManualSubmit)
	waitDone(t, sess)

	if sess.State() != StateCompleted {
		t.Errorf("State() = %v, want StateCompleted", sess.State())
	}
	if sess.Reason() != FinishManual {
		t.Errorf("Reason() = %s, want %s", sess.Reason(), FinishManual)
	}
	sub := sess.Submission()
	if sub.Status != SubmissionCompleted {
		t.Errorf("Status = %s, want %s", sub.Status, SubmissionCompleted)
	}
	if sub.Answers["q1"] != "a" {
		t.Errorf("pending answer lost: %v", sub.Answers)
	}
}

func TestSessionIntegrityViolation(t *testing.T) {
	fastTicks(t)
	repo := newMemRepo()
	svc := newTestService(repo)
	mt := seedTest(t, repo, false, 30)
	sess := openSession(t, svc, mt, "S12345")

	go sess.Run(context.Background())

	sess.Send(SignalVisibilityHidden)
	waitDone(t, sess)

	if sess.Reason() != FinishViolation {
		t.Errorf("Reason() = %s, want %s", sess.Reason(), FinishViolation)
	}
}

func TestSessionTimesOutWhileAway(t *testing.T) {
	fastTicks(t)
	repo := newMemRepo()
	svc := newTestService(repo)
	mt := seedTest(t, repo, false, 30)
	sess := openSession(t, svc, mt, "S12345")

	// the attempt started longer ago than the test duration
	repo.mu.Lock()
	sub := repo.subs[sess.Submission().ID]
	sub.StartedAt = time.Now().UTC().Add(-time.Duration(mt.DurationMinutes+1) * time.Minute)
	repo.subs[sub.ID] = sub
	repo.mu.Unlock()
	sess.mu.Lock()
	sess.sub.StartedAt = sub.StartedAt
	sess.mu.Unlock()

	go sess.Run(context.Background())
	waitDone(t, sess)

	if sess.Reason() != FinishTimeout {
		t.Errorf("Reason() = %s, want %s", sess.Reason(), FinishTimeout)
	}
}

func TestSessionForceSubmitOnAdminLock(t *testing.T) {
	fastTicks(t)
	repo := newMemRepo()
	svc := newTestService(repo)
	mt := seedTest(t, repo, false, 30)
	sess := openSession(t, svc, mt, "S12345")

	go sess.Run(context.Background())

	if _, err := svc.SetLocked(mt.ID, true); err != nil {
		t.Fatalf("SetLocked() failed: %v", err)
	}
	waitDone(t, sess)

	if sess.Reason() != FinishLocked {
		t.Errorf("Reason() = %s, want %s", sess.Reason(), FinishLocked)
	}
}

func TestSessionRacingTriggersFinishOnce(t *testing.T) {
	fastTicks(t)
	repo := newMemRepo()
	svc := newTestService(repo)
	mt := seedTest(t, repo, false, 30)
	sess := openSession(t, svc, mt, "S12345")

	go sess.Run(context.Background())

	// several triggers race; the latch picks exactly one
	sess.Send(SignalManualSubmit)
	sess.Send(SignalVisibilityHidden)
	go svc.SetLocked(mt.ID, true)
	waitDone(t, sess)

	reason := sess.Reason()
	if reason == "" {
		t.Fatal("no finish reason recorded")
	}
	sub, err := svc.GetSubmission(sess.Submission().ID)
	if err != nil {
		t.Fatalf("GetSubmission() failed: %v", err)
	}
	if sub.FinishReason != reason {
		t.Errorf("stored reason %s != session reason %s", sub.FinishReason, reason)
	}
	// Done() is already closed; a second receive must not block
	<-sess.Done()
	<-sess.Done()
}

func TestSessionAutoSaveKeepsStatus(t *testing.T) {
	fastTicks(t)
	repo := newMemRepo()
	svc := newTestService(repo)
	mt := seedTest(t, repo, false, 30)
	sess := openSession(t, svc, mt, "S12345")

	ctx, cancel := context.WithCancel(context.Background())
	go sess.Run(ctx)

	sess.SetAnswer("q1", "a")

	deadline := time.Now().Add(2 * time.Second)
	for {
		sub, err := svc.GetSubmission(sess.Submission().ID)
		if err != nil {
			t.Fatalf("GetSubmission() failed: %v", err)
		}
		if sub.Answers["q1"] == "a" {
			if sub.Status != SubmissionInProgress {
				t.Errorf("auto-save changed status to %s", sub.Status)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("auto-save never flushed the answer")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel() // client went away; the attempt stays recoverable
	time.Sleep(20 * time.Millisecond)
	sub, _ := svc.GetSubmission(sess.Submission().ID)
	if sub.Status != SubmissionInProgress {
		t.Errorf("status after disconnect = %s, want %s", sub.Status, SubmissionInProgress)
	}
}

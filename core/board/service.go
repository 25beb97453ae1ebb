package board

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/brightpath/academia/core"
)

var (
	// errors
	ErrQuestionNotFound = errors.New("question not found")
	ErrAnswered         = errors.New("question has already been answered")
)

type (
	Repository interface {
		AppendAnnouncement(a Announcement) (Announcement, error)
		QueryAnnouncements(audience string) ([]Announcement, error)

		AppendNotification(n Notification) (Notification, error)
		QueryNotificationsByUser(userID string) ([]Notification, error)

		AppendChatMessage(m ChatMessage) (ChatMessage, error)
		QueryChatMessagesByPaper(paperCode string) ([]ChatMessage, error)

		AppendTeacherQuestion(q TeacherQuestion) (TeacherQuestion, error)
		QueryTeacherQuestionsByPaper(paperCode string) ([]TeacherQuestion, error)
		GetTeacherQuestionByID(id string) (TeacherQuestion, error)
		UpdateTeacherQuestion(q TeacherQuestion) (TeacherQuestion, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Announce(na NewAnnouncement, postedBy string) (Announcement, error) {
	return svc.repo.AppendAnnouncement(Announcement{
		ID:       uuid.NewString(),
		Title:    na.Title,
		Body:     na.Body,
		Audience: na.Audience,
		PostedBy: postedBy,
		PostedAt: time.Now().UTC(),
	})
}

// Announcements lists notices for an audience; "all" notices are always included.
func (svc *Service) Announcements(audience string) ([]Announcement, error) {
	return svc.repo.QueryAnnouncements(audience)
}

func (svc *Service) Notify(userID, body string) (Notification, error) {
	return svc.repo.AppendNotification(Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	})
}

func (svc *Service) Notifications(userID string) ([]Notification, error) {
	return svc.repo.QueryNotificationsByUser(userID)
}

func (svc *Service) PostChatMessage(nm NewChatMessage, authorID, author string) (ChatMessage, error) {
	return svc.repo.AppendChatMessage(ChatMessage{
		ID:        uuid.NewString(),
		PaperCode: nm.PaperCode,
		AuthorID:  authorID,
		Author:    author,
		Body:      nm.Body,
		SentAt:    time.Now().UTC(),
	})
}

func (svc *Service) ChatMessages(paperCode string) ([]ChatMessage, error) {
	return svc.repo.QueryChatMessagesByPaper(paperCode)
}

func (svc *Service) AskQuestion(nq NewTeacherQuestion, studentID string) (TeacherQuestion, error) {
	return svc.repo.AppendTeacherQuestion(TeacherQuestion{
		ID:        uuid.NewString(),
		PaperCode: nq.PaperCode,
		StudentID: studentID,
		Question:  nq.Question,
		AskedAt:   time.Now().UTC(),
	})
}

func (svc *Service) QuestionsByPaper(paperCode string) ([]TeacherQuestion, error) {
	return svc.repo.QueryTeacherQuestionsByPaper(paperCode)
}

// AnswerQuestion records a faculty answer. Answered questions are final.
func (svc *Service) AnswerQuestion(id, answer, facultyID string) (TeacherQuestion, error) {
	q, err := svc.repo.GetTeacherQuestionByID(id)
	if err != nil {
		return TeacherQuestion{}, err
	}
	if q.Answer != "" {
		return TeacherQuestion{}, core.NewValidationError(ErrAnswered)
	}
	q.Answer = core.CleanString(answer)
	q.AnsweredBy = facultyID
	q.AnsweredAt = time.Now().UTC()
	return svc.repo.UpdateTeacherQuestion(q)
}

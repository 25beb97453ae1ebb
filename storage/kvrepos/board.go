package kvrepos

import (
	"context"
	"sync"

	"github.com/brightpath/academia/core"
	"github.com/brightpath/academia/core/board"
	"github.com/brightpath/academia/storage/kv"
)

type boardRepository struct {
	mu     sync.RWMutex
	st     kv.Store
	logger core.Logger
}

var _ board.Repository = (*boardRepository)(nil)

func NewBoardRepository(st kv.Store, logger core.Logger) board.Repository {
	return &boardRepository{st: st, logger: logger}
}

func (repo *boardRepository) AppendAnnouncement(a board.Announcement) (board.Announcement, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var items []board.Announcement
	kv.LoadSlice(context.Background(), repo.st, repo.logger, keyAnnouncements, &items, nil)
	items = append(items, a)
	if err := kv.SaveSlice(context.Background(), repo.st, keyAnnouncements, items); err != nil {
		return board.Announcement{}, err
	}
	return a, nil
}

func (repo *boardRepository) QueryAnnouncements(audience string) ([]board.Announcement, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var items []board.Announcement
	kv.LoadSlice(context.Background(), repo.st, repo.logger, keyAnnouncements, &items, nil)
	if audience == "" || audience == board.AudienceAll {
		return items, nil
	}
	var matches []board.Announcement
	for _, a := range items {
		if a.Audience == board.AudienceAll || a.Audience == audience {
			matches = append(matches, a)
		}
	}
	return matches, nil
}

func (repo *boardRepository) AppendNotification(n board.Notification) (board.Notification, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var items []board.Notification
	kv.LoadSlice(context.Background(), repo.st, repo.logger, keyNotifications, &items, nil)
	items = append(items, n)
	if err := kv.SaveSlice(context.Background(), repo.st, keyNotifications, items); err != nil {
		return board.Notification{}, err
	}
	return n, nil
}

func (repo *boardRepository) QueryNotificationsByUser(userID string) ([]board.Notification, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var items []board.Notification
	kv.LoadSlice(context.Background(), repo.st, repo.logger, keyNotifications, &items, nil)
	var matches []board.Notification
	for _, n := range items {
		if n.UserID == userID {
			matches = append(matches, n)
		}
	}
	return matches, nil
}

func (repo *boardRepository) AppendChatMessage(m board.ChatMessage) (board.ChatMessage, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var items []board.ChatMessage
	kv.LoadSlice(context.Background(), repo.st, repo.logger, keyChatMessages, &items, nil)
	items = append(items, m)
	if err := kv.SaveSlice(context.Background(), repo.st, keyChatMessages, items); err != nil {
		return board.ChatMessage{}, err
	}
	return m, nil
}

func (repo *boardRepository) QueryChatMessagesByPaper(paperCode string) ([]board.ChatMessage, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var items []board.ChatMessage
	kv.LoadSlice(context.Background(), repo.st, repo.logger, keyChatMessages, &items, nil)
	var matches []board.ChatMessage
	for _, m := range items {
		if m.PaperCode == paperCode {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

func (repo *boardRepository) AppendTeacherQuestion(q board.TeacherQuestion) (board.TeacherQuestion, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var items []board.TeacherQuestion
	kv.LoadSlice(context.Background(), repo.st, repo.logger, keyTeacherQuestions, &items, nil)
	items = append(items, q)
	if err := kv.SaveSlice(context.Background(), repo.st, keyTeacherQuestions, items); err != nil {
		return board.TeacherQuestion{}, err
	}
	return q, nil
}

func (repo *boardRepository) QueryTeacherQuestionsByPaper(paperCode string) ([]board.TeacherQuestion, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var items []board.TeacherQuestion
	kv.LoadSlice(context.Background(), repo.st, repo.logger, keyTeacherQuestions, &items, nil)
	var matches []board.TeacherQuestion
	for _, q := range items {
		if q.PaperCode == paperCode {
			matches = append(matches, q)
		}
	}
	return matches, nil
}

func (repo *boardRepository) GetTeacherQuestionByID(id string) (board.TeacherQuestion, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var items []board.TeacherQuestion
	kv.LoadSlice(context.Background(), repo.st, repo.logger, keyTeacherQuestions, &items, nil)
	for _, q := range items {
		if q.ID == id {
			return q, nil
		}
	}
	return board.TeacherQuestion{}, board.ErrQuestionNotFound
}

func (repo *boardRepository) UpdateTeacherQuestion(q board.TeacherQuestion) (board.TeacherQuestion, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var items []board.TeacherQuestion
	kv.LoadSlice(context.Background(), repo.st, repo.logger, keyTeacherQuestions, &items, nil)
	for i := range items {
		if items[i].ID == q.ID {
			items[i] = q
			if err := kv.SaveSlice(context.Background(), repo.st, keyTeacherQuestions, items); err != nil {
				return board.TeacherQuestion{}, err
			}
			return q, nil
		}
	}
	return board.TeacherQuestion{}, board.ErrQuestionNotFound
}

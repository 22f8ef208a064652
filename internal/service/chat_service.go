package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quizline/realtime-service/internal/domain"
)

type StatusStore interface {
	FindRoom(ctx context.Context, roomID string) (*domain.Room, error)
}

var (
	ErrEmptyText   = errors.New("empty message")
	ErrTextTooLong = errors.New("message too long")
)

// ChatService проверяет сообщение перед рассылкой: комната должна быть
// открыта для чата по данным внешнего стора. Ошибка стора — это отказ
// (fail-closed), решение о молчаливом дропе принимает вызывающий.
type ChatService struct {
	status     StatusStore
	maxTextLen int
}

func NewChatService(status StatusStore, maxTextLen int) *ChatService {
	if maxTextLen <= 0 {
		maxTextLen = 2000
	}
	return &ChatService{status: status, maxTextLen: maxTextLen}
}

// Validate нормализует сообщение и сверяет статус комнаты.
// Успешный выход означает «можно рассылать»; SentAt проставляется здесь.
func (s *ChatService) Validate(ctx context.Context, m *domain.ChatMessage) error {
	m.Text = strings.TrimSpace(m.Text)
	if m.Text == "" {
		return ErrEmptyText
	}
	if len(m.Text) > s.maxTextLen {
		return fmt.Errorf("%w: %d > %d", ErrTextTooLong, len(m.Text), s.maxTextLen)
	}

	room, err := s.status.FindRoom(ctx, m.RoomID)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			return domain.ErrRoomNotFound
		}
		return fmt.Errorf("find room %q: %w", m.RoomID, err)
	}
	if !room.Status.IsOpen() {
		return domain.ErrRoomClosed
	}

	if m.SentAt.IsZero() {
		m.SentAt = time.Now()
	}
	return nil
}

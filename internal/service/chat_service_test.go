package service

import (
	"context"
	"strings"
	"testing"

	"github.com/quizline/realtime-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStatusStore struct {
	rooms map[string]domain.RoomStatus
	err   error
}

func (s *memStatusStore) FindRoom(_ context.Context, roomID string) (*domain.Room, error) {
	if s.err != nil {
		return nil, s.err
	}
	st, ok := s.rooms[roomID]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return &domain.Room{ID: roomID, Status: st}, nil
}

func TestChatService_OpenStatuses(t *testing.T) {
	store := &memStatusStore{rooms: map[string]domain.RoomStatus{
		"created": domain.StatusCreated,
		"live":    domain.StatusLive,
	}}
	svc := NewChatService(store, 0)

	for _, room := range []string{"created", "live"} {
		m := domain.ChatMessage{RoomID: room, Sender: "alice", Text: "  hi  "}
		require.NoError(t, svc.Validate(context.Background(), &m), "room %s", room)
		assert.Equal(t, "hi", m.Text, "text is trimmed")
		assert.False(t, m.SentAt.IsZero(), "timestamp stamped server-side")
	}
}

func TestChatService_ClosedStatuses(t *testing.T) {
	store := &memStatusStore{rooms: map[string]domain.RoomStatus{
		"finished": domain.StatusFinished,
		"closed":   domain.StatusClosed,
	}}
	svc := NewChatService(store, 0)

	for _, room := range []string{"finished", "closed"} {
		m := domain.ChatMessage{RoomID: room, Sender: "alice", Text: "hi"}
		assert.ErrorIs(t, svc.Validate(context.Background(), &m), domain.ErrRoomClosed, "room %s", room)
	}
}

func TestChatService_UnknownRoom(t *testing.T) {
	svc := NewChatService(&memStatusStore{rooms: map[string]domain.RoomStatus{}}, 0)

	m := domain.ChatMessage{RoomID: "nope", Sender: "alice", Text: "hi"}
	assert.ErrorIs(t, svc.Validate(context.Background(), &m), domain.ErrRoomNotFound)
}

func TestChatService_StoreErrorPropagates(t *testing.T) {
	svc := NewChatService(&memStatusStore{err: assert.AnError}, 0)

	m := domain.ChatMessage{RoomID: "R", Sender: "alice", Text: "hi"}
	assert.ErrorIs(t, svc.Validate(context.Background(), &m), assert.AnError)
}

func TestChatService_EmptyText(t *testing.T) {
	store := &memStatusStore{rooms: map[string]domain.RoomStatus{"R": domain.StatusLive}}
	svc := NewChatService(store, 0)

	m := domain.ChatMessage{RoomID: "R", Sender: "alice", Text: "   "}
	assert.ErrorIs(t, svc.Validate(context.Background(), &m), ErrEmptyText)
}

func TestChatService_TextTooLong(t *testing.T) {
	store := &memStatusStore{rooms: map[string]domain.RoomStatus{"R": domain.StatusLive}}
	svc := NewChatService(store, 10)

	m := domain.ChatMessage{RoomID: "R", Sender: "alice", Text: strings.Repeat("x", 11)}
	assert.ErrorIs(t, svc.Validate(context.Background(), &m), ErrTextTooLong)
}

package service

import (
	"sync"

	"github.com/quizline/realtime-service/internal/domain"
)

type roomState struct {
	progress domain.Progress
	total    int // 0 — количество вопросов неизвестно
}

// GameService держит прогрессию каждой комнаты на сервере и
// арбитрирует команды ведущего: дубликаты и устаревшие номера
// вопросов отбрасываются вместо слепой ретрансляции.
type GameService struct {
	mu    sync.Mutex
	rooms map[string]*roomState
}

func NewGameService() *GameService {
	return &GameService{rooms: make(map[string]*roomState)}
}

// Seed регистрирует комнату с известным числом вопросов.
// Повторный вызов для живой комнаты total не сбрасывает прогресс.
// Состояние заводит только Seed: команды прогрессии для
// незарегистрированных комнат записей не создают.
func (s *GameService) Seed(roomID string, questionCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[roomID]
	if !ok {
		st = &roomState{progress: domain.Progress{Phase: domain.PhaseShowing}}
		s.rooms[roomID] = st
	}
	if questionCount > 0 {
		st.total = questionCount
	}
}

// Advance — reveal ответа на вопрос q: showing -> waiting.
// Повторный advance в той же фазе — no-op (ErrAlreadyRevealed),
// q меньше текущего — устаревшая команда.
func (s *GameService) Advance(roomID string, q int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[roomID]
	if !ok {
		return domain.ErrRoomNotFound
	}
	switch st.progress.Phase {
	case domain.PhaseDone:
		return domain.ErrGameOver
	case domain.PhaseWaiting:
		return domain.ErrAlreadyRevealed
	}
	if q < st.progress.Question {
		return domain.ErrStaleQuestion
	}

	st.progress.Question = q
	st.progress.Phase = domain.PhaseWaiting
	return nil
}

// Skip — переход к следующему вопросу: waiting -> showing для q+1,
// либо done, когда вопросы исчерпаны.
func (s *GameService) Skip(roomID string, q int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[roomID]
	if !ok {
		return domain.ErrRoomNotFound
	}
	switch st.progress.Phase {
	case domain.PhaseDone:
		return domain.ErrGameOver
	case domain.PhaseShowing:
		return domain.ErrNotRevealed
	}
	if q < st.progress.Question {
		return domain.ErrStaleQuestion
	}

	st.progress.Question = q + 1
	if st.total > 0 && st.progress.Question >= st.total {
		st.progress.Phase = domain.PhaseDone
	} else {
		st.progress.Phase = domain.PhaseShowing
	}
	return nil
}

func (s *GameService) Progress(roomID string) (domain.Progress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[roomID]
	if !ok {
		return domain.Progress{}, false
	}
	return st.progress, true
}

// Forget чистит состояние опустевшей комнаты.
func (s *GameService) Forget(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rooms, roomID)
}

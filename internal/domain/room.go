package domain

import "time"

// RoomStatus — жизненный цикл комнаты; владеет им внешний game API,
// мы только читаем.
type RoomStatus string

const (
	StatusCreated  RoomStatus = "created"
	StatusLive     RoomStatus = "live"
	StatusFinished RoomStatus = "finished"
	StatusClosed   RoomStatus = "closed"
)

// IsOpen сообщает, принимает ли комната сообщения чата.
func (s RoomStatus) IsOpen() bool {
	return s == StatusCreated || s == StatusLive
}

type Room struct {
	ID            string     `db:"id"`
	Status        RoomStatus `db:"status"`
	QuestionCount int        `db:"question_count"`
	CreatedAt     time.Time  `db:"created_at"`
}

package domain

import "time"

// ChatMessage живёт только в памяти процесса: слой ретрансляции
// ничего не персистит.
type ChatMessage struct {
	RoomID string
	Sender string
	Text   string
	Kind   string
	SentAt time.Time
}

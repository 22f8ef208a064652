package ws

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// Входящие события
const (
	EventJoinRoom     = "join_room"
	EventSendMessage  = "send_message"
	EventTyping       = "typing"
	EventNextQuestion = "next_question"
	EventSkipQuestion = "skip_to_next_question"
)

// Исходящие события
const (
	EventUsersResponse        = "users_response"
	EventReceiveMessage       = "receive_message"
	EventTypingResponse       = "typing_response"
	EventNextQuestionResponse = "next_question_response"
	EventSkipQuestionResponse = "skip_to_next_question_response"
	EventErrorResponse        = "error_response" // только для кривых payload-ов
)

type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type JoinPayload struct {
	RoomID   string `json:"roomId" validate:"required"`
	PlayerID string `json:"playerId" validate:"required"`
}

type ChatPayload struct {
	RoomID string `json:"roomId" validate:"required"`
	Sender string `json:"sender" validate:"required"`
	Text   string `json:"text" validate:"required"`
	Kind   string `json:"type,omitempty"`
	TSUnix int64  `json:"tsUnix,omitempty"`
}

type TypingPayload struct {
	RoomID        string `json:"roomId" validate:"required"`
	TypingMessage string `json:"typingMessage" validate:"required"`
}

type ProgressionPayload struct {
	RoomID  string `json:"roomId" validate:"required"`
	QNumber int    `json:"qNumber" validate:"min=0"`
}

type QuestionPayload struct {
	QNumber int `json:"qNumber"`
}

type SnapshotPayload struct {
	Rooms map[string][]string `json:"rooms"`
}

type ErrorPayload struct {
	Reason string `json:"reason"`
}

var validate = validator.New()

// decode — payload конверта в типизированную структуру + валидация тегов.
func decode(payload any, dst any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return err
	}

	return validate.Struct(dst)
}

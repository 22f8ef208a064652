package domain

import "errors"

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomClosed   = errors.New("room is not open for messaging")

	ErrAlreadyRevealed = errors.New("answer already revealed")
	ErrNotRevealed     = errors.New("answer not revealed yet")
	ErrStaleQuestion   = errors.New("stale question number")
	ErrGameOver        = errors.New("no questions left")
)

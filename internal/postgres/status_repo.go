package postgres

import (
	"context"
	"errors"

	"github.com/quizline/realtime-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RoomStatusRepository читает комнаты внешнего game API.
// Таблицей владеет он: здесь только SELECT.
type RoomStatusRepository struct {
	db *pgxpool.Pool
}

func NewRoomStatusRepository(db *pgxpool.Pool) *RoomStatusRepository {
	return &RoomStatusRepository{db: db}
}

func (r *RoomStatusRepository) FindRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	query := `SELECT id, status, question_count, created_at FROM game_rooms WHERE id=$1`

	var rm domain.Room
	err := r.db.QueryRow(ctx, query, roomID).
		Scan(&rm.ID, &rm.Status, &rm.QuestionCount, &rm.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

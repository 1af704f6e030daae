package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oceanview/resort-reservation-system/internal/domain"
)

type PostgresRoomRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRoomRepository(db *pgxpool.Pool) *PostgresRoomRepository {
	return &PostgresRoomRepository{
		db: db,
	}
}

func (p *PostgresRoomRepository) GetById(ctx context.Context, id int) (*domain.Room, error) {
	query := `
		SELECT id, room_number, room_type, floor, capacity, price_per_night,
			description, status, created_at, updated_at
		FROM rooms
		WHERE id = $1
	`

	var room domain.Room

	err := p.db.QueryRow(ctx, query, id).Scan(
		&room.ID,
		&room.RoomNumber,
		&room.RoomType,
		&room.Floor,
		&room.Capacity,
		&room.PricePerNight,
		&room.Description,
		&room.Status,
		&room.CreatedAt,
		&room.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &room, nil
}

func (p *PostgresRoomRepository) GetAll(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Room, *domain.Metadata, error) {

	query := `
		SELECT COUNT(*) OVER(), id, room_number, room_type, floor, capacity,
			price_per_night, description, status, created_at, updated_at
		FROM rooms
		ORDER BY room_number
		LIMIT $1 OFFSET $2
	`

	rows, err := p.db.Query(ctx, query, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	rooms := make([]domain.Room, 0)
	totalRecords := 0

	for rows.Next() {
		var room domain.Room

		err := rows.Scan(
			&totalRecords,
			&room.ID,
			&room.RoomNumber,
			&room.RoomType,
			&room.Floor,
			&room.Capacity,
			&room.PricePerNight,
			&room.Description,
			&room.Status,
			&room.CreatedAt,
			&room.UpdatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		rooms = append(rooms, room)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return rooms, metadata, nil
}

func (p *PostgresRoomRepository) UpdateStatus(ctx context.Context, id int, status domain.RoomStatus) error {
	query := `UPDATE rooms SET status = $1, updated_at = NOW() WHERE id = $2`

	tag, err := p.db.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

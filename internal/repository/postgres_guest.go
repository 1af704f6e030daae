package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oceanview/resort-reservation-system/internal/domain"
)

type PostgresGuestRepository struct {
	db *pgxpool.Pool
}

func NewPostgresGuestRepository(db *pgxpool.Pool) *PostgresGuestRepository {
	return &PostgresGuestRepository{
		db: db,
	}
}

func (p *PostgresGuestRepository) Create(ctx context.Context, guest *domain.Guest) error {
	query := `
		INSERT INTO guests (user_id, address, city, country, postal_code, id_type, id_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	return p.db.QueryRow(
		ctx,
		query,
		guest.UserID,
		guest.Address,
		guest.City,
		guest.Country,
		guest.PostalCode,
		guest.IDType,
		guest.IDNumber,
	).Scan(&guest.ID, &guest.CreatedAt)
}

func (p *PostgresGuestRepository) GetById(ctx context.Context, id int) (*domain.Guest, error) {
	query := `
		SELECT id, user_id, address, city, country, postal_code, id_type, id_number, created_at
		FROM guests
		WHERE id = $1
	`

	return p.queryOne(ctx, query, id)
}

func (p *PostgresGuestRepository) GetByUserId(ctx context.Context, userId int) (*domain.Guest, error) {
	query := `
		SELECT id, user_id, address, city, country, postal_code, id_type, id_number, created_at
		FROM guests
		WHERE user_id = $1
	`

	return p.queryOne(ctx, query, userId)
}

func (p *PostgresGuestRepository) queryOne(ctx context.Context, query string, args ...any) (*domain.Guest, error) {
	var guest domain.Guest

	err := p.db.QueryRow(ctx, query, args...).Scan(
		&guest.ID,
		&guest.UserID,
		&guest.Address,
		&guest.City,
		&guest.Country,
		&guest.PostalCode,
		&guest.IDType,
		&guest.IDNumber,
		&guest.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &guest, nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oceanview/resort-reservation-system/internal/domain"
)

const reservationColumns = `
	id, reservation_number, guest_id, room_id, check_in_date, check_out_date,
	number_of_guests, total_amount, discount_amount, tax_amount,
	service_charge_amount, final_amount, status, special_requests,
	created_at, updated_at, version
`

type PostgresReservationRepository struct {
	db *pgxpool.Pool
}

func NewPostgresReservationRepository(db *pgxpool.Pool) *PostgresReservationRepository {
	return &PostgresReservationRepository{
		db: db,
	}
}

func (p *PostgresReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		INSERT INTO reservations (
			reservation_number, guest_id, room_id, check_in_date, check_out_date,
			number_of_guests, total_amount, discount_amount, tax_amount,
			service_charge_amount, final_amount, status, special_requests
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at, version
	`

	return p.db.QueryRow(
		ctx,
		query,
		reservation.ReservationNumber,
		reservation.GuestID,
		reservation.RoomID,
		reservation.CheckInDate,
		reservation.CheckOutDate,
		reservation.NumberOfGuests,
		reservation.TotalAmount,
		reservation.DiscountAmount,
		reservation.TaxAmount,
		reservation.ServiceChargeAmount,
		reservation.FinalAmount,
		reservation.Status,
		reservation.SpecialRequests,
	).Scan(&reservation.ID, &reservation.CreatedAt, &reservation.UpdatedAt, &reservation.Version)
}

func (p *PostgresReservationRepository) GetById(ctx context.Context, id int) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	return p.queryOne(ctx, query, id)
}

func (p *PostgresReservationRepository) GetByNumber(ctx context.Context, number string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE reservation_number = $1`

	return p.queryOne(ctx, query, number)
}

func (p *PostgresReservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		UPDATE reservations
		SET guest_id = $1, room_id = $2, check_in_date = $3, check_out_date = $4,
			number_of_guests = $5, total_amount = $6, discount_amount = $7,
			tax_amount = $8, service_charge_amount = $9, final_amount = $10,
			status = $11, special_requests = $12, updated_at = NOW(), version = version + 1
		WHERE id = $13 AND version = $14
		RETURNING updated_at, version
	`

	err := p.db.QueryRow(
		ctx,
		query,
		reservation.GuestID,
		reservation.RoomID,
		reservation.CheckInDate,
		reservation.CheckOutDate,
		reservation.NumberOfGuests,
		reservation.TotalAmount,
		reservation.DiscountAmount,
		reservation.TaxAmount,
		reservation.ServiceChargeAmount,
		reservation.FinalAmount,
		reservation.Status,
		reservation.SpecialRequests,
		reservation.ID,
		reservation.Version,
	).Scan(&reservation.UpdatedAt, &reservation.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEditConflict
		}

		return err
	}

	return nil
}

// Transition serializes concurrent status changes on the same reservation:
// the row is locked for the duration of the transaction, so the guard
// inside fn always sees the current state.
func (p *PostgresReservationRepository) Transition(
	ctx context.Context,
	id int,
	fn func(*domain.Reservation) error) (*domain.Reservation, error) {

	var reservation *domain.Reservation

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`

		row := tx.QueryRow(ctx, query, id)

		r, err := scanReservation(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		err = fn(r)
		if err != nil {
			return err
		}

		query = `
			UPDATE reservations
			SET status = $1, updated_at = NOW(), version = version + 1
			WHERE id = $2
			RETURNING updated_at, version
		`

		err = tx.QueryRow(ctx, query, r.Status, r.ID).Scan(&r.UpdatedAt, &r.Version)
		if err != nil {
			return err
		}

		reservation = r

		return nil
	})

	if err != nil {
		return nil, err
	}

	return reservation, nil
}

func (p *PostgresReservationRepository) GetByGuestId(
	ctx context.Context,
	guestId int,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	query := `
		SELECT COUNT(*) OVER(), ` + reservationColumns + `
		FROM reservations
		WHERE guest_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return p.queryPage(ctx, pagination, query, guestId, pagination.Limit(), pagination.Offset())
}

func (p *PostgresReservationRepository) GetByRoomId(ctx context.Context, roomId int) ([]domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE room_id = $1
		ORDER BY check_in_date DESC
	`

	return p.queryMany(ctx, query, roomId)
}

func (p *PostgresReservationRepository) GetAll(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	query := `
		SELECT COUNT(*) OVER(), ` + reservationColumns + `
		FROM reservations
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	return p.queryPage(ctx, pagination, query, pagination.Limit(), pagination.Offset())
}

func (p *PostgresReservationRepository) GetActive(ctx context.Context) ([]domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE status IN ('CONFIRMED', 'CHECKED_IN')
		ORDER BY check_in_date
	`

	return p.queryMany(ctx, query)
}

func (p *PostgresReservationRepository) GetArrivalsByDate(
	ctx context.Context,
	date time.Time) ([]domain.Reservation, error) {

	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE status = 'CONFIRMED' AND check_in_date = $1
		ORDER BY check_in_date
	`

	return p.queryMany(ctx, query, date)
}

func (p *PostgresReservationRepository) GetDeparturesByDate(
	ctx context.Context,
	date time.Time) ([]domain.Reservation, error) {

	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE status = 'CHECKED_IN' AND check_out_date = $1
		ORDER BY check_out_date
	`

	return p.queryMany(ctx, query, date)
}

func (p *PostgresReservationRepository) queryOne(
	ctx context.Context,
	query string,
	args ...any) (*domain.Reservation, error) {

	row := p.db.QueryRow(ctx, query, args...)

	reservation, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return reservation, nil
}

func (p *PostgresReservationRepository) queryMany(
	ctx context.Context,
	query string,
	args ...any) ([]domain.Reservation, error) {

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)

	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}

		reservations = append(reservations, *reservation)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return reservations, nil
}

func (p *PostgresReservationRepository) queryPage(
	ctx context.Context,
	pagination domain.Pagination,
	query string,
	args ...any) ([]domain.Reservation, *domain.Metadata, error) {

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	totalRecords := 0

	for rows.Next() {
		var reservation domain.Reservation

		err := rows.Scan(
			&totalRecords,
			&reservation.ID,
			&reservation.ReservationNumber,
			&reservation.GuestID,
			&reservation.RoomID,
			&reservation.CheckInDate,
			&reservation.CheckOutDate,
			&reservation.NumberOfGuests,
			&reservation.TotalAmount,
			&reservation.DiscountAmount,
			&reservation.TaxAmount,
			&reservation.ServiceChargeAmount,
			&reservation.FinalAmount,
			&reservation.Status,
			&reservation.SpecialRequests,
			&reservation.CreatedAt,
			&reservation.UpdatedAt,
			&reservation.Version,
		)
		if err != nil {
			return nil, nil, err
		}

		reservations = append(reservations, reservation)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return reservations, metadata, nil
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var reservation domain.Reservation

	err := row.Scan(
		&reservation.ID,
		&reservation.ReservationNumber,
		&reservation.GuestID,
		&reservation.RoomID,
		&reservation.CheckInDate,
		&reservation.CheckOutDate,
		&reservation.NumberOfGuests,
		&reservation.TotalAmount,
		&reservation.DiscountAmount,
		&reservation.TaxAmount,
		&reservation.ServiceChargeAmount,
		&reservation.FinalAmount,
		&reservation.Status,
		&reservation.SpecialRequests,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
		&reservation.Version,
	)

	if err != nil {
		return nil, err
	}

	return &reservation, nil
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}

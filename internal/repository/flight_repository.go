package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flytau/internal/model"
	apperrors "flytau/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	FindByID(ctx context.Context, id int) (*model.Flight, error)
	Search(ctx context.Context, origin, destination string, departureDate *time.Time) ([]*model.Flight, error)
	FindRoute(ctx context.Context, id int) (*model.Route, error)
	FindAircraft(ctx context.Context, id int) (*model.Aircraft, error)
	ListSeatTemplates(ctx context.Context, aircraftID int) ([]*model.Seat, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, flight *model.Flight) (*model.Flight, error)
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Flight, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.FlightStatus, updatedAt time.Time) error
}

type FlightRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewFlightRepository(pool *pgxpool.Pool) FlightRepository {
	return &FlightRepositoryImpl{
		pool: pool,
	}
}

const flightSelectColumns = `
	f.id, f.aircraft_id, f.route_id, f.departure_at, f.status, f.created_at, f.updated_at,
	r.id, r.origin_airport, r.dest_airport, r.duration_minutes,
	a.id, a.manufacturer, a.model, a.size
`

func scanFlight(row pgx.Row) (*model.Flight, error) {
	var flight model.Flight
	var route model.Route
	var aircraft model.Aircraft

	err := row.Scan(
		&flight.ID,
		&flight.AircraftID,
		&flight.RouteID,
		&flight.DepartureAt,
		&flight.Status,
		&flight.CreatedAt,
		&flight.UpdatedAt,
		&route.ID,
		&route.OriginAirport,
		&route.DestAirport,
		&route.DurationMinutes,
		&aircraft.ID,
		&aircraft.Manufacturer,
		&aircraft.Model,
		&aircraft.Size,
	)
	if err != nil {
		return nil, err
	}

	flight.Route = &route
	flight.Aircraft = &aircraft
	return &flight, nil
}

// Create 需在交易內執行，與庫存槽位的生成同交易提交
func (r *FlightRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, flight *model.Flight) (*model.Flight, error) {
	query := `
		INSERT INTO flights (aircraft_id, route_id, departure_at, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, aircraft_id, route_id, departure_at, status, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		flight.AircraftID, flight.RouteID, flight.DepartureAt, flight.Status,
	).Scan(
		&flight.ID,
		&flight.AircraftID,
		&flight.RouteID,
		&flight.DepartureAt,
		&flight.Status,
		&flight.CreatedAt,
		&flight.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create flight: %w", err)
	}

	return flight, nil
}

func (r *FlightRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Flight, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM flights f
		JOIN routes   r ON r.id = f.route_id
		JOIN aircraft a ON a.id = f.aircraft_id
		WHERE f.id = $1
	`, flightSelectColumns)

	flight, err := scanFlight(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFlightNotFound
		}
		return nil, err
	}

	return flight, nil
}

// FindByIDWithLock 鎖定 flights 列供同交易內的狀態轉換使用
func (r *FlightRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Flight, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM flights f
		JOIN routes   r ON r.id = f.route_id
		JOIN aircraft a ON a.id = f.aircraft_id
		WHERE f.id = $1
		FOR UPDATE OF f
	`, flightSelectColumns)

	flight, err := scanFlight(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFlightNotFound
		}
		return nil, err
	}

	return flight, nil
}

func (r *FlightRepositoryImpl) Search(ctx context.Context, origin, destination string, departureDate *time.Time) ([]*model.Flight, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM flights f
		JOIN routes   r ON r.id = f.route_id
		JOIN aircraft a ON a.id = f.aircraft_id
		WHERE f.status IN ('active', 'fully_occupied')
		  AND ($1 = '' OR r.origin_airport = $1)
		  AND ($2 = '' OR r.dest_airport = $2)
		  AND ($3::date IS NULL OR f.departure_at::date = $3::date)
		ORDER BY f.departure_at
	`, flightSelectColumns)

	rows, err := r.pool.Query(ctx, query, origin, destination, departureDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]*model.Flight, 0)
	for rows.Next() {
		flight, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, flight)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return flights, nil
}

func (r *FlightRepositoryImpl) FindRoute(ctx context.Context, id int) (*model.Route, error) {
	query := `
		SELECT id, origin_airport, dest_airport, duration_minutes
		FROM routes
		WHERE id = $1
	`

	var route model.Route
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&route.ID,
		&route.OriginAirport,
		&route.DestAirport,
		&route.DurationMinutes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidInput
		}
		return nil, err
	}

	return &route, nil
}

func (r *FlightRepositoryImpl) FindAircraft(ctx context.Context, id int) (*model.Aircraft, error) {
	query := `
		SELECT id, manufacturer, model, size
		FROM aircraft
		WHERE id = $1
	`

	var aircraft model.Aircraft
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&aircraft.ID,
		&aircraft.Manufacturer,
		&aircraft.Model,
		&aircraft.Size,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidInput
		}
		return nil, err
	}

	return &aircraft, nil
}

func (r *FlightRepositoryImpl) ListSeatTemplates(ctx context.Context, aircraftID int) ([]*model.Seat, error) {
	query := `
		SELECT id, aircraft_id, row_num, col_num, class
		FROM seats
		WHERE aircraft_id = $1
		ORDER BY row_num, col_num
	`

	rows, err := r.pool.Query(ctx, query, aircraftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]*model.Seat, 0)
	for rows.Next() {
		var seat model.Seat
		err := rows.Scan(
			&seat.ID,
			&seat.AircraftID,
			&seat.RowNum,
			&seat.ColNum,
			&seat.Class,
		)
		if err != nil {
			return nil, err
		}
		seats = append(seats, &seat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (r *FlightRepositoryImpl) UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.FlightStatus, updatedAt time.Time) error {
	query := `
		UPDATE flights
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := tx.Exec(ctx, query, status, updatedAt, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrFlightNotFound
	}

	return nil
}

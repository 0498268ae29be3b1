package repository

import (
	"context"
	"fmt"

	"flytau/internal/model"
	apperrors "flytau/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeatRepository 庫存槽位存取層。Sold/Available 的轉換一律使用條件式 UPDATE，
// 以資料庫的原子寫入做為唯一的序列化點。
type SeatRepository interface {
	ListByFlight(ctx context.Context, flightID int) ([]*model.FlightSeat, error)
	ListAvailableByFlight(ctx context.Context, flightID int) ([]*model.FlightSeat, error)
	CountAvailable(ctx context.Context, flightID int) (int, error)

	// Transaction methods
	CreateForFlight(ctx context.Context, tx pgx.Tx, flightID int, seatID int, price float64) error
	FindByIDs(ctx context.Context, tx pgx.Tx, flightID int, seatIDs []int) ([]*model.FlightSeat, error)
	MarkSold(ctx context.Context, tx pgx.Tx, flightID int, seatIDs []int) error
	Release(ctx context.Context, tx pgx.Tx, flightID int, seatIDs []int) error
	SetStatusForOrder(ctx context.Context, tx pgx.Tx, orderID int, status model.SeatStatus) error
	SetSlotStatus(ctx context.Context, tx pgx.Tx, flightID int, slotID int, status model.SeatStatus) error
	CountAvailableTx(ctx context.Context, tx pgx.Tx, flightID int) (int, error)
	UpdateClassPrice(ctx context.Context, tx pgx.Tx, flightID int, class model.SeatClass, price float64) error
}

type SeatRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewSeatRepository(pool *pgxpool.Pool) SeatRepository {
	return &SeatRepositoryImpl{
		pool: pool,
	}
}

const flightSeatSelectColumns = `
	fs.id, fs.flight_id, fs.seat_id, fs.price, fs.status,
	s.row_num, s.col_num, s.class
`

func scanFlightSeats(rows pgx.Rows) ([]*model.FlightSeat, error) {
	defer rows.Close()

	seats := make([]*model.FlightSeat, 0)
	for rows.Next() {
		var seat model.FlightSeat
		err := rows.Scan(
			&seat.ID,
			&seat.FlightID,
			&seat.SeatID,
			&seat.Price,
			&seat.Status,
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

func (r *SeatRepositoryImpl) ListByFlight(ctx context.Context, flightID int) ([]*model.FlightSeat, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM flight_seats fs
		JOIN seats s ON s.id = fs.seat_id
		WHERE fs.flight_id = $1
		ORDER BY s.row_num, s.col_num
	`, flightSeatSelectColumns)

	rows, err := r.pool.Query(ctx, query, flightID)
	if err != nil {
		return nil, err
	}

	return scanFlightSeats(rows)
}

func (r *SeatRepositoryImpl) ListAvailableByFlight(ctx context.Context, flightID int) ([]*model.FlightSeat, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM flight_seats fs
		JOIN seats s ON s.id = fs.seat_id
		WHERE fs.flight_id = $1
		  AND fs.status = 'available'
		ORDER BY s.row_num, s.col_num
	`, flightSeatSelectColumns)

	rows, err := r.pool.Query(ctx, query, flightID)
	if err != nil {
		return nil, err
	}

	return scanFlightSeats(rows)
}

func (r *SeatRepositoryImpl) CountAvailable(ctx context.Context, flightID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM flight_seats
		WHERE flight_id = $1 AND status = 'available'
	`

	var count int
	err := r.pool.QueryRow(ctx, query, flightID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *SeatRepositoryImpl) CreateForFlight(ctx context.Context, tx pgx.Tx, flightID int, seatID int, price float64) error {
	query := `
		INSERT INTO flight_seats (flight_id, seat_id, price, status)
		VALUES ($1, $2, $3, 'available')
	`

	_, err := tx.Exec(ctx, query, flightID, seatID, price)
	if err != nil {
		return fmt.Errorf("failed to create flight seat: %w", err)
	}

	return nil
}

// FindByIDs 以 FOR UPDATE 鎖定槽位列，供 hold 前的檢查使用
func (r *SeatRepositoryImpl) FindByIDs(ctx context.Context, tx pgx.Tx, flightID int, seatIDs []int) ([]*model.FlightSeat, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM flight_seats fs
		JOIN seats s ON s.id = fs.seat_id
		WHERE fs.flight_id = $1
		  AND fs.id = ANY($2)
		ORDER BY fs.id
		FOR UPDATE OF fs
	`, flightSeatSelectColumns)

	rows, err := tx.Query(ctx, query, flightID, seatIDs)
	if err != nil {
		return nil, err
	}

	return scanFlightSeats(rows)
}

// MarkSold 將整批槽位 Available→Sold。條件式 UPDATE 保證同一槽位只有一個交易成功；
// 受影響列數不等於批次大小時整批視為失敗，交易回滾後不留任何部分狀態。
func (r *SeatRepositoryImpl) MarkSold(ctx context.Context, tx pgx.Tx, flightID int, seatIDs []int) error {
	query := `
		UPDATE flight_seats
		SET status = 'sold'
		WHERE flight_id = $1
		  AND id = ANY($2)
		  AND status = 'available'
	`

	result, err := tx.Exec(ctx, query, flightID, seatIDs)
	if err != nil {
		return err
	}

	if result.RowsAffected() != int64(len(seatIDs)) {
		return apperrors.ErrSeatUnavailable
	}

	return nil
}

// Release Sold→Available；座位已是 Available 時為冪等 no-op，Blocked 不受影響
func (r *SeatRepositoryImpl) Release(ctx context.Context, tx pgx.Tx, flightID int, seatIDs []int) error {
	query := `
		UPDATE flight_seats
		SET status = 'available'
		WHERE flight_id = $1
		  AND id = ANY($2)
		  AND status = 'sold'
	`

	_, err := tx.Exec(ctx, query, flightID, seatIDs)
	return err
}

// SetStatusForOrder 依訂單的機票批次設定槽位狀態（系統取消時轉 Blocked）
func (r *SeatRepositoryImpl) SetStatusForOrder(ctx context.Context, tx pgx.Tx, orderID int, status model.SeatStatus) error {
	query := `
		UPDATE flight_seats fs
		SET status = $1
		FROM tickets t
		WHERE t.flight_seat_id = fs.id
		  AND t.order_id = $2
		  AND fs.status = 'sold'
	`

	_, err := tx.Exec(ctx, query, status, orderID)
	return err
}

// SetSlotStatus 管理者手動切換單一槽位 Available↔Blocked；Sold 槽位不可觸碰，
// 條件式 UPDATE 沒改到任何列即視為槽位不存在或已售出
func (r *SeatRepositoryImpl) SetSlotStatus(ctx context.Context, tx pgx.Tx, flightID int, slotID int, status model.SeatStatus) error {
	query := `
		UPDATE flight_seats
		SET status = $1
		WHERE flight_id = $2
		  AND id = $3
		  AND status IN ('available', 'blocked')
	`

	result, err := tx.Exec(ctx, query, status, flightID, slotID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrSeatUnavailable
	}

	return nil
}

func (r *SeatRepositoryImpl) CountAvailableTx(ctx context.Context, tx pgx.Tx, flightID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM flight_seats
		WHERE flight_id = $1 AND status = 'available'
	`

	var count int
	err := tx.QueryRow(ctx, query, flightID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// UpdateClassPrice 批次更新艙等價格；只影響 Available/Blocked 槽位，已售價格為歷史快照
func (r *SeatRepositoryImpl) UpdateClassPrice(ctx context.Context, tx pgx.Tx, flightID int, class model.SeatClass, price float64) error {
	query := `
		UPDATE flight_seats fs
		SET price = $1
		FROM seats s
		WHERE s.id = fs.seat_id
		  AND fs.flight_id = $2
		  AND s.class = $3
		  AND fs.status IN ('available', 'blocked')
	`

	_, err := tx.Exec(ctx, query, price, flightID, class)
	return err
}

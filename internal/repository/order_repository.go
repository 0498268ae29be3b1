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

type OrderRepository interface {
	FindByCode(ctx context.Context, code string) (*model.Order, error)
	ListByCustomer(ctx context.Context, email string, status *model.OrderStatus) ([]*model.Order, error)
	ListTickets(ctx context.Context, orderID int) ([]*model.Ticket, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) (*model.Order, error)
	InsertTicket(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) error
	FindByCodeWithLock(ctx context.Context, tx pgx.Tx, code string) (*model.Order, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.OrderStatus, cancelledAt *time.Time) error
	ListActiveByFlight(ctx context.Context, tx pgx.Tx, flightID int) ([]*model.Order, error)
	TotalPaid(ctx context.Context, tx pgx.Tx, orderID int) (float64, error)
	SeatIDsForOrder(ctx context.Context, tx pgx.Tx, orderID int) ([]int, error)
	NextOrderCode(ctx context.Context, tx pgx.Tx) (string, error)
}

type OrderRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &OrderRepositoryImpl{
		pool: pool,
	}
}

const orderSelectColumns = `
	id, code, customer_email, customer_type, flight_id, status, created_at, cancelled_at
`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var order model.Order
	err := row.Scan(
		&order.ID,
		&order.Code,
		&order.CustomerEmail,
		&order.CustomerType,
		&order.FlightID,
		&order.Status,
		&order.CreatedAt,
		&order.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, order *model.Order) (*model.Order, error) {
	query := fmt.Sprintf(`
		INSERT INTO orders (code, customer_email, customer_type, flight_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`, orderSelectColumns)

	created, err := scanOrder(tx.QueryRow(ctx, query,
		order.Code, order.CustomerEmail, order.CustomerType, order.FlightID, order.Status, order.CreatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return created, nil
}

func (r *OrderRepositoryImpl) InsertTicket(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) error {
	query := `
		INSERT INTO tickets (order_id, flight_seat_id, paid_price)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query, ticket.OrderID, ticket.FlightSeatID, ticket.PaidPrice).Scan(&ticket.ID)
	if err != nil {
		return fmt.Errorf("failed to insert ticket: %w", err)
	}

	return nil
}

func (r *OrderRepositoryImpl) FindByCode(ctx context.Context, code string) (*model.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		WHERE code = $1
	`, orderSelectColumns)

	order, err := scanOrder(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}

	return order, nil
}

func (r *OrderRepositoryImpl) FindByCodeWithLock(ctx context.Context, tx pgx.Tx, code string) (*model.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		WHERE code = $1
		FOR UPDATE
	`, orderSelectColumns)

	order, err := scanOrder(tx.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}

	return order, nil
}

func (r *OrderRepositoryImpl) ListByCustomer(ctx context.Context, email string, status *model.OrderStatus) ([]*model.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		WHERE customer_email = $1
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
	`, orderSelectColumns)

	rows, err := r.pool.Query(ctx, query, email, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*model.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrderRepositoryImpl) ListTickets(ctx context.Context, orderID int) ([]*model.Ticket, error) {
	query := `
		SELECT t.id, t.order_id, t.flight_seat_id, t.paid_price,
		       s.row_num, s.col_num, s.class
		FROM tickets t
		JOIN flight_seats fs ON fs.id = t.flight_seat_id
		JOIN seats s         ON s.id = fs.seat_id
		WHERE t.order_id = $1
		ORDER BY s.class DESC, s.row_num, s.col_num
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)
	for rows.Next() {
		var ticket model.Ticket
		err := rows.Scan(
			&ticket.ID,
			&ticket.OrderID,
			&ticket.FlightSeatID,
			&ticket.PaidPrice,
			&ticket.RowNum,
			&ticket.ColNum,
			&ticket.Class,
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, &ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

func (r *OrderRepositoryImpl) UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.OrderStatus, cancelledAt *time.Time) error {
	query := `
		UPDATE orders
		SET status = $1, cancelled_at = $2
		WHERE id = $3
	`

	result, err := tx.Exec(ctx, query, status, cancelledAt, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrOrderNotFound
	}

	return nil
}

// ListActiveByFlight 鎖定航班上所有非終態訂單，供營運取消的級聯使用
func (r *OrderRepositoryImpl) ListActiveByFlight(ctx context.Context, tx pgx.Tx, flightID int) ([]*model.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		WHERE flight_id = $1
		  AND status = 'active'
		ORDER BY id
		FOR UPDATE
	`, orderSelectColumns)

	rows, err := tx.Query(ctx, query, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*model.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrderRepositoryImpl) TotalPaid(ctx context.Context, tx pgx.Tx, orderID int) (float64, error) {
	query := `
		SELECT COALESCE(SUM(paid_price), 0)
		FROM tickets
		WHERE order_id = $1
	`

	var total float64
	err := tx.QueryRow(ctx, query, orderID).Scan(&total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *OrderRepositoryImpl) SeatIDsForOrder(ctx context.Context, tx pgx.Tx, orderID int) ([]int, error) {
	query := `
		SELECT flight_seat_id
		FROM tickets
		WHERE order_id = $1
		ORDER BY flight_seat_id
	`

	rows, err := tx.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seatIDs := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		seatIDs = append(seatIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seatIDs, nil
}

// NextOrderCode 從計數表取下一個訂單代碼，FOR UPDATE 保證同交易序列化。
// 格式：O + 8 位數字。
func (r *OrderRepositoryImpl) NextOrderCode(ctx context.Context, tx pgx.Tx) (string, error) {
	var next int
	err := tx.QueryRow(ctx,
		`SELECT next_num FROM id_counters WHERE name = 'order' FOR UPDATE`,
	).Scan(&next)

	if errors.Is(err, pgx.ErrNoRows) {
		next = 1
		_, err = tx.Exec(ctx,
			`INSERT INTO id_counters (name, next_num) VALUES ('order', $1)`, next+1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("O%08d", next), nil
	}
	if err != nil {
		return "", err
	}

	_, err = tx.Exec(ctx,
		`UPDATE id_counters SET next_num = $1 WHERE name = 'order'`, next+1)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("O%08d", next), nil
}

package repository

import (
	"context"
	"math"

	"flytau/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportRepository 報表查詢層：唯讀，不改變任何狀態。
// 月度機體活動只取原始列，彙總邏輯在 service 層計算。
type ReportRepository interface {
	LoadFactor(ctx context.Context) ([]*model.LoadFactorRow, error)
	Revenue(ctx context.Context) ([]*model.RevenueRow, error)
	EmployeeHours(ctx context.Context) ([]*model.EmployeeHoursRow, error)
	CancellationRate(ctx context.Context) ([]*model.CancellationRateRow, error)
	FlightActivity(ctx context.Context) ([]*model.FlightActivityRow, error)
}

type ReportRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &ReportRepositoryImpl{
		pool: pool,
	}
}

// LoadFactor 已完成航班的載客率：sold / total
func (r *ReportRepositoryImpl) LoadFactor(ctx context.Context) ([]*model.LoadFactorRow, error) {
	query := `
		SELECT
			f.id,
			f.departure_at,
			COUNT(fs.id) AS total_seats,
			SUM(CASE WHEN fs.status = 'sold' THEN 1 ELSE 0 END) AS sold_seats
		FROM flights f
		JOIN flight_seats fs ON fs.flight_id = f.id
		WHERE f.status = 'completed'
		GROUP BY f.id, f.departure_at
		ORDER BY f.departure_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*model.LoadFactorRow, 0)
	for rows.Next() {
		var row model.LoadFactorRow
		err := rows.Scan(&row.FlightID, &row.DepartureAt, &row.TotalSeats, &row.SoldSeats)
		if err != nil {
			return nil, err
		}
		if row.TotalSeats > 0 {
			row.LoadFactorPercent = round2(float64(row.SoldSeats) / float64(row.TotalSeats) * 100)
		}
		result = append(result, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Revenue 依 (機體大小, 製造商, 艙等) 的營收。
// Active/Completed 全額；Cancelled-Customer 在起飛前 >=36h 取消時計 5%，否則 0；
// Cancelled-System 計 0；已取消航班整筆排除。
func (r *ReportRepositoryImpl) Revenue(ctx context.Context) ([]*model.RevenueRow, error) {
	query := `
		SELECT
			a.size,
			a.manufacturer,
			s.class,
			COALESCE(SUM(
				CASE
					WHEN o.status IN ('active', 'completed')
						THEN t.paid_price
					WHEN o.status = 'cancelled_customer'
					     AND o.cancelled_at IS NOT NULL
					     AND f.departure_at - o.cancelled_at >= INTERVAL '36 hours'
						THEN 0.05 * t.paid_price
					ELSE 0
				END
			), 0) AS total_revenue
		FROM tickets t
		JOIN orders o        ON o.id = t.order_id
		JOIN flight_seats fs ON fs.id = t.flight_seat_id
		JOIN seats s         ON s.id = fs.seat_id
		JOIN flights f       ON f.id = fs.flight_id
		JOIN aircraft a      ON a.id = f.aircraft_id
		WHERE f.status <> 'cancelled'
		GROUP BY a.size, a.manufacturer, s.class
		ORDER BY a.size, a.manufacturer, s.class
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*model.RevenueRow, 0)
	for rows.Next() {
		var row model.RevenueRow
		err := rows.Scan(&row.AircraftSize, &row.Manufacturer, &row.SeatClass, &row.TotalRevenue)
		if err != nil {
			return nil, err
		}
		result = append(result, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// EmployeeHours 每位機組人員在已完成航班上的累計時數，長短程分桶（長程 > 360 分）
func (r *ReportRepositoryImpl) EmployeeHours(ctx context.Context) ([]*model.EmployeeHoursRow, error) {
	query := `
		SELECT
			p.id,
			p.first_name || ' ' || p.last_name AS full_name,
			'pilot' AS role,
			SUM(CASE WHEN r.duration_minutes > 360 THEN r.duration_minutes ELSE 0 END) / 60.0 AS long_hours,
			SUM(CASE WHEN r.duration_minutes <= 360 THEN r.duration_minutes ELSE 0 END) / 60.0 AS short_hours
		FROM pilots p
		JOIN flight_crew_pilots cp ON cp.pilot_id = p.id
		JOIN flights f             ON f.id = cp.flight_id
		JOIN routes r              ON r.id = f.route_id
		WHERE f.status = 'completed'
		GROUP BY p.id, full_name

		UNION ALL

		SELECT
			a.id,
			a.first_name || ' ' || a.last_name AS full_name,
			'attendant' AS role,
			SUM(CASE WHEN r.duration_minutes > 360 THEN r.duration_minutes ELSE 0 END) / 60.0 AS long_hours,
			SUM(CASE WHEN r.duration_minutes <= 360 THEN r.duration_minutes ELSE 0 END) / 60.0 AS short_hours
		FROM attendants a
		JOIN flight_crew_attendants ca ON ca.attendant_id = a.id
		JOIN flights f                 ON f.id = ca.flight_id
		JOIN routes r                  ON r.id = f.route_id
		WHERE f.status = 'completed'
		GROUP BY a.id, full_name

		ORDER BY role, full_name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*model.EmployeeHoursRow, 0)
	for rows.Next() {
		var row model.EmployeeHoursRow
		err := rows.Scan(&row.StaffID, &row.FullName, &row.Role, &row.LongHours, &row.ShortHours)
		if err != nil {
			return nil, err
		}
		result = append(result, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// CancellationRate 按訂單建立月份的取消率（×100，兩位小數）
func (r *ReportRepositoryImpl) CancellationRate(ctx context.Context) ([]*model.CancellationRateRow, error) {
	query := `
		SELECT
			to_char(created_at, 'YYYY-MM') AS month,
			COUNT(*) AS total_orders,
			SUM(CASE WHEN status IN ('cancelled_customer', 'cancelled_system') THEN 1 ELSE 0 END) AS cancelled_orders,
			ROUND(
				SUM(CASE WHEN status IN ('cancelled_customer', 'cancelled_system') THEN 1 ELSE 0 END) * 100.0
				/ COUNT(*),
				2
			) AS rate_percent
		FROM orders
		GROUP BY to_char(created_at, 'YYYY-MM')
		ORDER BY month
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*model.CancellationRateRow, 0)
	for rows.Next() {
		var row model.CancellationRateRow
		err := rows.Scan(&row.Month, &row.TotalOrders, &row.CancelledOrders, &row.RatePercent)
		if err != nil {
			return nil, err
		}
		result = append(result, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// FlightActivity 月度機體活動報表的原始輸入：每航班一列
func (r *ReportRepositoryImpl) FlightActivity(ctx context.Context) ([]*model.FlightActivityRow, error) {
	query := `
		SELECT
			f.id,
			f.aircraft_id,
			a.manufacturer,
			a.model,
			f.departure_at,
			r.duration_minutes,
			r.origin_airport,
			r.dest_airport,
			f.status
		FROM flights f
		JOIN routes r   ON r.id = f.route_id
		JOIN aircraft a ON a.id = f.aircraft_id
		ORDER BY f.departure_at, f.id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*model.FlightActivityRow, 0)
	for rows.Next() {
		var row model.FlightActivityRow
		err := rows.Scan(
			&row.FlightID,
			&row.AircraftID,
			&row.Manufacturer,
			&row.Model,
			&row.DepartureAt,
			&row.DurationMinutes,
			&row.Origin,
			&row.Destination,
			&row.Status,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

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

// CrewRepository 機組名錄與指派存取層。飛行員與空服員維持獨立集合。
type CrewRepository interface {
	FindStaff(ctx context.Context, role model.CrewRole, id int) (*model.Staff, error)
	ListStaff(ctx context.Context, role model.CrewRole) ([]*model.Staff, error)
	ListAssignedIDs(ctx context.Context, flightID int, role model.CrewRole) ([]int, error)
	CountAssigned(ctx context.Context, flightID int, role model.CrewRole) (int, error)
	HasOverlappingAssignment(ctx context.Context, role model.CrewRole, staffID int, windowStart, windowEnd time.Time, excludeFlightID int) (bool, error)
	ListAvailable(ctx context.Context, role model.CrewRole, windowStart, windowEnd time.Time, requireCertified bool) ([]*model.Staff, error)
	Assign(ctx context.Context, flightID int, staffID int, role model.CrewRole) error
	Unassign(ctx context.Context, flightID int, staffID int, role model.CrewRole) error

	// Transaction methods
	ClearAll(ctx context.Context, tx pgx.Tx, flightID int) error
}

type CrewRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewCrewRepository(pool *pgxpool.Pool) CrewRepository {
	return &CrewRepositoryImpl{
		pool: pool,
	}
}

type crewTables struct {
	staff      string
	assignment string
	staffCol   string
}

func tablesFor(role model.CrewRole) crewTables {
	if role == model.CrewRolePilot {
		return crewTables{staff: "pilots", assignment: "flight_crew_pilots", staffCol: "pilot_id"}
	}
	return crewTables{staff: "attendants", assignment: "flight_crew_attendants", staffCol: "attendant_id"}
}

func (r *CrewRepositoryImpl) FindStaff(ctx context.Context, role model.CrewRole, id int) (*model.Staff, error) {
	t := tablesFor(role)
	query := fmt.Sprintf(`
		SELECT id, first_name, last_name, long_haul_certified
		FROM %s
		WHERE id = $1
	`, t.staff)

	var staff model.Staff
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&staff.ID,
		&staff.FirstName,
		&staff.LastName,
		&staff.LongHaulCertified,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStaffNotFound
		}
		return nil, err
	}

	staff.Role = role
	return &staff, nil
}

func (r *CrewRepositoryImpl) ListStaff(ctx context.Context, role model.CrewRole) ([]*model.Staff, error) {
	t := tablesFor(role)
	query := fmt.Sprintf(`
		SELECT id, first_name, last_name, long_haul_certified
		FROM %s
		ORDER BY last_name, first_name
	`, t.staff)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return scanStaff(rows, role)
}

func scanStaff(rows pgx.Rows, role model.CrewRole) ([]*model.Staff, error) {
	defer rows.Close()

	staff := make([]*model.Staff, 0)
	for rows.Next() {
		var s model.Staff
		err := rows.Scan(
			&s.ID,
			&s.FirstName,
			&s.LastName,
			&s.LongHaulCertified,
		)
		if err != nil {
			return nil, err
		}
		s.Role = role
		staff = append(staff, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return staff, nil
}

func (r *CrewRepositoryImpl) ListAssignedIDs(ctx context.Context, flightID int, role model.CrewRole) ([]int, error) {
	t := tablesFor(role)
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE flight_id = $1
		ORDER BY %s
	`, t.staffCol, t.assignment, t.staffCol)

	rows, err := r.pool.Query(ctx, query, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *CrewRepositoryImpl) CountAssigned(ctx context.Context, flightID int, role model.CrewRole) (int, error) {
	t := tablesFor(role)
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE flight_id = $1
	`, t.assignment)

	var count int
	err := r.pool.QueryRow(ctx, query, flightID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// HasOverlappingAssignment 人員在時窗內是否已被指派到其他未取消航班。
// 兩個時段 [dep, dep+duration] 有交集即視為衝突。
func (r *CrewRepositoryImpl) HasOverlappingAssignment(ctx context.Context, role model.CrewRole, staffID int, windowStart, windowEnd time.Time, excludeFlightID int) (bool, error) {
	t := tablesFor(role)
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1
			FROM %s ca
			JOIN flights f ON f.id = ca.flight_id
			JOIN routes  r ON r.id = f.route_id
			WHERE ca.%s = $1
			  AND ca.flight_id <> $2
			  AND f.status <> 'cancelled'
			  AND f.departure_at < $4
			  AND f.departure_at + make_interval(mins => r.duration_minutes) > $3
		)
	`, t.assignment, t.staffCol)

	var exists bool
	err := r.pool.QueryRow(ctx, query, staffID, excludeFlightID, windowStart, windowEnd).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// ListAvailable 時窗內無衝突的人員；requireCertified 時只列長程認證者
func (r *CrewRepositoryImpl) ListAvailable(ctx context.Context, role model.CrewRole, windowStart, windowEnd time.Time, requireCertified bool) ([]*model.Staff, error) {
	t := tablesFor(role)
	query := fmt.Sprintf(`
		SELECT st.id, st.first_name, st.last_name, st.long_haul_certified
		FROM %s st
		WHERE ($3 = false OR st.long_haul_certified)
		  AND NOT EXISTS (
			SELECT 1
			FROM %s ca
			JOIN flights f ON f.id = ca.flight_id
			JOIN routes  r ON r.id = f.route_id
			WHERE ca.%s = st.id
			  AND f.status <> 'cancelled'
			  AND f.departure_at < $2
			  AND f.departure_at + make_interval(mins => r.duration_minutes) > $1
		)
		ORDER BY st.last_name, st.first_name
	`, t.staff, t.assignment, t.staffCol)

	rows, err := r.pool.Query(ctx, query, windowStart, windowEnd, requireCertified)
	if err != nil {
		return nil, err
	}

	return scanStaff(rows, role)
}

func (r *CrewRepositoryImpl) Assign(ctx context.Context, flightID int, staffID int, role model.CrewRole) error {
	t := tablesFor(role)
	query := fmt.Sprintf(`
		INSERT INTO %s (flight_id, %s)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, t.assignment, t.staffCol)

	_, err := r.pool.Exec(ctx, query, flightID, staffID)
	return err
}

func (r *CrewRepositoryImpl) Unassign(ctx context.Context, flightID int, staffID int, role model.CrewRole) error {
	t := tablesFor(role)
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE flight_id = $1 AND %s = $2
	`, t.assignment, t.staffCol)

	result, err := r.pool.Exec(ctx, query, flightID, staffID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrStaffNotFound
	}

	return nil
}

// ClearAll 移除航班的全部指派；只在營運取消的級聯交易內呼叫
func (r *CrewRepositoryImpl) ClearAll(ctx context.Context, tx pgx.Tx, flightID int) error {
	if _, err := tx.Exec(ctx, `DELETE FROM flight_crew_pilots WHERE flight_id = $1`, flightID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM flight_crew_attendants WHERE flight_id = $1`, flightID); err != nil {
		return err
	}
	return nil
}

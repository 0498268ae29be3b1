package repository

import (
	"context"
	"testing"
	"time"

	"flytau/internal/model"
	"flytau/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRepository_LoadFactor(t *testing.T) {
	defer setupTestWithTruncate(t)()
	ctx := context.Background()
	repo := repository.NewReportRepository(getTestDB())

	routeID := createTestRoute(t, "TLV", "FCO", 210)
	aircraftID := createTestAircraft(t, model.AircraftSizeSmall, 2)

	departure := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	flightID := createTestFlight(t, aircraftID, routeID, departure, model.FlightStatusCompleted)
	slotIDs := createTestFlightSeats(t, flightID, aircraftID, 400.0)
	createTestOrder(t, "O00000001", "dana@example.com", flightID, slotIDs[:3], 400.0)

	// active 航班不入載客率報表
	otherID := createTestFlight(t, aircraftID, routeID, departure.Add(24*time.Hour), model.FlightStatusActive)
	createTestFlightSeats(t, otherID, aircraftID, 400.0)

	rows, err := repo.LoadFactor(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, flightID, rows[0].FlightID)
	assert.Equal(t, 6, rows[0].TotalSeats)
	assert.Equal(t, 3, rows[0].SoldSeats)
	assert.InDelta(t, 50.0, rows[0].LoadFactorPercent, 1e-9)
}

func TestReportRepository_Revenue(t *testing.T) {
	defer setupTestWithTruncate(t)()
	ctx := context.Background()
	repo := repository.NewReportRepository(getTestDB())

	routeID := createTestRoute(t, "TLV", "FCO", 210)
	aircraftID := createTestAircraft(t, model.AircraftSizeSmall, 2)

	departure := time.Now().UTC().Add(500 * time.Hour).Truncate(time.Second)
	flightID := createTestFlight(t, aircraftID, routeID, departure, model.FlightStatusActive)
	slotIDs := createTestFlightSeats(t, flightID, aircraftID, 400.0)

	// 一筆 active（計全額）
	createTestOrder(t, "O00000001", "a@example.com", flightID, slotIDs[3:4], 400.0)

	// 一筆在起飛前 >36h 取消（計 5%）
	earlyCancelID := createTestOrder(t, "O00000002", "b@example.com", flightID, slotIDs[4:5], 400.0)
	earlyCancelAt := departure.Add(-100 * time.Hour)
	_, err := testDB.Exec(ctx, `UPDATE orders SET status = 'cancelled_customer', cancelled_at = $2 WHERE id = $1`,
		earlyCancelID, earlyCancelAt)
	require.NoError(t, err)

	// 一筆系統取消（計 0）
	systemCancelID := createTestOrder(t, "O00000003", "c@example.com", flightID, slotIDs[5:6], 400.0)
	_, err = testDB.Exec(ctx, `UPDATE orders SET status = 'cancelled_system', cancelled_at = now() WHERE id = $1`, systemCancelID)
	require.NoError(t, err)

	rows, err := repo.Revenue(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, model.AircraftSizeSmall, rows[0].AircraftSize)
	assert.Equal(t, model.SeatClassEconomy, rows[0].SeatClass)
	// 400 (active) + 20 (5% 手續費) + 0 (系統取消)
	assert.InDelta(t, 420.0, rows[0].TotalRevenue, 1e-9)
}

func TestReportRepository_CancellationRate(t *testing.T) {
	defer setupTestWithTruncate(t)()
	ctx := context.Background()
	repo := repository.NewReportRepository(getTestDB())

	routeID := createTestRoute(t, "TLV", "FCO", 210)
	aircraftID := createTestAircraft(t, model.AircraftSizeSmall, 2)
	flightID := createTestFlight(t, aircraftID, routeID, time.Now().UTC().Add(500*time.Hour), model.FlightStatusActive)
	slotIDs := createTestFlightSeats(t, flightID, aircraftID, 400.0)

	for i, code := range []string{"O00000001", "O00000002", "O00000003", "O00000004"} {
		createTestOrder(t, code, "x@example.com", flightID, slotIDs[i:i+1], 400.0)
	}
	// 四筆中取消一筆（顧客）與一筆（系統）：取消率 50%
	_, err := testDB.Exec(ctx, `UPDATE orders SET status = 'cancelled_customer', cancelled_at = now() WHERE code = 'O00000001'`)
	require.NoError(t, err)
	_, err = testDB.Exec(ctx, `UPDATE orders SET status = 'cancelled_system', cancelled_at = now() WHERE code = 'O00000002'`)
	require.NoError(t, err)

	rows, err := repo.CancellationRate(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// 分組月份來自訂單建立時間
	assert.Equal(t, time.Now().UTC().Format("2006-01"), rows[0].Month)
	assert.Equal(t, 4, rows[0].TotalOrders)
	assert.Equal(t, 2, rows[0].CancelledOrders)
	assert.InDelta(t, 50.0, rows[0].RatePercent, 1e-9)
}

func TestReportRepository_EmployeeHours(t *testing.T) {
	defer setupTestWithTruncate(t)()
	ctx := context.Background()
	repo := repository.NewReportRepository(getTestDB())
	crewRepo := repository.NewCrewRepository(getTestDB())

	longRouteID := createTestRoute(t, "TLV", "JFK", 720)
	shortRouteID := createTestRoute(t, "TLV", "ATH", 120)
	aircraftID := createTestAircraft(t, model.AircraftSizeLarge, 1)

	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	longFlightID := createTestFlight(t, aircraftID, longRouteID, base, model.FlightStatusCompleted)
	shortFlightID := createTestFlight(t, aircraftID, shortRouteID, base.Add(48*time.Hour), model.FlightStatusCompleted)
	// 未完成航班不計時數
	pendingFlightID := createTestFlight(t, aircraftID, shortRouteID, base.Add(96*time.Hour), model.FlightStatusActive)

	pilotID := createTestStaff(t, model.CrewRolePilot, "Noa", true)
	require.NoError(t, crewRepo.Assign(ctx, longFlightID, pilotID, model.CrewRolePilot))
	require.NoError(t, crewRepo.Assign(ctx, shortFlightID, pilotID, model.CrewRolePilot))
	require.NoError(t, crewRepo.Assign(ctx, pendingFlightID, pilotID, model.CrewRolePilot))

	rows, err := repo.EmployeeHours(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, pilotID, rows[0].StaffID)
	assert.Equal(t, model.CrewRolePilot, rows[0].Role)
	assert.InDelta(t, 12.0, rows[0].LongHours, 1e-9)
	assert.InDelta(t, 2.0, rows[0].ShortHours, 1e-9)
}

func TestReportRepository_FlightActivity(t *testing.T) {
	defer setupTestWithTruncate(t)()
	ctx := context.Background()
	repo := repository.NewReportRepository(getTestDB())

	routeID := createTestRoute(t, "TLV", "JFK", 720)
	aircraftID := createTestAircraft(t, model.AircraftSizeLarge, 1)
	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	createTestFlight(t, aircraftID, routeID, base, model.FlightStatusCompleted)
	createTestFlight(t, aircraftID, routeID, base.Add(24*time.Hour), model.FlightStatusCancelled)

	rows, err := repo.FlightActivity(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "TLV", rows[0].Origin)
	assert.Equal(t, "JFK", rows[0].Destination)
	assert.Equal(t, 720, rows[0].DurationMinutes)
	assert.Equal(t, model.FlightStatusCompleted, rows[0].Status)
}

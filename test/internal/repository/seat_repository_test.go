package repository

import (
	"context"
	"testing"
	"time"

	"flytau/internal/model"
	"flytau/internal/repository"
	apperrors "flytau/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seatTestFixture(t *testing.T) (int, int, []int) {
	t.Helper()
	routeID := createTestRoute(t, "TLV", "CDG", 270)
	aircraftID := createTestAircraft(t, model.AircraftSizeSmall, 2)
	flightID := createTestFlight(t, aircraftID, routeID, time.Now().UTC().Add(200*time.Hour), model.FlightStatusActive)
	slotIDs := createTestFlightSeats(t, flightID, aircraftID, 400.0)
	return flightID, aircraftID, slotIDs
}

func TestSeatRepository_ListAndCount(t *testing.T) {
	defer setupTestWithTruncate(t)()
	ctx := context.Background()
	repo := repository.NewSeatRepository(getTestDB())

	flightID, _, slotIDs := seatTestFixture(t)

	seats, err := repo.ListByFlight(ctx, flightID)
	require.NoError(t, err)
	assert.Len(t, seats, 6)
	// 座位表帶出排/列/艙等
	assert.NotZero(t, seats[0].RowNum)
	assert.NotEmpty(t, seats[0].ColNum)

	count, err := repo.CountAvailable(ctx, flightID)
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	// 售出一個後的可售數
	_, err = testDB.Exec(ctx, `UPDATE flight_seats SET status = 'sold' WHERE id = $1`, slotIDs[0])
	require.NoError(t, err)

	available, err := repo.ListAvailableByFlight(ctx, flightID)
	require.NoError(t, err)
	assert.Len(t, available, 5)
}

func TestSeatRepository_MarkSold(t *testing.T) {
	defer setupTestWithTruncate(t)()
	ctx := context.Background()
	repo := repository.NewSeatRepository(getTestDB())

	flightID, _, slotIDs := seatTestFixture(t)

	t.Run("Success", func(t *testing.T) {
		tx, cleanup := setupTestWithTransaction(t)
		defer cleanup()

		err := repo.MarkSold(ctx, tx, flightID, slotIDs[:2])
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		count, err := repo.CountAvailable(ctx, flightID)
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})

	t.Run("Failed - AlreadySold", func(t *testing.T) {
		tx, cleanup := setupTestWithTransaction(t)
		defer cleanup()

		// 其中一個已售出，整批失敗
		err := repo.MarkSold(ctx, tx, flightID, slotIDs[1:3])
		assert.ErrorIs(t, err, apperrors.ErrSeatUnavailable)
	})
}

func TestSeatRepository_Release(t *testing.T) {
	defer setupTestWithTruncate(t)()
	ctx := context.Background()
	repo := repository.NewSeatRepository(getTestDB())

	flightID, _, slotIDs := seatTestFixture(t)

	tx, cleanup := setupTestWithTransaction(t)
	require.NoError(t, repo.MarkSold(ctx, tx, flightID, slotIDs[:3]))
	require.NoError(t, tx.Commit(ctx))
	cleanup()

	tx2, cleanup2 := setupTestWithTransaction(t)
	defer cleanup2()
	// 釋放兩個，第三個保持 sold；重複釋放是冪等的
	require.NoError(t, repo.Release(ctx, tx2, flightID, slotIDs[:2]))
	require.NoError(t, repo.Release(ctx, tx2, flightID, slotIDs[:2]))
	require.NoError(t, tx2.Commit(ctx))

	count, err := repo.CountAvailable(ctx, flightID)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestSeatRepository_SetStatusForOrder(t *testing.T) {
	defer setupTestWithTruncate(t)()
	ctx := context.Background()
	repo := repository.NewSeatRepository(getTestDB())

	flightID, _, slotIDs := seatTestFixture(t)
	orderID := createTestOrder(t, "O00000001", "a@b.com", flightID, slotIDs[:2], 400.0)

	tx, cleanup := setupTestWithTransaction(t)
	defer cleanup()

	require.NoError(t, repo.SetStatusForOrder(ctx, tx, orderID, model.SeatStatusBlocked))
	require.NoError(t, tx.Commit(ctx))

	var blocked int
	err := testDB.QueryRow(ctx, `SELECT COUNT(*) FROM flight_seats WHERE flight_id = $1 AND status = 'blocked'`, flightID).Scan(&blocked)
	require.NoError(t, err)
	assert.Equal(t, 2, blocked)
}

func TestSeatRepository_SetSlotStatus(t *testing.T) {
	defer setupTestWithTruncate(t)()
	ctx := context.Background()
	repo := repository.NewSeatRepository(getTestDB())

	flightID, _, slotIDs := seatTestFixture(t)

	t.Run("BlockAvailable", func(t *testing.T) {
		tx, cleanup := setupTestWithTransaction(t)
		defer cleanup()

		require.NoError(t, repo.SetSlotStatus(ctx, tx, flightID, slotIDs[0], model.SeatStatusBlocked))
		require.NoError(t, tx.Commit(ctx))

		count, err := repo.CountAvailable(ctx, flightID)
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	})

	t.Run("UnblockBlocked", func(t *testing.T) {
		tx, cleanup := setupTestWithTransaction(t)
		defer cleanup()

		require.NoError(t, repo.SetSlotStatus(ctx, tx, flightID, slotIDs[0], model.SeatStatusAvailable))
		require.NoError(t, tx.Commit(ctx))

		count, err := repo.CountAvailable(ctx, flightID)
		require.NoError(t, err)
		assert.Equal(t, 6, count)
	})

	t.Run("Failed - SoldSlot", func(t *testing.T) {
		_, err := testDB.Exec(ctx, `UPDATE flight_seats SET status = 'sold' WHERE id = $1`, slotIDs[1])
		require.NoError(t, err)

		tx, cleanup := setupTestWithTransaction(t)
		defer cleanup()

		err = repo.SetSlotStatus(ctx, tx, flightID, slotIDs[1], model.SeatStatusBlocked)
		assert.ErrorIs(t, err, apperrors.ErrSeatUnavailable)
	})
}

func TestSeatRepository_UpdateClassPrice(t *testing.T) {
	defer setupTestWithTruncate(t)()
	ctx := context.Background()
	repo := repository.NewSeatRepository(getTestDB())

	flightID, _, slotIDs := seatTestFixture(t)
	// 售出一個商務艙座位，其槽位價格不應被調價影響
	createTestOrder(t, "O00000001", "a@b.com", flightID, slotIDs[:1], 400.0)

	tx, cleanup := setupTestWithTransaction(t)
	defer cleanup()
	require.NoError(t, repo.UpdateClassPrice(ctx, tx, flightID, model.SeatClassBusiness, 1500.0))
	require.NoError(t, tx.Commit(ctx))

	seats, err := repo.ListByFlight(ctx, flightID)
	require.NoError(t, err)
	for _, seat := range seats {
		switch {
		case seat.ID == slotIDs[0]:
			assert.Equal(t, 400.0, seat.PriceOrZero(), "sold slot keeps its price")
		case seat.Class == model.SeatClassBusiness:
			assert.Equal(t, 1500.0, seat.PriceOrZero())
		default:
			assert.Equal(t, 400.0, seat.PriceOrZero())
		}
	}
}

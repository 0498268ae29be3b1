package service

import (
	"context"
	"testing"
	"time"

	"flytau/internal/model"
	apperrors "flytau/pkg/app_errors"
	"flytau/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrewService_Assign(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		defer setupTestWithTruncate(t)()
		env := newTestEnv(clock.Fixed(baseNow))

		routeID := seedRoute(t, "TLV", "ATH", 120)
		aircraftID := seedAircraft(t, model.AircraftSizeSmall, 1)
		flight := seedFlight(t, env, aircraftID, routeID, departure)
		pilotID := seedStaff(t, model.CrewRolePilot, "Noa", false)

		err := env.crew.Assign(ctx, flight.ID, model.AssignCrewRequest{
			StaffID: pilotID,
			Role:    model.CrewRolePilot,
		})
		require.NoError(t, err)

		validation, err := env.crew.Validate(ctx, flight.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, validation.Assigned.Pilots)
		assert.False(t, validation.Satisfied)
	})

	t.Run("Failed - UncertifiedOnLongFlight", func(t *testing.T) {
		defer setupTestWithTruncate(t)()
		env := newTestEnv(clock.Fixed(baseNow))

		// 721 分鐘 > 360：長程航班
		routeID := seedRoute(t, "TLV", "JFK", 721)
		aircraftID := seedAircraft(t, model.AircraftSizeLarge, 1)
		flight := seedFlight(t, env, aircraftID, routeID, departure)
		pilotID := seedStaff(t, model.CrewRolePilot, "Avi", false)

		err := env.crew.Assign(ctx, flight.ID, model.AssignCrewRequest{
			StaffID: pilotID,
			Role:    model.CrewRolePilot,
		})
		assert.ErrorIs(t, err, apperrors.ErrCrewConflict)
	})

	t.Run("Failed - OverlappingFlights", func(t *testing.T) {
		defer setupTestWithTruncate(t)()
		env := newTestEnv(clock.Fixed(baseNow))

		routeID := seedRoute(t, "TLV", "ATH", 120)
		aircraftID := seedAircraft(t, model.AircraftSizeSmall, 1)
		first := seedFlight(t, env, aircraftID, routeID, departure)
		// 第二班在第一班的飛行時窗內起飛
		second := seedFlight(t, env, aircraftID, routeID, departure.Add(time.Hour))
		pilotID := seedStaff(t, model.CrewRolePilot, "Noa", false)

		require.NoError(t, env.crew.Assign(ctx, first.ID, model.AssignCrewRequest{
			StaffID: pilotID,
			Role:    model.CrewRolePilot,
		}))

		err := env.crew.Assign(ctx, second.ID, model.AssignCrewRequest{
			StaffID: pilotID,
			Role:    model.CrewRolePilot,
		})
		assert.ErrorIs(t, err, apperrors.ErrCrewConflict)
	})

	t.Run("Failed - StaffNotFound", func(t *testing.T) {
		defer setupTestWithTruncate(t)()
		env := newTestEnv(clock.Fixed(baseNow))

		routeID := seedRoute(t, "TLV", "ATH", 120)
		aircraftID := seedAircraft(t, model.AircraftSizeSmall, 1)
		flight := seedFlight(t, env, aircraftID, routeID, departure)

		err := env.crew.Assign(ctx, flight.ID, model.AssignCrewRequest{
			StaffID: 9999,
			Role:    model.CrewRolePilot,
		})
		assert.ErrorIs(t, err, apperrors.ErrStaffNotFound)
	})

	t.Run("Failed - Overstaffed", func(t *testing.T) {
		defer setupTestWithTruncate(t)()
		env := newTestEnv(clock.Fixed(baseNow))

		routeID := seedRoute(t, "TLV", "ATH", 120)
		aircraftID := seedAircraft(t, model.AircraftSizeSmall, 1)
		flight := seedFlight(t, env, aircraftID, routeID, departure)

		// 小機體需要 2 位機師，第三位被拒絕
		for _, name := range []string{"Noa", "Avi"} {
			id := seedStaff(t, model.CrewRolePilot, name, false)
			require.NoError(t, env.crew.Assign(ctx, flight.ID, model.AssignCrewRequest{
				StaffID: id,
				Role:    model.CrewRolePilot,
			}))
		}

		extraID := seedStaff(t, model.CrewRolePilot, "Gil", false)
		err := env.crew.Assign(ctx, flight.ID, model.AssignCrewRequest{
			StaffID: extraID,
			Role:    model.CrewRolePilot,
		})
		assert.ErrorIs(t, err, apperrors.ErrCrewRequirementUnmet)
	})
}

func TestCrewService_ValidateAndListAvailable(t *testing.T) {
	defer setupTestWithTruncate(t)()
	ctx := context.Background()
	env := newTestEnv(clock.Fixed(baseNow))

	routeID := seedRoute(t, "TLV", "ATH", 120)
	aircraftID := seedAircraft(t, model.AircraftSizeSmall, 1)
	flight := seedFlight(t, env, aircraftID, routeID, departure)

	pilotIDs := []int{
		seedStaff(t, model.CrewRolePilot, "Noa", false),
		seedStaff(t, model.CrewRolePilot, "Avi", false),
	}
	attendantIDs := []int{
		seedStaff(t, model.CrewRoleAttendant, "Maya", false),
		seedStaff(t, model.CrewRoleAttendant, "Tamar", false),
		seedStaff(t, model.CrewRoleAttendant, "Yael", false),
	}

	available, err := env.crew.ListAvailable(ctx, flight.ID)
	require.NoError(t, err)
	assert.Len(t, available.Pilots, 2)
	assert.Len(t, available.Attendants, 3)

	for _, id := range pilotIDs {
		require.NoError(t, env.crew.Assign(ctx, flight.ID, model.AssignCrewRequest{StaffID: id, Role: model.CrewRolePilot}))
	}
	for _, id := range attendantIDs {
		require.NoError(t, env.crew.Assign(ctx, flight.ID, model.AssignCrewRequest{StaffID: id, Role: model.CrewRoleAttendant}))
	}

	validation, err := env.crew.Validate(ctx, flight.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CrewRequirement{Pilots: 2, Attendants: 3}, validation.Required)
	assert.True(t, validation.Satisfied)

	// 解除一位空服員後不再滿足
	require.NoError(t, env.crew.Unassign(ctx, flight.ID, attendantIDs[0], model.CrewRoleAttendant))
	validation, err = env.crew.Validate(ctx, flight.ID)
	require.NoError(t, err)
	assert.False(t, validation.Satisfied)
}

package service

import (
	"context"

	"flytau/internal/model"
	"flytau/internal/policy"
	"flytau/internal/repository"
	apperrors "flytau/pkg/app_errors"
	"flytau/pkg/clock"
)

type CrewService interface {
	// 指派機組：檢查資格、時窗衝突與需求上限
	Assign(ctx context.Context, flightID int, req model.AssignCrewRequest) error
	// 解除單一指派
	Unassign(ctx context.Context, flightID int, staffID int, role model.CrewRole) error
	// 列出航班時窗內無衝突（且符合長程認證）的可用機組
	ListAvailable(ctx context.Context, flightID int) (*model.AvailableCrew, error)
	// 檢核航班機組是否達到人數需求
	Validate(ctx context.Context, flightID int) (*model.CrewValidation, error)
}

type CrewServiceImpl struct {
	repository       repository.CrewRepository
	flightRepository repository.FlightRepository
	now              clock.NowFunc
}

func NewCrewService(
	crewRepository repository.CrewRepository,
	flightRepository repository.FlightRepository,
	now clock.NowFunc,
) CrewService {
	return &CrewServiceImpl{
		repository:       crewRepository,
		flightRepository: flightRepository,
		now:              now,
	}
}

func (s *CrewServiceImpl) Assign(ctx context.Context, flightID int, req model.AssignCrewRequest) error {
	if !req.Role.IsValid() {
		return apperrors.ErrInvalidInput
	}

	flight, err := s.flightRepository.FindByID(ctx, flightID)
	if err != nil {
		return err
	}
	// 已取消/已完成/已起飛的航班不再調整機組
	if flight.Status.IsTerminal() || flight.HasDeparted(s.now()) {
		return apperrors.ErrPersistenceConflict
	}

	staff, err := s.repository.FindStaff(ctx, req.Role, req.StaffID)
	if err != nil {
		return err
	}

	// 長程航班只收持有長程認證的人員
	if policy.CertificationRequired(flight.Route.DurationMinutes) && !staff.LongHaulCertified {
		return apperrors.ErrCrewConflict
	}

	// 同一人員不可服務時窗重疊的兩班航班
	overlap, err := s.repository.HasOverlappingAssignment(
		ctx, req.Role, staff.ID, flight.DepartureAt, flight.ArrivalAt(), flightID)
	if err != nil {
		return err
	}
	if overlap {
		return apperrors.ErrCrewConflict
	}

	// 人數需求是精確值，超編同樣違反編制
	required := policy.RequiredCrew(flight.Aircraft.Size)
	assigned, err := s.repository.CountAssigned(ctx, flightID, req.Role)
	if err != nil {
		return err
	}
	limit := required.Pilots
	if req.Role == model.CrewRoleAttendant {
		limit = required.Attendants
	}
	if assigned >= limit {
		return apperrors.ErrCrewRequirementUnmet
	}

	return s.repository.Assign(ctx, flightID, staff.ID, req.Role)
}

func (s *CrewServiceImpl) Unassign(ctx context.Context, flightID int, staffID int, role model.CrewRole) error {
	if !role.IsValid() {
		return apperrors.ErrInvalidInput
	}

	flight, err := s.flightRepository.FindByID(ctx, flightID)
	if err != nil {
		return err
	}
	if flight.Status.IsTerminal() || flight.HasDeparted(s.now()) {
		return apperrors.ErrPersistenceConflict
	}

	return s.repository.Unassign(ctx, flightID, staffID, role)
}

func (s *CrewServiceImpl) ListAvailable(ctx context.Context, flightID int) (*model.AvailableCrew, error) {
	flight, err := s.flightRepository.FindByID(ctx, flightID)
	if err != nil {
		return nil, err
	}

	requireCertified := policy.CertificationRequired(flight.Route.DurationMinutes)
	windowStart, windowEnd := flight.DepartureAt, flight.ArrivalAt()

	pilots, err := s.repository.ListAvailable(ctx, model.CrewRolePilot, windowStart, windowEnd, requireCertified)
	if err != nil {
		return nil, err
	}
	attendants, err := s.repository.ListAvailable(ctx, model.CrewRoleAttendant, windowStart, windowEnd, requireCertified)
	if err != nil {
		return nil, err
	}

	return &model.AvailableCrew{
		Pilots:     pilots,
		Attendants: attendants,
	}, nil
}

func (s *CrewServiceImpl) Validate(ctx context.Context, flightID int) (*model.CrewValidation, error) {
	flight, err := s.flightRepository.FindByID(ctx, flightID)
	if err != nil {
		return nil, err
	}

	required := policy.RequiredCrew(flight.Aircraft.Size)

	pilots, err := s.repository.CountAssigned(ctx, flightID, model.CrewRolePilot)
	if err != nil {
		return nil, err
	}
	attendants, err := s.repository.CountAssigned(ctx, flightID, model.CrewRoleAttendant)
	if err != nil {
		return nil, err
	}

	return &model.CrewValidation{
		Required:  required,
		Assigned:  model.CrewRequirement{Pilots: pilots, Attendants: attendants},
		Satisfied: pilots == required.Pilots && attendants == required.Attendants,
	}, nil
}

package apperrors

import "errors"

var (
	ErrSeatUnavailable          = errors.New("seat unavailable")
	ErrFlightNotFound           = errors.New("flight not found")
	ErrFlightNotBookable        = errors.New("flight not bookable")
	ErrOrderNotFound            = errors.New("order not found")
	ErrStaffNotFound            = errors.New("staff not found")
	ErrCancellationWindowClosed = errors.New("cancellation window closed")
	ErrOperationalCancelTooLate = errors.New("operational cancellation too late")
	ErrCrewRequirementUnmet     = errors.New("crew requirement unmet")
	ErrCrewConflict             = errors.New("crew conflict")
	ErrPersistenceConflict      = errors.New("persistence conflict")
	ErrInvalidInput             = errors.New("invalid input")
)

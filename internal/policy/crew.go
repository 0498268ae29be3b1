package policy

import "flytau/internal/model"

// LongFlightThresholdMinutes 航線時長超過此值（不含）為長程航班
const LongFlightThresholdMinutes = 360

// IsLongFlight 長程判定：嚴格大於 360 分鐘
func IsLongFlight(durationMinutes int) bool {
	return durationMinutes > LongFlightThresholdMinutes
}

// RequiredCrew 機組人數需求，依機體大小決定
func RequiredCrew(size model.AircraftSize) model.CrewRequirement {
	if size == model.AircraftSizeLarge {
		return model.CrewRequirement{Pilots: 3, Attendants: 6}
	}
	return model.CrewRequirement{Pilots: 2, Attendants: 3}
}

// CertificationRequired 長程航班的機組必須持有長程認證
func CertificationRequired(durationMinutes int) bool {
	return IsLongFlight(durationMinutes)
}

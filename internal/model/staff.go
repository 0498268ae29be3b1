package model

// CrewRole 機組角色
type CrewRole string

const (
	CrewRolePilot     CrewRole = "pilot"
	CrewRoleAttendant CrewRole = "attendant"
)

// IsValid 驗證角色是否有效
func (r CrewRole) IsValid() bool {
	return r == CrewRolePilot || r == CrewRoleAttendant
}

// Staff 機組人員（飛行員或空服員），僅供 Coordinator 做資格檢查
type Staff struct {
	ID                int      `json:"id" db:"id"`
	FirstName         string   `json:"first_name" db:"first_name"`
	LastName          string   `json:"last_name" db:"last_name"`
	Role              CrewRole `json:"role" db:"-"`
	LongHaulCertified bool     `json:"long_haul_certified" db:"long_haul_certified"`
}

// CrewAssignment (staff, flight) 配對；航班被營運取消時整批移除
type CrewAssignment struct {
	FlightID int      `json:"flight_id" db:"flight_id"`
	StaffID  int      `json:"staff_id" db:"staff_id"`
	Role     CrewRole `json:"role" db:"-"`
}

// AssignCrewRequest 指派機組請求
type AssignCrewRequest struct {
	StaffID int      `json:"staff_id" binding:"required"`
	Role    CrewRole `json:"role" binding:"required"`
}

// CrewRequirement 機組人數需求
type CrewRequirement struct {
	Pilots     int `json:"pilots"`
	Attendants int `json:"attendants"`
}

// CrewValidation 航班機組配置檢核結果
type CrewValidation struct {
	Required  CrewRequirement `json:"required"`
	Assigned  CrewRequirement `json:"assigned"`
	Satisfied bool            `json:"satisfied"`
}

// AvailableCrew 某航班時窗內無衝突的可用機組
type AvailableCrew struct {
	Pilots     []*Staff `json:"pilots"`
	Attendants []*Staff `json:"attendants"`
}

package model

import "time"

// LoadFactorRow 已完成航班的載客率
type LoadFactorRow struct {
	FlightID          int       `json:"flight_id"`
	DepartureAt       time.Time `json:"departure_at"`
	TotalSeats        int       `json:"total_seats"`
	SoldSeats         int       `json:"sold_seats"`
	LoadFactorPercent float64   `json:"load_factor_percent"`
}

// RevenueRow 依 (機體大小, 製造商, 艙等) 分組的營收
type RevenueRow struct {
	AircraftSize AircraftSize `json:"aircraft_size"`
	Manufacturer string       `json:"manufacturer"`
	SeatClass    SeatClass    `json:"seat_class"`
	TotalRevenue float64      `json:"total_revenue"`
}

// EmployeeHoursRow 每位機組人員在已完成航班上的累計飛行時數
type EmployeeHoursRow struct {
	StaffID    int      `json:"staff_id"`
	FullName   string   `json:"full_name"`
	Role       CrewRole `json:"role"`
	LongHours  float64  `json:"long_hours"`
	ShortHours float64  `json:"short_hours"`
}

// CancellationRateRow 按訂單建立月份的取消率
type CancellationRateRow struct {
	Month           string  `json:"month"` // YYYY-MM
	TotalOrders     int     `json:"total_orders"`
	CancelledOrders int     `json:"cancelled_orders"`
	RatePercent     float64 `json:"rate_percent"`
}

// AircraftMonthlyRow 每 (機體, 起飛月份) 的活動彙總
type AircraftMonthlyRow struct {
	AircraftID         int      `json:"aircraft_id"`
	Manufacturer       string   `json:"manufacturer"`
	Model              string   `json:"model"`
	Month              string   `json:"month"` // YYYY-MM
	FlightsCompleted   int      `json:"flights_completed"`
	FlightsCancelled   int      `json:"flights_cancelled"`
	TotalFlights       int      `json:"total_flights"`
	UtilizationPercent float64  `json:"utilization_percent"`
	DominantRoutes     []string `json:"dominant_routes"` // "TLV→JFK"，同率全列、字典序
}

// FlightActivityRow 航班活動彙總的原始輸入列（每航班一列）
type FlightActivityRow struct {
	FlightID        int
	AircraftID      int
	Manufacturer    string
	Model           string
	DepartureAt     time.Time
	DurationMinutes int
	Origin          string
	Destination     string
	Status          FlightStatus
}

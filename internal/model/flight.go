package model

import "time"

// FlightStatus 航班狀態類型
type FlightStatus string

const (
	FlightStatusActive        FlightStatus = "active"
	FlightStatusFullyOccupied FlightStatus = "fully_occupied"
	FlightStatusCompleted     FlightStatus = "completed"
	FlightStatusCancelled     FlightStatus = "cancelled"
)

// IsValid 驗證狀態是否有效
func (s FlightStatus) IsValid() bool {
	switch s {
	case FlightStatusActive, FlightStatusFullyOccupied, FlightStatusCompleted, FlightStatusCancelled:
		return true
	}
	return false
}

// IsTerminal Completed 與 Cancelled 為終態，不可再轉換
func (s FlightStatus) IsTerminal() bool {
	return s == FlightStatusCompleted || s == FlightStatusCancelled
}

// AircraftSize 機體大小
type AircraftSize string

const (
	AircraftSizeSmall AircraftSize = "small"
	AircraftSizeLarge AircraftSize = "large"
)

// Route 航線：同一 (起點, 終點) 組合唯一
type Route struct {
	ID              int    `json:"id" db:"id"`
	OriginAirport   string `json:"origin_airport" db:"origin_airport"`
	DestAirport     string `json:"dest_airport" db:"dest_airport"`
	DurationMinutes int    `json:"duration_minutes" db:"duration_minutes"`
}

// Aircraft 機體，擁有固定的座位模板集合
type Aircraft struct {
	ID           int          `json:"id" db:"id"`
	Manufacturer string       `json:"manufacturer" db:"manufacturer"`
	Model        string       `json:"model" db:"model"`
	Size         AircraftSize `json:"size" db:"size"`
}

// Flight 航班模型
type Flight struct {
	ID          int          `json:"id" db:"id"`
	AircraftID  int          `json:"aircraft_id" db:"aircraft_id"`
	RouteID     int          `json:"route_id" db:"route_id"`
	DepartureAt time.Time    `json:"departure_at" db:"departure_at"`
	Status      FlightStatus `json:"status" db:"status"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`

	Route    *Route    `json:"route,omitempty" db:"-"`
	Aircraft *Aircraft `json:"aircraft,omitempty" db:"-"`
}

// ArrivalAt 到達時間 = 起飛時間 + 航線飛行時長
func (f *Flight) ArrivalAt() time.Time {
	if f.Route == nil {
		return f.DepartureAt
	}
	return f.DepartureAt.Add(time.Duration(f.Route.DurationMinutes) * time.Minute)
}

// HasDeparted 是否已起飛
func (f *Flight) HasDeparted(now time.Time) bool {
	return !f.DepartureAt.After(now)
}

// IsBookable 顧客是否可訂位：未起飛且非終態
func (f *Flight) IsBookable(now time.Time) bool {
	return !f.HasDeparted(now) && !f.Status.IsTerminal()
}

// CreateFlightRequest 創建航班請求
type CreateFlightRequest struct {
	AircraftID    int     `json:"aircraft_id" binding:"required"`
	RouteID       int     `json:"route_id" binding:"required"`
	DepartureAt   string  `json:"departure_at" binding:"required"` // RFC3339 UTC
	EconomyPrice  float64 `json:"economy_price"`
	BusinessPrice float64 `json:"business_price"`
}

// SearchFlightsRequest 航班搜尋請求
type SearchFlightsRequest struct {
	Origin        string `form:"origin"`
	Destination   string `form:"destination"`
	DepartureDate string `form:"departure_date"` // YYYY-MM-DD
}

// FlightSearchResult 航班搜尋結果，附可售座位數
type FlightSearchResult struct {
	Flight
	AvailableSeats int `json:"available_seats"`
}

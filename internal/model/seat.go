package model

// SeatClass 艙等
type SeatClass string

const (
	SeatClassEconomy  SeatClass = "economy"
	SeatClassBusiness SeatClass = "business"
)

// IsValid 驗證艙等是否有效
func (c SeatClass) IsValid() bool {
	return c == SeatClassEconomy || c == SeatClassBusiness
}

// SeatStatus 座位庫存狀態
type SeatStatus string

const (
	// SeatStatusAvailable 可售
	SeatStatusAvailable SeatStatus = "available"
	// SeatStatusSold 已售出：只能經由成功的 hold 轉入
	SeatStatusSold SeatStatus = "sold"
	// SeatStatusBlocked 行政鎖定：顧客流程不可觸碰
	SeatStatusBlocked SeatStatus = "blocked"
)

// IsValid 驗證狀態是否有效
func (s SeatStatus) IsValid() bool {
	switch s {
	case SeatStatusAvailable, SeatStatusSold, SeatStatusBlocked:
		return true
	}
	return false
}

// Seat 機體座位模板，(aircraft, row, col) 唯一
type Seat struct {
	ID         int       `json:"id" db:"id"`
	AircraftID int       `json:"aircraft_id" db:"aircraft_id"`
	RowNum     int       `json:"row_num" db:"row_num"`
	ColNum     string    `json:"col_num" db:"col_num"`
	Class      SeatClass `json:"class" db:"class"`
}

// FlightSeat 庫存槽位：每個 (flight, seat) 恰好一筆
type FlightSeat struct {
	ID       int        `json:"id" db:"id"`
	FlightID int        `json:"flight_id" db:"flight_id"`
	SeatID   int        `json:"seat_id" db:"seat_id"`
	Price    *float64   `json:"price" db:"price"`
	Status   SeatStatus `json:"status" db:"status"`

	RowNum int       `json:"row_num,omitempty" db:"-"`
	ColNum string    `json:"col_num,omitempty" db:"-"`
	Class  SeatClass `json:"class,omitempty" db:"-"`
}

// PriceOrZero 回傳槽位價格，未定價視為 0
func (s *FlightSeat) PriceOrZero() float64 {
	if s.Price == nil {
		return 0
	}
	return *s.Price
}

// UpdateClassPriceRequest 管理者批次更新艙等價格請求
type UpdateClassPriceRequest struct {
	Class SeatClass `json:"class" binding:"required"`
	Price float64   `json:"price" binding:"required,gt=0"`
}

// UpdateSeatStatusRequest 管理者手動切換單一槽位狀態（available↔blocked）
type UpdateSeatStatusRequest struct {
	Status SeatStatus `json:"status" binding:"required"`
}

// SelectSeatsRequest 顧客選位請求（確認付款前的暫留）
type SelectSeatsRequest struct {
	SeatIDs   []int  `json:"seat_ids" binding:"required,min=1"`
	SessionID string `json:"session_id"`
}

package model

import "time"

// OrderStatus 訂單狀態類型
type OrderStatus string

const (
	OrderStatusActive            OrderStatus = "active"
	OrderStatusCompleted         OrderStatus = "completed"
	OrderStatusCancelledCustomer OrderStatus = "cancelled_customer"
	OrderStatusCancelledSystem   OrderStatus = "cancelled_system"
)

// IsValid 驗證狀態是否有效
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusActive, OrderStatusCompleted, OrderStatusCancelledCustomer, OrderStatusCancelledSystem:
		return true
	}
	return false
}

// IsCancelled 是否為取消狀態（顧客或系統）
func (s OrderStatus) IsCancelled() bool {
	return s == OrderStatusCancelledCustomer || s == OrderStatusCancelledSystem
}

// CanTransitionTo 檢查是否可以轉換到目標狀態；Active 以外皆為終態
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	transitions := map[OrderStatus][]OrderStatus{
		OrderStatusActive: {OrderStatusCompleted, OrderStatusCancelledCustomer, OrderStatusCancelledSystem},
	}

	for _, status := range transitions[s] {
		if status == target {
			return true
		}
	}
	return false
}

// CustomerType 顧客類型
type CustomerType string

const (
	CustomerTypeRegistered CustomerType = "registered"
	CustomerTypeGuest      CustomerType = "guest"
)

// Order 訂單模型：與至少一張 Ticket 同交易建立，永不刪除
type Order struct {
	ID            int          `json:"id" db:"id"`
	Code          string       `json:"code" db:"code"`
	CustomerEmail string       `json:"customer_email" db:"customer_email"`
	CustomerType  CustomerType `json:"customer_type" db:"customer_type"`
	FlightID      int          `json:"flight_id" db:"flight_id"`
	Status        OrderStatus  `json:"status" db:"status"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
	CancelledAt   *time.Time   `json:"cancelled_at,omitempty" db:"cancelled_at"`
}

// Ticket 機票：一張 Ticket 連結一筆訂單與一個庫存槽位
type Ticket struct {
	ID           int     `json:"id" db:"id"`
	OrderID      int     `json:"order_id" db:"order_id"`
	FlightSeatID int     `json:"flight_seat_id" db:"flight_seat_id"`
	PaidPrice    float64 `json:"paid_price" db:"paid_price"`

	RowNum int       `json:"row_num,omitempty" db:"-"`
	ColNum string    `json:"col_num,omitempty" db:"-"`
	Class  SeatClass `json:"class,omitempty" db:"-"`
}

// CreateOrderRequest 創建訂單請求
type CreateOrderRequest struct {
	CustomerEmail string       `json:"customer_email" binding:"required,email"`
	CustomerType  CustomerType `json:"customer_type" binding:"required"`
	FlightID      int          `json:"flight_id" binding:"required"`
	SeatIDs       []int        `json:"seat_ids" binding:"required,min=1"`
	SessionID     string       `json:"session_id"`
}

// OrderSummary 訂單查詢結果：訂單 + 機票 + 付款摘要
type OrderSummary struct {
	Order       Order     `json:"order"`
	Flight      Flight    `json:"flight"`
	Tickets     []*Ticket `json:"tickets"`
	TotalPaid   float64   `json:"total_paid"`
	Fee         float64   `json:"fee"`
	Refund      float64   `json:"refund"`
	AmountOwed  float64   `json:"amount_owed"`
	Cancellable bool      `json:"cancellable"`
}

// CancelResult 顧客取消結果
type CancelResult struct {
	Order  *Order  `json:"order"`
	Total  float64 `json:"total"`
	Fee    float64 `json:"fee"`
	Refund float64 `json:"refund"`
}

// OrderEventType 訂單生命週期事件類型
type OrderEventType string

const (
	OrderEventCreated         OrderEventType = "created"
	OrderEventCancelled       OrderEventType = "cancelled"
	OrderEventFlightCancelled OrderEventType = "flight_cancelled"
)

// OrderEvent 提交後發布的生命週期事件，由 worker 消費以刷新可售座位快取
type OrderEvent struct {
	Type       OrderEventType `json:"type"`
	OrderCode  string         `json:"order_code,omitempty"`
	FlightID   int            `json:"flight_id"`
	OccurredAt time.Time      `json:"occurred_at"`
}

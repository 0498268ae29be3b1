package service

import (
	"context"
	"time"

	"flytau/internal/cache"
	"flytau/internal/model"
	"flytau/internal/policy"
	"flytau/internal/queue"
	"flytau/internal/repository"
	apperrors "flytau/pkg/app_errors"
	"flytau/pkg/clock"
	"flytau/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type OrderService interface {
	// 創建訂單：同一交易內完成 訂單+機票+庫存售出+佔用同步
	Create(ctx context.Context, req model.CreateOrderRequest) (*model.OrderSummary, error)
	// 以訂單編號查詢；讀取時惰性推進狀態（到期完成、航班取消）
	GetByCode(ctx context.Context, code string) (*model.OrderSummary, error)
	// 依顧客 email 列出訂單（註冊與訪客一致），逐筆套用惰性轉換
	ListByCustomer(ctx context.Context, email string, status *model.OrderStatus) ([]*model.OrderSummary, error)
	// 顧客取消：36 小時窗口內，收 5% 手續費並釋放座位
	CancelByCustomer(ctx context.Context, code string) (*model.CancelResult, error)
}

type OrderServiceImpl struct {
	pool             *pgxpool.Pool
	repository       repository.OrderRepository
	flightRepository repository.FlightRepository
	inventory        InventoryService
	holdManager      cache.RedisSeatHoldManager
	eventQueue       queue.OrderEventQueue
	now              clock.NowFunc
}

func NewOrderService(
	pool *pgxpool.Pool,
	orderRepository repository.OrderRepository,
	flightRepository repository.FlightRepository,
	inventory InventoryService,
	holdManager cache.RedisSeatHoldManager,
	eventQueue queue.OrderEventQueue,
	now clock.NowFunc,
) OrderService {
	return &OrderServiceImpl{
		pool:             pool,
		repository:       orderRepository,
		flightRepository: flightRepository,
		inventory:        inventory,
		holdManager:      holdManager,
		eventQueue:       eventQueue,
		now:              now,
	}
}

func (s *OrderServiceImpl) Create(ctx context.Context, req model.CreateOrderRequest) (*model.OrderSummary, error) {
	if len(req.SeatIDs) == 0 {
		return nil, apperrors.ErrInvalidInput
	}
	if req.CustomerType != model.CustomerTypeRegistered && req.CustomerType != model.CustomerTypeGuest {
		return nil, apperrors.ErrInvalidInput
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 1. 鎖定航班並確認可訂位
	flight, err := s.flightRepository.FindByIDWithLock(ctx, tx, req.FlightID)
	if err != nil {
		return nil, err
	}
	if !flight.IsBookable(s.now()) {
		return nil, apperrors.ErrFlightNotBookable
	}

	// 2. 售出座位：條件式 UPDATE 是唯一的防超賣關卡，Redis 暫留只是前置體驗
	seats, err := s.inventory.Sell(ctx, tx, flight.ID, req.SeatIDs)
	if err != nil {
		return nil, err
	}

	// 3. 取號並寫入訂單
	code, err := s.repository.NextOrderCode(ctx, tx)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		Code:          code,
		CustomerEmail: req.CustomerEmail,
		CustomerType:  req.CustomerType,
		FlightID:      flight.ID,
		Status:        model.OrderStatusActive,
		CreatedAt:     s.now(),
	}
	order, err = s.repository.Create(ctx, tx, order)
	if err != nil {
		return nil, err
	}

	// 4. 逐座位寫入機票，票價在此刻快照，日後改價不影響已售票
	tickets := make([]*model.Ticket, 0, len(seats))
	total := 0.0
	for _, seat := range seats {
		ticket := &model.Ticket{
			OrderID:      order.ID,
			FlightSeatID: seat.ID,
			PaidPrice:    seat.PriceOrZero(),
			RowNum:       seat.RowNum,
			ColNum:       seat.ColNum,
			Class:        seat.Class,
		}
		if err := s.repository.InsertTicket(ctx, tx, ticket); err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
		total += ticket.PaidPrice
	}

	// 5. 最後一個座位售出時航班轉 FullyOccupied
	if err := s.inventory.SyncFlightOccupancy(ctx, tx, flight); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	// 提交後清理：釋放選位暫留、發布事件。兩者失敗都不影響已成立的訂單
	if req.SessionID != "" {
		if err := s.holdManager.ReleaseSeats(context.Background(), flight.ID, req.SeatIDs, req.SessionID); err != nil {
			logger.WithComponent("order").Warn("release seat holds failed",
				zap.String("order_code", order.Code), zap.Error(err))
		}
	}
	s.publishEvent(model.OrderEventCreated, order.Code, flight.ID)

	return s.buildSummary(order, flight, tickets, total), nil
}

func (s *OrderServiceImpl) GetByCode(ctx context.Context, code string) (*model.OrderSummary, error) {
	order, err := s.repository.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	order, flight, err := s.syncOrderState(ctx, order)
	if err != nil {
		return nil, err
	}

	tickets, err := s.repository.ListTickets(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	total := 0.0
	for _, t := range tickets {
		total += t.PaidPrice
	}

	return s.buildSummary(order, flight, tickets, total), nil
}

func (s *OrderServiceImpl) ListByCustomer(ctx context.Context, email string, status *model.OrderStatus) ([]*model.OrderSummary, error) {
	orders, err := s.repository.ListByCustomer(ctx, email, nil)
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.OrderSummary, 0, len(orders))
	for _, order := range orders {
		order, flight, err := s.syncOrderState(ctx, order)
		if err != nil {
			return nil, err
		}
		// 狀態過濾在惰性轉換之後套用，顧客看到的永遠是推進後的狀態
		if status != nil && order.Status != *status {
			continue
		}

		tickets, err := s.repository.ListTickets(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		total := 0.0
		for _, t := range tickets {
			total += t.PaidPrice
		}
		summaries = append(summaries, s.buildSummary(order, flight, tickets, total))
	}
	return summaries, nil
}

func (s *OrderServiceImpl) CancelByCustomer(ctx context.Context, code string) (*model.CancelResult, error) {
	order, err := s.repository.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	// 先惰性推進：航班已取消的訂單轉 cancelled_system，到期的轉 completed
	order, flight, err := s.syncOrderState(ctx, order)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusActive {
		// 惰性推進會把過了取消窗口的訂單轉 completed；
		// 對顧客而言這是窗口已關，不是狀態衝突
		if order.Status == model.OrderStatusCompleted && flight.Status != model.FlightStatusCancelled &&
			!policy.CustomerCancellable(flight.DepartureAt, s.now()) {
			return nil, apperrors.ErrCancellationWindowClosed
		}
		return nil, apperrors.ErrPersistenceConflict
	}

	now := s.now()
	if !policy.CustomerCancellable(flight.DepartureAt, now) {
		return nil, apperrors.ErrCancellationWindowClosed
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 鎖定後重新檢查，避免與另一個取消/推進交易競態
	order, err = s.repository.FindByCodeWithLock(ctx, tx, code)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusActive {
		return nil, apperrors.ErrPersistenceConflict
	}

	lockedFlight, err := s.flightRepository.FindByIDWithLock(ctx, tx, order.FlightID)
	if err != nil {
		return nil, err
	}

	total, err := s.repository.TotalPaid(ctx, tx, order.ID)
	if err != nil {
		return nil, err
	}
	fee := policy.RefundFee(total)

	if err := s.repository.UpdateStatus(ctx, tx, order.ID, model.OrderStatusCancelledCustomer, &now); err != nil {
		return nil, err
	}

	// 釋放座位回 available，並視剩餘可售數把航班從 FullyOccupied 拉回 Active
	seatIDs, err := s.repository.SeatIDsForOrder(ctx, tx, order.ID)
	if err != nil {
		return nil, err
	}
	if err := s.inventory.Release(ctx, tx, order.FlightID, seatIDs); err != nil {
		return nil, err
	}
	if err := s.inventory.SyncFlightOccupancy(ctx, tx, lockedFlight); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	order.Status = model.OrderStatusCancelledCustomer
	order.CancelledAt = &now
	s.publishEvent(model.OrderEventCancelled, order.Code, order.FlightID)

	return &model.CancelResult{
		Order:  order,
		Total:  total,
		Fee:    fee,
		Refund: total - fee,
	}, nil
}

// syncOrderState 讀取時惰性推進訂單狀態：
// 航班已取消 → cancelled_system（座位轉 blocked）；取消窗口已關 → completed。
// 推進在獨立短交易內完成，與讀取路徑解耦。
func (s *OrderServiceImpl) syncOrderState(ctx context.Context, order *model.Order) (*model.Order, *model.Flight, error) {
	flight, err := s.flightRepository.FindByID(ctx, order.FlightID)
	if err != nil {
		return nil, nil, err
	}
	if order.Status != model.OrderStatusActive {
		return order, flight, nil
	}

	var target model.OrderStatus
	var cancelledAt *time.Time
	switch {
	case flight.Status == model.FlightStatusCancelled:
		target = model.OrderStatusCancelledSystem
		now := s.now()
		cancelledAt = &now
	case policy.CompletionDue(flight.DepartureAt, s.now()):
		target = model.OrderStatusCompleted
	default:
		return order, flight, nil
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	locked, err := s.repository.FindByCodeWithLock(ctx, tx, order.Code)
	if err != nil {
		return nil, nil, err
	}
	if locked.Status != model.OrderStatusActive {
		// 別的請求已經推進過了
		return locked, flight, nil
	}

	if err := s.repository.UpdateStatus(ctx, tx, locked.ID, target, cancelledAt); err != nil {
		return nil, nil, err
	}
	if target == model.OrderStatusCancelledSystem {
		if err := s.inventory.BlockForOrder(ctx, tx, locked.ID); err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	locked.Status = target
	locked.CancelledAt = cancelledAt
	return locked, flight, nil
}

func (s *OrderServiceImpl) buildSummary(order *model.Order, flight *model.Flight, tickets []*model.Ticket, total float64) *model.OrderSummary {
	summary := &model.OrderSummary{
		Order:     *order,
		Flight:    *flight,
		Tickets:   tickets,
		TotalPaid: total,
	}

	switch order.Status {
	case model.OrderStatusActive:
		summary.AmountOwed = total
		summary.Cancellable = policy.CustomerCancellable(flight.DepartureAt, s.now())
		if summary.Cancellable {
			summary.Fee = policy.RefundFee(total)
			summary.Refund = total - summary.Fee
		}
	case model.OrderStatusCompleted:
		summary.AmountOwed = total
	case model.OrderStatusCancelledCustomer:
		summary.Fee = policy.RefundFee(total)
		summary.Refund = total - summary.Fee
		summary.AmountOwed = summary.Fee
	case model.OrderStatusCancelledSystem:
		// 系統取消全額退款，顧客不付任何費用
		summary.Refund = total
	}
	return summary
}

// publishEvent 提交後發布生命週期事件；發布失敗只記錄，快取會在下次讀取時回源
func (s *OrderServiceImpl) publishEvent(eventType model.OrderEventType, orderCode string, flightID int) {
	event := &model.OrderEvent{
		Type:       eventType,
		OrderCode:  orderCode,
		FlightID:   flightID,
		OccurredAt: s.now(),
	}
	if err := s.eventQueue.PublishEvent(context.Background(), event); err != nil {
		logger.WithComponent("order").Warn("publish order event failed",
			zap.String("event_type", string(eventType)),
			zap.String("order_code", orderCode),
			zap.Error(err))
	}
}

package service

import (
	"context"

	"flytau/config"
	"flytau/internal/cache"
	"flytau/internal/model"
	"flytau/internal/repository"
	apperrors "flytau/pkg/app_errors"
	"flytau/pkg/clock"
	"flytau/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type InventoryService interface {
	// 座位表：該航班的全部庫存槽位（含狀態與價格）
	ListSeats(ctx context.Context, flightID int) ([]*model.FlightSeat, error)
	// 可供選位的座位：available 且未被其他 session 暫留
	ListSelectable(ctx context.Context, flightID int, sessionID string) ([]*model.FlightSeat, error)
	// 選位暫留(Redis TTL)，全有或全無；回傳 session id 供確認下單使用
	SelectSeats(ctx context.Context, flightID int, req model.SelectSeatsRequest) (string, error)
	// 放棄選位：只釋放屬於該 session 的暫留
	ReleaseSelection(ctx context.Context, flightID int, seatIDs []int, sessionID string) error
	// 可售座位數：優先讀快取，miss 時回源資料庫並回填
	GetAvailability(ctx context.Context, flightID int) (int, error)
	// 重算可售座位數並更新快取，worker 消費事件後呼叫
	RefreshAvailability(ctx context.Context, flightID int) error

	// Transaction methods
	// 售出：條件式 UPDATE 保證不超賣；回傳帶定價的槽位供票價快照
	Sell(ctx context.Context, tx pgx.Tx, flightID int, seatIDs []int) ([]*model.FlightSeat, error)
	// 釋放：sold 槽位回到 available，冪等
	Release(ctx context.Context, tx pgx.Tx, flightID int, seatIDs []int) error
	// 系統取消：把訂單名下的槽位整批轉 blocked
	BlockForOrder(ctx context.Context, tx pgx.Tx, orderID int) error
	// 管理者手動切換單一槽位 available↔blocked，不可觸碰已售槽位
	SetSlotStatus(ctx context.Context, tx pgx.Tx, flightID int, slotID int, status model.SeatStatus) error
	// 依剩餘可售數同步航班 Active/FullyOccupied，終態與已起飛不動
	SyncFlightOccupancy(ctx context.Context, tx pgx.Tx, flight *model.Flight) error
}

type InventoryServiceImpl struct {
	seatRepository   repository.SeatRepository
	flightRepository repository.FlightRepository
	holdManager      cache.RedisSeatHoldManager
	availability     cache.RedisAvailabilityCache
	bookingConfig    config.BookingConfig
	now              clock.NowFunc
}

func NewInventoryService(
	seatRepository repository.SeatRepository,
	flightRepository repository.FlightRepository,
	holdManager cache.RedisSeatHoldManager,
	availability cache.RedisAvailabilityCache,
	bookingConfig config.BookingConfig,
	now clock.NowFunc,
) InventoryService {
	return &InventoryServiceImpl{
		seatRepository:   seatRepository,
		flightRepository: flightRepository,
		holdManager:      holdManager,
		availability:     availability,
		bookingConfig:    bookingConfig,
		now:              now,
	}
}

func (s *InventoryServiceImpl) ListSeats(ctx context.Context, flightID int) ([]*model.FlightSeat, error) {
	if _, err := s.flightRepository.FindByID(ctx, flightID); err != nil {
		return nil, err
	}
	return s.seatRepository.ListByFlight(ctx, flightID)
}

func (s *InventoryServiceImpl) ListSelectable(ctx context.Context, flightID int, sessionID string) ([]*model.FlightSeat, error) {
	seats, err := s.seatRepository.ListAvailableByFlight(ctx, flightID)
	if err != nil {
		return nil, err
	}

	selectable := make([]*model.FlightSeat, 0, len(seats))
	for _, seat := range seats {
		holder, err := s.holdManager.HolderOf(ctx, flightID, seat.ID)
		if err != nil {
			return nil, err
		}
		// 被別人暫留的座位先從畫面上拿掉；最終裁決仍在資料庫
		if holder != "" && holder != sessionID {
			continue
		}
		selectable = append(selectable, seat)
	}
	return selectable, nil
}

func (s *InventoryServiceImpl) SelectSeats(ctx context.Context, flightID int, req model.SelectSeatsRequest) (string, error) {
	flight, err := s.flightRepository.FindByID(ctx, flightID)
	if err != nil {
		return "", err
	}
	if !flight.IsBookable(s.now()) {
		return "", apperrors.ErrFlightNotBookable
	}

	// 暫留前先確認這批座位目前都可售，避免對 sold/blocked 的座位做無意義的暫留
	available, err := s.seatRepository.ListAvailableByFlight(ctx, flightID)
	if err != nil {
		return "", err
	}
	availableSet := make(map[int]bool, len(available))
	for _, seat := range available {
		availableSet[seat.ID] = true
	}
	for _, seatID := range req.SeatIDs {
		if !availableSet[seatID] {
			return "", apperrors.ErrSeatUnavailable
		}
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	err = s.holdManager.HoldSeats(ctx, flightID, req.SeatIDs, sessionID, s.bookingConfig.SeatSelectionTTL)
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

func (s *InventoryServiceImpl) ReleaseSelection(ctx context.Context, flightID int, seatIDs []int, sessionID string) error {
	return s.holdManager.ReleaseSeats(ctx, flightID, seatIDs, sessionID)
}

func (s *InventoryServiceImpl) GetAvailability(ctx context.Context, flightID int) (int, error) {
	count, hit, err := s.availability.Get(ctx, flightID)
	if err != nil {
		// 快取故障時直接回源，不讓 Redis 阻斷讀路徑
		logger.WithComponent("inventory").Warn("availability cache read failed",
			zap.Int("flight_id", flightID), zap.Error(err))
	} else if hit {
		return count, nil
	}

	count, err = s.seatRepository.CountAvailable(ctx, flightID)
	if err != nil {
		return 0, err
	}

	if err := s.availability.Set(ctx, flightID, count); err != nil {
		logger.WithComponent("inventory").Warn("availability cache backfill failed",
			zap.Int("flight_id", flightID), zap.Error(err))
	}
	return count, nil
}

func (s *InventoryServiceImpl) RefreshAvailability(ctx context.Context, flightID int) error {
	count, err := s.seatRepository.CountAvailable(ctx, flightID)
	if err != nil {
		return err
	}
	return s.availability.Set(ctx, flightID, count)
}

func (s *InventoryServiceImpl) Sell(ctx context.Context, tx pgx.Tx, flightID int, seatIDs []int) ([]*model.FlightSeat, error) {
	// 1. 鎖定這批槽位並確認都屬於該航班
	seats, err := s.seatRepository.FindByIDs(ctx, tx, flightID, seatIDs)
	if err != nil {
		return nil, err
	}
	if len(seats) != len(seatIDs) {
		return nil, apperrors.ErrSeatUnavailable
	}

	// 2. 條件式 UPDATE：只有 available 的槽位會被改成 sold，
	//    RowsAffected 不足即代表有人先買走，整批失敗
	if err := s.seatRepository.MarkSold(ctx, tx, flightID, seatIDs); err != nil {
		return nil, err
	}

	return seats, nil
}

func (s *InventoryServiceImpl) Release(ctx context.Context, tx pgx.Tx, flightID int, seatIDs []int) error {
	return s.seatRepository.Release(ctx, tx, flightID, seatIDs)
}

func (s *InventoryServiceImpl) BlockForOrder(ctx context.Context, tx pgx.Tx, orderID int) error {
	return s.seatRepository.SetStatusForOrder(ctx, tx, orderID, model.SeatStatusBlocked)
}

func (s *InventoryServiceImpl) SetSlotStatus(ctx context.Context, tx pgx.Tx, flightID int, slotID int, status model.SeatStatus) error {
	return s.seatRepository.SetSlotStatus(ctx, tx, flightID, slotID, status)
}

func (s *InventoryServiceImpl) SyncFlightOccupancy(ctx context.Context, tx pgx.Tx, flight *model.Flight) error {
	if flight.Status.IsTerminal() || flight.HasDeparted(s.now()) {
		return nil
	}

	remaining, err := s.seatRepository.CountAvailableTx(ctx, tx, flight.ID)
	if err != nil {
		return err
	}

	switch {
	case remaining == 0 && flight.Status == model.FlightStatusActive:
		return s.flightRepository.UpdateStatus(ctx, tx, flight.ID, model.FlightStatusFullyOccupied, s.now())
	case remaining > 0 && flight.Status == model.FlightStatusFullyOccupied:
		return s.flightRepository.UpdateStatus(ctx, tx, flight.ID, model.FlightStatusActive, s.now())
	}
	return nil
}

package service

import (
	"context"
	"time"

	"flytau/config"
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

type FlightService interface {
	// 創建航班並依機體模板生成整批庫存槽位（同一交易）
	Create(ctx context.Context, req model.CreateFlightRequest) (*model.Flight, error)
	// 查詢單一航班；到達時間已過的航班惰性轉 Completed
	GetByID(ctx context.Context, id int) (*model.Flight, error)
	// 顧客航班搜尋，附可售座位數（快取優先）
	Search(ctx context.Context, req model.SearchFlightsRequest) ([]*model.FlightSearchResult, error)
	// 管理者批次調整艙等價格，只影響尚未售出的槽位
	UpdateClassPrice(ctx context.Context, flightID int, req model.UpdateClassPriceRequest) error
	// 管理者手動切換單一槽位 available↔blocked，不可觸碰已售槽位
	SetSeatStatus(ctx context.Context, flightID int, slotID int, req model.UpdateSeatStatusRequest) error
	// 營運取消：起飛前 72 小時內不可；級聯取消訂單、封鎖座位、清空機組
	Cancel(ctx context.Context, flightID int) error
}

type FlightServiceImpl struct {
	pool           *pgxpool.Pool
	repository     repository.FlightRepository
	seatRepository repository.SeatRepository
	orderRepo      repository.OrderRepository
	crewRepository repository.CrewRepository
	inventory      InventoryService
	availability   cache.RedisAvailabilityCache
	eventQueue     queue.OrderEventQueue
	bookingConfig  config.BookingConfig
	now            clock.NowFunc
}

func NewFlightService(
	pool *pgxpool.Pool,
	flightRepository repository.FlightRepository,
	seatRepository repository.SeatRepository,
	orderRepository repository.OrderRepository,
	crewRepository repository.CrewRepository,
	inventory InventoryService,
	availability cache.RedisAvailabilityCache,
	eventQueue queue.OrderEventQueue,
	bookingConfig config.BookingConfig,
	now clock.NowFunc,
) FlightService {
	return &FlightServiceImpl{
		pool:           pool,
		repository:     flightRepository,
		seatRepository: seatRepository,
		orderRepo:      orderRepository,
		crewRepository: crewRepository,
		inventory:      inventory,
		availability:   availability,
		eventQueue:     eventQueue,
		bookingConfig:  bookingConfig,
		now:            now,
	}
}

func (s *FlightServiceImpl) Create(ctx context.Context, req model.CreateFlightRequest) (*model.Flight, error) {
	departureAt, err := time.Parse(time.RFC3339, req.DepartureAt)
	if err != nil {
		return nil, apperrors.ErrInvalidInput
	}
	departureAt = departureAt.UTC()
	if !departureAt.After(s.now()) {
		return nil, apperrors.ErrInvalidInput
	}

	aircraft, err := s.repository.FindAircraft(ctx, req.AircraftID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repository.FindRoute(ctx, req.RouteID); err != nil {
		return nil, err
	}

	templates, err := s.repository.ListSeatTemplates(ctx, aircraft.ID)
	if err != nil {
		return nil, err
	}

	economyPrice := req.EconomyPrice
	if economyPrice <= 0 {
		economyPrice = s.bookingConfig.DefaultEconomyPrice
	}
	businessPrice := req.BusinessPrice
	if businessPrice <= 0 {
		businessPrice = s.bookingConfig.DefaultBusinessPrice
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	flight := &model.Flight{
		AircraftID:  aircraft.ID,
		RouteID:     req.RouteID,
		DepartureAt: departureAt,
		Status:      model.FlightStatusActive,
	}
	flight, err = s.repository.Create(ctx, tx, flight)
	if err != nil {
		return nil, err
	}

	// 依機體座位模板生成庫存槽位，每個 (flight, seat) 恰好一筆
	for _, seat := range templates {
		price := economyPrice
		if seat.Class == model.SeatClassBusiness {
			price = businessPrice
		}
		if err := s.seatRepository.CreateForFlight(ctx, tx, flight.ID, seat.ID, price); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if err := s.availability.Set(ctx, flight.ID, len(templates)); err != nil {
		logger.WithComponent("flight").Warn("seed availability cache failed",
			zap.Int("flight_id", flight.ID), zap.Error(err))
	}
	return s.repository.FindByID(ctx, flight.ID)
}

func (s *FlightServiceImpl) GetByID(ctx context.Context, id int) (*model.Flight, error) {
	flight, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 惰性完成：到達時間已過且非終態的航班轉 Completed
	if !flight.Status.IsTerminal() && !flight.ArrivalAt().After(s.now()) {
		if err := s.markCompleted(ctx, flight.ID); err != nil {
			return nil, err
		}
		return s.repository.FindByID(ctx, id)
	}
	return flight, nil
}

func (s *FlightServiceImpl) Search(ctx context.Context, req model.SearchFlightsRequest) ([]*model.FlightSearchResult, error) {
	var departureDate *time.Time
	if req.DepartureDate != "" {
		d, err := time.Parse("2006-01-02", req.DepartureDate)
		if err != nil {
			return nil, apperrors.ErrInvalidInput
		}
		departureDate = &d
	}

	flights, err := s.repository.Search(ctx, req.Origin, req.Destination, departureDate)
	if err != nil {
		return nil, err
	}

	now := s.now()
	results := make([]*model.FlightSearchResult, 0, len(flights))
	for _, flight := range flights {
		if !flight.IsBookable(now) {
			continue
		}

		available, hit, err := s.availability.Get(ctx, flight.ID)
		if err != nil || !hit {
			available, err = s.seatRepository.CountAvailable(ctx, flight.ID)
			if err != nil {
				return nil, err
			}
			if err := s.availability.Set(ctx, flight.ID, available); err != nil {
				logger.WithComponent("flight").Warn("availability cache backfill failed",
					zap.Int("flight_id", flight.ID), zap.Error(err))
			}
		}

		results = append(results, &model.FlightSearchResult{
			Flight:         *flight,
			AvailableSeats: available,
		})
	}
	return results, nil
}

func (s *FlightServiceImpl) UpdateClassPrice(ctx context.Context, flightID int, req model.UpdateClassPriceRequest) error {
	if !req.Class.IsValid() || req.Price <= 0 {
		return apperrors.ErrInvalidInput
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	flight, err := s.repository.FindByIDWithLock(ctx, tx, flightID)
	if err != nil {
		return err
	}
	if flight.Status.IsTerminal() {
		return apperrors.ErrPersistenceConflict
	}

	// 只改 available/blocked 槽位；已售票的 paid_price 是快照，不受影響
	if err := s.seatRepository.UpdateClassPrice(ctx, tx, flightID, req.Class, req.Price); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *FlightServiceImpl) SetSeatStatus(ctx context.Context, flightID int, slotID int, req model.UpdateSeatStatusRequest) error {
	if req.Status != model.SeatStatusAvailable && req.Status != model.SeatStatusBlocked {
		return apperrors.ErrInvalidInput
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	flight, err := s.repository.FindByIDWithLock(ctx, tx, flightID)
	if err != nil {
		return err
	}
	if flight.Status.IsTerminal() || flight.HasDeparted(s.now()) {
		return apperrors.ErrPersistenceConflict
	}

	if err := s.inventory.SetSlotStatus(ctx, tx, flightID, slotID, req.Status); err != nil {
		return err
	}

	// 封鎖最後一個可售槽位會讓航班轉滿；解封則轉回 active
	remaining, err := s.seatRepository.CountAvailableTx(ctx, tx, flightID)
	if err != nil {
		return err
	}
	if remaining == 0 && flight.Status == model.FlightStatusActive {
		if err := s.repository.UpdateStatus(ctx, tx, flightID, model.FlightStatusFullyOccupied, s.now()); err != nil {
			return err
		}
	}
	if remaining > 0 && flight.Status == model.FlightStatusFullyOccupied {
		if err := s.repository.UpdateStatus(ctx, tx, flightID, model.FlightStatusActive, s.now()); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if err := s.availability.Set(ctx, flightID, remaining); err != nil {
		logger.WithComponent("flight").Warn("refresh availability cache failed",
			zap.Int("flight_id", flightID), zap.Error(err))
	}
	return nil
}

func (s *FlightServiceImpl) Cancel(ctx context.Context, flightID int) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	flight, err := s.repository.FindByIDWithLock(ctx, tx, flightID)
	if err != nil {
		return err
	}
	if flight.Status.IsTerminal() {
		return apperrors.ErrPersistenceConflict
	}

	now := s.now()
	if !policy.OperationalCancelAllowed(flight.DepartureAt, now) {
		return apperrors.ErrOperationalCancelTooLate
	}

	if err := s.repository.UpdateStatus(ctx, tx, flightID, model.FlightStatusCancelled, now); err != nil {
		return err
	}

	// 級聯：所有 active 訂單轉 cancelled_system（全額退款），座位轉 blocked
	orders, err := s.orderRepo.ListActiveByFlight(ctx, tx, flightID)
	if err != nil {
		return err
	}
	for _, order := range orders {
		if err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, model.OrderStatusCancelledSystem, &now); err != nil {
			return err
		}
		if err := s.inventory.BlockForOrder(ctx, tx, order.ID); err != nil {
			return err
		}
	}

	// 機組整批解除，時數不計入報表
	if err := s.crewRepository.ClearAll(ctx, tx, flightID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if err := s.availability.Invalidate(ctx, flightID); err != nil {
		logger.WithComponent("flight").Warn("invalidate availability cache failed",
			zap.Int("flight_id", flightID), zap.Error(err))
	}

	event := &model.OrderEvent{
		Type:       model.OrderEventFlightCancelled,
		FlightID:   flightID,
		OccurredAt: now,
	}
	if err := s.eventQueue.PublishEvent(context.Background(), event); err != nil {
		logger.WithComponent("flight").Warn("publish flight cancelled event failed",
			zap.Int("flight_id", flightID), zap.Error(err))
	}
	return nil
}

// markCompleted 在短交易內把航班推進到 Completed；鎖定後重檢以避免重複推進
func (s *FlightServiceImpl) markCompleted(ctx context.Context, flightID int) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	flight, err := s.repository.FindByIDWithLock(ctx, tx, flightID)
	if err != nil {
		return err
	}
	if flight.Status.IsTerminal() || flight.ArrivalAt().After(s.now()) {
		return nil
	}

	if err := s.repository.UpdateStatus(ctx, tx, flightID, model.FlightStatusCompleted, s.now()); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

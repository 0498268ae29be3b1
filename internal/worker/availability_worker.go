package worker

import (
	"context"

	"flytau/internal/queue"
	"flytau/internal/service"
	"flytau/pkg/logger"

	"go.uber.org/zap"
)

type AvailabilityWorker interface {
	// 訂閱訂單事件隊列
	Start(ctx context.Context) error
}

type AvailabilityWorkerImpl struct {
	inventory service.InventoryService
	queue     queue.OrderEventQueue
}

func NewAvailabilityWorker(inventory service.InventoryService, queue queue.OrderEventQueue) AvailabilityWorker {
	return &AvailabilityWorkerImpl{
		inventory: inventory,
		queue:     queue,
	}
}

func (w *AvailabilityWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeEvents(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			// 事件只驅動快取刷新；訂單本身已在交易內落庫
			err := w.inventory.RefreshAvailability(ctx, msg.Data.FlightID)

			if err != nil {
				logger.WithComponent("worker").Warn("refresh availability failed, will retry",
					zap.Int("flight_id", msg.Data.FlightID),
					zap.String("event_type", string(msg.Data.Type)),
					zap.Error(err))
				msg.Nack(true)
			} else {
				msg.Ack()
			}
		}
	}()
	return nil
}

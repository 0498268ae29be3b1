package queue

import (
	"context"

	"flytau/internal/model"
)

type Delivery struct {
	Data *model.OrderEvent
	Ack  func()
	Nack func(requeue bool)
}

// OrderEventQueue 訂單生命週期事件隊列。
// 事件在資料庫交易提交後發布，worker 據此刷新可售座位快取。
type OrderEventQueue interface {
	// 發送事件到隊列
	PublishEvent(ctx context.Context, event *model.OrderEvent) error
	// 訂閱事件隊列
	SubscribeEvents(ctx context.Context) (<-chan Delivery, error)
}

type OrderEventQueueImpl struct {
	// 使用 Go channel 來模擬 MQ 隊列
	ch chan *model.OrderEvent
}

func NewOrderEventQueue(bufferSize int) OrderEventQueue {
	return &OrderEventQueueImpl{
		ch: make(chan *model.OrderEvent, bufferSize),
	}
}

func (q *OrderEventQueueImpl) PublishEvent(ctx context.Context, event *model.OrderEvent) error {
	q.ch <- event
	return nil
}

func (q *OrderEventQueueImpl) SubscribeEvents(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: event,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- event // 簡單模擬重回隊列
						}
					},
				}
			}
		}
	}()

	return out, nil
}

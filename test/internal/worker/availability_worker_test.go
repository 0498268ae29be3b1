package worker

import (
	"context"
	"testing"
	"time"

	"flytau/internal/model"
	"flytau/internal/queue"
	"flytau/internal/service"
	"flytau/internal/worker"
)

func TestAvailabilityWorker_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// 1. 準備：建立自製的 Memory Queue
	q := queue.NewOrderEventQueue(10)

	// 2. 準備：建立一個 Mock Service 來記錄有沒有被呼叫
	refreshed := make(chan int, 1)
	mockSvc := &mockInventoryService{
		onRefresh: func(flightID int) {
			refreshed <- flightID
		},
	}

	// 3. 啟動 Worker
	w := worker.NewAvailabilityWorker(mockSvc, q)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("worker start: %v", err)
	}

	// 4. 執行：模擬訂單提交後發布事件
	event := &model.OrderEvent{
		Type:       model.OrderEventCreated,
		OrderCode:  "O00000001",
		FlightID:   42,
		OccurredAt: time.Now(),
	}
	if err := q.PublishEvent(ctx, event); err != nil {
		t.Fatalf("publish event: %v", err)
	}

	// 5. 驗證：檢查快取刷新是否在時間內被觸發
	select {
	case flightID := <-refreshed:
		if flightID != event.FlightID {
			t.Errorf("刷新了錯誤的航班快取: got %d, want %d", flightID, event.FlightID)
		}
	case <-time.After(1 * time.Second):
		t.Error("超時！Worker 沒有在時間內刷新可售座位快取")
	}
}

// 簡單的 Mock 實作
type mockInventoryService struct {
	service.InventoryService // 嵌入介面
	onRefresh                func(flightID int)
}

func (m *mockInventoryService) RefreshAvailability(ctx context.Context, flightID int) error {
	m.onRefresh(flightID)
	return nil
}

package policy

import (
	"testing"
	"time"

	"flytau/internal/policy"

	"github.com/stretchr/testify/assert"
)

var departure = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestCustomerCancellable(t *testing.T) {
	t.Run("WellBeforeWindow", func(t *testing.T) {
		now := departure.Add(-100 * time.Hour)
		assert.True(t, policy.CustomerCancellable(departure, now))
	})

	t.Run("ExactlyAtBoundary", func(t *testing.T) {
		// 剛好 36 小時仍可取消（含邊界）
		now := departure.Add(-36 * time.Hour)
		assert.True(t, policy.CustomerCancellable(departure, now))
	})

	t.Run("OneSecondInsideWindow", func(t *testing.T) {
		now := departure.Add(-36*time.Hour + time.Second)
		assert.False(t, policy.CustomerCancellable(departure, now))
	})

	t.Run("AfterDeparture", func(t *testing.T) {
		now := departure.Add(time.Hour)
		assert.False(t, policy.CustomerCancellable(departure, now))
	})
}

// 自動完成的時機必須是可取消窗口的嚴格否定，兩者之間不能有空隙
func TestCompletionDue_IsNegationOfCancellable(t *testing.T) {
	offsets := []time.Duration{
		-100 * time.Hour,
		-36*time.Hour - time.Second,
		-36 * time.Hour,
		-36*time.Hour + time.Second,
		-time.Hour,
		0,
		2 * time.Hour,
	}
	for _, offset := range offsets {
		now := departure.Add(offset)
		assert.Equal(t,
			!policy.CustomerCancellable(departure, now),
			policy.CompletionDue(departure, now),
			"offset %v", offset)
	}
}

func TestRefundFee(t *testing.T) {
	tests := []struct {
		total float64
		fee   float64
	}{
		{1000.0, 50.0},
		{400.0, 20.0},
		{333.33, 16.67}, // 16.6665 四捨五入到分
		{0.0, 0.0},
		{0.1, 0.01},     // 0.005 進位
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.fee, policy.RefundFee(tt.total), 1e-9, "total=%v", tt.total)
	}
}

func TestOperationalCancelAllowed(t *testing.T) {
	t.Run("ExactlyAtBoundary", func(t *testing.T) {
		now := departure.Add(-72 * time.Hour)
		assert.True(t, policy.OperationalCancelAllowed(departure, now))
	})

	t.Run("InsideLeadTime", func(t *testing.T) {
		now := departure.Add(-72*time.Hour + time.Minute)
		assert.False(t, policy.OperationalCancelAllowed(departure, now))
	})
}

func TestFeeCreditedToRevenue(t *testing.T) {
	// 起飛前 36 小時（含）以上取消的訂單，5% 手續費計入營收
	assert.True(t, policy.FeeCreditedToRevenue(departure, departure.Add(-36*time.Hour)))
	assert.True(t, policy.FeeCreditedToRevenue(departure, departure.Add(-200*time.Hour)))
	assert.False(t, policy.FeeCreditedToRevenue(departure, departure.Add(-35*time.Hour)))
}

package policy

import (
	"math"
	"time"
)

const (
	// CustomerCancelWindow 顧客取消窗口：起飛前 36 小時（含）
	CustomerCancelWindow = 36 * time.Hour
	// OperationalCancelLead 營運取消航班的前置時間：起飛前 72 小時（含）
	OperationalCancelLead = 72 * time.Hour
	// CancellationFeeRate 顧客取消手續費率
	CancellationFeeRate = 0.05
)

// CustomerCancellable 顧客是否仍可取消訂單。
// 邊界只此一處：dep - now >= 36h 可取消；同一式的否定即為訂單自動完成的時機。
func CustomerCancellable(departureUTC, nowUTC time.Time) bool {
	return departureUTC.Sub(nowUTC) >= CustomerCancelWindow
}

// CompletionDue 訂單是否到期自動轉 Completed（窗口關閉後）
func CompletionDue(departureUTC, nowUTC time.Time) bool {
	return !CustomerCancellable(departureUTC, nowUTC)
}

// RefundFee 顧客取消手續費：票款總額的 5%，四捨五入到分
func RefundFee(totalPaid float64) float64 {
	return math.Round(totalPaid*CancellationFeeRate*100) / 100
}

// OperationalCancelAllowed 管理者是否仍可取消整個航班
func OperationalCancelAllowed(departureUTC, nowUTC time.Time) bool {
	return departureUTC.Sub(nowUTC) >= OperationalCancelLead
}

// FeeCreditedToRevenue 已取消訂單是否計入 5% 營收：取消時刻距起飛 >= 36h
func FeeCreditedToRevenue(departureUTC, cancelledAtUTC time.Time) bool {
	return departureUTC.Sub(cancelledAtUTC) >= CustomerCancelWindow
}

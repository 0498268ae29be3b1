package clock

import "time"

// NowFunc 提供當前 UTC 時間；所有業務規則只透過注入的 NowFunc 讀取時間，
// 測試時可注入固定時間點。
type NowFunc func() time.Time

// System 回傳系統時鐘(UTC)。
func System() NowFunc {
	return func() time.Time {
		return time.Now().UTC()
	}
}

// Fixed 回傳固定時間點的時鐘，測試用。
func Fixed(t time.Time) NowFunc {
	return func() time.Time {
		return t.UTC()
	}
}

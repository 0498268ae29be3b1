package cache

import (
	"context"
	"fmt"
	"time"

	apperrors "flytau/pkg/app_errors"

	"github.com/redis/go-redis/v9"
)

// RedisSeatHoldManager 付款確認前的暫時選位：存活於 Redis、有 TTL 上限，
// 絕不寫入資料庫。確認下單時由資料庫的條件式 UPDATE 做最終裁決。
type RedisSeatHoldManager interface {
	// 暫留：以 Lua 腳本原子地認領整批座位（全有或全無）
	HoldSeats(ctx context.Context, flightID int, seatIDs []int, sessionID string, ttl time.Duration) error
	// 釋放：只釋放屬於該 session 的暫留
	ReleaseSeats(ctx context.Context, flightID int, seatIDs []int, sessionID string) error
	// 查詢：座位目前的暫留持有者；無暫留時回傳空字串
	HolderOf(ctx context.Context, flightID int, seatID int) (string, error)
}

type RedisSeatHoldManagerImpl struct {
	client *redis.Client
}

func NewRedisSeatHoldManager(client *redis.Client) RedisSeatHoldManager {
	return &RedisSeatHoldManagerImpl{
		client: client,
	}
}

// 暫留 key
func (m *RedisSeatHoldManagerImpl) holdKey(flightID, seatID int) string {
	return fmt.Sprintf("flight:%d:seat:%d:hold", flightID, seatID)
}

func (m *RedisSeatHoldManagerImpl) holdKeys(flightID int, seatIDs []int) []string {
	keys := make([]string, 0, len(seatIDs))
	for _, id := range seatIDs {
		keys = append(keys, m.holdKey(flightID, id))
	}
	return keys
}

func (m *RedisSeatHoldManagerImpl) HoldSeats(ctx context.Context, flightID int, seatIDs []int, sessionID string, ttl time.Duration) error {
	if len(seatIDs) == 0 || sessionID == "" {
		return apperrors.ErrInvalidInput
	}

	script := `
		-- 1. 檢查整批座位：任何一個被其他 session 暫留即整批失敗
		for i = 1, #KEYS do
			local holder = redis.call('GET', KEYS[i])
			if holder and holder ~= ARGV[1] then
				return 0
			end
		end

		-- 2. 全部認領並設定 TTL
		for i = 1, #KEYS do
			redis.call('SET', KEYS[i], ARGV[1], 'PX', ARGV[2])
		end

		return 1
	`

	result, err := m.client.Eval(ctx, script,
		m.holdKeys(flightID, seatIDs),
		sessionID, ttl.Milliseconds(),
	).Result()
	if err != nil {
		return err
	}

	if result.(int64) != 1 {
		return apperrors.ErrSeatUnavailable
	}

	return nil
}

func (m *RedisSeatHoldManagerImpl) ReleaseSeats(ctx context.Context, flightID int, seatIDs []int, sessionID string) error {
	if len(seatIDs) == 0 {
		return nil
	}

	script := `
		-- 只刪除屬於該 session 的暫留，避免誤刪他人的選位
		for i = 1, #KEYS do
			local holder = redis.call('GET', KEYS[i])
			if holder == ARGV[1] then
				redis.call('DEL', KEYS[i])
			end
		end
		return 1
	`

	_, err := m.client.Eval(ctx, script, m.holdKeys(flightID, seatIDs), sessionID).Result()
	return err
}

func (m *RedisSeatHoldManagerImpl) HolderOf(ctx context.Context, flightID int, seatID int) (string, error) {
	holder, err := m.client.Get(ctx, m.holdKey(flightID, seatID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return holder, nil
}

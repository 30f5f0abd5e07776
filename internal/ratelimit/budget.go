package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// BudgetResult is the outcome of a daily spend check. Amounts are in
// micro-dollars (USD * 1e6) so provider costs survive integer accounting.
type BudgetResult struct {
	Allowed    bool
	SpentMicro int64
	LimitMicro int64
}

// MicroUSD converts a USD amount to micro-dollars.
func MicroUSD(usd float64) int64 {
	return int64(math.Round(usd * 1e6))
}

// BudgetTracker tracks daily generation spend per API key via Redis.
type BudgetTracker struct {
	rdb *redis.Client
}

// NewBudgetTracker creates a budget tracker. If rdb is nil, all checks pass.
func NewBudgetTracker(rdb *redis.Client) *BudgetTracker {
	return &BudgetTracker{rdb: rdb}
}

func dailyBudgetKey(keyID string) string {
	day := time.Now().UTC().Format("2006-01-02")
	return fmt.Sprintf("scribe:budget:daily:%s:%s", keyID, day)
}

// CheckDailySpend checks if the key is under its daily spend limit.
func (b *BudgetTracker) CheckDailySpend(ctx context.Context, keyID string, limitMicro int64) (BudgetResult, error) {
	if b.rdb == nil {
		return BudgetResult{Allowed: true, LimitMicro: limitMicro}, nil
	}

	key := dailyBudgetKey(keyID)
	spent, err := b.rdb.Get(ctx, key).Int64()
	if err != nil && err != redis.Nil {
		// Fail open on Redis errors
		return BudgetResult{Allowed: true, LimitMicro: limitMicro}, nil
	}

	return BudgetResult{
		Allowed:    spent < limitMicro,
		SpentMicro: spent,
		LimitMicro: limitMicro,
	}, nil
}

// RecordSpend adds cost to the key's daily spend counter.
func (b *BudgetTracker) RecordSpend(ctx context.Context, keyID string, costMicro int64) error {
	if b.rdb == nil || costMicro <= 0 {
		return nil
	}

	key := dailyBudgetKey(keyID)
	pipe := b.rdb.Pipeline()
	pipe.IncrBy(ctx, key, costMicro)
	// Expire at end of day UTC + 1 hour buffer
	now := time.Now().UTC()
	endOfDay := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	ttl := endOfDay.Sub(now) + time.Hour
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

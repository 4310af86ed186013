package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrBudgetExhausted is returned by a guarded runner when no call slot is left for the day.
var ErrBudgetExhausted = errors.New("daily model call budget exhausted")

// KVStore is the get/put substrate shared by the ledger and the response cache.
// Implementations are best-effort and need not be linearizable.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// BudgetLedger counts model calls per UTC day.
//
// Consume reads, compares and writes without a transaction. Concurrent callers
// can both observe the same count and both succeed, so the cap may be exceeded
// by the number of racing requests. The key rotates with the day string, so no
// reset is needed.
type BudgetLedger struct {
	store   KVStore
	version string
	ttl     time.Duration
	now     func() time.Time
}

// NewBudgetLedger builds a ledger on top of store.
func NewBudgetLedger(store KVStore, version string, ttl time.Duration) *BudgetLedger {
	return &BudgetLedger{store: store, version: version, ttl: ttl, now: time.Now}
}

func (l *BudgetLedger) key(day string) string {
	return fmt.Sprintf("cache/%s/daily-ai-budget/%s", l.version, day)
}

// Read returns the record for day. Missing or malformed records read as zero.
func (l *BudgetLedger) Read(ctx context.Context, day string) (BudgetRecord, error) {
	raw, ok, err := l.store.Get(ctx, l.key(day))
	if err != nil {
		return BudgetRecord{}, err
	}
	if !ok {
		return BudgetRecord{}, nil
	}
	var record BudgetRecord
	if err := json.Unmarshal(raw, &record); err != nil || record.Used < 0 {
		return BudgetRecord{}, nil
	}
	return record, nil
}

// Consume takes one slot for day unless hardLimit has been reached. A refused
// attempt does not write anything.
func (l *BudgetLedger) Consume(ctx context.Context, day string, hardLimit int) (BudgetResult, error) {
	record, err := l.Read(ctx, day)
	if err != nil {
		return BudgetResult{}, err
	}
	if record.Used >= hardLimit {
		return BudgetResult{OK: false, Used: record.Used}, nil
	}
	next := BudgetRecord{Used: record.Used + 1, UpdatedAt: l.now().UTC()}
	body, err := json.Marshal(next)
	if err != nil {
		return BudgetResult{}, err
	}
	if err := l.store.Put(ctx, l.key(day), body, l.ttl); err != nil {
		return BudgetResult{}, err
	}
	return BudgetResult{OK: true, Used: next.Used}, nil
}

package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// ResponseCache stores the final document per (day, lang). The version segment
// is bumped whenever the stored JSON shape changes.
type ResponseCache struct {
	store   KVStore
	version string
	ttl     time.Duration
}

// NewResponseCache builds a cache on top of store.
func NewResponseCache(store KVStore, version string, ttl time.Duration) *ResponseCache {
	return &ResponseCache{store: store, version: version, ttl: ttl}
}

func (c *ResponseCache) key(day, lang string) string {
	return fmt.Sprintf("cache/%s/insight/%s/%s", c.version, day, lang)
}

// Get returns the cached response. Entries that no longer decode are treated as misses.
func (c *ResponseCache) Get(ctx context.Context, day, lang string) (Response, bool, error) {
	raw, ok, err := c.store.Get(ctx, c.key(day, lang))
	if err != nil || !ok {
		return Response{}, false, err
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Response{}, false, nil
	}
	if _, valid := NormalizeDailyPayload(toPayload(resp.DailyContent)); !valid {
		return Response{}, false, nil
	}
	return resp, true, nil
}

// Put stores resp for its day and lang.
func (c *ResponseCache) Put(ctx context.Context, day, lang string, resp Response) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.store.Put(ctx, c.key(day, lang), body, c.ttl)
}

// Delete drops one cached document.
func (c *ResponseCache) Delete(ctx context.Context, day, lang string) error {
	return c.store.Delete(ctx, c.key(day, lang))
}

// TTL is the lifetime given to cached entries.
func (c *ResponseCache) TTL() time.Duration {
	return c.ttl
}

func toPayload(content DailyContent) any {
	body, err := json.Marshal(content)
	if err != nil {
		return nil
	}
	payload, _ := decodeJSON(string(body))
	return payload
}

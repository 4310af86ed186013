package kvstore

import (
	"context"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/insight"
)

// ValkeyStore persists cache and budget entries in a Valkey-compatible database,
// so every instance shares one ledger.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey. Keys are namespaced by prefix.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "mindelo"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	cmd := s.client.B().Get().Key(s.fullKey(key)).Build()
	payload, err := s.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return payload, true, nil
}

func (s *ValkeyStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	builder := s.client.B().Set().Key(s.fullKey(key)).Value(valkey.BinaryString(value))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) Delete(ctx context.Context, key string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.fullKey(key)).Build()).Error()
}

func (s *ValkeyStore) fullKey(key string) string {
	return s.prefix + ":" + key
}

var _ insight.KVStore = (*ValkeyStore)(nil)

package insight

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryKV struct {
	mu       sync.Mutex
	data     map[string][]byte
	gets     map[string]int
	failGet  bool
	failPut  bool
	putCalls int
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: map[string][]byte{}, gets: map[string]int{}}
}

func (m *memoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets[key]++
	if m.failGet {
		return nil, false, errors.New("kv unavailable")
	}
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *memoryKV) Put(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	if m.failPut {
		return errors.New("kv unavailable")
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryKV) getsWithPrefix(fragment string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for key, n := range m.gets {
		if strings.Contains(key, fragment) {
			total += n
		}
	}
	return total
}

// scriptedRunner replays envelopes in order and records prompts.
type scriptedRunner struct {
	mu        sync.Mutex
	envelopes []any
	errs      []error
	prompts   []string
	inputs    []RunInput
}

func (r *scriptedRunner) Run(_ context.Context, _ string, in RunInput) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := len(r.prompts)
	r.prompts = append(r.prompts, in.Prompt)
	r.inputs = append(r.inputs, in)
	if idx < len(r.errs) && r.errs[idx] != nil {
		return nil, r.errs[idx]
	}
	if idx < len(r.envelopes) {
		return r.envelopes[idx], nil
	}
	return nil, errors.New("script exhausted")
}

func (r *scriptedRunner) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.prompts)
}

type wordCounter struct{}

func (wordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

type memoryArchive struct {
	entries []ArchiveEntry
}

func (a *memoryArchive) Append(_ context.Context, entry ArchiveEntry) error {
	entry.ID = int64(len(a.entries) + 1)
	a.entries = append(a.entries, entry)
	return nil
}

func (a *memoryArchive) Recent(_ context.Context, lang string, limit int) ([]ArchiveEntry, error) {
	out := []ArchiveEntry{}
	for i := len(a.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if lang == "" || a.entries[i].Lang == lang {
			out = append(out, a.entries[i])
		}
	}
	return out, nil
}

var testDay = time.Date(2026, 2, 13, 9, 30, 0, 0, time.UTC)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, cfg Config, store KVStore, runner Runner) *service {
	t.Helper()
	svc := NewService(cfg, store, runner, &memoryArchive{}, wordCounter{}, newTestLogger())
	impl, ok := svc.(*service)
	require.True(t, ok)
	impl.now = func() time.Time { return testDay }
	return impl
}

// validDocument returns model output that passes every gate for day and lang.
func validDocument(t *testing.T, lang string) string {
	t.Helper()
	content := BuildSafeFallbackPayload(lang, PickDailyFacts(testDay.Format(dayLayout), lang))
	content.Insight = map[string]string{
		"en": "Today the harbor in Mindelo and the lake in Lausanne both set the pace of the city.",
		"fr": "Aujourd’hui, le port de Mindelo et le lac de Lausanne donnent le rythme de la ville.",
		"pt": "Hoje o porto de Mindelo e o lago de Lausanne marcam o ritmo da cidade.",
	}[lang]
	body, err := json.Marshal(content)
	require.NoError(t, err)
	return string(body)
}

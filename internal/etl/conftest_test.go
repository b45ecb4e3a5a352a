package etl

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/db"
	"github.com/kailas-cloud/cinedex/internal/domain/kind"
	"github.com/kailas-cloud/cinedex/internal/domain/row"
	"github.com/kailas-cloud/cinedex/internal/repository/index"
	"github.com/kailas-cloud/cinedex/internal/retry"
)

var (
	t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
	t2 = t0.Add(2 * time.Hour)
)

var testKeys = index.NewKeyspace("cinedex:")

func id(n int) string {
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", n)
}

func newTestRetrier(maxAttempts int) *retry.Retrier {
	return retry.New(retry.Policy{
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
		Multiplier:      1.5,
		MaxAttempts:     maxAttempts,
	}, zap.NewNop())
}

func filmRow(n int, updated time.Time) row.FilmRow {
	r := 7.5
	return row.FilmRow{
		ID:        id(n),
		Title:     fmt.Sprintf("Film %d", n),
		Rating:    &r,
		UpdatedAt: updated,
	}
}

// fakeSource is an in-memory relational store with keyset semantics.
type fakeSource struct {
	mu      sync.Mutex
	films   map[string]row.FilmRow
	genres  []row.GenreRow
	persons []row.PersonRow

	changedCalls int
	fetchCalls   [][]string
	personCalls  [][]string
	// changedErrs fails the n-th (1-based) Changed call.
	changedErrs map[int]error
	// fetchErrs fails the n-th (1-based) FilmsByIDs call.
	fetchErrs map[int]error
	// personErrs fails the n-th (1-based) PersonsByIDs call.
	personErrs map[int]error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		films:       make(map[string]row.FilmRow),
		changedErrs: make(map[int]error),
		fetchErrs:   make(map[int]error),
		personErrs:  make(map[int]error),
	}
}

func (s *fakeSource) addFilms(films ...row.FilmRow) {
	for _, f := range films {
		s.films[f.ID] = f
	}
}

func (s *fakeSource) Changed(_ context.Context, k kind.Kind, after row.Cursor, limit int) ([]row.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.changedCalls++
	if err := s.changedErrs[s.changedCalls]; err != nil {
		return nil, err
	}

	var all []row.Row
	switch k {
	case kind.Film:
		for _, f := range s.films {
			all = append(all, f)
		}
	case kind.Genre:
		for _, g := range s.genres {
			all = append(all, g)
		}
	case kind.Person:
		for _, p := range s.persons {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i].Position(), all[j].Position()
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
		return a.ID < b.ID
	})

	var out []row.Row
	for _, r := range all {
		if !isAfter(r.Position(), after) {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func isAfter(p, cursor row.Cursor) bool {
	if cursor.ID == "" {
		return p.UpdatedAt.After(cursor.UpdatedAt)
	}
	if !p.UpdatedAt.Equal(cursor.UpdatedAt) {
		return p.UpdatedAt.After(cursor.UpdatedAt)
	}
	return p.ID > cursor.ID
}

func (s *fakeSource) FilmsByIDs(_ context.Context, ids []string) ([]row.FilmRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fetchCalls = append(s.fetchCalls, append([]string(nil), ids...))
	if err := s.fetchErrs[len(s.fetchCalls)]; err != nil {
		return nil, err
	}

	var out []row.FilmRow
	for _, key := range ids {
		if f, ok := s.films[key]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeSource) PersonsByIDs(_ context.Context, ids []string) ([]row.PersonRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.personCalls = append(s.personCalls, append([]string(nil), ids...))
	if err := s.personErrs[len(s.personCalls)]; err != nil {
		return nil, err
	}

	var out []row.PersonRow
	for _, key := range ids {
		for _, p := range s.persons {
			if p.ID == key {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

// fakeIndex stores document bodies per index.
type fakeIndex struct {
	mu      sync.Mutex
	docs    map[index.Name]map[string]string
	batches []int
	// failures is the number of BulkUpsert calls that fail before success.
	failures int
	err      error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: make(map[index.Name]map[string]string)}
}

func (f *fakeIndex) BulkUpsert(_ context.Context, n index.Name, docs []index.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failures > 0 {
		f.failures--
		return fmt.Errorf("bulk %s: connection reset", n)
	}
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, len(docs))
	if f.docs[n] == nil {
		f.docs[n] = make(map[string]string)
	}
	for _, d := range docs {
		body, err := d.Body()
		if err != nil {
			return err
		}
		f.docs[n][d.ID] = string(body)
	}
	return nil
}

func (f *fakeIndex) count(n index.Name) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs[n])
}

// fakeKV is an in-memory key-value store.
type fakeKV struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string][]byte)}
}

func (kv *fakeKV) Get(_ context.Context, key string) ([]byte, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.getErr != nil {
		return nil, kv.getErr
	}
	v, ok := kv.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (kv *fakeKV) Set(_ context.Context, key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.setErr != nil {
		return kv.setErr
	}
	kv.data[key] = value
	return nil
}

func (kv *fakeKV) setWatermark(t *testing.T, k kind.Kind, ts time.Time) {
	t.Helper()
	kv.data[testKeys.Key("etl", "state", k.String())] = []byte(ts.Format(time.RFC3339Nano))
}

type testPipeline struct {
	src    *fakeSource
	idx    *fakeIndex
	kv     *fakeKV
	driver *Driver
}

func newTestPipeline(t *testing.T, now time.Time, maxAttempts int) *testPipeline {
	t.Helper()
	p := &testPipeline{src: newFakeSource(), idx: newFakeIndex(), kv: newFakeKV()}
	p.driver = NewDriver(p.src, p.idx, p.kv, testKeys, newTestRetrier(maxAttempts), Config{
		DetectPageSize: 100,
		FetchChunkSize: 10,
		LoadBatchSize:  100,
		Interval:       time.Millisecond,
	}, zap.NewNop(), WithClock(func() time.Time { return now }))
	return p
}

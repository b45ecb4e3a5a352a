package etl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/cinedex/internal/db"
	"github.com/kailas-cloud/cinedex/internal/domain/kind"
	"github.com/kailas-cloud/cinedex/internal/repository/index"
	"github.com/kailas-cloud/cinedex/internal/retry"
)

// WatermarkStore persists the last committed timestamp per kind.
type WatermarkStore struct {
	kv      kvStore
	keys    index.Keyspace
	retrier *retry.Retrier
}

// NewWatermarkStore creates a watermark store.
func NewWatermarkStore(kv kvStore, keys index.Keyspace, r *retry.Retrier) *WatermarkStore {
	return &WatermarkStore{kv: kv, keys: keys, retrier: r}
}

// Read returns the watermark of k, or kind.MinWatermark if none was committed.
func (w *WatermarkStore) Read(ctx context.Context, k kind.Kind) (time.Time, error) {
	var raw []byte
	err := w.retrier.Do(ctx, "watermark_read", func(ctx context.Context) error {
		var err error
		raw, err = w.kv.Get(ctx, w.key(k))
		if errors.Is(err, db.ErrKeyNotFound) {
			raw = nil
			return nil
		}
		return err
	})
	if err != nil {
		return time.Time{}, err
	}
	if raw == nil {
		return kind.MinWatermark, nil
	}

	t, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s watermark %q: %w", k, raw, err)
	}
	return t, nil
}

// Write stores t as the watermark of k.
func (w *WatermarkStore) Write(ctx context.Context, k kind.Kind, t time.Time) error {
	value := []byte(t.UTC().Format(time.RFC3339Nano))
	return w.retrier.Do(ctx, "watermark_write", func(ctx context.Context) error {
		return w.kv.Set(ctx, w.key(k), value)
	})
}

func (w *WatermarkStore) key(k kind.Kind) string {
	return w.keys.Key("etl", "state", k.String())
}

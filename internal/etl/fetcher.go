package etl

import (
	"context"

	"github.com/kailas-cloud/cinedex/internal/domain/row"
	"github.com/kailas-cloud/cinedex/internal/retry"
)

// Fetcher loads rows for a key set in bounded chunks.
type Fetcher struct {
	src       source
	chunkSize int
	retrier   *retry.Retrier
}

// NewFetcher creates a batch fetcher.
func NewFetcher(src source, chunkSize int, r *retry.Retrier) *Fetcher {
	return &Fetcher{src: src, chunkSize: chunkSize, retrier: r}
}

// FetchEach queries denormalized films chunk by chunk and hands every
// non-empty result to fn. Keys missing from the source are skipped.
// Errors from fn are not retried.
func (f *Fetcher) FetchEach(ctx context.Context, keys []string, fn func([]row.FilmRow) error) error {
	return fetchEach(ctx, f, "fetch", keys, f.src.FilmsByIDs, fn)
}

// FetchPersonsEach is FetchEach for persons and their current film links.
func (f *Fetcher) FetchPersonsEach(ctx context.Context, keys []string, fn func([]row.PersonRow) error) error {
	return fetchEach(ctx, f, "fetch_persons", keys, f.src.PersonsByIDs, fn)
}

func fetchEach[T any](
	ctx context.Context, f *Fetcher, op string, keys []string,
	query func(context.Context, []string) ([]T, error), fn func([]T) error,
) error {
	for _, chunk := range chunks(keys, f.chunkSize) {
		var items []T
		err := f.retrier.Do(ctx, op, func(ctx context.Context) error {
			var err error
			items, err = query(ctx, chunk)
			return err
		})
		if err != nil {
			return err
		}
		if len(items) == 0 {
			continue
		}
		if err := fn(items); err != nil {
			return err
		}
	}
	return nil
}

func chunks[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	var out [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}

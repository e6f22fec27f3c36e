// Package warehouse implements the transform-and-load orchestrator: the
// full-refresh reset, the record loop with per-record skip-on-error, and the
// run-scoped surrogate-key cache that deduplicates dimension rows.
package warehouse

import (
	"context"
	"time"

	"flightdw/internal/schema"
	"flightdw/internal/storage"
)

// keyCache memoizes which dimension rows already exist during one run.
// It is owned by the Loader and created empty at run start, so repeated runs
// can never leak keys across runs. Single-writer only.
type keyCache struct {
	airlines   map[string]int64
	passengers map[string]int64
	airports   map[string]int64
	dates      map[int64]struct{}
}

func newKeyCache() *keyCache {
	return &keyCache{
		airlines:   make(map[string]int64),
		passengers: make(map[string]int64),
		airports:   make(map[string]int64),
		dates:      make(map[int64]struct{}),
	}
}

// resolveAirline returns the surrogate key for the airline code, inserting
// the dimension row on first sight. A cache hit never touches the store.
func (c *keyCache) resolveAirline(ctx context.Context, wh storage.Warehouse, code string, name any) (int64, error) {
	if sk, ok := c.airlines[code]; ok {
		return sk, nil
	}
	sk, err := wh.InsertAirline(ctx, code, name)
	if err != nil {
		return 0, err
	}
	c.airlines[code] = sk
	return sk, nil
}

func (c *keyCache) resolvePassenger(ctx context.Context, wh storage.Warehouse, p schema.Passenger) (int64, error) {
	if sk, ok := c.passengers[p.ID]; ok {
		return sk, nil
	}
	sk, err := wh.InsertPassenger(ctx, p)
	if err != nil {
		return 0, err
	}
	c.passengers[p.ID] = sk
	return sk, nil
}

func (c *keyCache) resolveAirport(ctx context.Context, wh storage.Warehouse, code string) (int64, error) {
	if sk, ok := c.airports[code]; ok {
		return sk, nil
	}
	sk, err := wh.InsertAirport(ctx, code)
	if err != nil {
		return 0, err
	}
	c.airports[code] = sk
	return sk, nil
}

// resolveDate ensures the Dim_Date row for the departure's calendar date
// exists and returns the YYYYMMDD date key. Unlike the other dimensions the
// key is computed, not store-generated, so the cache is a seen-set.
func (c *keyCache) resolveDate(ctx context.Context, wh storage.Warehouse, dep time.Time) (int64, error) {
	key := schema.DateKey(dep)
	if _, ok := c.dates[key]; ok {
		return key, nil
	}
	if err := wh.InsertDate(ctx, schema.DateRowFrom(dep)); err != nil {
		return 0, err
	}
	c.dates[key] = struct{}{}
	return key, nil
}

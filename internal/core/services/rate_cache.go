package services

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	"github.com/shawqlabs/fxn_backend/internal/utils/dateutil"
)

// rateCacheEntry is one cached verdict. A nil record with miss set caches
// the "no rate" outcome so a bulk apply over N rows does not trigger N
// provider calls for the same missing date within the TTL.
type rateCacheEntry struct {
	record *domain.RateRecord
	miss   bool
}

// rateCache is the short-TTL in-process layer in front of the durable store.
type rateCache struct {
	lru *expirable.LRU[string, rateCacheEntry]
}

func newRateCache(ttl time.Duration) *rateCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &rateCache{lru: expirable.NewLRU[string, rateCacheEntry](2048, nil, ttl)}
}

func cacheKey(pair domain.CurrencyPair, date time.Time) string {
	return pair.From + pair.To + ":" + dateutil.Format(date)
}

func (c *rateCache) Get(pair domain.CurrencyPair, date time.Time) (rateCacheEntry, bool) {
	return c.lru.Get(cacheKey(pair, date))
}

func (c *rateCache) SetHit(pair domain.CurrencyPair, rec domain.RateRecord) {
	c.lru.Add(cacheKey(pair, rec.Date), rateCacheEntry{record: &rec})
}

func (c *rateCache) SetMiss(pair domain.CurrencyPair, date time.Time) {
	c.lru.Add(cacheKey(pair, date), rateCacheEntry{miss: true})
}

package usecase

import (
	"sync"
	"time"

	"station-alert-srv/internal/model"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// alertCache holds the active alerts per station. A generation counter per
// station stops a load that raced with an invalidation from being stored.
type alertCache struct {
	lru *expirable.LRU[string, []model.Alert]

	mu      sync.Mutex
	gens    map[string]uint64
	resetID uint64
}

type cacheTicket struct {
	station string
	gen     uint64
	reset   uint64
}

func newAlertCache(size int, ttl time.Duration) *alertCache {
	return &alertCache{
		lru:  expirable.NewLRU[string, []model.Alert](size, nil, ttl),
		gens: make(map[string]uint64),
	}
}

func (c *alertCache) get(station string) ([]model.Alert, bool) {
	return c.lru.Get(station)
}

// ticket must be taken before reading the store.
func (c *alertCache) ticket(station string) cacheTicket {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cacheTicket{station: station, gen: c.gens[station], reset: c.resetID}
}

func (c *alertCache) put(t cacheTicket, alerts []model.Alert) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[t.station] != t.gen || c.resetID != t.reset {
		return
	}
	c.lru.Add(t.station, alerts)
}

func (c *alertCache) invalidate(station string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[station]++
	c.lru.Remove(station)
}

func (c *alertCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetID++
	c.lru.Purge()
}

type nameCache struct {
	lru *expirable.LRU[string, string]
}

func newNameCache(size int, ttl time.Duration) *nameCache {
	return &nameCache{lru: expirable.NewLRU[string, string](size, nil, ttl)}
}

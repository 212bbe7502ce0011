package formstate

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultExpiry is how long an untouched kiosk machine is kept.
const DefaultExpiry = 12 * time.Hour

// Registry keeps one Machine per kiosk ID. Machines of kiosks that have
// been quiet for longer than the expiry are dropped.
type Registry struct {
	cache *cache.Cache
	mu    sync.Mutex
}

// NewRegistry creates a registry. A zero expiry uses DefaultExpiry.
func NewRegistry(expiry time.Duration) *Registry {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Registry{cache: cache.New(expiry, expiry/2)}
}

// For returns the machine of kioskID, creating an idle one if needed.
// Every call extends the machine's lifetime.
func (r *Registry) For(kioskID string) *Machine {
	if kioskID == "" {
		kioskID = "default"
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.cache.Get(kioskID)
	if !ok {
		m = &Machine{}
	}
	r.cache.SetDefault(kioskID, m)
	return m.(*Machine)
}

// Len returns the number of tracked kiosks.
func (r *Registry) Len() int {
	return r.cache.ItemCount()
}

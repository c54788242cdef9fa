package bizcuit

import (
	"sync"
	"time"
)

// DefaultMaxAge is how long a pending request stays retrievable. The window
// is deliberately short: it bounds memory growth and limits the time an
// attacker has to guess or replay a request ID.
const DefaultMaxAge = 60 * time.Second

// Registry owns every pending Request, keyed by ID. A background sweeper,
// started at construction and ticking twice per maximum-age window, evicts
// requests that were never completed.
type Registry struct {
	mu       sync.RWMutex
	requests map[string]*Request

	maxAge  time.Duration
	nowTime func() time.Time // nowTime function (injectable for testing)

	closeOnce sync.Once
	sweepStop chan struct{}
	sweepDone chan struct{}
}

// RegistryOption defines a function type to modify the Registry instance.
type RegistryOption func(*Registry)

// WithMaxAge sets the maximum age of a pending request.
func WithMaxAge(maxAge time.Duration) RegistryOption {
	return func(r *Registry) {
		r.maxAge = maxAge
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.nowTime = nowFunc
	}
}

// NewRegistry creates a registry and starts its sweeper. Callers must Close
// the registry at shutdown to stop the sweeper goroutine.
func NewRegistry(options ...RegistryOption) *Registry {
	registry := &Registry{
		requests:  make(map[string]*Request),
		maxAge:    DefaultMaxAge,
		nowTime:   time.Now,
		sweepStop: make(chan struct{}),
		sweepDone: make(chan struct{}),
	}

	for _, opt := range options {
		opt(registry)
	}

	go registry.sweepLoop()

	return registry
}

// New registers and returns a fresh Request.
func (r *Registry) New() (*Request, error) {
	request, err := newRequest(r.nowTime())
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests[request.ID] = request
	return request, nil
}

// Get returns the request with the given ID. ok is false when the ID is
// unknown, already consumed or evicted; absence is a normal outcome.
func (r *Registry) Get(id string) (*Request, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	request, ok := r.requests[id]
	return request, ok
}

// Delete removes a request. Deleting an unknown ID is not an error.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.requests, id)
}

// Sweep evicts every request older than the maximum age. Safe to call
// concurrently with the other registry operations.
func (r *Registry) Sweep() {
	now := r.nowTime()

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, request := range r.requests {
		if now.Sub(request.CreatedAt) > r.maxAge {
			delete(r.requests, id)
		}
	}
}

// Close stops the background sweeper. The registry remains usable, but stale
// requests are no longer evicted automatically.
func (r *Registry) Close() {
	r.closeOnce.Do(func() {
		close(r.sweepStop)
	})
	<-r.sweepDone
}

// sweepLoop runs a sweep twice per maximum-age window, so no request outlives
// the maximum age by more than one sweep interval.
func (r *Registry) sweepLoop() {
	defer close(r.sweepDone)

	ticker := time.NewTicker(r.maxAge / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Sweep()
		case <-r.sweepStop:
			return
		}
	}
}

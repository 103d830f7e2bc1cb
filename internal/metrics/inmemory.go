package metrics

import (
	"strconv"
	"sync"
	"time"
)

// Snapshot captures current in-memory counters. Map keys join labels
// with "/", e.g. "contact/create" or "GET /api/contacts/200".
type Snapshot struct {
	UsersRegistered  uint64
	Logins           map[string]uint64
	AuthFailures     map[string]uint64
	SessionCache     map[string]uint64
	EntityOperations map[string]uint64
	SearchCount      uint64
	SearchTotalNs    int64
	HTTPRequests     map[string]uint64
	RateLimited      map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{snap: Snapshot{
		Logins:           map[string]uint64{},
		AuthFailures:     map[string]uint64{},
		SessionCache:     map[string]uint64{},
		EntityOperations: map[string]uint64{},
		HTTPRequests:     map[string]uint64{},
		RateLimited:      map[string]uint64{},
	}}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.snap
	s.Logins = copyMap(m.snap.Logins)
	s.AuthFailures = copyMap(m.snap.AuthFailures)
	s.SessionCache = copyMap(m.snap.SessionCache)
	s.EntityOperations = copyMap(m.snap.EntityOperations)
	s.HTTPRequests = copyMap(m.snap.HTTPRequests)
	s.RateLimited = copyMap(m.snap.RateLimited)
	return s
}

func copyMap(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *InMemoryRecorder) inc(counters map[string]uint64, key string) {
	m.mu.Lock()
	counters[key]++
	m.mu.Unlock()
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	m.mu.Lock()
	m.snap.UsersRegistered++
	m.mu.Unlock()
}

// IncLogin counts a login attempt by outcome.
func (m *InMemoryRecorder) IncLogin(status string) {
	m.inc(m.snap.Logins, status)
}

// IncAuthFailure counts a rejected request by reason.
func (m *InMemoryRecorder) IncAuthFailure(reason string) {
	m.inc(m.snap.AuthFailures, reason)
}

// IncSessionCache counts a session cache lookup by result.
func (m *InMemoryRecorder) IncSessionCache(result string) {
	m.inc(m.snap.SessionCache, result)
}

// IncEntityOperation counts a successful mutation.
func (m *InMemoryRecorder) IncEntityOperation(entity, op string) {
	m.inc(m.snap.EntityOperations, entity+"/"+op)
}

// ObserveSearchDuration records contact search latency.
func (m *InMemoryRecorder) ObserveSearchDuration(d time.Duration) {
	m.mu.Lock()
	m.snap.SearchCount++
	m.snap.SearchTotalNs += d.Nanoseconds()
	m.mu.Unlock()
}

// ObserveHTTPRequest counts a handled request.
func (m *InMemoryRecorder) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	m.inc(m.snap.HTTPRequests, method+" "+route+"/"+strconv.Itoa(status))
}

// IncRateLimited counts a throttled request.
func (m *InMemoryRecorder) IncRateLimited(scope string) {
	m.inc(m.snap.RateLimited, scope)
}

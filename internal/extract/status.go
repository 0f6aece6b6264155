package extract

import (
	"sync"
	"sync/atomic"
	"time"

	"docex/pkg/types"
)

// serviceStats tracks counters surfaced by /status.
type serviceStats struct {
	started     time.Time
	ready       atomic.Bool
	extractions atomic.Uint64

	mu       sync.Mutex
	lastErr  string
	lastErrT time.Time
}

func (st *serviceStats) noteError(err error) {
	if err == nil {
		return
	}
	st.mu.Lock()
	st.lastErr = err.Error()
	st.lastErrT = time.Now()
	st.mu.Unlock()
}

func (st *serviceStats) lastError() string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.lastErr
}

// Ready reports whether the service has successfully talked to its storage
// backend at least once (via Warmup or any served request).
func (s *Service) Ready() bool { return s.stats.ready.Load() }

// Status summarizes the service for the HTTP surface and the CLI.
func (s *Service) Status() types.StatusResponse {
	now := time.Now()
	return types.StatusResponse{
		Storage:          s.store.Name(),
		Bucket:           s.bucket,
		OCRBackend:       s.defaultBackend,
		Model:            s.defaultModel,
		Inflight:         s.gate.inflight(),
		MaxInflight:      s.gate.capacity(),
		UptimeSeconds:    int64(now.Sub(s.stats.started).Seconds()),
		ServerTimeUnix:   now.Unix(),
		ExtractionsTotal: s.stats.extractions.Load(),
		LastError:        s.stats.lastError(),
	}
}

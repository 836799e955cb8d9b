package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/careops/clinic-api/pkg/metrics"
)

const countCacheKey = "unread_count"

// Poller refreshes the unread-notification count on a fixed interval. A tick
// that fires while the previous refresh is still in flight is skipped instead
// of piling up a second request. The last good count stays readable from the
// cache between refreshes.
type Poller struct {
	svc      *Service
	staffID  *uuid.UUID
	interval time.Duration
	cache    *cache.Cache
	logger   *zerolog.Logger
	metrics  *metrics.Metrics

	mu       sync.Mutex
	inFlight bool
	skipped  int64
}

// NewPoller builds an unread-count poller. metrics may be nil.
func NewPoller(svc *Service, staffID *uuid.UUID, interval time.Duration, logger *zerolog.Logger, m *metrics.Metrics) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{
		svc:      svc,
		staffID:  staffID,
		interval: interval,
		cache:    cache.New(2*interval, 10*time.Minute),
		logger:   logger,
		metrics:  m,
	}
}

// Run polls until ctx is cancelled. An immediate first refresh primes the
// cache before the first tick.
func (p *Poller) Run(ctx context.Context) {
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

// refresh fetches the count unless a fetch is already running. Returns true
// when a fetch was started.
func (p *Poller) refresh(ctx context.Context) bool {
	p.mu.Lock()
	if p.inFlight {
		p.skipped++
		p.mu.Unlock()
		if p.metrics != nil {
			p.metrics.UnreadPollSkipped.Inc()
		}
		return false
	}
	p.inFlight = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.inFlight = false
		p.mu.Unlock()
	}()

	count, err := p.svc.CountUnread(ctx, p.staffID)
	if err != nil {
		p.logger.Warn().Err(err).Msg("unread count refresh failed")
		return true
	}

	p.cache.Set(countCacheKey, count, cache.DefaultExpiration)
	return true
}

// Count returns the cached unread count. ok is false before the first
// successful refresh or after the cached value expired.
func (p *Poller) Count() (int, bool) {
	v, found := p.cache.Get(countCacheKey)
	if !found {
		return 0, false
	}
	return v.(int), true
}

// Skipped reports how many refreshes were dropped due to an in-flight poll.
func (p *Poller) Skipped() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.skipped
}

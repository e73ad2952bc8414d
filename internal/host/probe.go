package host

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const defaultProbeTTL = 5 * time.Minute

// CachedProbe wraps a Client to cache probe results with a TTL, so status
// queries don't hammer the bridge while a capture is holding the viewport.
type CachedProbe struct {
	client Client
	ttl    time.Duration
	logger *slog.Logger

	mu     sync.RWMutex
	cached *Info
}

func NewCachedProbe(client Client, ttl time.Duration, logger *slog.Logger) *CachedProbe {
	if ttl <= 0 {
		ttl = defaultProbeTTL
	}
	return &CachedProbe{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns cached host info if fresh, otherwise re-probes.
func (p *CachedProbe) Get(ctx context.Context) (*Info, error) {
	p.mu.RLock()
	if p.cached != nil && time.Since(p.cached.ProbedAt) < p.ttl {
		info := p.cached
		p.mu.RUnlock()
		return info, nil
	}
	p.mu.RUnlock()

	return p.Refresh(ctx)
}

// Peek returns whatever is cached without probing, possibly nil.
func (p *CachedProbe) Peek() *Info {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cached
}

// Refresh forces a new probe regardless of cache freshness. A failed probe
// falls back to stale info when available.
func (p *CachedProbe) Refresh(ctx context.Context) (*Info, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	info, err := p.client.Probe(ctx)
	if err != nil {
		p.logger.Warn("host probe failed", "error", err)
		if p.cached != nil {
			p.logger.Info("returning stale host info")
			return p.cached, nil
		}
		return nil, err
	}

	p.cached = info
	return info, nil
}

// Invalidate clears the cached host info.
func (p *CachedProbe) Invalidate() {
	p.mu.Lock()
	p.cached = nil
	p.mu.Unlock()
}

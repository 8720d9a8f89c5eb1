package core

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// ResourceProbe supplies current CPU and memory utilization as percentages in
// [0, 100]. The pool does no sampling of its own; implementations wrap
// whatever measurement source the host application has. A probe that cannot
// take a sample should return an error wrapping ErrProbeUnavailable.
type ResourceProbe interface {
	CPUPercent() (float64, error)
	MemoryPercent() (float64, error)
}

// StaticProbe reports fixed utilization values. It is the default probe when
// none is injected, and doubles as a test fake.
type StaticProbe struct {
	CPU    float64
	Memory float64
}

func (p StaticProbe) CPUPercent() (float64, error)    { return p.CPU, nil }
func (p StaticProbe) MemoryPercent() (float64, error) { return p.Memory, nil }

// CachedProbe wraps another probe and caches its readings for a TTL, so an
// expensive sampling source is hit at most once per TTL window even when
// several criteria (or pools) read it in the same cycle. Errors are not
// cached; the next read retries the underlying probe.
type CachedProbe struct {
	probe ResourceProbe
	cache *ttlcache.Cache[string, float64]
}

// NewCachedProbe creates a caching wrapper around probe. A non-positive ttl
// defaults to one second.
func NewCachedProbe(probe ResourceProbe, ttl time.Duration) *CachedProbe {
	if ttl <= 0 {
		ttl = time.Second
	}
	return &CachedProbe{
		probe: probe,
		cache: ttlcache.New(
			ttlcache.WithTTL[string, float64](ttl),
			ttlcache.WithDisableTouchOnHit[string, float64](),
		),
	}
}

func (p *CachedProbe) CPUPercent() (float64, error) {
	return p.read("cpu", p.probe.CPUPercent)
}

func (p *CachedProbe) MemoryPercent() (float64, error) {
	return p.read("memory", p.probe.MemoryPercent)
}

func (p *CachedProbe) read(key string, sample func() (float64, error)) (float64, error) {
	if item := p.cache.Get(key); item != nil {
		return item.Value(), nil
	}
	value, err := sample()
	if err != nil {
		return 0, err
	}
	p.cache.Set(key, value, ttlcache.DefaultTTL)
	return value, nil
}

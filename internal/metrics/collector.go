// Package metrics provides in-memory request statistics collection.
package metrics

import (
	"math"
	"sync"
	"time"
)

// RequestMetrics holds aggregated metrics for a single API operation.
type RequestMetrics struct {
	Count     int64
	Errors    int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration

	BytesSent     int64
	BytesReceived int64
}

// RequestSnapshot provides computed stats from raw metrics.
type RequestSnapshot struct {
	Count     int64
	Errors    int64
	AvgTimeMs float64
	MinTimeMs int64
	MaxTimeMs int64

	BytesSent     int64
	BytesReceived int64
}

// Snapshot represents all request statistics at a point in time.
type Snapshot struct {
	UptimeSeconds float64
	Operations    map[string]RequestSnapshot
}

// Collector aggregates in-memory request statistics per operation.
// All methods are thread-safe.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*RequestMetrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*RequestMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *RequestMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &RequestMetrics{
			MinTime: time.Duration(math.MaxInt64),
		}
		c.ops[op] = m
	}
	return m
}

// RecordRequest records one API exchange for an operation.
func (c *Collector) RecordRequest(op string, duration time.Duration, failed bool, sent, received int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	if failed {
		m.Errors++
	}
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}

	m.BytesSent += sent
	m.BytesReceived += received
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		Operations:    make(map[string]RequestSnapshot, len(c.ops)),
	}
	for op, m := range c.ops {
		if m.Count == 0 {
			continue
		}
		snap.Operations[op] = RequestSnapshot{
			Count:         m.Count,
			Errors:        m.Errors,
			AvgTimeMs:     float64(m.TotalTime.Milliseconds()) / float64(m.Count),
			MinTimeMs:     m.MinTime.Milliseconds(),
			MaxTimeMs:     m.MaxTime.Milliseconds(),
			BytesSent:     m.BytesSent,
			BytesReceived: m.BytesReceived,
		}
	}
	return snap
}

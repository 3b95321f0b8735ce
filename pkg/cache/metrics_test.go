package cache

import (
	"testing"
)

func TestMetrics_Registration(t *testing.T) {
	if CacheHitsTotal == nil {
		t.Error("CacheHitsTotal not registered")
	}

	if CacheMissesTotal == nil {
		t.Error("CacheMissesTotal not registered")
	}

	if CacheSetsTotal == nil {
		t.Error("CacheSetsTotal not registered")
	}

	if CacheDeletesTotal == nil {
		t.Error("CacheDeletesTotal not registered")
	}
}

func TestMetrics_CounterIncrement(t *testing.T) {
	CacheHitsTotal.Inc()
	CacheMissesTotal.Inc()
	CacheSetsTotal.Inc()
	CacheDeletesTotal.Inc()
}

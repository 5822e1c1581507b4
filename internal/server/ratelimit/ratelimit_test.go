package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow_WithinBurst(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, RequestsPerSecond: 1, Burst: 3})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("client-a"), "request %d should be allowed", i)
	}
	assert.False(t, l.Allow("client-a"))
}

func TestAllow_ClientsAreIndependent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, RequestsPerSecond: 1, Burst: 1})
	defer l.Stop()

	assert.True(t, l.Allow("client-a"))
	assert.False(t, l.Allow("client-a"))
	assert.True(t, l.Allow("client-b"))
}

func TestAllow_DisabledAlwaysAllows(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("client-a"))
	}
}

func TestRemoveStale(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, RequestsPerSecond: 1, Burst: 1})
	defer l.Stop()

	l.Allow("client-a")
	l.mu.Lock()
	l.clients["client-a"].lastSeen = time.Now().Add(-2 * time.Hour)
	l.mu.Unlock()

	l.removeStale()

	l.mu.Lock()
	_, exists := l.clients["client-a"]
	l.mu.Unlock()
	assert.False(t, exists)
}

package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterAllow(t *testing.T) {
	current := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(time.Minute, 2)
	l.now = func() time.Time { return current }

	ok, _ := l.Allow("10.0.0.1")
	assert.True(t, ok)

	current = current.Add(10 * time.Second)
	ok, _ = l.Allow("10.0.0.1")
	assert.True(t, ok)

	current = current.Add(10 * time.Second)
	ok, retry := l.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, retry)

	// other callers have their own budget
	ok, _ = l.Allow("10.0.0.2")
	assert.True(t, ok)

	// first hit falls out of the window
	current = current.Add(41 * time.Second)
	ok, _ = l.Allow("10.0.0.1")
	assert.True(t, ok)
}

func TestLimiterConcurrentAccess(t *testing.T) {
	l := NewLimiter(time.Minute, 1000)
	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 50; j++ {
				l.Allow("shared")
			}
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.hits["shared"], 500)
}

func TestLimiterNonPositiveBudget(t *testing.T) {
	tests := []struct {
		name    string
		maxHits int
	}{
		{"zero", 0},
		{"negative", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLimiter(time.Minute, tt.maxHits)

			assert.NotPanics(t, func() {
				ok, retry := l.Allow("1.2.3.4")
				assert.False(t, ok)
				assert.Equal(t, time.Minute, retry)
			})
		})
	}
}

func TestLimiterForgetsIdleCallers(t *testing.T) {
	current := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(time.Minute, 5)
	l.now = func() time.Time { return current }

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		ok, _ := l.Allow(ip)
		assert.True(t, ok)
	}
	assert.Len(t, l.hits, 3)

	current = current.Add(2 * time.Minute)
	ok, _ := l.Allow("10.0.0.4")
	assert.True(t, ok)

	assert.Len(t, l.hits, 1)
	assert.Contains(t, l.hits, "10.0.0.4")
}

package http

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionLimiter_DropsIdleBuckets(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	l := newSessionLimiter(time.Second, 2)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("s1"))
	assert.True(t, l.Allow("s1"))
	assert.False(t, l.Allow("s1"))

	for i := 0; i < 100; i++ {
		l.Allow(fmt.Sprintf("ghost-%d", i))
	}
	assert.Equal(t, 101, l.size())

	// Two seconds refill a bucket of two, so nothing is lost by dropping it.
	now = now.Add(2 * time.Second)
	assert.True(t, l.Allow("s1"))
	assert.Equal(t, 1, l.size())

	l.Forget("s1")
	assert.Zero(t, l.size())
}

func TestSessionLimiter_Nil(t *testing.T) {
	var l *sessionLimiter
	assert.Nil(t, newSessionLimiter(0, 1))
	assert.True(t, l.Allow("s1"))
	l.Forget("s1")
	assert.Zero(t, l.size())
}

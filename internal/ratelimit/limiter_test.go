package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDisabledForNonPositiveRate(t *testing.T) {
	assert.Nil(t, New("gutendex", 0))
	assert.Nil(t, New("gutendex", -1))
}

func TestNilLimiterNeverBlocks(t *testing.T) {
	var l *Limiter

	require.NoError(t, l.Wait(context.Background()))
	assert.True(t, l.Allow())
	assert.Equal(t, "", l.Name())
}

func TestFractionalRateGetsBurstOfOne(t *testing.T) {
	l := New("gutendex", 0.5)
	require.NotNil(t, l)

	assert.True(t, l.Allow(), "first request fits in the burst")
	assert.False(t, l.Allow(), "second request must wait")
}

func TestWaitHonoursContext(t *testing.T) {
	l := NewWithBurst("gutendex", 0.01, 1)
	require.True(t, l.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait for gutendex")
	assert.Equal(t, "gutendex", l.Name())
}

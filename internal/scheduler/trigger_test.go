package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronTriggerNextIsMidnightUTC(t *testing.T) {
	trig := NewCronTrigger("", nil)
	require.NoError(t, trig.Start(func() {}))
	defer trig.Stop()

	next := trig.Next()
	require.False(t, next.IsZero())
	next = next.UTC()
	assert.Equal(t, 0, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.True(t, next.After(time.Now()))

	trig.Stop()
	assert.True(t, trig.Next().IsZero())
}

func TestCronTriggerRejectsBadSpec(t *testing.T) {
	trig := NewCronTrigger("every day please", time.UTC)
	assert.Error(t, trig.Start(func() {}))
}

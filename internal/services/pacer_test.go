package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_Pacer_WaitsAtLeastTheConfiguredDelay(t *testing.T) {

	pacer := NewPacer(20*time.Millisecond, 50*time.Millisecond)

	start := time.Now()
	err := pacer.WaitShort(context.Background())
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	start = time.Now()
	err = pacer.WaitLong(context.Background())
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func Test_Pacer_ReturnsPromptlyOnCancellation(t *testing.T) {

	pacer := NewPacer(10*time.Second, 10*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := pacer.WaitShort(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func Test_Pacer_ZeroDelayDoesNotBlock(t *testing.T) {

	pacer := NewPacer(0, 0)
	assert.NoError(t, pacer.WaitShort(context.Background()))
	assert.NoError(t, pacer.WaitLong(context.Background()))
}

package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler(context.Background())

	var calls []string
	s.AddJob("first", time.Hour, func(ctx context.Context) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	s.AddJob("second", time.Hour, func(ctx context.Context) error {
		calls = append(calls, "second")
		return nil
	})

	err := s.RunOnce(context.Background())

	assert.Equal(t, []string{"first", "second"}, calls)
	assert.ErrorContains(t, err, "first: boom")
	assert.Equal(t, []string{"first", "second"}, s.Jobs())
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(context.Background())

	var runs atomic.Int32
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.Stop()
	assert.Equal(t, int32(1), runs.Load())
}

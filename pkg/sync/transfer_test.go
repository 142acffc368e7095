package sync

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sidkik/groovepush/pkg/errors"
)

func TestForEachLimit(t *testing.T) {
	var inFlight, maxInFlight, calls int64
	items := make([]int, 50)

	err := forEach(context.Background(), 4, items, func(context.Context, int) error {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			max := atomic.LoadInt64(&maxInFlight)
			if n <= max || atomic.CompareAndSwapInt64(&maxInFlight, max, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		atomic.AddInt64(&calls, 1)
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(50), calls)
	assert.True(t, maxInFlight <= 4, "at most 4 calls in flight, got %d", maxInFlight)
}

func TestForEachError(t *testing.T) {
	var calls int64
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}

	err := forEach(context.Background(), 1, items, func(_ context.Context, i int) error {
		atomic.AddInt64(&calls, 1)
		if i == 2 {
			return errors.NewLocalIoError("b.wav", errors.New("read failed"))
		}
		return nil
	})

	assert.True(t, errors.Is(err, errors.LocalIoError))
	assert.True(t, calls < int64(len(items)), "items after the failure should be skipped")
}

func TestForEachEmpty(t *testing.T) {
	err := forEach(context.Background(), 8, []string{}, func(context.Context, string) error {
		t.Fatal("unexpected call")
		return nil
	})
	assert.NoError(t, err)
}

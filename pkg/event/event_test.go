package event_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/keysncaps/keysncaps/pkg/event"
)

func TestFireDispatchesSynchronously(t *testing.T) {
	defer event.Flush()

	var got atomic.Value
	event.Listen("order.created", func(payload interface{}) {
		got.Store(payload)
	})

	event.Fire("order.created", "order-42")

	if got.Load() != "order-42" {
		t.Errorf("payload = %v, want order-42", got.Load())
	}
}

func TestFireReachesAllListeners(t *testing.T) {
	defer event.Flush()

	var count atomic.Int32
	for i := 0; i < 3; i++ {
		event.Listen("order.status_changed", func(interface{}) {
			count.Add(1)
		})
	}

	event.Fire("order.status_changed", nil)

	if count.Load() != 3 {
		t.Errorf("listeners called = %d, want 3", count.Load())
	}
}

func TestFireAsyncDoesNotBlock(t *testing.T) {
	defer event.Flush()

	var wg sync.WaitGroup
	wg.Add(1)
	event.Listen("slow.event", func(interface{}) {
		defer wg.Done()
		time.Sleep(20 * time.Millisecond)
	})

	start := time.Now()
	event.FireAsync("slow.event", nil)
	if elapsed := time.Since(start); elapsed > 10*time.Millisecond {
		t.Errorf("FireAsync blocked for %v", elapsed)
	}

	wg.Wait()
}

func TestUnknownEventIsNoop(t *testing.T) {
	defer event.Flush()
	event.Fire("nobody.listens", 123)
}

package queue_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/keysncaps/keysncaps/pkg/queue"
)

var (
	echoRuns atomic.Int32
	failRuns atomic.Int32
)

type echoJob struct {
	Val string `json:"val"`
}

func (j *echoJob) Handle() error {
	echoRuns.Add(1)
	return nil
}

type failJob struct{}

func (j *failJob) Handle() error {
	failRuns.Add(1)
	return errors.New("always fails")
}

func init() {
	queue.Register("*queue_test.echoJob", func() queue.Job { return &echoJob{} })
	queue.Register("*queue_test.failJob", func() queue.Job { return &failJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	_ = cancel
	queue.StartWorkers(ctx, 2)
}

func TestDispatchAndProcess(t *testing.T) {
	before := echoRuns.Load()
	if err := queue.Dispatch(&echoJob{Val: "hello"}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for echoRuns.Load() == before {
		select {
		case <-deadline:
			t.Fatal("job was never processed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestFailedJobRetriesAndLands(t *testing.T) {
	queue.SetMaxRetry(2)
	defer queue.SetMaxRetry(3)

	before := failRuns.Load()
	if err := queue.Dispatch(&failJob{}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	deadline := time.After(5 * time.Second)
	// 1 initial attempt + 2 retries.
	for failRuns.Load() < before+3 {
		select {
		case <-deadline:
			t.Fatalf("expected 3 attempts, got %d", failRuns.Load()-before)
		case <-time.After(20 * time.Millisecond):
		}
	}

	// The failure is recorded after the last backoff sleep, so poll.
	var failed []queue.FailedJob
	landed := time.After(10 * time.Second)
	for len(failed) == 0 {
		select {
		case <-landed:
			t.Fatal("expected job to land in the failed list")
		case <-time.After(50 * time.Millisecond):
			failed = queue.FailedJobs()
		}
	}
	last := failed[len(failed)-1]
	if last.Err == nil {
		t.Error("failed job missing its error")
	}
	if last.Attempts != 3 {
		t.Errorf("recorded attempts = %d, want 3", last.Attempts)
	}
}

func TestDispatchAfterDelays(t *testing.T) {
	before := echoRuns.Load()
	queue.DispatchAfter(&echoJob{Val: "later"}, 50*time.Millisecond)

	deadline := time.After(3 * time.Second)
	for echoRuns.Load() == before {
		select {
		case <-deadline:
			t.Fatal("delayed job was never processed")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

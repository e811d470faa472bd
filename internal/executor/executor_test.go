package executor_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/arrowkit/flowcore/internal/executor"
)

func TestExecutor_AddJobFiresAtScheduledTime(t *testing.T) {
	e := executor.New()
	var fired atomic.Bool

	e.AddJob("job-1", time.Now().Add(10*time.Millisecond), func() {
		fired.Store(true)
	})

	if fired.Load() {
		t.Fatal("fired before its scheduled time")
	}
	time.Sleep(50 * time.Millisecond)
	if !fired.Load() {
		t.Fatal("expected job to have fired")
	}
	if e.Pending() != 0 {
		t.Fatalf("expected 0 pending, got %d", e.Pending())
	}
}

func TestExecutor_StopCancelsPending(t *testing.T) {
	e := executor.New()
	var fired atomic.Bool

	e.AddJob("job-1", time.Now().Add(100*time.Millisecond), func() {
		fired.Store(true)
	})
	e.Stop()
	time.Sleep(150 * time.Millisecond)

	if fired.Load() {
		t.Fatal("job should have been cancelled")
	}
}

func TestExecutor_AddJobReplacesSameName(t *testing.T) {
	e := executor.New()
	var firstFired, secondFired atomic.Bool

	e.AddJob("job-1", time.Now().Add(20*time.Millisecond), func() {
		firstFired.Store(true)
	})
	e.AddJob("job-1", time.Now().Add(40*time.Millisecond), func() {
		secondFired.Store(true)
	})

	time.Sleep(80 * time.Millisecond)
	if firstFired.Load() {
		t.Fatal("first job should have been replaced")
	}
	if !secondFired.Load() {
		t.Fatal("expected second job to fire")
	}
}

package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunAll_ExecutesEveryTask(t *testing.T) {
	var executed atomic.Int32

	tasks := make([]func(context.Context) error, 10)
	for i := range tasks {
		tasks[i] = func(context.Context) error {
			executed.Add(1)
			return nil
		}
	}

	if err := RunAll(context.Background(), 3, tasks); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if executed.Load() != 10 {
		t.Errorf("expected 10 executed tasks, got %d", executed.Load())
	}
}

func TestRunAll_RespectsConcurrencyLimit(t *testing.T) {
	limit := 3
	var current, maxConcurrent int32
	var mu sync.Mutex

	tasks := make([]func(context.Context) error, 20)
	for i := range tasks {
		tasks[i] = func(context.Context) error {
			curr := atomic.AddInt32(&current, 1)
			mu.Lock()
			if curr > maxConcurrent {
				maxConcurrent = curr
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&current, -1)
			return nil
		}
	}

	if err := RunAll(context.Background(), limit, tasks); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	mu.Lock()
	max := maxConcurrent
	mu.Unlock()
	if max > int32(limit) {
		t.Errorf("max concurrency %d exceeded limit %d", max, limit)
	}
}

func TestRunAll_FirstErrorWins(t *testing.T) {
	taskErr := errors.New("task error")

	tasks := []func(context.Context) error{
		func(context.Context) error { return nil },
		func(context.Context) error { return taskErr },
		func(context.Context) error { return nil },
	}

	if err := RunAll(context.Background(), 1, tasks); !errors.Is(err, taskErr) {
		t.Errorf("expected task error, got %v", err)
	}
}

func TestRunAll_ErrorCancelsRemaining(t *testing.T) {
	var ran atomic.Int32

	tasks := []func(context.Context) error{
		func(context.Context) error { return errors.New("boom") },
	}
	for i := 0; i < 20; i++ {
		tasks = append(tasks, func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	// Serial execution: the failing first task cancels the group before
	// later tasks start, and RunAll skips tasks on a dead context.
	if err := RunAll(context.Background(), 1, tasks); err == nil {
		t.Fatal("expected error")
	}
	if ran.Load() != 0 {
		t.Errorf("expected remaining tasks skipped after failure, got %d runs", ran.Load())
	}
}

func TestRunAll_NoTasks(t *testing.T) {
	if err := RunAll(context.Background(), 4, nil); err != nil {
		t.Errorf("expected no error for empty task list, got %v", err)
	}
}

func TestRunAll_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tasks := []func(context.Context) error{
		func(context.Context) error { return nil },
	}

	if err := RunAll(ctx, 1, tasks); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

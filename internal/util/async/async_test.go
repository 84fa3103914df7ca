package async

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRunParallel_Success(t *testing.T) {
	t.Parallel()
	var count atomic.Int32

	tasks := []Task{
		{Name: "task1", Func: func(_ context.Context) error {
			count.Add(1)
			return nil
		}},
		{Name: "task2", Func: func(_ context.Context) error {
			count.Add(1)
			return nil
		}},
		{Name: "task3", Func: func(_ context.Context) error {
			count.Add(1)
			return nil
		}},
	}

	err := RunParallel(context.Background(), tasks, 2)
	if err != nil {
		t.Errorf("expected no error, got: %v", err)
	}

	if count.Load() != 3 {
		t.Errorf("expected 3 tasks to run, got %d", count.Load())
	}
}

func TestRunParallel_EmptyTasks(t *testing.T) {
	t.Parallel()
	if err := RunParallel(context.Background(), nil, 2); err != nil {
		t.Errorf("expected no error for empty tasks, got: %v", err)
	}
}

func TestRunParallel_FirstErrorInTaskOrder(t *testing.T) {
	t.Parallel()
	tasks := []Task{
		{Name: "ok", Func: func(_ context.Context) error { return nil }},
		{Name: "first-failure", Func: func(_ context.Context) error {
			return errors.New("boom")
		}},
		{Name: "second-failure", Func: func(_ context.Context) error {
			return errors.New("later")
		}},
	}

	err := RunParallel(context.Background(), tasks, 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "first-failure") {
		t.Errorf("expected first failing task in error, got: %v", err)
	}
}

func TestRunParallel_AllTasksRunDespiteFailure(t *testing.T) {
	t.Parallel()
	var count atomic.Int32
	tasks := []Task{
		{Name: "fail", Func: func(_ context.Context) error {
			count.Add(1)
			return errors.New("boom")
		}},
		{Name: "also-runs", Func: func(_ context.Context) error {
			count.Add(1)
			return nil
		}},
		{Name: "runs-too", Func: func(_ context.Context) error {
			count.Add(1)
			return nil
		}},
	}

	_ = RunParallel(context.Background(), tasks, 1)

	if count.Load() != 3 {
		t.Errorf("expected all 3 tasks to run, got %d", count.Load())
	}
}

func TestRunParallel_RespectsLimit(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	running, peak := 0, 0

	enter := func() {
		mu.Lock()
		running++
		if running > peak {
			peak = running
		}
		mu.Unlock()
	}
	leave := func() {
		mu.Lock()
		running--
		mu.Unlock()
	}

	var tasks []Task
	for range 8 {
		tasks = append(tasks, Task{Name: "probe", Func: func(_ context.Context) error {
			enter()
			defer leave()
			return nil
		}})
	}

	if err := RunParallel(context.Background(), tasks, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if peak > 2 {
		t.Errorf("expected at most 2 concurrent tasks, saw %d", peak)
	}
}

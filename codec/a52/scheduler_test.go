package a52

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func drainFrames(in chan *FrameState, n int) {
	for i := 0; i < n; i++ {
		in <- &FrameState{FrameNum: i}
	}
	close(in)
}

func TestSchedulerSerialPreservesOrder(t *testing.T) {
	const n = 20
	s := NewScheduler(1, func(f *FrameState) ([]byte, error) {
		return []byte{byte(f.FrameNum)}, nil
	})

	in := make(chan *FrameState, n)
	out := make(chan []byte, n)
	go drainFrames(in, n)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx, in, out) }()

	for i := 0; i < n; i++ {
		got := <-out
		if got[0] != byte(i) {
			t.Fatalf("frame %d out of order: got %d", i, got[0])
		}
	}
	if err := <-errCh; err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestSchedulerParallelPreservesOrder(t *testing.T) {
	const n = 50
	s := NewScheduler(8, func(f *FrameState) ([]byte, error) {
		// Vary processing latency so later frames can finish first,
		// exercising the ring's reordering guarantee.
		if f.FrameNum%3 == 0 {
			time.Sleep(time.Millisecond)
		}
		return []byte{byte(f.FrameNum)}, nil
	})

	in := make(chan *FrameState, n)
	out := make(chan []byte, n)
	go drainFrames(in, n)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx, in, out) }()

	for i := 0; i < n; i++ {
		got := <-out
		if got[0] != byte(i) {
			t.Fatalf("frame %d out of order: got %d", i, got[0])
		}
	}
	if err := <-errCh; err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestSchedulerPropagatesError(t *testing.T) {
	wantErr := fmt.Errorf("boom")
	s := NewScheduler(4, func(f *FrameState) ([]byte, error) {
		if f.FrameNum == 3 {
			return nil, wantErr
		}
		return []byte{byte(f.FrameNum)}, nil
	})

	in := make(chan *FrameState, 10)
	out := make(chan []byte, 10)
	go drainFrames(in, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := s.Run(ctx, in, out)
	if err == nil {
		t.Fatal("expected the worker's error to propagate from Run")
	}
}

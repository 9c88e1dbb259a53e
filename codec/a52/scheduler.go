/*
NAME
  scheduler.go

DESCRIPTION
  scheduler.go drives the per-frame encode pipeline (filter -> analyze
  -> allocate -> quantize -> pack) either serially, or fanned out
  across a fixed pool of worker goroutines while still emitting frames
  to the caller in strict input order.

  The parallel path is a channel-per-slot ring, grounded on
  codec/codecutil's ringBuffer (a fixed-size []chan backing store
  providing concurrency-safe blocking handoff without allocation per
  frame) combined with revid.go's shutdown idiom (a context used to
  unblock goroutines on the first failure). The feeder admits a new
  frame only while fewer than len(ring) frames are undrained, so each
  ring slot holds at most one pending frame. A worker takes the frame's
  slot (seq modulo the ring size), encodes the frame and delivers the
  result, error included, into that slot; the writer drains slots in
  strict order, so it blocks on a not-yet-ready slot exactly as long as
  it takes that frame's worker to finish, never reordering output.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package a52

import (
	"context"
	"sync"
)

// frameResult is one encoded frame (or the error that occurred
// producing it) destined for the output writer.
type frameResult struct {
	seq  int
	data []byte
	err  error
}

// Scheduler runs a configured number of workers, each executing
// process on frames pulled from an input channel, and delivers the
// encoded output on Frames in the same order the input arrived.
type Scheduler struct {
	workers int
	process func(*FrameState) ([]byte, error)
}

// NewScheduler returns a Scheduler that runs process across workers
// goroutines (workers <= 1 runs serially on the caller's goroutine).
func NewScheduler(workers int, process func(*FrameState) ([]byte, error)) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	return &Scheduler{workers: workers, process: process}
}

// Run consumes frames from in, encodes each with s.process, and sends
// the resulting bytes to out in the same order frames arrived. It
// returns the first encode error encountered, after which it stops
// pulling further frames and closes out.
func (s *Scheduler) Run(ctx context.Context, in <-chan *FrameState, out chan<- []byte) error {
	defer close(out)
	if s.workers == 1 {
		return s.runSerial(ctx, in, out)
	}
	return s.runParallel(ctx, in, out)
}

func (s *Scheduler) runSerial(ctx context.Context, in <-chan *FrameState, out chan<- []byte) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-in:
			if !ok {
				return nil
			}
			data, err := s.process(f)
			if err != nil {
				return err
			}
			select {
			case out <- data:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// runParallel implements the ring-of-slots handshake described above.
func (s *Scheduler) runParallel(ctx context.Context, in <-chan *FrameState, out chan<- []byte) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ring := make([]chan frameResult, s.workers)
	for i := range ring {
		ring[i] = make(chan frameResult, 1)
	}

	type job struct {
		seq int
		f   *FrameState
	}
	jobs := make(chan job)
	// inFlight holds one token per frame handed out but not yet drained,
	// so at most len(ring) frames are undrained and no two of them share
	// a slot.
	inFlight := make(chan struct{}, s.workers)

	var wg sync.WaitGroup
	wg.Add(s.workers)
	for w := 0; w < s.workers; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-jobs:
					if !ok {
						return
					}
					// enter: claim this job's ring slot.
					slot := ring[j.seq%len(ring)]
					data, err := s.process(j.f)
					// ready: deliver into the slot; the feeder admitted
					// this job only after the slot's previous occupant
					// had been drained, so the slot is free.
					select {
					case slot <- frameResult{seq: j.seq, data: data, err: err}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// totalCh carries the number of frames the feeder forwarded, sent
	// once input is exhausted; the writer uses it to know when the
	// last slot has been drained rather than blocking forever.
	totalCh := make(chan int, 1)
	go func() {
		seq := 0
		for {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			case f, ok := <-in:
				if !ok {
					totalCh <- seq
					close(jobs)
					return
				}
				select {
				case inFlight <- struct{}{}:
				case <-ctx.Done():
					close(jobs)
					return
				}
				select {
				case jobs <- job{seq: seq, f: f}:
					seq++
				case <-ctx.Done():
					close(jobs)
					return
				}
			}
		}
	}()

	var writeErr error
	total := -1
	seq := 0
loop:
	for total < 0 || seq < total {
		select {
		case <-ctx.Done():
			writeErr = ctx.Err()
			break loop
		case t := <-totalCh:
			total = t
		case res := <-ring[seq%len(ring)]:
			if res.err != nil {
				writeErr = res.err
				cancel()
				break loop
			}
			select {
			case out <- res.data:
			case <-ctx.Done():
				writeErr = ctx.Err()
				break loop
			}
			seq++
			<-inFlight
		}
	}

	cancel()
	wg.Wait()
	return writeErr
}

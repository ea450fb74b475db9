// Copyright 2025 go-boxblur Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package workerpool provides a fixed-size pool of goroutines that run
// data-parallel loops over an index range.
//
// Every ParallelFor* call blocks until all of its chunks have finished, so two
// consecutive calls are separated by a full barrier: no chunk of the second
// call starts before every chunk of the first has returned. Multi-pass
// algorithms rely on this to hand read/write buffers from one pass to the next
// without locking.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	pool.ParallelForChunked(height, 4, func(start, end int) {
//	    for row := start; row < end; row++ {
//	        processRow(row)
//	    }
//	})
//	// every row is done here
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool. Workers are spawned once by New and
// reused by every parallel loop until Close is called.
//
// A Pool may be shared by several goroutines, and Close may be called while
// loops are running: loops already queued finish on the workers, later ones
// run on the calling goroutine.
type Pool struct {
	numWorkers int
	workC      chan task
	closeOnce  sync.Once

	// mu is held for reading while a loop queues its tasks and for writing
	// by Close, so workC is never closed under a pending send.
	mu     sync.RWMutex
	closed bool
}

// task is one worker's share of a parallel loop.
type task struct {
	fn   func()
	done *sync.WaitGroup
}

// New creates a pool with numWorkers goroutines.
// If numWorkers <= 0, GOMAXPROCS is used.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan task, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for t := range p.workC {
		t.fn()
		t.done.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close stops the workers once the tasks already queued are done. Loops
// started after Close run sequentially on the calling goroutine. Calling
// Close more than once is safe.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.workC)
		p.mu.Unlock()
	})
}

// submit queues fns on the workers and waits for all of them. It returns
// false without running anything if the pool is closed.
func (p *Pool) submit(fns ...func()) bool {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return false
	}
	var wg sync.WaitGroup
	wg.Add(len(fns))
	for _, fn := range fns {
		p.workC <- task{fn: fn, done: &wg}
	}
	p.mu.RUnlock()
	wg.Wait()
	return true
}

// ParallelFor splits [0, n) into one contiguous range per worker and calls
// fn(start, end) for each range. It returns once every range is done.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := min(p.numWorkers, n)
	if workers == 1 {
		fn(0, n)
		return
	}

	size := (n-1)/workers + 1
	fns := make([]func(), 0, workers)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		fns = append(fns, func() { fn(start, end) })
	}
	if !p.submit(fns...) {
		fn(0, n)
	}
}

// ParallelForChunked calls fn(start, end) on consecutive chunks of grain
// indices covering [0, n). Workers grab the next free chunk from a shared
// atomic counter, so uneven chunks balance out. It returns once every chunk
// is done.
//
// grain only changes how work is distributed, never which indices fn sees:
// each index in [0, n) is passed to exactly one call. grain <= 0 is treated
// as 1 and grain > n as n.
func (p *Pool) ParallelForChunked(n, grain int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	grain = min(max(grain, 1), n)

	chunks := (n-1)/grain + 1
	workers := min(p.numWorkers, chunks)
	sequential := func() {
		for start := 0; start < n; start += grain {
			fn(start, min(start+grain, n))
		}
	}
	if workers == 1 {
		sequential()
		return
	}

	var next atomic.Int64
	grab := func() {
		for {
			c := int(next.Add(1) - 1)
			if c >= chunks {
				return
			}
			start := c * grain
			fn(start, min(start+grain, n))
		}
	}
	fns := make([]func(), workers)
	for i := range fns {
		fns[i] = grab
	}
	if !p.submit(fns...) {
		sequential()
	}
}

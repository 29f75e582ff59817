// Copyright 2025 go-qgemm Authors
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

// Package workerpool provides a small fixed-size goroutine pool for
// data-parallel loops. Workers are started once and reused across calls,
// avoiding per-call goroutine churn in hot numeric paths.
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Executor is the parallel-loop surface the compute kernels depend on.
// A nil-tolerant caller may also fall back to a serial loop when no pool
// is available.
type Executor interface {
	// ParallelFor splits [0, n) into contiguous ranges, one per worker,
	// and calls fn(start, end) for each. It returns after every range
	// has completed.
	ParallelFor(n int, fn func(start, end int))

	// ParallelForAtomic distributes the indices of [0, n) to workers
	// through a shared atomic counter, calling fn(i) once per index.
	// Prefer it when per-index cost is uneven.
	ParallelForAtomic(n int, fn func(i int))
}

// Pool is a fixed-size worker pool implementing Executor.
type Pool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	workers int

	closeOnce sync.Once
}

// New creates a pool with the given number of workers. A count <= 0 uses
// runtime.GOMAXPROCS(0). The caller owns the pool and must Close it to
// release the worker goroutines.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		tasks:   make(chan func()),
		workers: workers,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				task()
			}
		}()
	}
	return p
}

// Workers reports the pool size.
func (p *Pool) Workers() int { return p.workers }

// Close shuts down the workers. Safe to call more than once; no ParallelFor
// call may be in flight or issued afterwards.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.tasks)
		p.wg.Wait()
	})
}

// ParallelFor implements Executor. Ranges are balanced to within one
// element; n <= 0 is a no-op, and a single-element range on a one-worker
// pool still runs on a worker goroutine, never the caller.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	chunks := p.workers
	if chunks > n {
		chunks = n
	}
	quo, rem := n/chunks, n%chunks

	var wg sync.WaitGroup
	start := 0
	for i := 0; i < chunks; i++ {
		size := quo
		if i < rem {
			size++
		}
		s, e := start, start+size
		start = e
		wg.Add(1)
		p.tasks <- func() {
			defer wg.Done()
			fn(s, e)
		}
	}
	wg.Wait()
}

// ParallelForAtomic implements Executor.
func (p *Pool) ParallelForAtomic(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := p.workers
	if workers > n {
		workers = n
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		p.tasks <- func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= n {
					return
				}
				fn(i)
			}
		}
	}
	wg.Wait()
}

/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package acquisition

import (
	"sync"
)

type job func()

// worker runs jobs one at a time in the order they were queued
type worker struct {
	name     string
	jobs     chan job
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newWorker(name string, size int) *worker {
	w := &worker{
		name: name,
		jobs: make(chan job, size),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *worker) run() {
	defer close(w.done)
	for {
		select {
		case <-w.quit:
			return
		case j := <-w.jobs:
			select {
			case <-w.quit:
				return
			default:
			}
			j()
		}
	}
}

// offer queues j without blocking, false means the queue is full or the worker is stopped
func (w *worker) offer(j job) bool {
	select {
	case <-w.quit:
		return false
	default:
	}
	select {
	case w.jobs <- j:
		return true
	default:
		return false
	}
}

// call queues j behind everything already queued and waits until it ran.
// It returns false if the worker stopped before running j.
func (w *worker) call(j job) bool {
	ran := make(chan struct{})
	wrapped := func() {
		j()
		close(ran)
	}
	select {
	case w.jobs <- wrapped:
	case <-w.quit:
		return false
	}
	select {
	case <-ran:
		return true
	case <-w.done:
		select {
		case <-ran:
			return true
		default:
			return false
		}
	}
}

// stop discards queued jobs and waits for the running one, it is idempotent
func (w *worker) stop() {
	w.stopOnce.Do(func() { close(w.quit) })
	<-w.done
}

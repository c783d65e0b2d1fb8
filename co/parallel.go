// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import "runtime"

// Parallel runs tasks enqueued via feed across a bounded worker pool sized
// to the number of CPUs, returning a channel that closes once every queued
// task has run.
func Parallel(feed func(queue chan<- func())) <-chan struct{} {
	queue := make(chan func())
	done := make(chan struct{})

	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}

	var workers Goes
	for i := 0; i < n; i++ {
		workers.Go(func() {
			for fn := range queue {
				fn()
			}
		})
	}

	go func() {
		feed(queue)
		close(queue)
		workers.Wait()
		close(done)
	}()

	return done
}

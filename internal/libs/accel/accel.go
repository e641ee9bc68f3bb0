// Package accel sizes worker pools for CPU-bound batch work.
package accel

import "runtime"

// Workers returns n, or one worker per CPU when n is not positive
func Workers(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// Clamp caps a worker count at the number of items to process, never below 1
func Clamp(workers, items int) int {
	if items < workers {
		workers = items
	}
	if workers < 1 {
		return 1
	}
	return workers
}

// Package logging holds helpers shared by the components that log on hot paths.
package logging

import (
	"sync"
)

// ErrorSampler reduces log noise from failures that repeat on every frame.
// A key is logged on its first failure and then on every Nth one; a success
// clears it so the next outage is reported immediately.
type ErrorSampler struct {
	mu       sync.Mutex
	counts   map[string]int
	interval int
}

// NewErrorSampler creates a sampler that logs every interval-th failure.
// An interval below 1 means 10.
func NewErrorSampler(interval int) *ErrorSampler {
	if interval < 1 {
		interval = 10
	}
	return &ErrorSampler{
		counts:   make(map[string]int),
		interval: interval,
	}
}

// Observe records a failure for key. It reports whether the failure should
// be logged along with the number of consecutive failures so far.
func (s *ErrorSampler) Observe(key string) (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[key]++
	n := s.counts[key]
	return n == 1 || n%s.interval == 0, n
}

// Recover clears key and returns how many failures preceded the success.
func (s *ErrorSampler) Recover(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.counts[key]
	delete(s.counts, key)
	return n
}

// Count returns the consecutive failures recorded for key.
func (s *ErrorSampler) Count(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key]
}

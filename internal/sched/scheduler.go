package sched

import (
	"sync"
	"time"
)

// Scheduler runs a callback immediately on Start and then once per interval
// until Stop. Start while running re-arms the timer without leaving a second
// loop behind; Stop is safe to call any number of times. The callback runs
// on the scheduler's goroutine, never concurrently with itself.
type Scheduler struct {
	clock Clock
	fire  func()

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func New(clock Clock, fire func()) *Scheduler {
	if clock == nil {
		clock = RealClock()
	}
	return &Scheduler{clock: clock, fire: fire}
}

// Start arms the loop. Any previous loop is torn down first, so duplicate
// intervals cannot accumulate.
func (s *Scheduler) Start(interval time.Duration) {
	s.Stop()

	s.mu.Lock()
	stop := make(chan struct{})
	done := make(chan struct{})
	s.stop = stop
	s.done = done
	s.mu.Unlock()

	go s.loop(interval, stop, done)
}

func (s *Scheduler) loop(interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	s.fire()

	t := s.clock.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C():
			s.fire()
		}
	}
}

// Stop cancels the loop and waits for the in-flight callback, if any, to
// return. A stopped scheduler can be started again.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Running reports whether a loop is armed.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

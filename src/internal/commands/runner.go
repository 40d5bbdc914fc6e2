package commands

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/maksimkurb/hostnet/src/internal/log"
)

// Supervisor runs a function in a goroutine and restarts it with
// exponential backoff when it fails or panics. A nil return stops it.
type Supervisor struct {
	name    string
	runFunc func(ctx context.Context) error

	restartBackoff time.Duration
	maxBackoff     time.Duration
	maxRestarts    int // 0 means unlimited

	mu           sync.RWMutex
	running      bool
	cancel       context.CancelFunc
	done         chan struct{}
	lastError    error
	restartCount int
}

// SupervisorConfig contains configuration for Supervisor.
type SupervisorConfig struct {
	Name           string
	MaxRestarts    int           // 0 = unlimited restarts
	RestartBackoff time.Duration // Initial backoff (default: 1s)
	MaxBackoff     time.Duration // Max backoff (default: 30s)
}

// NewSupervisor creates a supervisor for runFunc.
func NewSupervisor(cfg SupervisorConfig, runFunc func(ctx context.Context) error) *Supervisor {
	if cfg.RestartBackoff == 0 {
		cfg.RestartBackoff = time.Second
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = 30 * time.Second
	}

	return &Supervisor{
		name:           cfg.Name,
		runFunc:        runFunc,
		restartBackoff: cfg.RestartBackoff,
		maxBackoff:     cfg.MaxBackoff,
		maxRestarts:    cfg.MaxRestarts,
	}
}

// Start launches the supervised function.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("%s is already running", s.name)
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.running = true
	s.restartCount = 0
	s.lastError = nil

	go s.loop(ctx, s.done)
	return nil
}

// Stop cancels the function and waits up to timeout for it to return.
func (s *Supervisor) Stop(timeout time.Duration) error {
	s.mu.RLock()
	cancel, done := s.cancel, s.done
	running := s.running
	s.mu.RUnlock()

	if !running {
		return nil
	}
	cancel()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("%s: timeout waiting for stop", s.name)
	}
}

// Done is closed once the supervisor gave up or the function exited cleanly.
func (s *Supervisor) Done() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done
}

// LastError returns the error of the last run.
func (s *Supervisor) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// RestartCount returns the number of restarts so far.
func (s *Supervisor) RestartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restartCount
}

func (s *Supervisor) loop(ctx context.Context, done chan struct{}) {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		close(done)
	}()

	backoff := s.restartBackoff
	for {
		err := s.runOnce(ctx)

		s.mu.Lock()
		s.lastError = err
		s.mu.Unlock()

		if ctx.Err() != nil {
			log.Debugf("%s: stopped", s.name)
			return
		}
		if err == nil {
			log.Infof("%s: exited cleanly", s.name)
			return
		}

		s.mu.Lock()
		s.restartCount++
		count := s.restartCount
		s.mu.Unlock()

		if s.maxRestarts > 0 && count >= s.maxRestarts {
			log.Errorf("%s: max restarts (%d) reached, giving up. Last error: %v", s.name, s.maxRestarts, err)
			return
		}

		log.Errorf("%s: failed: %v. Restarting in %v (restart #%d)", s.name, err, backoff, count)
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, s.maxBackoff)
	}
}

func (s *Supervisor) runOnce(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic: %v", recovered)
		}
	}()
	return s.runFunc(ctx)
}

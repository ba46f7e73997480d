package devices

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mobile-next/desktopcli/utils"
	"github.com/sirupsen/logrus"
)

// ShutdownHook collects cleanup functions run on SIGINT/SIGTERM or when the
// server is asked to shut down. Hooks run last-registered first, so a server
// registered after the desktop is drained before held input is released.
type ShutdownHook struct {
	mu    sync.Mutex
	hooks []namedHook
}

type namedHook struct {
	name string
	fn   func() error
}

func NewShutdownHook() *ShutdownHook {
	return &ShutdownHook{}
}

func (s *ShutdownHook) Register(name string, cleanupFn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, namedHook{name: name, fn: cleanupFn})
	utils.Verbose("Registered shutdown hook: %s", name)
}

// Shutdown runs every registered hook once, continuing past failures.
// Subsequent calls are no-ops until new hooks are registered.
func (s *ShutdownHook) Shutdown() error {
	s.mu.Lock()
	hooks := s.hooks
	s.hooks = nil
	s.mu.Unlock()

	if len(hooks) == 0 {
		return nil
	}

	utils.Verbose("Executing %d shutdown hook(s)", len(hooks))
	var errs []error

	for i := len(hooks) - 1; i >= 0; i-- {
		hook := hooks[i]
		if err := hook.fn(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", hook.name, err))
			utils.WithFields(logrus.Fields{"hook": hook.name}).Warnf("shutdown hook failed: %v", err)
			continue
		}
		utils.Verbose("Shutdown hook %s completed", hook.name)
	}

	return errors.Join(errs...)
}

// Count returns the number of hooks waiting to run.
func (s *ShutdownHook) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hooks)
}

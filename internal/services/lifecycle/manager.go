package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/roast/domain"
)

// ErrCodeShutdownTimeout marks hooks that did not finish before the deadline.
const ErrCodeShutdownTimeout domain.ErrorCode = "SHUTDOWN_TIMEOUT"

// ShutdownFunc describes a graceful shutdown callback.
type ShutdownFunc func(ctx context.Context) error

type hook struct {
	name string
	fn   ShutdownFunc
}

// Manager coordinates graceful shutdown hooks and reacts to OS signals.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu       sync.Mutex
	hooks    []hook
	shutdown bool
	stopped  []string
	failures []hookFailure
}

type hookFailure struct {
	name string
	err  error
}

// New creates a lifecycle manager with the desired timeout.
func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		timeout: timeout,
		logger:  logger,
	}
}

// Register adds a shutdown hook. Hooks are executed in reverse order.
func (m *Manager) Register(name string, fn ShutdownFunc) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook{name: name, fn: fn})
}

// Shutdown executes all registered hooks once, respecting the configured
// timeout. Hooks not reached before the deadline are reported as errors.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shutdown {
		return nil
	}
	m.shutdown = true

	var result error
	for i := len(m.hooks) - 1; i >= 0; i-- {
		h := m.hooks[i]
		err := ctx.Err()
		if err == nil {
			err = h.fn(ctx)
		}
		if err != nil {
			m.logger.Error("shutdown hook failed", zap.String("component", h.name), zap.Error(err))
			m.failures = append(m.failures, hookFailure{name: h.name, err: err})
			result = errors.Join(result, fmt.Errorf("%s: %w", h.name, err))
			continue
		}
		m.stopped = append(m.stopped, h.name)
		m.logger.Info("component stopped", zap.String("component", h.name))
	}
	return result
}

// Report describes the last shutdown as an envelope: success with the
// stopped components as data, or error with one message per failed hook.
func (m *Manager) Report() *domain.Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := domain.NewResult()
	_ = result.SetData(map[string]any{"stopped": append([]string{}, m.stopped...)})
	if len(m.failures) == 0 {
		return result
	}
	result.SetStatusError()
	for _, f := range m.failures {
		code := domain.ErrCodeInternal
		if errors.Is(f.err, context.DeadlineExceeded) {
			code = ErrCodeShutdownTimeout
		}
		message, _ := domain.NewMessage(f.err.Error(), string(code), f.name)
		result.AddMessage(message)
	}
	return result
}

// Listen waits in the background for SIGTERM or SIGINT and then invokes the provided cancel function.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		sig := <-sigCh
		m.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()
}

package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vix/internal/engine/buffer"
	"github.com/dshills/vix/internal/logging"
)

// DefaultTimeout bounds a script run when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Runner executes Lua scripts against one buffer.
//
// gopher-lua states are not goroutine-safe; Runner serializes runs with a
// mutex. The buffer itself may be read concurrently by other goroutines.
type Runner struct {
	L   *lua.LState
	buf *buffer.Buffer
	log *logging.Logger

	mu      sync.Mutex
	timeout time.Duration
	closed  bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout sets the time limit of a single run. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithLogger sets the logger that receives print output.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// New creates a runner bound to buf.
func New(buf *buffer.Buffer, opts ...Option) (*Runner, error) {
	r := &Runner{
		buf:     buf,
		log:     logging.Null(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithComponent("script")

	L, err := newSandboxedState()
	if err != nil {
		return nil, fmt.Errorf("creating lua state: %w", err)
	}
	r.L = L
	L.SetGlobal("print", L.NewFunction(r.print))
	registerDocument(L, buf)
	return r, nil
}

// Run executes code. name identifies the chunk in error messages.
func (r *Runner) Run(ctx context.Context, name, code string) error {
	return r.exec(ctx, name, func(L *lua.LState) error {
		fn, err := L.Load(strings.NewReader(code), name)
		if err != nil {
			return err
		}
		L.Push(fn)
		return L.PCall(0, lua.MultRet, nil)
	})
}

// RunFile executes the Lua file at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return r.Run(ctx, path, string(code))
}

func (r *Runner) exec(ctx context.Context, name string, fn func(*lua.LState) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	parent := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	top := r.L.GetTop()
	err := doWithRecovery(func() error { return fn(r.L) })
	r.L.SetTop(top)

	if err == nil {
		return nil
	}
	// A done parent means the caller stopped the run, whatever its reason.
	if cerr := parent.Err(); cerr != nil {
		return fmt.Errorf("%s: %w", name, cerr)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w after %v", name, ErrTimeout, r.timeout)
	}
	return fmt.Errorf("%s: %w", name, err)
}

// doWithRecovery executes a function with panic recovery.
func doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// print(...) joins its arguments with tabs and logs them at info level.
func (r *Runner) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	r.log.Info("%s", strings.Join(parts, "\t"))
	return 0
}

// Close releases the Lua state. Close is idempotent.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}

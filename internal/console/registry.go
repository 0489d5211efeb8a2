// Package console routes operator commands to their handlers. Commands are
// identified by a space separated path such as "temperature pid k_p set";
// whatever follows the path on the input line is the handler argument.
package console

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/nexus-edge/hvac-console/internal/domain"
	"github.com/nexus-edge/hvac-console/internal/metrics"
	"github.com/rs/zerolog"
)

// Handler runs one command. Handlers report every failure to env.Out and
// never return errors.
type Handler func(ctx context.Context, env *Env, arg string)

// Registry maps command paths to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	paths    []string

	logger  zerolog.Logger
	metrics *metrics.Registry
}

// NewRegistry creates an empty registry.
func NewRegistry(logger zerolog.Logger, metricsReg *metrics.Registry) *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		logger:   logger.With().Str("component", "console").Logger(),
		metrics:  metricsReg,
	}
}

func normalize(path string) string {
	return strings.Join(strings.Fields(path), " ")
}

// Register adds a handler under path.
func (r *Registry) Register(path string, h Handler) error {
	path = normalize(path)
	if path == "" || h == nil {
		return fmt.Errorf("%w: empty command", domain.ErrInvalidConfig)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[path]; exists {
		return fmt.Errorf("%w: command %q registered twice", domain.ErrInvalidConfig, path)
	}
	r.handlers[path] = h
	r.paths = append(r.paths, path)
	return nil
}

// MustRegister is Register for static command tables.
func (r *Registry) MustRegister(path string, h Handler) {
	if err := r.Register(path, h); err != nil {
		panic(err)
	}
}

// Paths returns the registered paths in registration order.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}

// Resolve splits input into the longest registered path that is a whole
// token prefix of it and the remaining argument.
func (r *Registry) Resolve(input string) (path, arg string, ok bool) {
	tokens := strings.Fields(input)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for n := len(tokens); n > 0; n-- {
		candidate := strings.Join(tokens[:n], " ")
		if _, found := r.handlers[candidate]; found {
			return candidate, strings.Join(tokens[n:], " "), true
		}
	}
	return "", "", false
}

// Dispatch runs the handler registered under exactly path.
func (r *Registry) Dispatch(ctx context.Context, env *Env, path, arg string) (err error) {
	r.mu.RLock()
	h, ok := r.handlers[path]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownCommand, path)
	}

	env.command = path
	env.failed = false

	defer func() {
		if rec := recover(); rec != nil {
			env.failed = true
			r.logger.Error().Str("command", path).Interface("panic", rec).Msg("Command handler panicked")
			env.Printf("Command %q failed: %v\n", path, rec)
			err = fmt.Errorf("command %q panicked: %v", path, rec)
		}
		r.metrics.RecordCommand(path, !env.failed)
		env.command = ""
	}()

	r.logger.Debug().Str("command", path).Str("arg", arg).Msg("Dispatching command")
	h(ctx, env, arg)
	return nil
}

// Execute resolves and dispatches one input line. Blank lines are ignored.
func (r *Registry) Execute(ctx context.Context, env *Env, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	path, arg, ok := r.Resolve(line)
	if !ok {
		env.Printf("Unknown command: %s\n", line)
		return fmt.Errorf("%w: %s", domain.ErrUnknownCommand, line)
	}
	return r.Dispatch(ctx, env, path, arg)
}

package prioritize

import (
	"context"
	"errors"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"

	"opportunity-radar/logging"
	"opportunity-radar/metrics"
	"opportunity-radar/models"
)

// DefaultMaxActions is used when a request does not set a positive limit.
const DefaultMaxActions = 8

// Strategy produces up to n actions for events in domain.
type Strategy interface {
	Prioritize(ctx context.Context, events []models.GlobalEvent, domain string, n int) ([]models.PrioritizedAction, error)
}

type Source string

const (
	SourceGemini    Source = "gemini"
	SourceHeuristic Source = "heuristic"
)

type Request struct {
	Events     []models.GlobalEvent
	Domain     string
	MaxActions int
}

type Result struct {
	Actions        []models.PrioritizedAction `json:"actions"`
	Source         Source                     `json:"source"`
	FallbackReason string                     `json:"fallbackReason,omitempty"`
	GeneratedAt    time.Time                  `json:"generatedAt"`
}

type Options struct {
	// MaxActions is the limit for requests that do not set one.
	MaxActions int
	// BreakerFailures consecutive remote failures open the circuit for
	// BreakerDelay. Zero disables the breaker.
	BreakerFailures uint
	BreakerDelay    time.Duration
	Logger          logging.Logger
	Metrics         *metrics.Collector
	Now             func() time.Time
}

// Engine tries the remote strategy once and falls back to the local one on
// any failure. Prioritize always returns a result.
type Engine struct {
	remote     Strategy
	local      Strategy
	maxActions int
	executor   failsafe.Executor[[]models.PrioritizedAction]
	breaker    circuitbreaker.CircuitBreaker[[]models.PrioritizedAction]
	logger     logging.Logger
	metrics    *metrics.Collector
	now        func() time.Time
}

// NewEngine wires the strategies. remote may be nil when no API key is
// configured; local must not be nil.
func NewEngine(remote, local Strategy, opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = logging.NewDiscard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxActions <= 0 {
		opts.MaxActions = DefaultMaxActions
	}
	e := &Engine{
		remote:     remote,
		local:      local,
		maxActions: opts.MaxActions,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		now:        opts.Now,
	}

	if remote != nil && opts.BreakerFailures > 0 {
		delay := opts.BreakerDelay
		if delay <= 0 {
			delay = time.Minute
		}
		e.breaker = circuitbreaker.NewBuilder[[]models.PrioritizedAction]().
			WithFailureThreshold(opts.BreakerFailures).
			WithDelay(delay).
			OnStateChanged(func(event circuitbreaker.StateChangedEvent) {
				opts.Logger.WithFields(logging.Fields{
					"circuit_breaker": "gemini",
					"from_state":      stateName(event.OldState),
					"to_state":        stateName(event.NewState),
				}).Warn("circuit breaker state change")
			}).
			Build()
		e.executor = failsafe.With[[]models.PrioritizedAction](e.breaker)
	}
	return e
}

// RemoteEnabled reports whether a remote strategy is configured.
func (e *Engine) RemoteEnabled() bool {
	return e.remote != nil
}

func (e *Engine) Prioritize(ctx context.Context, req Request) Result {
	n := req.MaxActions
	if n <= 0 {
		n = e.maxActions
	}

	if e.remote == nil || len(req.Events) == 0 {
		if e.remote == nil {
			e.logger.Debug("GEMINI_API_KEY not configured, using heuristic prioritization")
		}
		return e.heuristic(ctx, req, n, "")
	}

	actions, err := e.callRemote(ctx, req, n)
	if err != nil {
		reason := fallbackReason(err)
		e.metrics.ObserveFallback(reason)
		e.logger.WithError(err).WithFields(logging.Fields{
			"domain": req.Domain,
			"reason": reason,
		}).Warn("Gemini prioritization failed, falling back to heuristic")
		return e.heuristic(ctx, req, n, reason)
	}

	sortByPriority(actions)
	if len(actions) > n {
		actions = actions[:n]
	}
	e.metrics.ObservePrioritization(string(SourceGemini))
	return Result{Actions: actions, Source: SourceGemini, GeneratedAt: e.now()}
}

func (e *Engine) callRemote(ctx context.Context, req Request, n int) ([]models.PrioritizedAction, error) {
	call := func() ([]models.PrioritizedAction, error) {
		return e.remote.Prioritize(ctx, req.Events, req.Domain, n)
	}
	if e.executor == nil {
		return call()
	}
	return e.executor.WithContext(ctx).Get(call)
}

func (e *Engine) heuristic(ctx context.Context, req Request, n int, reason string) Result {
	actions, err := e.local.Prioritize(ctx, req.Events, req.Domain, n)
	if err != nil {
		// the template heuristic cannot fail; a custom local strategy might
		e.logger.WithError(err).Error("Local prioritization failed")
		actions = []models.PrioritizedAction{}
	}
	e.metrics.ObservePrioritization(string(SourceHeuristic))
	return Result{
		Actions:        actions,
		Source:         SourceHeuristic,
		FallbackReason: reason,
		GeneratedAt:    e.now(),
	}
}

func stateName(s circuitbreaker.State) string {
	switch s {
	case circuitbreaker.ClosedState:
		return "closed"
	case circuitbreaker.HalfOpenState:
		return "half-open"
	case circuitbreaker.OpenState:
		return "open"
	}
	return "unknown"
}

func fallbackReason(err error) string {
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return "circuit_open"
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "cancelled"
	}
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return string(remoteErr.Kind)
	}
	return string(FailureTransport)
}

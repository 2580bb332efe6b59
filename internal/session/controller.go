package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/initiation/internal/gates"
	"github.com/abhisek/initiation/internal/progress"
	"github.com/abhisek/initiation/internal/store"
)

var (
	// ErrGameComplete is returned by Submit and Approve once the final gate
	// is solved.
	ErrGameComplete = errors.New("game already complete")

	// ErrAwaitingApproval is returned by Submit while the host has not yet
	// approved the solved gate.
	ErrAwaitingApproval = errors.New("gate solved, awaiting host approval")

	// ErrNotAwaitingApproval is returned by Approve while a gate is active.
	ErrNotAwaitingApproval = errors.New("no solved gate awaiting approval")
)

// Messages shown to the host.
const (
	MsgGateUnlocked = "Gate unlocked."
	MsgInvalidPIN   = "Invalid PIN."
	MsgAwaitHost    = "Return to Saggu. The gate is solved. Await approval."
)

// PINVerifier checks the host PIN.
type PINVerifier interface {
	Verify(pin string) bool
}

// Controller owns the in-memory progress state and moves it through the gate
// sequence. Every transition is applied to a copy, saved, and only then made
// current, so a failed save leaves the controller unchanged.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	store  store.ProgressStore
	gates  *gates.Registry
	pins   PINVerifier
	logger *zap.Logger
	now    func() time.Time

	state *progress.State
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger for transitions.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithClock sets the time source for attempt timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Open builds a Controller and loads the stored progress.
func Open(ctx context.Context, st store.ProgressStore, reg *gates.Registry, pins PINVerifier, opts ...Option) (*Controller, error) {
	if reg.Len() != progress.LastGate {
		return nil, fmt.Errorf("registry has %d gates, want %d", reg.Len(), progress.LastGate)
	}
	c := &Controller{
		store:  st,
		gates:  reg,
		pins:   pins,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload replaces the in-memory state with the stored record.
func (c *Controller) Reload(ctx context.Context) error {
	st, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	c.state = st
	c.logger.Debug("progress loaded",
		zap.String("phase", PhaseOf(st).String()),
		zap.Int("gate", st.CurrentGate),
		zap.Ints("completed", st.CompletedGates),
	)
	return nil
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() *progress.State {
	return c.state.Clone()
}

// Registry returns the gate table in use.
func (c *Controller) Registry() *gates.Registry {
	return c.gates
}

// CurrentView describes the current phase for rendering.
func (c *Controller) CurrentView() View {
	return c.viewOf(c.state)
}

func (c *Controller) viewOf(st *progress.State) View {
	v := View{
		Phase:          PhaseOf(st),
		CompletedGates: append([]int{}, st.CompletedGates...),
	}
	if v.Phase == PhaseComplete {
		return v
	}
	v.Gate = st.CurrentGate
	v.Definition, _ = c.gates.Get(st.CurrentGate)
	v.Attempts = st.Attempts.ForGate(st.CurrentGate)
	return v
}

// Submit checks sub against the active gate. Every submission is logged.
// A correct answer moves the session to awaiting approval, or to complete
// for the final gate, which needs no approval.
func (c *Controller) Submit(ctx context.Context, sub gates.Submission) (Result, error) {
	switch PhaseOf(c.state) {
	case PhaseComplete:
		return Result{}, ErrGameComplete
	case PhaseAwaitingApproval:
		return Result{}, ErrAwaitingApproval
	}

	gate := c.state.CurrentGate
	def, err := c.gates.Get(gate)
	if err != nil {
		return Result{}, err
	}
	correct, msg := def.Check(sub)

	next := c.state.Clone()
	next.Attempts.Append(gate, progress.AttemptRecord{
		Submitted: sub.Recorded(),
		Correct:   correct,
		Timestamp: c.now().UTC(),
	})
	outcome := OutcomeRejected
	if correct {
		outcome = OutcomeAccepted
		next.CompletedGates = append(next.CompletedGates, gate)
		if gate == progress.LastGate {
			next.GameComplete = true
			next.CurrentGate = progress.PastFinalGate
		} else {
			next.AwaitingHost = true
		}
	}

	if err := c.commit(ctx, next); err != nil {
		return Result{}, err
	}
	c.logger.Info("answer submitted",
		zap.Int("gate", gate),
		zap.String("outcome", string(outcome)),
		zap.String("phase", PhaseOf(next).String()),
	)
	return Result{Outcome: outcome, Message: msg, View: c.CurrentView()}, nil
}

// Approve advances past a solved gate when pin matches the host PIN. A wrong
// PIN changes nothing.
func (c *Controller) Approve(ctx context.Context, pin string) (Result, error) {
	switch PhaseOf(c.state) {
	case PhaseComplete:
		return Result{}, ErrGameComplete
	case PhaseGateActive:
		return Result{}, ErrNotAwaitingApproval
	}

	gate := c.state.CurrentGate
	if !c.pins.Verify(pin) {
		c.logger.Warn("approval refused", zap.Int("gate", gate))
		return Result{Outcome: OutcomeInvalidPIN, Message: MsgInvalidPIN, View: c.CurrentView()}, nil
	}

	next := c.state.Clone()
	next.CurrentGate = gate + 1
	next.AwaitingHost = false
	if err := c.commit(ctx, next); err != nil {
		return Result{}, err
	}
	c.logger.Info("gate approved",
		zap.Int("gate", gate),
		zap.Int("next_gate", next.CurrentGate),
	)
	return Result{Outcome: OutcomeAccepted, Message: MsgGateUnlocked, View: c.CurrentView()}, nil
}

// Reset replaces the stored progress with the initial state.
func (c *Controller) Reset(ctx context.Context) error {
	if err := c.commit(ctx, progress.New()); err != nil {
		return err
	}
	c.logger.Info("progress reset")
	return nil
}

func (c *Controller) commit(ctx context.Context, next *progress.State) error {
	if err := c.store.Save(ctx, next); err != nil {
		c.logger.Error("save failed", zap.Error(err))
		return fmt.Errorf("save progress: %w", err)
	}
	c.state = next
	return nil
}

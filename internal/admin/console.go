// Package admin implements the host's console: progress summary, attempt log,
// answer key and reset. Every operation is unlocked by a single-use grant
// bound to that operation.
package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/initiation/internal/progress"
	"github.com/abhisek/initiation/internal/session"
)

// DefaultGrantTTL is how long a grant stays usable.
const DefaultGrantTTL = 2 * time.Minute

var (
	// ErrInvalidPIN is returned by Authorize for a wrong PIN.
	ErrInvalidPIN = errors.New("invalid PIN")

	// ErrGrantInvalid is returned for an unknown, expired, reused or
	// mismatched grant.
	ErrGrantInvalid = errors.New("grant invalid")
)

// Op names an admin operation.
type Op string

const (
	OpSummary Op = "summary"
	OpLog     Op = "log"
	OpAnswers Op = "answers"
	OpReset   Op = "reset"
)

// Ops lists every operation in menu order.
var Ops = []Op{OpSummary, OpLog, OpAnswers, OpReset}

// ParseOp resolves an operation name.
func ParseOp(s string) (Op, error) {
	for _, op := range Ops {
		if string(op) == s {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown admin operation %q", s)
}

// Grant authorizes one use of one operation.
type Grant struct {
	ID        string
	Op        Op
	ExpiresAt time.Time
}

// LogEntry is one attempt with its gate.
type LogEntry struct {
	Gate int
	progress.AttemptRecord
}

// Console runs admin operations against a session controller.
type Console struct {
	ctrl   *session.Controller
	pins   session.PINVerifier
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu     sync.Mutex
	grants map[string]Grant
}

// Option configures a Console.
type Option func(*Console)

// WithGrantTTL sets the grant lifetime.
func WithGrantTTL(d time.Duration) Option {
	return func(c *Console) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithClock sets the time source for grant expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Console) { c.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Console) { c.logger = l }
}

// New returns a Console over ctrl that checks PINs with pins.
func New(ctrl *session.Controller, pins session.PINVerifier, opts ...Option) *Console {
	c := &Console{
		ctrl:   ctrl,
		pins:   pins,
		ttl:    DefaultGrantTTL,
		now:    time.Now,
		logger: zap.NewNop(),
		grants: make(map[string]Grant),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authorize checks pin and issues a grant for op.
func (c *Console) Authorize(pin string, op Op) (Grant, error) {
	if _, err := ParseOp(string(op)); err != nil {
		return Grant{}, err
	}
	if !c.pins.Verify(pin) {
		c.logger.Warn("admin authorization refused", zap.String("op", string(op)))
		return Grant{}, ErrInvalidPIN
	}

	now := c.now()
	g := Grant{ID: uuid.NewString(), Op: op, ExpiresAt: now.Add(c.ttl)}

	c.mu.Lock()
	defer c.mu.Unlock()
	for id, old := range c.grants {
		if !now.Before(old.ExpiresAt) {
			delete(c.grants, id)
		}
	}
	c.grants[g.ID] = g
	c.logger.Info("admin grant issued", zap.String("op", string(op)), zap.String("grant", g.ID))
	return g, nil
}

// consume redeems g for op. A grant is removed on first redemption, even
// when it turns out to be expired or for another operation.
func (c *Console) consume(g Grant, op Op) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	issued, ok := c.grants[g.ID]
	if !ok {
		return ErrGrantInvalid
	}
	delete(c.grants, g.ID)
	if issued.Op != op {
		return fmt.Errorf("%w: issued for %s, used for %s", ErrGrantInvalid, issued.Op, op)
	}
	if !c.now().Before(issued.ExpiresAt) {
		return fmt.Errorf("%w: expired", ErrGrantInvalid)
	}
	return nil
}

// Summary returns the progress summary.
func (c *Console) Summary(g Grant) (*session.Summary, error) {
	if err := c.consume(g, OpSummary); err != nil {
		return nil, err
	}
	return session.BuildSummary(c.ctrl.Snapshot()), nil
}

// AttemptLog returns every attempt ordered by gate, then by time.
func (c *Console) AttemptLog(g Grant) ([]LogEntry, error) {
	if err := c.consume(g, OpLog); err != nil {
		return nil, err
	}
	st := c.ctrl.Snapshot()
	entries := make([]LogEntry, 0, st.Attempts.Total())
	for _, gate := range st.Attempts.Gates() {
		for _, rec := range st.Attempts.ForGate(gate) {
			entries = append(entries, LogEntry{Gate: gate, AttemptRecord: rec})
		}
	}
	return entries, nil
}

// AnswerKey returns the canonical answer of every gate.
func (c *Console) AnswerKey(g Grant) (map[int]string, error) {
	if err := c.consume(g, OpAnswers); err != nil {
		return nil, err
	}
	return c.ctrl.Registry().AnswerKey(), nil
}

// Reset returns the session to its initial state.
func (c *Console) Reset(ctx context.Context, g Grant) error {
	if err := c.consume(g, OpReset); err != nil {
		return err
	}
	if err := c.ctrl.Reset(ctx); err != nil {
		return err
	}
	c.logger.Info("admin reset", zap.String("grant", g.ID))
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/AliOraei78/MusicLibrarySystem/internal/metrics"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ScopeState string

const (
	ScopeStarted    ScopeState = "started"
	ScopeWriting    ScopeState = "writing"
	ScopeCommitted  ScopeState = "committed"
	ScopeRolledBack ScopeState = "rolled_back"
)

type scopeKey struct{}

type enlistment struct {
	source string
	raw    *sql.Conn
	tx     *sql.Tx
}

// Scope is an ambient transaction carried in a context. Every connection opened through
// a ConnectionProvider with that context joins it. Complete commits the enlisted
// transactions one after another; this is not a two-phase commit, so a failure after
// the first commit cannot undo what already committed.
type Scope struct {
	id  string
	log *logrus.Logger

	mu       sync.Mutex
	state    ScopeState
	enlisted []enlistment
	disposed bool
}

// NewScope starts a scope and returns a context bound to it.
func NewScope(ctx context.Context, log *logrus.Logger) (context.Context, *Scope) {
	s := &Scope{id: uuid.NewString(), log: log, state: ScopeStarted}
	s.logState(ctx)
	return context.WithValue(ctx, scopeKey{}, s), s
}

// ScopeFrom returns the scope bound to ctx, if any.
func ScopeFrom(ctx context.Context) *Scope {
	s, _ := ctx.Value(scopeKey{}).(*Scope)
	return s
}

func (s *Scope) ID() string { return s.id }

func (s *Scope) State() ScopeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scope) enlist(ctx context.Context, p *ConnectionProvider) (*Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed || s.state == ScopeCommitted || s.state == ScopeRolledBack {
		return nil, &ConfigurationError{Message: fmt.Sprintf("transaction scope %s is already %s", s.id, s.state)}
	}

	conn, err := p.open(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := conn.raw.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		_ = conn.raw.Close()
		return nil, newQueryError(IntentTransaction, "BEGIN", err)
	}

	s.enlisted = append(s.enlisted, enlistment{source: p.name, raw: conn.raw, tx: tx})
	if s.state == ScopeStarted {
		s.state = ScopeWriting
		s.logState(ctx)
	}
	return &Conn{Executor: tx, raw: conn.raw, enlisted: true}, nil
}

// Complete commits every enlisted transaction in enlistment order. On the first failure
// the remaining ones are rolled back and the commit error is returned.
func (s *Scope) Complete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed || s.state == ScopeCommitted || s.state == ScopeRolledBack {
		return &ConfigurationError{Message: fmt.Sprintf("transaction scope %s is already %s", s.id, s.state)}
	}

	for i, e := range s.enlisted {
		if err := e.tx.Commit(); err != nil {
			s.rollbackFrom(ctx, i+1)
			s.state = ScopeRolledBack
			s.logState(ctx)
			metrics.TransactionOutcomes.WithLabelValues("scope", "commit_failed").Inc()
			return newQueryError(IntentTransaction, "COMMIT", fmt.Errorf("%s connection: %w", e.source, err))
		}
	}
	s.state = ScopeCommitted
	s.logState(ctx)
	metrics.TransactionOutcomes.WithLabelValues("scope", "committed").Inc()
	return nil
}

// Dispose rolls back unless Complete succeeded, then releases every enlisted connection.
// Calling it more than once is harmless.
func (s *Scope) Dispose(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return nil
	}
	s.disposed = true

	if s.state == ScopeStarted || s.state == ScopeWriting {
		s.rollbackFrom(ctx, 0)
		s.state = ScopeRolledBack
		s.logState(ctx)
		metrics.TransactionOutcomes.WithLabelValues("scope", "rolled_back").Inc()
	}

	var errs []error
	for _, e := range s.enlisted {
		if err := e.raw.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.enlisted = nil
	return errors.Join(errs...)
}

func (s *Scope) rollbackFrom(ctx context.Context, start int) {
	for _, e := range s.enlisted[start:] {
		if err := e.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.log.WithContext(ctx).WithError(err).WithFields(logrus.Fields{
				"scope":  s.id,
				"source": e.source,
			}).Warn("scope rollback failed")
		}
	}
}

func (s *Scope) logState(ctx context.Context) {
	s.log.WithContext(ctx).WithFields(logrus.Fields{
		"scope": s.id,
		"state": s.state,
	}).Debug("transaction scope")
}

// InScope runs fn inside a new scope, completing it when fn succeeds and disposing it either way.
func InScope(ctx context.Context, log *logrus.Logger, fn func(ctx context.Context) error) error {
	scopedCtx, scope := NewScope(ctx, log)
	defer func() {
		if err := scope.Dispose(ctx); err != nil {
			log.WithContext(ctx).WithError(err).WithField("scope", scope.ID()).Warn("failed to release scope connections")
		}
	}()

	if err := fn(scopedCtx); err != nil {
		return err
	}
	return scope.Complete(ctx)
}

package repository

import (
	"context"
	"database/sql"
	"sync"

	"github.com/sirupsen/logrus"
)

// Executor is the statement surface shared by *sql.DB, *sql.Conn and *sql.Tx.
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Opener hands out connections. ConnectionProvider is the production implementation.
type Opener interface {
	Open(ctx context.Context) (*Conn, error)
}

// Conn is one open connection. When it was opened inside a Scope, statements run on the
// scope's transaction and Close leaves the release to the scope.
type Conn struct {
	Executor

	raw      *sql.Conn
	enlisted bool

	once     sync.Once
	closeErr error
}

func (c *Conn) Close() error {
	if c.enlisted {
		return nil
	}
	c.once.Do(func() {
		c.closeErr = c.raw.Close()
	})
	return c.closeErr
}

// BeginTx starts a connection-local transaction. Enlisted connections already belong
// to a scope transaction, so mixing the two is refused.
func (c *Conn) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	if c.enlisted {
		return nil, &ConfigurationError{Message: "connection is enlisted in a transaction scope"}
	}
	return c.raw.BeginTx(ctx, opts)
}

// Raw runs f with the driver connection underneath. Inside a scope the driver
// connection is already in the scope's transaction.
func (c *Conn) Raw(f func(driverConn any) error) error {
	return c.raw.Raw(f)
}

type ConnectionProvider struct {
	name string
	db   *sql.DB
	log  *logrus.Logger
}

func NewConnectionProvider(name string, db *sql.DB, log *logrus.Logger) *ConnectionProvider {
	return &ConnectionProvider{name: name, db: db, log: log}
}

func (p *ConnectionProvider) Name() string { return p.name }

// Open returns a dedicated connection from the pool. If ctx carries a Scope the
// connection is enlisted into it instead.
func (p *ConnectionProvider) Open(ctx context.Context) (*Conn, error) {
	if scope := ScopeFrom(ctx); scope != nil {
		return scope.enlist(ctx, p)
	}
	return p.open(ctx)
}

func (p *ConnectionProvider) open(ctx context.Context) (*Conn, error) {
	raw, err := p.db.Conn(ctx)
	if err != nil {
		p.log.WithContext(ctx).WithError(err).WithField("source", p.name).Error("failed to open connection")
		return nil, &ConnectionError{Source: p.name, Err: err}
	}
	return &Conn{Executor: raw, raw: raw}, nil
}

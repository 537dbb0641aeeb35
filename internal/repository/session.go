package repository

import (
	"context"
	"sync"
)

// Session holds the single connection of one request. It is opened when the request
// starts and closed when it ends, and is not safe for use by more than one goroutine.
type Session struct {
	conn *Conn

	once   sync.Once
	closed bool
	err    error
}

func OpenSession(ctx context.Context, opener Opener) (*Session, error) {
	conn, err := opener.Open(ctx)
	if err != nil {
		return nil, err
	}
	return &Session{conn: conn}, nil
}

// Executor returns the request connection. It never opens one on demand.
func (s *Session) Executor() (Executor, error) {
	if s == nil || s.conn == nil {
		return nil, &ConfigurationError{Message: "no request session is bound to this call"}
	}
	if s.closed {
		return nil, &ConfigurationError{Message: "request session is already closed"}
	}
	return s.conn, nil
}

func (s *Session) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	s.once.Do(func() {
		s.closed = true
		s.err = s.conn.Close()
	})
	return s.err
}

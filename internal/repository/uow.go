package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AliOraei78/MusicLibrarySystem/internal/metrics"
	"github.com/sirupsen/logrus"
)

// UnitOfWork runs a group of statements in one connection-local transaction.
type UnitOfWork struct {
	opener Opener
	log    *logrus.Logger
}

func NewUnitOfWork(opener Opener, log *logrus.Logger) *UnitOfWork {
	return &UnitOfWork{opener: opener, log: log}
}

// Do opens a connection, begins a transaction and hands it to fn. The transaction
// commits when fn returns nil. Otherwise it is rolled back and fn's error is returned.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, exec Executor) error) error {
	conn, err := u.opener.Open(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return newQueryError(IntentTransaction, "BEGIN", err)
	}

	defer func() {
		if p := recover(); p != nil {
			u.rollback(ctx, tx)
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		u.rollback(ctx, tx)
		return err
	}
	if err := tx.Commit(); err != nil {
		metrics.TransactionOutcomes.WithLabelValues("local", "commit_failed").Inc()
		return newQueryError(IntentTransaction, "COMMIT", err)
	}
	metrics.TransactionOutcomes.WithLabelValues("local", "committed").Inc()
	return nil
}

func (u *UnitOfWork) rollback(ctx context.Context, tx *sql.Tx) {
	metrics.TransactionOutcomes.WithLabelValues("local", "rolled_back").Inc()
	if err := tx.Rollback(); err != nil {
		u.log.WithContext(ctx).WithError(fmt.Errorf("rollback: %w", err)).Warn("transaction rollback failed")
	}
}

package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AliOraei78/MusicLibrarySystem/internal/metrics"
	"github.com/jackc/pgx/v5/pgconn"
)

// Intent tells which kind of statement failed.
type Intent string

const (
	IntentRead      Intent = "read"
	IntentWrite     Intent = "write"
	IntentProcedure Intent = "procedure"
	// IntentTransaction marks a failed BEGIN or COMMIT; the statements inside may have succeeded.
	IntentTransaction Intent = "transaction"
)

// Constraint names the storage constraint a rejected statement violated, if any.
type Constraint string

const (
	ConstraintNone       Constraint = "none"
	ConstraintUnique     Constraint = "unique"
	ConstraintForeignKey Constraint = "foreign_key"
	ConstraintCheck      Constraint = "check"
	ConstraintNotNull    Constraint = "not_null"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrMultipleRows   = errors.New("more than one record found")
	ErrStreamConsumed = errors.New("stream already consumed")
)

// ConnectionError means storage could not be reached. It is not retried here.
type ConnectionError struct {
	Source string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("open %s connection: %v", e.Source, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError is a statement rejected by storage.
type QueryError struct {
	Intent         Intent
	Constraint     Constraint
	ConstraintName string
	Statement      string
	Err            error
}

func (e *QueryError) Error() string {
	if e.Constraint != ConstraintNone {
		return fmt.Sprintf("%s statement violated %s constraint %q: %v", e.Intent, e.Constraint, e.ConstraintName, e.Err)
	}
	return fmt.Sprintf("%s statement failed: %v", e.Intent, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// MappingError means a result did not have the declared row shape.
type MappingError struct {
	Shape string
	Err   error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("map %s row: %v", e.Shape, e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }

// ValidationError rejects caller input before any statement is issued.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigurationError is returned when a call path lacks a collaborator it requires.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

// newQueryError wraps a driver error. Errors already typed by this package pass through.
func newQueryError(intent Intent, statement string, err error) error {
	if err == nil {
		return nil
	}
	var (
		mappingErr *MappingError
		queryErr   *QueryError
		configErr  *ConfigurationError
	)
	if errors.As(err, &mappingErr) || errors.As(err, &queryErr) || errors.As(err, &configErr) {
		return err
	}

	qe := &QueryError{
		Intent:     intent,
		Constraint: ConstraintNone,
		Statement:  compactStatement(statement),
		Err:        err,
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		qe.Constraint = constraintFor(pgErr.Code)
		qe.ConstraintName = pgErr.ConstraintName
	}
	metrics.QueryErrors.WithLabelValues(string(intent), string(qe.Constraint)).Inc()
	return qe
}

// constraintFor maps integrity-violation SQLSTATE codes (class 23).
func constraintFor(code string) Constraint {
	switch code {
	case "23505":
		return ConstraintUnique
	case "23503":
		return ConstraintForeignKey
	case "23514":
		return ConstraintCheck
	case "23502":
		return ConstraintNotNull
	default:
		return ConstraintNone
	}
}

func compactStatement(statement string) string {
	return strings.Join(strings.Fields(statement), " ")
}

// IsTransactionFailure reports whether err is a QueryError raised while beginning or
// committing a transaction.
func IsTransactionFailure(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe) && qe.Intent == IntentTransaction
}

// IsConstraint reports whether err is a QueryError for the given constraint kind.
func IsConstraint(err error, kind Constraint) bool {
	var qe *QueryError
	return errors.As(err, &qe) && qe.Constraint == kind
}

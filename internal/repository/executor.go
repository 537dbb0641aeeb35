package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"reflect"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// QueryMany runs a read and drains every row before returning.
func QueryMany[T any](ctx context.Context, exec Executor, shape RowShape[T], query string, args ...any) ([]T, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, newQueryError(IntentRead, query, err)
	}
	defer rows.Close()

	out, err := drain(rows, shape)
	if err != nil {
		return nil, newQueryError(IntentRead, query, err)
	}
	return out, nil
}

// QueryFirst returns the first row of a read, or NotFound when there is none.
func QueryFirst[T any](ctx context.Context, exec Executor, shape RowShape[T], query string, args ...any) (Result[T], error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return NotFound[T](), newQueryError(IntentRead, query, err)
	}
	defer rows.Close()

	if err := shape.check(rows); err != nil {
		return NotFound[T](), err
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return NotFound[T](), newQueryError(IntentRead, query, err)
		}
		return NotFound[T](), nil
	}
	v, err := shape.read(rows)
	if err != nil {
		return NotFound[T](), err
	}
	return Found(v), nil
}

// QueryStream returns a single-pass sequence over a read. The connection is opened
// when iteration starts and released when the loop ends, early break included.
// Ranging over the sequence a second time yields ErrStreamConsumed.
func QueryStream[T any](ctx context.Context, opener Opener, shape RowShape[T], query string, args ...any) iter.Seq2[T, error] {
	var consumed atomic.Bool
	return func(yield func(T, error) bool) {
		var zero T
		if !consumed.CompareAndSwap(false, true) {
			yield(zero, ErrStreamConsumed)
			return
		}

		conn, err := opener.Open(ctx)
		if err != nil {
			yield(zero, err)
			return
		}
		defer conn.Close()

		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			yield(zero, newQueryError(IntentRead, query, err))
			return
		}
		defer rows.Close()

		if err := shape.check(rows); err != nil {
			yield(zero, err)
			return
		}
		for rows.Next() {
			v, err := shape.read(rows)
			if err != nil {
				yield(zero, err)
				return
			}
			if !yield(v, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(zero, newQueryError(IntentRead, query, err))
		}
	}
}

// Collect drains a stream into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// QueryMultiple sends two reads in one round trip and maps each result set with its own
// shape. pgx's database/sql rows expose only the first result set, so on a pgx
// connection the batch is read through pgconn's multi-result reader instead. Other
// drivers go through NextResultSet.
func QueryMultiple[A, B any](ctx context.Context, exec Executor, first RowShape[A], firstQuery string, second RowShape[B], secondQuery string) ([]A, []B, error) {
	query := firstQuery + "; " + secondQuery
	if raw, ok := exec.(rawConn); ok {
		var (
			as     []A
			bs     []B
			viaPgx bool
		)
		err := raw.Raw(func(driverConn any) error {
			pc, ok := pgxConnOf(driverConn)
			if !ok {
				return nil
			}
			viaPgx = true
			var err error
			as, bs, err = readResultSets(ctx, pc, first, second, query)
			return err
		})
		if viaPgx {
			return as, bs, err
		}
		if err != nil {
			return nil, nil, newQueryError(IntentRead, query, err)
		}
	}
	return queryMultiStatement(ctx, exec, first, second, query)
}

func queryMultiStatement[A, B any](ctx context.Context, exec Executor, first RowShape[A], second RowShape[B], query string) ([]A, []B, error) {
	rows, err := exec.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, newQueryError(IntentRead, query, err)
	}
	defer rows.Close()

	as, err := drain(rows, first)
	if err != nil {
		return nil, nil, newQueryError(IntentRead, query, err)
	}
	if !rows.NextResultSet() {
		if err := rows.Err(); err != nil {
			return nil, nil, newQueryError(IntentRead, query, err)
		}
		return nil, nil, &MappingError{Shape: second.Name, Err: errors.New("statement returned a single result set")}
	}
	bs, err := drain(rows, second)
	if err != nil {
		return nil, nil, newQueryError(IntentRead, query, err)
	}
	return as, bs, nil
}

// rawConn is implemented by *sql.Conn and *Conn.
type rawConn interface {
	Raw(f func(driverConn any) error) error
}

// pgxConnOf finds the pgx connection under a database/sql driver connection. Wrappers
// such as otelsql embed the wrapped driver.Conn as a field named Conn.
func pgxConnOf(driverConn any) (*pgx.Conn, bool) {
	for driverConn != nil {
		if c, ok := driverConn.(interface{ Conn() *pgx.Conn }); ok {
			pc := c.Conn()
			return pc, pc != nil
		}
		v := reflect.ValueOf(driverConn)
		if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
			return nil, false
		}
		field := v.Elem().FieldByName("Conn")
		if !field.IsValid() || field.Kind() != reflect.Interface || !field.CanInterface() || field.IsNil() {
			return nil, false
		}
		driverConn = field.Interface()
	}
	return nil, false
}

func readResultSets[A, B any](ctx context.Context, pc *pgx.Conn, first RowShape[A], second RowShape[B], query string) ([]A, []B, error) {
	mrr := pc.PgConn().Exec(ctx, query)

	as, err := readResultSet(mrr, pc, first, query)
	if err != nil {
		_ = mrr.Close()
		return nil, nil, err
	}
	bs, err := readResultSet(mrr, pc, second, query)
	if err != nil {
		_ = mrr.Close()
		return nil, nil, err
	}
	if err := mrr.Close(); err != nil {
		return nil, nil, newQueryError(IntentRead, query, err)
	}
	return as, bs, nil
}

func readResultSet[T any](mrr *pgconn.MultiResultReader, pc *pgx.Conn, shape RowShape[T], query string) ([]T, error) {
	if !mrr.NextResult() {
		if err := mrr.Close(); err != nil {
			return nil, newQueryError(IntentRead, query, err)
		}
		return nil, &MappingError{Shape: shape.Name, Err: errors.New("statement returned fewer result sets than expected")}
	}

	rows := pgx.RowsFromResultReader(pc.TypeMap(), mrr.ResultReader())
	defer rows.Close()

	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	if err := shape.checkNames(names); err != nil {
		return nil, err
	}

	out := make([]T, 0)
	for rows.Next() {
		v, err := shape.read(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, newQueryError(IntentRead, query, err)
	}
	return out, nil
}

// Execute runs a write and returns the number of rows it touched.
func Execute(ctx context.Context, exec Executor, query string, args ...any) (int64, error) {
	res, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, newQueryError(IntentWrite, query, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, newQueryError(IntentWrite, query, err)
	}
	return n, nil
}

// ExecuteScalar runs a write that returns one value, typically RETURNING id.
func ExecuteScalar[T any](ctx context.Context, exec Executor, query string, args ...any) (T, error) {
	return scalar[T](ctx, exec, IntentWrite, query, args...)
}

// QueryScalar reads a single value such as a count.
func QueryScalar[T any](ctx context.Context, exec Executor, query string, args ...any) (T, error) {
	return scalar[T](ctx, exec, IntentRead, query, args...)
}

func scalar[T any](ctx context.Context, exec Executor, intent Intent, query string, args ...any) (T, error) {
	var v T
	err := exec.QueryRowContext(ctx, query, args...).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return v, ErrNotFound
	}
	if err != nil {
		return v, newQueryError(intent, query, err)
	}
	return v, nil
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// CallProcedure invokes a stored procedure with positional arguments.
func CallProcedure(ctx context.Context, exec Executor, name string, args ...any) error {
	if !identifierPattern.MatchString(name) {
		return &ValidationError{Field: "procedure", Message: fmt.Sprintf("%q is not a valid identifier", name)}
	}
	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	stmt := fmt.Sprintf("CALL %s(%s)", name, strings.Join(placeholders, ", "))
	if _, err := exec.ExecContext(ctx, stmt, args...); err != nil {
		return newQueryError(IntentProcedure, stmt, err)
	}
	return nil
}

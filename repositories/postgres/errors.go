package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/homequeen/api/repositories"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	codeUniqueViolation = "23505"
	codeUndefinedTable  = "42P01"
	classConnection     = "08"
)

// sqlState extracts the SQLSTATE from either driver's error type
func sqlState(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, true
	}
	return "", false
}

// classify maps a driver error onto the repository error vocabulary
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repositories.ErrNotFound
	}

	if code, ok := sqlState(err); ok {
		switch {
		case code == codeUniqueViolation:
			return fmt.Errorf("%s: %w", op, repositories.ErrDuplicate)
		case code == codeUndefinedTable:
			return &repositories.StoreError{Op: op, Failure: repositories.FailureSchemaMissing, Err: err}
		case strings.HasPrefix(code, classConnection):
			return &repositories.StoreError{Op: op, Failure: repositories.FailureUnreachable, Err: err}
		}
	}

	var connErr *pgconn.ConnectError
	var opErr *net.OpError
	if errors.As(err, &connErr) || errors.As(err, &opErr) {
		return &repositories.StoreError{Op: op, Failure: repositories.FailureUnreachable, Err: err}
	}

	return &repositories.StoreError{Op: op, Failure: repositories.FailureUnknown, Err: err}
}

// expectOne turns a zero-row write into ErrNotFound
func expectOne(op string, result sql.Result, err error) error {
	if err != nil {
		return classify(op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

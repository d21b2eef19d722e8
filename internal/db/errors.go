// Package db provides error types for database operations.
package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

// Sentinel errors for store operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotFound indicates the conversation, message, or version reference
	// does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates the request was rejected before any write:
	// empty or oversized title/content, unknown sender, or an unresolvable
	// parent reference.
	ErrValidation = errors.New("validation failed")

	// ErrWriteConflict indicates the store reported zero documents modified
	// on an update expected to apply: a lost race or a vanished target.
	ErrWriteConflict = errors.New("write conflict")

	// ErrTransactionConflict indicates a SurrealDB transaction conflict.
	// Callers should typically retry or surface the failure.
	ErrTransactionConflict = errors.New("transaction conflict")
)

// wrapQueryError inspects a SurrealDB error and wraps it with the appropriate
// sentinel error if it's a known query error type. Returns the original error
// if it's not a QueryError or doesn't match known patterns.
func wrapQueryError(err error) error {
	if err == nil {
		return nil
	}

	var queryErr *surrealdb.QueryError
	if errors.As(err, &queryErr) {
		msg := queryErr.Message
		if strings.Contains(msg, "Transaction conflict") {
			return fmt.Errorf("%w: %s", ErrTransactionConflict, msg)
		}
	}

	return err
}

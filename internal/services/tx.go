package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mattn/go-sqlite3"
)

// defaultTxRetries bounds the retry loop for busy/locked aborts
const defaultTxRetries = 3

// withTx runs fn inside a transaction. The transaction is rolled back
// on any error and committed otherwise. Writes aborted by SQLITE_BUSY
// or SQLITE_LOCKED are retried a bounded number of times with a short
// backoff before the error is surfaced.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	var lastErr error

	for attempt := 0; attempt <= defaultTxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 50 * time.Millisecond)
			log.Printf("Retrying transaction after busy error (attempt %d)", attempt)
		}

		err := runTx(db, fn)
		if err == nil {
			return nil
		}
		if !isBusyError(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("transaction failed after %d retries: %w", defaultTxRetries, lastErr)
}

func runTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isBusyError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}

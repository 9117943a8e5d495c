package ingest

import (
	"errors"
	"fmt"
)

// Domain errors for the ingestion pipeline. Handlers map these to HTTP
// status codes; everything else surfaces as a generic failure message.
var (
	// ErrNoAmount means the candidate is missing an amount or the amount
	// is not positive. Such candidates never reach a ledger.
	ErrNoAmount = errors.New("amount must be > 0")

	// ErrNoAccount means a statement was submitted without a destination
	// account. Statements cannot be ingested without one because every
	// parsed line item must be attributed to a balance.
	ErrNoAccount = errors.New("statement upload requires a destination account")
)

// ValidationError rejects a submission before any external call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ExtractionError wraps a failure from one of the inference services.
// SMS and receipt extraction have no local fallback, so these surface
// directly to the user.
type ExtractionError struct {
	Modality Source
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s extraction failed: %v", e.Modality, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// PersistenceError means the ledger write failed. Nothing downstream of
// persistence (balance sync, net-worth refresh) runs after one of these.
type PersistenceError struct {
	AssetType AssetType
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting %s record: %v", e.AssetType, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// BalanceSyncError means the transaction was persisted but the linked
// balance could not be adjusted. The record is left intact and the
// inconsistency is reported rather than rolled back; repair belongs to an
// external reconciliation process.
type BalanceSyncError struct {
	TransactionID string
	Err           error
}

func (e *BalanceSyncError) Error() string {
	return fmt.Sprintf("transaction %s saved, balance not updated: %v", e.TransactionID, e.Err)
}

func (e *BalanceSyncError) Unwrap() error { return e.Err }

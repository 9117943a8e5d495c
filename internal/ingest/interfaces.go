package ingest

import (
	"context"

	"github.com/shopspring/decimal"
)

// SMSParser extracts a transaction candidate from free-form SMS text.
// There is no local fallback for this modality: an error surfaces to the
// user as-is.
type SMSParser interface {
	ParseSMS(ctx context.Context, text string) (TransactionCandidate, error)
}

// ReceiptAnalyzer extracts a transaction candidate from a receipt image
// encoded as a data URI. The result is always an EXPENSE.
type ReceiptAnalyzer interface {
	AnalyzeReceipt(ctx context.Context, imageDataURI string) (TransactionCandidate, error)
}

// StatementFile is an uploaded bank statement.
type StatementFile struct {
	Filename string
	Data     []byte
}

// StatementResult is the explicit response envelope of statement parsing.
// Partial success is an expected outcome, so failures are fields here
// rather than errors: Success false means nothing was parsed and Message
// says why; Success true may still carry per-line skips in Message.
type StatementResult struct {
	Success    bool
	Candidates []TransactionCandidate
	Message    string
}

// StatementParser parses an uploaded statement into candidates attributed
// to the given destination account.
type StatementParser interface {
	ParseStatement(ctx context.Context, file StatementFile, accountID string) StatementResult
}

// Ledger persists canonical transactions into the store owning their
// asset type. Create assigns the transaction ID; a failed create is
// reported, never retried here.
type Ledger interface {
	CreateCash(ctx context.Context, tx *Transaction) error
	CreateGold(ctx context.Context, tx *Transaction) error
	CreateStock(ctx context.Context, tx *Transaction) error
	CreateBond(ctx context.Context, tx *Transaction) error
}

// Direction says which way a balance moves.
type Direction string

const (
	// DirectionDebit is money leaving: an account balance decreases, a
	// credit-card owed balance increases.
	DirectionDebit Direction = "DEBIT"
	// DirectionCredit is money arriving: an account balance increases, a
	// credit-card owed balance decreases.
	DirectionCredit Direction = "CREDIT"
)

// BalanceService mutates the balance of a linked account or credit card.
// The pipeline may adjust balances but does not own them.
type BalanceService interface {
	Adjust(ctx context.Context, ref AccountRef, amount decimal.Decimal, dir Direction) error
}

// NetWorthService recomputes the aggregate net-worth view. Refresh is
// idempotent; calling it when nothing changed is harmless.
type NetWorthService interface {
	Refresh(ctx context.Context) error
}

// Archiver stores the raw bytes of an uploaded statement before parsing.
// Archive failures are logged, never fatal.
type Archiver interface {
	Upload(ctx context.Context, objectName string, data []byte) error
}

// SubmissionStore records the lifecycle of each ingestion call so that
// partial failures (saved transaction, unsynced balance) leave a durable
// trace for later reconciliation.
type SubmissionStore interface {
	StartSubmission(ctx context.Context, source Source) (string, error)
	FinishSubmission(ctx context.Context, id string, status SubmissionStatus, message string)
}

// SubmissionStatus is the terminal state of one ingestion call.
type SubmissionStatus string

const (
	SubmissionSucceeded SubmissionStatus = "SUCCESS"
	SubmissionPartial   SubmissionStatus = "PARTIAL"
	SubmissionFailed    SubmissionStatus = "FAILED"
)

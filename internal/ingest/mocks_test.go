package ingest_test

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/GopiHariraj/networthauat/internal/ingest"
)

// recorder collects the side-effect calls a dispatch makes, in order, so
// tests can assert the persistence → balance → refresh sequence.
type recorder struct {
	calls []string
}

func (r *recorder) record(call string) {
	r.calls = append(r.calls, call)
}

// MockLedger is a func-field mock of ingest.Ledger. By default every
// create succeeds and assigns a predictable ID.
type MockLedger struct {
	rec             *recorder
	CreateCashFunc  func(ctx context.Context, tx *ingest.Transaction) error
	CreateGoldFunc  func(ctx context.Context, tx *ingest.Transaction) error
	CreateStockFunc func(ctx context.Context, tx *ingest.Transaction) error
	CreateBondFunc  func(ctx context.Context, tx *ingest.Transaction) error
}

func (m *MockLedger) create(fn func(context.Context, *ingest.Transaction) error, ledger string, ctx context.Context, tx *ingest.Transaction) error {
	m.rec.record("persist:" + ledger)
	if fn != nil {
		return fn(ctx, tx)
	}
	tx.ID = fmt.Sprintf("tx-%d", len(m.rec.calls))
	return nil
}

func (m *MockLedger) CreateCash(ctx context.Context, tx *ingest.Transaction) error {
	return m.create(m.CreateCashFunc, "cash", ctx, tx)
}

func (m *MockLedger) CreateGold(ctx context.Context, tx *ingest.Transaction) error {
	return m.create(m.CreateGoldFunc, "gold", ctx, tx)
}

func (m *MockLedger) CreateStock(ctx context.Context, tx *ingest.Transaction) error {
	return m.create(m.CreateStockFunc, "stock", ctx, tx)
}

func (m *MockLedger) CreateBond(ctx context.Context, tx *ingest.Transaction) error {
	return m.create(m.CreateBondFunc, "bond", ctx, tx)
}

// MockBalances is a func-field mock of ingest.BalanceService that keeps
// the last adjustment it saw.
type MockBalances struct {
	rec        *recorder
	AdjustFunc func(ctx context.Context, ref ingest.AccountRef, amount decimal.Decimal, dir ingest.Direction) error

	LastRef    ingest.AccountRef
	LastAmount decimal.Decimal
	LastDir    ingest.Direction
}

func (m *MockBalances) Adjust(ctx context.Context, ref ingest.AccountRef, amount decimal.Decimal, dir ingest.Direction) error {
	m.rec.record("adjust")
	m.LastRef = ref
	m.LastAmount = amount
	m.LastDir = dir
	if m.AdjustFunc != nil {
		return m.AdjustFunc(ctx, ref, amount, dir)
	}
	return nil
}

// MockNetWorth is a func-field mock of ingest.NetWorthService.
type MockNetWorth struct {
	rec         *recorder
	RefreshFunc func(ctx context.Context) error
}

func (m *MockNetWorth) Refresh(ctx context.Context) error {
	m.rec.record("refresh")
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx)
	}
	return nil
}

// MockSMSParser is a func-field mock of ingest.SMSParser.
type MockSMSParser struct {
	rec          *recorder
	ParseSMSFunc func(ctx context.Context, text string) (ingest.TransactionCandidate, error)
}

func (m *MockSMSParser) ParseSMS(ctx context.Context, text string) (ingest.TransactionCandidate, error) {
	m.rec.record("parse_sms")
	if m.ParseSMSFunc != nil {
		return m.ParseSMSFunc(ctx, text)
	}
	return ingest.TransactionCandidate{}, nil
}

// MockReceiptAnalyzer is a func-field mock of ingest.ReceiptAnalyzer.
type MockReceiptAnalyzer struct {
	rec                *recorder
	AnalyzeReceiptFunc func(ctx context.Context, imageDataURI string) (ingest.TransactionCandidate, error)
}

func (m *MockReceiptAnalyzer) AnalyzeReceipt(ctx context.Context, imageDataURI string) (ingest.TransactionCandidate, error) {
	m.rec.record("analyze_receipt")
	if m.AnalyzeReceiptFunc != nil {
		return m.AnalyzeReceiptFunc(ctx, imageDataURI)
	}
	return ingest.TransactionCandidate{}, nil
}

// MockStatementParser is a func-field mock of ingest.StatementParser.
type MockStatementParser struct {
	rec                *recorder
	ParseStatementFunc func(ctx context.Context, file ingest.StatementFile, accountID string) ingest.StatementResult
}

func (m *MockStatementParser) ParseStatement(ctx context.Context, file ingest.StatementFile, accountID string) ingest.StatementResult {
	m.rec.record("parse_statement")
	if m.ParseStatementFunc != nil {
		return m.ParseStatementFunc(ctx, file, accountID)
	}
	return ingest.StatementResult{Success: true}
}

// MockArchiver is a func-field mock of ingest.Archiver.
type MockArchiver struct {
	rec        *recorder
	UploadFunc func(ctx context.Context, objectName string, data []byte) error
}

func (m *MockArchiver) Upload(ctx context.Context, objectName string, data []byte) error {
	m.rec.record("archive")
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, objectName, data)
	}
	return nil
}

// MockSubmissions is a func-field mock of ingest.SubmissionStore that
// keeps the last terminal status.
type MockSubmissions struct {
	LastStatus  ingest.SubmissionStatus
	LastMessage string
}

func (m *MockSubmissions) StartSubmission(ctx context.Context, source ingest.Source) (string, error) {
	return "sub-1", nil
}

func (m *MockSubmissions) FinishSubmission(ctx context.Context, id string, status ingest.SubmissionStatus, message string) {
	m.LastStatus = status
	m.LastMessage = message
}

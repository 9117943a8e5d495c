package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Status is the outcome of one ingestion call.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Request is the tagged-union input of Ingest: Modality selects which
// payload field must be set. Each variant carries its own required-field
// contract.
type Request struct {
	Modality  Source
	SMS       *SMSPayload
	Receipt   *ReceiptPayload
	Statement *StatementPayload
	Manual    *ManualForm
}

// SMSPayload is a pasted transaction SMS.
type SMSPayload struct {
	Text string `json:"text"`
}

// ReceiptPayload is a photographed receipt as a base64 data URI.
type ReceiptPayload struct {
	ImageDataURI string `json:"image"`
}

// StatementPayload is an uploaded statement file plus the account every
// parsed line item will be attributed to.
type StatementPayload struct {
	Filename  string
	Data      []byte
	AccountID string
}

// Result is what the caller gets back. Transaction is set on single-item
// success; Transactions on statement batches. Every failure carries a
// human-readable Message.
type Result struct {
	Status       Status         `json:"status"`
	Transaction  *Transaction   `json:"transaction,omitempty"`
	Transactions []*Transaction `json:"transactions,omitempty"`
	Message      string         `json:"message,omitempty"`
}

// statementExtensions is the allow-list of statement upload formats.
var statementExtensions = map[string]bool{
	".pdf":  true,
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

// Service is the single entry point for all four ingestion modalities.
type Service struct {
	sms         SMSParser
	receipts    ReceiptAnalyzer
	statements  StatementParser
	dispatcher  *Dispatcher
	archive     Archiver
	submissions SubmissionStore
	log         zerolog.Logger
}

// NewService wires the ingestion service. archive and submissions may be
// nil-behaving no-ops but must not be nil.
func NewService(
	sms SMSParser,
	receipts ReceiptAnalyzer,
	statements StatementParser,
	dispatcher *Dispatcher,
	archive Archiver,
	submissions SubmissionStore,
	log zerolog.Logger,
) *Service {
	return &Service{
		sms:         sms,
		receipts:    receipts,
		statements:  statements,
		dispatcher:  dispatcher,
		archive:     archive,
		submissions: submissions,
		log:         log,
	}
}

// Ingest runs one submission end to end. It validates the modality
// payload before any external call, then extracts, normalizes,
// dispatches and reports. It always terminates with a Result; no failure
// path may leave the caller waiting.
func (s *Service) Ingest(ctx context.Context, req Request) Result {
	subID, err := s.submissions.StartSubmission(ctx, req.Modality)
	if err != nil {
		// A missing audit row must not block the user's submission.
		s.log.Error().Err(err).Msg("starting submission record failed")
	}

	var res Result
	switch req.Modality {
	case SourceSMS:
		res = s.ingestSMS(ctx, req.SMS)
	case SourceReceipt:
		res = s.ingestReceipt(ctx, req.Receipt)
	case SourceStatement:
		res = s.ingestStatement(ctx, subID, req.Statement)
	case SourceManual:
		res = s.ingestManual(ctx, req.Manual)
	default:
		res = failure(fmt.Sprintf("unknown modality %q", req.Modality))
	}

	if subID != "" {
		s.submissions.FinishSubmission(ctx, subID, submissionStatus(res), res.Message)
	}
	return res
}

func (s *Service) ingestSMS(ctx context.Context, p *SMSPayload) Result {
	if p == nil || strings.TrimSpace(p.Text) == "" {
		return failure("SMS text is required")
	}

	candidate, err := s.sms.ParseSMS(ctx, strings.TrimSpace(p.Text))
	if err != nil {
		s.log.Error().Err(err).Msg("SMS extraction failed")
		return failure("Failed to parse SMS")
	}
	candidate.Source = SourceSMS

	return s.dispatchSingle(ctx, candidate)
}

func (s *Service) ingestReceipt(ctx context.Context, p *ReceiptPayload) Result {
	if p == nil || p.ImageDataURI == "" {
		return failure("receipt image is required")
	}
	if !strings.HasPrefix(p.ImageDataURI, "data:image/") {
		return failure("receipt must be an image")
	}

	candidate, err := s.receipts.AnalyzeReceipt(ctx, p.ImageDataURI)
	if err != nil {
		s.log.Error().Err(err).Msg("receipt extraction failed")
		return failure("Failed to analyze receipt.")
	}
	// Receipts are always expenses regardless of what extraction said.
	candidate.Source = SourceReceipt
	candidate.AssetType = AssetExpense
	candidate.Type = TypeExpense

	return s.dispatchSingle(ctx, candidate)
}

func (s *Service) ingestStatement(ctx context.Context, subID string, p *StatementPayload) Result {
	if p == nil || len(p.Data) == 0 {
		return failure("statement file is required")
	}
	if strings.TrimSpace(p.AccountID) == "" {
		return failure(ErrNoAccount.Error())
	}
	ext := strings.ToLower(filepath.Ext(p.Filename))
	if !statementExtensions[ext] {
		return failure(fmt.Sprintf("unsupported statement format %q: use PDF, CSV or Excel", ext))
	}

	s.archiveStatement(ctx, subID, p)

	parsed := s.statements.ParseStatement(ctx, StatementFile{Filename: p.Filename, Data: p.Data}, p.AccountID)
	if !parsed.Success {
		msg := parsed.Message
		if msg == "" {
			msg = "Failed to parse statement"
		}
		return failure(msg)
	}

	for i := range parsed.Candidates {
		parsed.Candidates[i].Source = SourceStatement
		parsed.Candidates[i].AccountSelection = p.AccountID
	}

	txs, errs := s.dispatcher.DispatchBatch(ctx, parsed.Candidates)
	msgs := make([]string, 0, len(errs)+1)
	if parsed.Message != "" {
		msgs = append(msgs, parsed.Message)
	}
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	if len(txs) == 0 && len(errs) > 0 {
		return failure(strings.Join(msgs, "; "))
	}
	return Result{
		Status:       StatusSuccess,
		Transactions: txs,
		Message:      strings.Join(msgs, "; "),
	}
}

func (s *Service) ingestManual(ctx context.Context, form *ManualForm) Result {
	if form == nil {
		return failure("form fields are required")
	}
	candidate, err := NormalizeManualForm(*form)
	if err != nil {
		return failure(err.Error())
	}
	return s.dispatchSingle(ctx, candidate)
}

func (s *Service) dispatchSingle(ctx context.Context, c TransactionCandidate) Result {
	tx, err := s.dispatcher.Dispatch(ctx, c)
	if err != nil {
		var syncErr *BalanceSyncError
		if errors.As(err, &syncErr) {
			// Persisted but unreconciled: report the partial outcome and
			// hand the saved transaction back.
			return Result{
				Status:      StatusFailure,
				Transaction: tx,
				Message:     "Transaction saved, balance not updated",
			}
		}
		var valErr *ValidationError
		if errors.As(err, &valErr) {
			return failure(valErr.Error())
		}
		return failure("Failed to save transaction")
	}
	return Result{Status: StatusSuccess, Transaction: tx}
}

// archiveStatement stores the raw upload before parsing so failed parses
// can be replayed. Best effort only.
func (s *Service) archiveStatement(ctx context.Context, subID string, p *StatementPayload) {
	if subID == "" {
		subID = uuid.NewString()
	}
	objectName := fmt.Sprintf("statements/%s/%s-%s", time.Now().Format("2006/01/02"), subID, filepath.Base(p.Filename))
	if err := s.archive.Upload(ctx, objectName, p.Data); err != nil {
		s.log.Warn().Err(err).Str("object", objectName).Msg("statement archive failed")
	}
}

func failure(msg string) Result {
	return Result{Status: StatusFailure, Message: msg}
}

func submissionStatus(res Result) SubmissionStatus {
	switch {
	case res.Status == StatusSuccess && res.Message == "":
		return SubmissionSucceeded
	case res.Status == StatusSuccess || res.Transaction != nil:
		return SubmissionPartial
	default:
		return SubmissionFailed
	}
}

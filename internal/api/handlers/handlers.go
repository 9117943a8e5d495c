package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/GopiHariraj/networthauat/internal/api/middleware"
	"github.com/GopiHariraj/networthauat/internal/ingest"
	"github.com/GopiHariraj/networthauat/internal/ledger"
)

// maxStatementBytes caps statement uploads.
const maxStatementBytes = 10 << 20

// Ingestor is the single entry point the transaction endpoints call.
type Ingestor interface {
	Ingest(ctx context.Context, req ingest.Request) ingest.Result
}

// TransactionsHandler exposes the four ingestion modalities over HTTP.
type TransactionsHandler struct {
	svc Ingestor
	log zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(svc Ingestor, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{svc: svc, log: log}
}

// ParseSMS handles POST /api/transactions/sms
func (h *TransactionsHandler) ParseSMS(w http.ResponseWriter, r *http.Request) {
	var payload ingest.SMSPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res := h.svc.Ingest(r.Context(), ingest.Request{Modality: ingest.SourceSMS, SMS: &payload})
	writeResult(w, res)
}

// AnalyzeReceipt handles POST /api/transactions/receipt
func (h *TransactionsHandler) AnalyzeReceipt(w http.ResponseWriter, r *http.Request) {
	var payload ingest.ReceiptPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res := h.svc.Ingest(r.Context(), ingest.Request{Modality: ingest.SourceReceipt, Receipt: &payload})
	writeResult(w, res)
}

// ParseStatement handles POST /api/transactions/statement (multipart:
// "file" plus "account_id").
func (h *TransactionsHandler) ParseStatement(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxStatementBytes)
	if err := r.ParseMultipartForm(maxStatementBytes); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "statement file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Error().Err(err).Msg("reading statement upload failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}

	res := h.svc.Ingest(r.Context(), ingest.Request{
		Modality: ingest.SourceStatement,
		Statement: &ingest.StatementPayload{
			Filename:  filepath.Base(header.Filename),
			Data:      data,
			AccountID: r.FormValue("account_id"),
		},
	})
	writeResult(w, res)
}

// CreateManual handles POST /api/transactions
func (h *TransactionsHandler) CreateManual(w http.ResponseWriter, r *http.Request) {
	var form ingest.ManualForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res := h.svc.Ingest(r.Context(), ingest.Request{Modality: ingest.SourceManual, Manual: &form})
	writeResult(w, res)
}

// resultResponse is the wire shape of an ingestion outcome, with the
// badge and module link resolved for each transaction.
type resultResponse struct {
	Status        ingest.Status         `json:"status"`
	Transaction   *ingest.Transaction   `json:"transaction,omitempty"`
	Transactions  []*ingest.Transaction `json:"transactions,omitempty"`
	Presentation  *ingest.Presentation  `json:"presentation,omitempty"`
	Presentations []ingest.Presentation `json:"presentations,omitempty"`
	Message       string                `json:"message,omitempty"`
}

func writeResult(w http.ResponseWriter, res ingest.Result) {
	resp := resultResponse{
		Status:       res.Status,
		Transaction:  res.Transaction,
		Transactions: res.Transactions,
		Message:      res.Message,
	}
	if res.Transaction != nil {
		p := ingest.PresentResult(*res.Transaction)
		resp.Presentation = &p
	}
	for _, tx := range res.Transactions {
		resp.Presentations = append(resp.Presentations, ingest.PresentResult(*tx))
	}

	status := http.StatusOK
	if res.Status == ingest.StatusFailure {
		// Partial failures (saved transaction, unsynced balance) still
		// carry the transaction; plain rejections do not.
		if res.Transaction != nil {
			status = http.StatusConflict
		} else {
			status = http.StatusBadRequest
		}
	}
	middleware.WriteJSON(w, status, resp)
}

// NetWorthHandler exposes the aggregate view and the linked accounts.
type NetWorthHandler struct {
	store *ledger.Store
	log   zerolog.Logger
}

// NewNetWorthHandler creates a new net-worth handler.
func NewNetWorthHandler(store *ledger.Store, log zerolog.Logger) *NetWorthHandler {
	return &NetWorthHandler{store: store, log: log}
}

// GetNetWorth handles GET /api/networth
func (h *NetWorthHandler) GetNetWorth(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.LatestSnapshot(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load net-worth snapshot")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load net worth")
		return
	}
	if snap == nil {
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"computed": false})
		return
	}
	middleware.WriteJSON(w, http.StatusOK, snap)
}

// ListAccounts handles GET /api/accounts
func (h *NetWorthHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.ListAccounts(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list accounts")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list accounts")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// CreateAccount handles POST /api/accounts
func (h *NetWorthHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		middleware.WriteError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Kind != "BANK" && req.Kind != "WALLET" {
		middleware.WriteError(w, http.StatusBadRequest, "kind must be BANK or WALLET")
		return
	}

	acct := &ledger.Account{Name: req.Name, Kind: req.Kind}
	if err := h.store.CreateAccount(r.Context(), acct); err != nil {
		h.log.Error().Err(err).Msg("Failed to create account")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, acct)
}

// CreateCreditCard handles POST /api/credit-cards
func (h *NetWorthHandler) CreateCreditCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		middleware.WriteError(w, http.StatusBadRequest, "name is required")
		return
	}

	card := &ledger.CreditCard{Name: req.Name}
	if err := h.store.CreateCreditCard(r.Context(), card); err != nil {
		h.log.Error().Err(err).Msg("Failed to create credit card")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create credit card")
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, card)
}

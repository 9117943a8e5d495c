package ingest

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetType decides which ledger owns a transaction record.
type AssetType string

const (
	AssetCash        AssetType = "CASH"
	AssetGold        AssetType = "GOLD"
	AssetStock       AssetType = "STOCK"
	AssetBond        AssetType = "BOND"
	AssetExpense     AssetType = "EXPENSE"
	AssetIncome      AssetType = "INCOME"
	AssetBankDeposit AssetType = "BANK_DEPOSIT"
)

// TxType is the cash-flow direction of a transaction.
type TxType string

const (
	TypeExpense TxType = "EXPENSE"
	TypeIncome  TxType = "INCOME"
)

// Source identifies the ingestion modality a transaction came from.
// It is set once when the candidate is built and never changes.
type Source string

const (
	SourceSMS       Source = "SMS"
	SourceReceipt   Source = "RECEIPT"
	SourceStatement Source = "STATEMENT"
	SourceManual    Source = "MANUAL"
)

// RefKind discriminates the two balance-carrying account kinds.
type RefKind string

const (
	RefAccount    RefKind = "account"
	RefCreditCard RefKind = "creditCard"
)

// AccountRef is the resolved form of an account selection. The zero value
// means "no linkage". Exactly one kind is ever set.
type AccountRef struct {
	Kind RefKind
	ID   string
}

// IsZero reports whether the ref carries no linkage.
func (r AccountRef) IsZero() bool {
	return r.Kind == "" || r.ID == ""
}

// TransactionCandidate is the unvalidated, modality-specific shape produced
// by an extraction adapter or the manual form. Empty strings and zero
// values mean "absent"; validation happens in NormalizeCandidate.
type TransactionCandidate struct {
	Amount      decimal.Decimal
	Description string
	Type        TxType
	Date        time.Time
	Merchant    string
	CategoryID  string

	// AccountSelection is the opaque selection string from the caller.
	// Credit cards arrive with the "cc_" prefix; see ResolveAccountSelection.
	AccountSelection string

	// AssetType is a classification hint. When set it wins over Type.
	AssetType AssetType

	// Gold fields.
	WeightGrams  decimal.Decimal
	OrnamentName string

	// Stock fields.
	StockSymbol string
	Units       decimal.Decimal

	Source Source
}

// Transaction is the canonical record dispatched to a ledger. ID is
// assigned at persistence time by the ledger store.
type Transaction struct {
	ID          string
	Amount      decimal.Decimal
	Currency    string
	Type        TxType
	Date        time.Time
	Description string
	Merchant    string
	CategoryID  string
	AssetType   AssetType
	Source      Source

	// At most one of these is set after linkage resolution.
	LinkedAccountID    string
	LinkedCreditCardID string

	WeightGrams  decimal.Decimal
	OrnamentName string
	StockSymbol  string
	Units        decimal.Decimal
}

// Linked reports whether the transaction affects any balance.
func (t *Transaction) Linked() bool {
	return t.LinkedAccountID != "" || t.LinkedCreditCardID != ""
}

// BaseCurrency is the currency all transactions are stored in. Display
// conversion is a presentation concern and happens outside this service.
const BaseCurrency = "AED"

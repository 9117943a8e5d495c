package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a bank account or wallet whose balance the pipeline may
// adjust but does not own.
type Account struct {
	ID        string          `gorm:"primaryKey"`
	Name      string
	Kind      string // BANK or WALLET
	Balance   decimal.Decimal `gorm:"type:decimal(20,4)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreditCard tracks the balance owed on a card. Expenses charged to the
// card increase Owed.
type CreditCard struct {
	ID        string          `gorm:"primaryKey"`
	Name      string
	Owed      decimal.Decimal `gorm:"type:decimal(20,4)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecordFields are the columns shared by every ledger table.
type RecordFields struct {
	ID           string          `gorm:"primaryKey"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,4)"`
	Currency     string
	Type         string
	Date         time.Time
	Description  string
	Merchant     string
	CategoryID   string
	AssetType    string
	Source       string
	AccountID    string
	CreditCardID string
	CreatedAt    time.Time
}

// CashRecord holds cash-flow transactions: expenses, income and bank
// deposits.
type CashRecord struct {
	RecordFields
}

// GoldRecord holds gold purchases.
type GoldRecord struct {
	RecordFields
	WeightGrams  decimal.Decimal `gorm:"type:decimal(20,4)"`
	OrnamentName string
}

// StockRecord holds stock purchases.
type StockRecord struct {
	RecordFields
	Symbol string
	Units  decimal.Decimal `gorm:"type:decimal(20,8)"`
}

// BondRecord holds bond purchases.
type BondRecord struct {
	RecordFields
}

// NetWorthSnapshot is one recomputation of the aggregate view.
type NetWorthSnapshot struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"`
	CashTotal  decimal.Decimal `gorm:"type:decimal(20,4)"`
	GoldTotal  decimal.Decimal `gorm:"type:decimal(20,4)"`
	StockTotal decimal.Decimal `gorm:"type:decimal(20,4)"`
	BondTotal  decimal.Decimal `gorm:"type:decimal(20,4)"`
	CardsOwed  decimal.Decimal `gorm:"type:decimal(20,4)"`
	Total      decimal.Decimal `gorm:"type:decimal(20,4)"`
	ComputedAt time.Time
}

// Submission records one ingestion call end to end. PARTIAL marks the
// saved-but-unsynced case an external reconciliation process repairs.
type Submission struct {
	ID         string `gorm:"primaryKey"`
	Source     string
	Status     string
	Message    string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Package ledger persists canonical transactions into their asset-type
// ledgers and owns the balance rows the dispatcher adjusts.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GopiHariraj/networthauat/internal/ingest"
)

var (
	// ErrAccountNotFound means the linked account or card does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrBadAmount rejects non-positive balance adjustments.
	ErrBadAmount = errors.New("amount must be > 0")
)

// Store is the gorm-backed implementation of the pipeline's Ledger,
// BalanceService, NetWorthService and SubmissionStore interfaces.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open connects to the SQLite database at path and migrates the schema.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.AutoMigrate(
		&Account{},
		&CreditCard{},
		&CashRecord{},
		&GoldRecord{},
		&StockRecord{},
		&BondRecord{},
		&NetWorthSnapshot{},
		&Submission{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func baseRecord(tx *ingest.Transaction) RecordFields {
	return RecordFields{
		ID:           tx.ID,
		Amount:       tx.Amount,
		Currency:     tx.Currency,
		Type:         string(tx.Type),
		Date:         tx.Date,
		Description:  tx.Description,
		Merchant:     tx.Merchant,
		CategoryID:   tx.CategoryID,
		AssetType:    string(tx.AssetType),
		Source:       string(tx.Source),
		AccountID:    tx.LinkedAccountID,
		CreditCardID: tx.LinkedCreditCardID,
		CreatedAt:    time.Now(),
	}
}

// assignID gives the transaction its identity at persistence time. A
// transaction is created at most once; there is no retry path through
// here.
func assignID(tx *ingest.Transaction) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
}

// CreateCash writes a cash-flow record (expense, income, bank deposit).
func (s *Store) CreateCash(ctx context.Context, tx *ingest.Transaction) error {
	assignID(tx)
	row := CashRecord{RecordFields: baseRecord(tx)}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert cash record: %w", err)
	}
	return nil
}

// CreateGold writes a gold purchase record.
func (s *Store) CreateGold(ctx context.Context, tx *ingest.Transaction) error {
	assignID(tx)
	row := GoldRecord{
		RecordFields: baseRecord(tx),
		WeightGrams:  tx.WeightGrams,
		OrnamentName: tx.OrnamentName,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert gold record: %w", err)
	}
	return nil
}

// CreateStock writes a stock purchase record.
func (s *Store) CreateStock(ctx context.Context, tx *ingest.Transaction) error {
	assignID(tx)
	row := StockRecord{
		RecordFields: baseRecord(tx),
		Symbol:       tx.StockSymbol,
		Units:        tx.Units,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert stock record: %w", err)
	}
	return nil
}

// CreateBond writes a bond purchase record.
func (s *Store) CreateBond(ctx context.Context, tx *ingest.Transaction) error {
	assignID(tx)
	row := BondRecord{RecordFields: baseRecord(tx)}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert bond record: %w", err)
	}
	return nil
}

// Adjust moves the balance of the referenced account or card by amount.
// Debit is money leaving: an account balance drops, a card's owed balance
// grows. The read-modify-write runs inside one database transaction.
func (s *Store) Adjust(ctx context.Context, ref ingest.AccountRef, amount decimal.Decimal, dir ingest.Direction) error {
	if !amount.IsPositive() {
		return ErrBadAmount
	}
	if ref.IsZero() {
		return ErrAccountNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		switch ref.Kind {
		case ingest.RefAccount:
			var acct Account
			if err := db.First(&acct, "id = ?", ref.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("account %s: %w", ref.ID, ErrAccountNotFound)
				}
				return fmt.Errorf("load account %s: %w", ref.ID, err)
			}
			if dir == ingest.DirectionCredit {
				acct.Balance = acct.Balance.Add(amount)
			} else {
				acct.Balance = acct.Balance.Sub(amount)
			}
			if err := db.Save(&acct).Error; err != nil {
				return fmt.Errorf("update account %s: %w", ref.ID, err)
			}

		case ingest.RefCreditCard:
			var card CreditCard
			if err := db.First(&card, "id = ?", ref.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("credit card %s: %w", ref.ID, ErrAccountNotFound)
				}
				return fmt.Errorf("load credit card %s: %w", ref.ID, err)
			}
			if dir == ingest.DirectionDebit {
				card.Owed = card.Owed.Add(amount)
			} else {
				card.Owed = card.Owed.Sub(amount)
			}
			if err := db.Save(&card).Error; err != nil {
				return fmt.Errorf("update credit card %s: %w", ref.ID, err)
			}

		default:
			return ErrAccountNotFound
		}
		return nil
	})
}

// CreateAccount registers a bank account or wallet.
func (s *Store) CreateAccount(ctx context.Context, acct *Account) error {
	if acct.ID == "" {
		acct.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(acct).Error; err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// CreateCreditCard registers a credit card.
func (s *Store) CreateCreditCard(ctx context.Context, card *CreditCard) error {
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(card).Error; err != nil {
		return fmt.Errorf("insert credit card: %w", err)
	}
	return nil
}

// ListAccounts returns every bank account and wallet.
func (s *Store) ListAccounts(ctx context.Context) ([]Account, error) {
	var accts []Account
	if err := s.db.WithContext(ctx).Order("created_at").Find(&accts).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accts, nil
}

// GetAccount returns one account by ID.
func (s *Store) GetAccount(ctx context.Context, id string) (*Account, error) {
	var acct Account
	if err := s.db.WithContext(ctx).First(&acct, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("load account %s: %w", id, err)
	}
	return &acct, nil
}

// GetCreditCard returns one credit card by ID.
func (s *Store) GetCreditCard(ctx context.Context, id string) (*CreditCard, error) {
	var card CreditCard
	if err := s.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("load credit card %s: %w", id, err)
	}
	return &card, nil
}

package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Refresh recomputes the aggregate net-worth snapshot: account balances
// plus asset cost basis minus card balances owed. It is idempotent;
// recomputing an unchanged ledger just writes an identical snapshot.
func (s *Store) Refresh(ctx context.Context) error {
	db := s.db.WithContext(ctx)

	cash, err := sumColumn(db, &Account{}, "balance")
	if err != nil {
		return fmt.Errorf("refresh net worth: %w", err)
	}
	gold, err := sumColumn(db, &GoldRecord{}, "amount")
	if err != nil {
		return fmt.Errorf("refresh net worth: %w", err)
	}
	stock, err := sumColumn(db, &StockRecord{}, "amount")
	if err != nil {
		return fmt.Errorf("refresh net worth: %w", err)
	}
	bond, err := sumColumn(db, &BondRecord{}, "amount")
	if err != nil {
		return fmt.Errorf("refresh net worth: %w", err)
	}
	owed, err := sumColumn(db, &CreditCard{}, "owed")
	if err != nil {
		return fmt.Errorf("refresh net worth: %w", err)
	}

	snap := NetWorthSnapshot{
		CashTotal:  cash,
		GoldTotal:  gold,
		StockTotal: stock,
		BondTotal:  bond,
		CardsOwed:  owed,
		Total:      cash.Add(gold).Add(stock).Add(bond).Sub(owed),
		ComputedAt: time.Now(),
	}
	if err := db.Create(&snap).Error; err != nil {
		return fmt.Errorf("refresh net worth: insert snapshot: %w", err)
	}

	s.log.Info().Str("total", snap.Total.String()).Msg("net worth recomputed")
	return nil
}

// LatestSnapshot returns the most recent net-worth snapshot, or nil when
// none has been computed yet.
func (s *Store) LatestSnapshot(ctx context.Context) (*NetWorthSnapshot, error) {
	var snap NetWorthSnapshot
	err := s.db.WithContext(ctx).Order("id DESC").First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load latest snapshot: %w", err)
	}
	return &snap, nil
}

func sumColumn(db *gorm.DB, model interface{}, column string) (decimal.Decimal, error) {
	var raw *string
	err := db.Model(model).Select("SUM(" + column + ")").Scan(&raw).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum %s: %w", column, err)
	}
	if raw == nil || *raw == "" {
		return decimal.Zero, nil
	}
	sum, err := decimal.NewFromString(*raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum %s: parse %q: %w", column, *raw, err)
	}
	return sum, nil
}

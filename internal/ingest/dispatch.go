package ingest

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// dispatchState tracks a submission through the dispatcher. FAILED is
// absorbing and reachable from every stage.
type dispatchState string

const (
	stateValidating  dispatchState = "VALIDATING"
	stateLinking     dispatchState = "LINKING"
	statePersisting  dispatchState = "PERSISTING"
	stateBalanceSync dispatchState = "BALANCE_SYNC"
	stateDone        dispatchState = "DONE"
	stateFailed      dispatchState = "FAILED"
)

// Dispatcher routes canonical transactions into the ledger owning their
// asset type and applies the balance-mutating side effects in order:
// persistence strictly before balance mutation, balance mutation strictly
// before the net-worth refresh.
type Dispatcher struct {
	ledger   Ledger
	balances BalanceService
	networth NetWorthService
	now      func() time.Time
	log      zerolog.Logger
}

// NewDispatcher wires a dispatcher. now defaults to time.Now when nil.
func NewDispatcher(ledger Ledger, balances BalanceService, networth NetWorthService, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		ledger:   ledger,
		balances: balances,
		networth: networth,
		now:      time.Now,
		log:      log,
	}
}

// Dispatch runs one candidate through the full pipeline including the
// net-worth refresh. On a BalanceSyncError the returned transaction is
// non-nil: the record was persisted and is reported alongside the error.
func (d *Dispatcher) Dispatch(ctx context.Context, c TransactionCandidate) (*Transaction, error) {
	tx, synced, err := d.dispatchOne(ctx, c)
	if err != nil {
		return tx, err
	}
	if synced {
		d.refresh(ctx)
	}
	return tx, nil
}

// DispatchBatch runs a batch of candidates (a parsed statement) and
// triggers the net-worth refresh once after the whole batch, not per
// item. Items fail independently; the caller gets every persisted
// transaction plus the per-item errors in input order.
func (d *Dispatcher) DispatchBatch(ctx context.Context, cs []TransactionCandidate) ([]*Transaction, []error) {
	var (
		txs    []*Transaction
		errs   []error
		synced bool
	)
	for _, c := range cs {
		tx, itemSynced, err := d.dispatchOne(ctx, c)
		if err != nil {
			errs = append(errs, err)
			if tx == nil {
				continue
			}
		}
		txs = append(txs, tx)
		synced = synced || itemSynced
	}
	if synced {
		d.refresh(ctx)
	}
	return txs, errs
}

// dispatchOne walks VALIDATING → LINKING → PERSISTING → BALANCE_SYNC. It
// reports whether a balance actually moved so the caller can decide when
// to fire the refresh.
func (d *Dispatcher) dispatchOne(ctx context.Context, c TransactionCandidate) (*Transaction, bool, error) {
	state := stateValidating
	tx, err := NormalizeCandidate(c, d.now())
	if err != nil {
		d.fail(state, err)
		return nil, false, err
	}

	// LINKING never fails: an unrecognized selection degrades to no
	// linkage instead of an error.
	state = stateLinking
	ref := ResolveAccountSelection(c.AccountSelection)
	applyRef(tx, ref)

	state = statePersisting
	if err := d.persist(ctx, tx); err != nil {
		perr := &PersistenceError{AssetType: tx.AssetType, Err: err}
		d.fail(state, perr)
		return nil, false, perr
	}

	state = stateBalanceSync
	if ref.IsZero() {
		// No linkage: the sync stage is skipped entirely, not retried or
		// defaulted, and the refresh will be skipped with it.
		d.log.Debug().Str("transaction_id", tx.ID).Msg("no account linked, skipping balance sync")
		return tx, false, nil
	}

	if err := d.balances.Adjust(ctx, ref, tx.Amount, directionFor(tx.Type)); err != nil {
		// The record is already persisted. This is the one inconsistency
		// the design accepts: report it, do not roll back.
		serr := &BalanceSyncError{TransactionID: tx.ID, Err: err}
		d.fail(state, serr)
		return tx, false, serr
	}

	state = stateDone
	d.log.Info().
		Str("transaction_id", tx.ID).
		Str("asset_type", string(tx.AssetType)).
		Str("source", string(tx.Source)).
		Str("state", string(state)).
		Msg("transaction dispatched")
	return tx, true, nil
}

// persist writes the record to exactly one ledger, selected by asset
// type. Cash-flow classifications (cash, expense, income, bank deposit)
// share the cash ledger.
func (d *Dispatcher) persist(ctx context.Context, tx *Transaction) error {
	switch tx.AssetType {
	case AssetGold:
		return d.ledger.CreateGold(ctx, tx)
	case AssetStock:
		return d.ledger.CreateStock(ctx, tx)
	case AssetBond:
		return d.ledger.CreateBond(ctx, tx)
	default:
		return d.ledger.CreateCash(ctx, tx)
	}
}

// directionFor maps the cash-flow type onto a balance direction. Asset
// acquisitions without an explicit type are money leaving the account.
func directionFor(t TxType) Direction {
	if t == TypeIncome {
		return DirectionCredit
	}
	return DirectionDebit
}

func (d *Dispatcher) refresh(ctx context.Context) {
	if err := d.networth.Refresh(ctx); err != nil {
		// Refresh is fire-and-forget: a stale aggregate view repairs
		// itself on the next refresh, so the submission still succeeds.
		d.log.Error().Err(err).Msg("net-worth refresh failed")
	}
}

func (d *Dispatcher) fail(state dispatchState, err error) {
	d.log.Error().Err(err).Str("state", string(state)).Str("next", string(stateFailed)).Msg("dispatch failed")
}

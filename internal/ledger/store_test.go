package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/GopiHariraj/networthauat/internal/ingest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return store
}

func seedAccount(t *testing.T, store *Store, balance int64) *Account {
	t.Helper()
	acct := &Account{Name: "Main", Kind: "BANK", Balance: decimal.NewFromInt(balance)}
	if err := store.CreateAccount(context.Background(), acct); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	return acct
}

func seedCard(t *testing.T, store *Store, owed int64) *CreditCard {
	t.Helper()
	card := &CreditCard{Name: "Visa", Owed: decimal.NewFromInt(owed)}
	if err := store.CreateCreditCard(context.Background(), card); err != nil {
		t.Fatalf("CreateCreditCard failed: %v", err)
	}
	return card
}

func TestCreateAssignsID(t *testing.T) {
	store := newTestStore(t)

	tx := &ingest.Transaction{
		Amount:    decimal.NewFromInt(50),
		Currency:  ingest.BaseCurrency,
		Type:      ingest.TypeExpense,
		AssetType: ingest.AssetExpense,
		Source:    ingest.SourceManual,
	}
	if err := store.CreateCash(context.Background(), tx); err != nil {
		t.Fatalf("CreateCash failed: %v", err)
	}
	if tx.ID == "" {
		t.Error("transaction ID should be assigned at persistence")
	}
}

func TestCreateGoldKeepsAssetFields(t *testing.T) {
	store := newTestStore(t)

	tx := &ingest.Transaction{
		Amount:       decimal.NewFromInt(12500),
		Currency:     ingest.BaseCurrency,
		AssetType:    ingest.AssetGold,
		Source:       ingest.SourceManual,
		WeightGrams:  decimal.RequireFromString("21.5"),
		OrnamentName: "Necklace",
	}
	if err := store.CreateGold(context.Background(), tx); err != nil {
		t.Fatalf("CreateGold failed: %v", err)
	}

	var row GoldRecord
	if err := store.db.First(&row, "id = ?", tx.ID).Error; err != nil {
		t.Fatalf("load gold record: %v", err)
	}
	if !row.WeightGrams.Equal(decimal.RequireFromString("21.5")) {
		t.Errorf("weight = %s, want 21.5", row.WeightGrams)
	}
	if row.OrnamentName != "Necklace" {
		t.Errorf("ornament = %q, want Necklace", row.OrnamentName)
	}
}

func TestAdjustAccount(t *testing.T) {
	store := newTestStore(t)
	acct := seedAccount(t, store, 1000)
	ref := ingest.AccountRef{Kind: ingest.RefAccount, ID: acct.ID}

	if err := store.Adjust(context.Background(), ref, decimal.NewFromInt(300), ingest.DirectionDebit); err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	got, err := store.GetAccount(context.Background(), acct.ID)
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(700)) {
		t.Errorf("balance after debit = %s, want 700", got.Balance)
	}

	if err := store.Adjust(context.Background(), ref, decimal.NewFromInt(50), ingest.DirectionCredit); err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	got, err = store.GetAccount(context.Background(), acct.ID)
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(750)) {
		t.Errorf("balance after credit = %s, want 750", got.Balance)
	}
}

func TestAdjustCreditCard(t *testing.T) {
	store := newTestStore(t)
	card := seedCard(t, store, 100)
	ref := ingest.AccountRef{Kind: ingest.RefCreditCard, ID: card.ID}

	// A debit on a card is a charge: owed grows.
	if err := store.Adjust(context.Background(), ref, decimal.NewFromInt(200), ingest.DirectionDebit); err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	got, err := store.GetCreditCard(context.Background(), card.ID)
	if err != nil {
		t.Fatalf("GetCreditCard failed: %v", err)
	}
	if !got.Owed.Equal(decimal.NewFromInt(300)) {
		t.Errorf("owed after charge = %s, want 300", got.Owed)
	}

	if err := store.Adjust(context.Background(), ref, decimal.NewFromInt(250), ingest.DirectionCredit); err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	got, err = store.GetCreditCard(context.Background(), card.ID)
	if err != nil {
		t.Fatalf("GetCreditCard failed: %v", err)
	}
	if !got.Owed.Equal(decimal.NewFromInt(50)) {
		t.Errorf("owed after payment = %s, want 50", got.Owed)
	}
}

func TestAdjustUnknownAccount(t *testing.T) {
	store := newTestStore(t)

	err := store.Adjust(context.Background(),
		ingest.AccountRef{Kind: ingest.RefAccount, ID: "missing"},
		decimal.NewFromInt(10), ingest.DirectionDebit)
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("err = %v, want ErrAccountNotFound", err)
	}
}

func TestAdjustRejectsNonPositiveAmount(t *testing.T) {
	store := newTestStore(t)
	acct := seedAccount(t, store, 100)
	ref := ingest.AccountRef{Kind: ingest.RefAccount, ID: acct.ID}

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		if err := store.Adjust(context.Background(), ref, amount, ingest.DirectionDebit); !errors.Is(err, ErrBadAmount) {
			t.Errorf("Adjust(%s) err = %v, want ErrBadAmount", amount, err)
		}
	}
}

func TestRefreshComputesSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedAccount(t, store, 1000)
	seedCard(t, store, 200)
	gold := &ingest.Transaction{Amount: decimal.NewFromInt(500), AssetType: ingest.AssetGold, Source: ingest.SourceManual}
	if err := store.CreateGold(ctx, gold); err != nil {
		t.Fatalf("CreateGold failed: %v", err)
	}
	stock := &ingest.Transaction{Amount: decimal.NewFromInt(300), AssetType: ingest.AssetStock, Source: ingest.SourceManual}
	if err := store.CreateStock(ctx, stock); err != nil {
		t.Fatalf("CreateStock failed: %v", err)
	}

	if err := store.Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	snap, err := store.LatestSnapshot(ctx)
	if err != nil {
		t.Fatalf("LatestSnapshot failed: %v", err)
	}
	if snap == nil {
		t.Fatal("expected a snapshot after Refresh")
	}
	// 1000 cash + 500 gold + 300 stock - 200 owed
	if !snap.Total.Equal(decimal.NewFromInt(1600)) {
		t.Errorf("total = %s, want 1600", snap.Total)
	}
	if !snap.CardsOwed.Equal(decimal.NewFromInt(200)) {
		t.Errorf("cards owed = %s, want 200", snap.CardsOwed)
	}
}

func TestRefreshOnEmptyLedger(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Refresh(ctx); err != nil {
		t.Fatalf("Refresh on empty ledger failed: %v", err)
	}
	snap, err := store.LatestSnapshot(ctx)
	if err != nil {
		t.Fatalf("LatestSnapshot failed: %v", err)
	}
	if snap == nil || !snap.Total.IsZero() {
		t.Errorf("empty ledger snapshot = %+v, want zero total", snap)
	}
}

func TestLatestSnapshotNoneYet(t *testing.T) {
	store := newTestStore(t)

	snap, err := store.LatestSnapshot(context.Background())
	if err != nil {
		t.Fatalf("LatestSnapshot failed: %v", err)
	}
	if snap != nil {
		t.Errorf("expected nil before any Refresh, got %+v", snap)
	}
}

func TestLatestSnapshotReturnsNewest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	seedAccount(t, store, 900)
	if err := store.Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	snap, err := store.LatestSnapshot(ctx)
	if err != nil {
		t.Fatalf("LatestSnapshot failed: %v", err)
	}
	if !snap.Total.Equal(decimal.NewFromInt(900)) {
		t.Errorf("latest total = %s, want 900 from the second snapshot", snap.Total)
	}
}

func TestSubmissionLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.StartSubmission(ctx, ingest.SourceSMS)
	if err != nil {
		t.Fatalf("StartSubmission failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected a submission ID")
	}

	var row Submission
	if err := store.db.First(&row, "id = ?", id).Error; err != nil {
		t.Fatalf("load submission: %v", err)
	}
	if row.Status != "RUNNING" {
		t.Errorf("status = %q, want RUNNING", row.Status)
	}
	if row.FinishedAt != nil {
		t.Error("finished_at should be unset while running")
	}

	store.FinishSubmission(ctx, id, ingest.SubmissionSucceeded, "")

	if err := store.db.First(&row, "id = ?", id).Error; err != nil {
		t.Fatalf("reload submission: %v", err)
	}
	if row.Status != string(ingest.SubmissionSucceeded) {
		t.Errorf("status = %q, want SUCCESS", row.Status)
	}
	if row.FinishedAt == nil {
		t.Error("finished_at should be set after FinishSubmission")
	}
}

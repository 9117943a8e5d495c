package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NormalizeCandidate turns a candidate into a canonical Transaction,
// resolving defaults: a missing date becomes now, a missing type is
// inferred from the asset classification. It rejects candidates without a
// positive amount; those must never reach a ledger.
func NormalizeCandidate(c TransactionCandidate, now time.Time) (*Transaction, error) {
	if !c.Amount.IsPositive() {
		return nil, &ValidationError{Field: "amount", Reason: ErrNoAmount.Error()}
	}

	assetType, txType, err := classify(c)
	if err != nil {
		return nil, err
	}

	date := c.Date
	if date.IsZero() {
		date = now
	}

	return &Transaction{
		Amount:       c.Amount,
		Currency:     BaseCurrency,
		Type:         txType,
		Date:         date,
		Description:  strings.TrimSpace(c.Description),
		Merchant:     strings.TrimSpace(c.Merchant),
		CategoryID:   strings.TrimSpace(c.CategoryID),
		AssetType:    assetType,
		Source:       c.Source,
		WeightGrams:  c.WeightGrams,
		OrnamentName: strings.TrimSpace(c.OrnamentName),
		StockSymbol:  strings.TrimSpace(c.StockSymbol),
		Units:        c.Units,
	}, nil
}

// classify applies the classification precedence: an explicit asset type
// on the candidate wins; otherwise the candidate is EXPENSE or INCOME per
// its cash-flow type. Gold, stock and bond purchases are asset
// acquisitions, not cash flow, and need no type of their own.
func classify(c TransactionCandidate) (AssetType, TxType, error) {
	switch c.AssetType {
	case AssetGold, AssetStock, AssetBond:
		return c.AssetType, c.Type, nil
	case AssetCash, AssetExpense, AssetIncome, AssetBankDeposit:
		txType := c.Type
		if txType == "" {
			switch c.AssetType {
			case AssetIncome, AssetBankDeposit:
				txType = TypeIncome
			default:
				txType = TypeExpense
			}
		}
		return c.AssetType, txType, nil
	case "":
		switch c.Type {
		case TypeExpense:
			return AssetExpense, TypeExpense, nil
		case TypeIncome:
			return AssetIncome, TypeIncome, nil
		default:
			return "", "", &ValidationError{Field: "type", Reason: "cash-flow candidates require a type of EXPENSE or INCOME"}
		}
	default:
		return "", "", &ValidationError{Field: "assetType", Reason: fmt.Sprintf("unknown asset type %q", c.AssetType)}
	}
}

// ManualForm is the user-entered form state for manual transactions.
// Amount arrives as the raw input string; Date as "YYYY-MM-DD" or empty.
type ManualForm struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Type        TxType `json:"type"`
	Date        string `json:"date"`
	Merchant    string `json:"merchant"`
	AccountID   string `json:"accountId"`
	CategoryID  string `json:"categoryId"`
}

// NormalizeManualForm validates the form synchronously and shapes it into
// a candidate. Empty merchant, category and account references are
// omitted rather than forwarded as empty strings, so they cannot trip
// required-field validation further down.
func NormalizeManualForm(form ManualForm) (TransactionCandidate, error) {
	raw := strings.TrimSpace(form.Amount)
	if raw == "" {
		return TransactionCandidate{}, &ValidationError{Field: "amount", Reason: "amount is required"}
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return TransactionCandidate{}, &ValidationError{Field: "amount", Reason: fmt.Sprintf("not a number: %q", raw)}
	}
	if !amount.IsPositive() {
		return TransactionCandidate{}, &ValidationError{Field: "amount", Reason: ErrNoAmount.Error()}
	}

	var date time.Time
	if d := strings.TrimSpace(form.Date); d != "" {
		date, err = time.Parse("2006-01-02", d)
		if err != nil {
			return TransactionCandidate{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("want YYYY-MM-DD, got %q", d)}
		}
	}

	return TransactionCandidate{
		Amount:           amount,
		Description:      strings.TrimSpace(form.Description),
		Type:             form.Type,
		Date:             date,
		Merchant:         strings.TrimSpace(form.Merchant),
		CategoryID:       strings.TrimSpace(form.CategoryID),
		AccountSelection: strings.TrimSpace(form.AccountID),
		Source:           SourceManual,
	}, nil
}

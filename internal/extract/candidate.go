package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GopiHariraj/networthauat/internal/ingest"
)

// candidateJSON is the wire shape the prompts ask the model to emit for a
// single transaction. Absent fields decode to zero values.
type candidateJSON struct {
	Amount       float64 `json:"amount"`
	Description  string  `json:"description"`
	Type         string  `json:"type"`
	Date         string  `json:"date"`
	Merchant     string  `json:"merchant"`
	AssetType    string  `json:"asset_type"`
	WeightGrams  float64 `json:"weight_grams"`
	OrnamentName string  `json:"ornament_name"`
	StockSymbol  string  `json:"stock_symbol"`
	Units        float64 `json:"units"`
}

// toCandidate maps the wire shape into a domain candidate. Amount zero or
// negative passes through untouched; the normalizer owns that rejection.
func (j candidateJSON) toCandidate() (ingest.TransactionCandidate, error) {
	c := ingest.TransactionCandidate{
		Amount:       decimal.NewFromFloat(j.Amount),
		Description:  strings.TrimSpace(j.Description),
		Merchant:     strings.TrimSpace(j.Merchant),
		OrnamentName: strings.TrimSpace(j.OrnamentName),
		StockSymbol:  strings.ToUpper(strings.TrimSpace(j.StockSymbol)),
	}

	if j.WeightGrams != 0 {
		c.WeightGrams = decimal.NewFromFloat(j.WeightGrams)
	}
	if j.Units != 0 {
		c.Units = decimal.NewFromFloat(j.Units)
	}

	switch t := strings.ToUpper(strings.TrimSpace(j.Type)); t {
	case "":
	case string(ingest.TypeExpense), string(ingest.TypeIncome):
		c.Type = ingest.TxType(t)
	default:
		return ingest.TransactionCandidate{}, fmt.Errorf("unknown transaction type %q", j.Type)
	}

	switch a := strings.ToUpper(strings.TrimSpace(j.AssetType)); a {
	case "":
	case "CASH", "GOLD", "STOCK", "BOND", "EXPENSE", "INCOME", "BANK_DEPOSIT":
		c.AssetType = ingest.AssetType(a)
	default:
		return ingest.TransactionCandidate{}, fmt.Errorf("unknown asset type %q", j.AssetType)
	}

	if d := strings.TrimSpace(j.Date); d != "" {
		date, err := time.Parse("2006-01-02", d)
		if err != nil {
			return ingest.TransactionCandidate{}, fmt.Errorf("invalid date %q: %w", j.Date, err)
		}
		c.Date = date
	}

	return c, nil
}

// candidateSchema is the field contract shared by all three prompts.
const candidateSchema = `Each transaction object must have these fields:
- "amount": number, the transaction amount, always positive
- "description": string, short human description
- "type": "EXPENSE" or "INCOME", or null for asset purchases
- "date": string "YYYY-MM-DD", or null if not stated
- "merchant": string, or null if not stated
- "asset_type": one of "CASH", "GOLD", "STOCK", "BOND", "EXPENSE", "INCOME", "BANK_DEPOSIT"
- "weight_grams": number, only for gold purchases, else null
- "ornament_name": string, only for gold purchases, else null
- "stock_symbol": string, only for stock purchases, else null
- "units": number, only for stock purchases, else null

Return ONLY valid raw JSON.
Do NOT wrap the response in code fences.
Do NOT use ` + "```json" + ` or any Markdown.
`

package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/GopiHariraj/networthauat/internal/ingest"
)

const smsPrompt = `You are a financial SMS parser for personal banking and purchase notifications.

Task:
- Extract exactly ONE transaction from the SMS text below.
- Classify it: salary or credit alerts are INCOME with asset_type "INCOME";
  gold purchases are asset_type "GOLD"; stock purchases are asset_type "STOCK";
  bond purchases are asset_type "BOND"; everything else spent is an EXPENSE.
- Output STRICT JSON only: a single JSON object, no extra text.

` + candidateSchema

// ParseSMS extracts a transaction candidate from free-form SMS text.
// There is no local fallback: any model or decoding failure is returned
// to the caller as-is.
func (c *Client) ParseSMS(ctx context.Context, text string) (ingest.TransactionCandidate, error) {
	parts := []*genai.Part{
		{Text: smsPrompt},
		{Text: "SMS:\n" + text},
	}

	raw, err := c.generate(ctx, parts)
	if err != nil {
		return ingest.TransactionCandidate{}, &ingest.ExtractionError{Modality: ingest.SourceSMS, Err: err}
	}

	var wire candidateJSON
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &wire); err != nil {
		return ingest.TransactionCandidate{}, &ingest.ExtractionError{
			Modality: ingest.SourceSMS,
			Err:      fmt.Errorf("unmarshal model output: %w", err),
		}
	}

	candidate, err := wire.toCandidate()
	if err != nil {
		return ingest.TransactionCandidate{}, &ingest.ExtractionError{Modality: ingest.SourceSMS, Err: err}
	}
	candidate.Source = ingest.SourceSMS
	return candidate, nil
}

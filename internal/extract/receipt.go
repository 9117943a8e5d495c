package extract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/GopiHariraj/networthauat/internal/ingest"
)

const receiptPrompt = `You are a receipt reader. The attached image is a photographed purchase receipt.

Task:
- Extract the receipt TOTAL (not individual line items) as "amount".
- Extract the merchant name and a short description of the purchase.
- Set "type" to "EXPENSE" and "asset_type" to "EXPENSE".
- Output STRICT JSON only: a single JSON object, no extra text.

` + candidateSchema

// AnalyzeReceipt extracts an expense candidate from a receipt image
// encoded as a data URI. The asset type is forced to EXPENSE whatever the
// model answered.
func (c *Client) AnalyzeReceipt(ctx context.Context, imageDataURI string) (ingest.TransactionCandidate, error) {
	mimeType, data, err := ParseDataURI(imageDataURI)
	if err != nil {
		return ingest.TransactionCandidate{}, &ingest.ExtractionError{Modality: ingest.SourceReceipt, Err: err}
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return ingest.TransactionCandidate{}, &ingest.ExtractionError{
			Modality: ingest.SourceReceipt,
			Err:      fmt.Errorf("receipt must be an image, got %q", mimeType),
		}
	}

	parts := []*genai.Part{
		{Text: receiptPrompt},
		{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
	}

	raw, err := c.generate(ctx, parts)
	if err != nil {
		return ingest.TransactionCandidate{}, &ingest.ExtractionError{Modality: ingest.SourceReceipt, Err: err}
	}

	var wire candidateJSON
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &wire); err != nil {
		return ingest.TransactionCandidate{}, &ingest.ExtractionError{
			Modality: ingest.SourceReceipt,
			Err:      fmt.Errorf("unmarshal model output: %w", err),
		}
	}

	candidate, err := wire.toCandidate()
	if err != nil {
		return ingest.TransactionCandidate{}, &ingest.ExtractionError{Modality: ingest.SourceReceipt, Err: err}
	}
	candidate.Source = ingest.SourceReceipt
	candidate.AssetType = ingest.AssetExpense
	candidate.Type = ingest.TypeExpense
	return candidate, nil
}

// ParseDataURI splits a "data:<mime>;base64,<payload>" URI into its MIME
// type and decoded bytes.
func ParseDataURI(uri string) (mimeType string, data []byte, err error) {
	if !strings.HasPrefix(uri, "data:") {
		return "", nil, fmt.Errorf("not a data URI")
	}
	rest := strings.TrimPrefix(uri, "data:")

	sep := strings.Index(rest, ",")
	if sep == -1 {
		return "", nil, fmt.Errorf("malformed data URI: no payload separator")
	}
	meta, payload := rest[:sep], rest[sep+1:]

	if !strings.HasSuffix(meta, ";base64") {
		return "", nil, fmt.Errorf("data URI must be base64 encoded")
	}
	mimeType = strings.TrimSuffix(meta, ";base64")
	if mimeType == "" {
		return "", nil, fmt.Errorf("data URI missing MIME type")
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI payload: %w", err)
	}
	return mimeType, data, nil
}

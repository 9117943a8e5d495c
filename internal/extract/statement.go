package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"google.golang.org/genai"

	"github.com/GopiHariraj/networthauat/internal/ingest"
)

const statementPrompt = `You are a financial statement parser for bank statements and card statements.

Task:
- Parse ALL transactions in the attached statement.
- Money leaving the account is an EXPENSE; money arriving is an INCOME.
- Set "asset_type" to "EXPENSE" or "INCOME" to match "type".
- Output STRICT JSON only: a JSON array of transaction objects.
- Output must begin with "[" and end with "]".

` + candidateSchema

// statementMIMETypes maps the allow-listed upload extensions to the MIME
// type the model is told about.
var statementMIMETypes = map[string]string{
	".pdf":  "application/pdf",
	".csv":  "text/csv",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".xls":  "application/vnd.ms-excel",
}

// ParseStatement parses an uploaded statement into zero or more
// candidates attributed to accountID. Failures are reported inside the
// envelope, not raised: a dead model call yields Success false, while
// individual unusable line items are skipped and counted in Message so
// the rest of the batch still lands.
func (c *Client) ParseStatement(ctx context.Context, file ingest.StatementFile, accountID string) ingest.StatementResult {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	mimeType, ok := statementMIMETypes[ext]
	if !ok {
		return ingest.StatementResult{
			Success: false,
			Message: fmt.Sprintf("unsupported statement format %q", ext),
		}
	}

	parts := []*genai.Part{{Text: statementPrompt}}
	if mimeType == "text/csv" {
		// CSV goes in as text; the model reads it better than a blob.
		parts = append(parts, &genai.Part{Text: "Statement CSV:\n" + string(file.Data)})
	} else {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: file.Data}})
	}

	raw, err := c.generate(ctx, parts)
	if err != nil {
		c.log.Error().Err(err).Str("filename", file.Filename).Msg("statement model call failed")
		return ingest.StatementResult{
			Success: false,
			Message: fmt.Sprintf("Failed to parse statement: %v", err),
		}
	}

	var wires []json.RawMessage
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &wires); err != nil {
		return ingest.StatementResult{
			Success: false,
			Message: fmt.Sprintf("Failed to parse statement: unusable model output: %v", err),
		}
	}

	candidates := make([]ingest.TransactionCandidate, 0, len(wires))
	skipped := 0
	for i, item := range wires {
		var wire candidateJSON
		if err := json.Unmarshal(item, &wire); err != nil {
			c.log.Warn().Err(err).Int("line_item", i).Msg("skipping unusable statement line item")
			skipped++
			continue
		}
		candidate, err := wire.toCandidate()
		if err != nil {
			c.log.Warn().Err(err).Int("line_item", i).Msg("skipping invalid statement line item")
			skipped++
			continue
		}
		candidate.Source = ingest.SourceStatement
		candidate.AccountSelection = accountID
		candidates = append(candidates, candidate)
	}

	msg := ""
	if skipped > 0 {
		msg = fmt.Sprintf("%d line item(s) could not be parsed and were skipped", skipped)
	}
	return ingest.StatementResult{Success: true, Candidates: candidates, Message: msg}
}

// Package compose renders query results and small talk into natural-language
// replies. Every model call has a deterministic fallback so a dead model
// never blanks a response.
package compose

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/datachat/datachat/internal/dbexec"
	"github.com/datachat/datachat/internal/llm"
	"github.com/datachat/datachat/internal/observability"
)

const (
	noResultsMessage = "I ran the query but it returned no results."

	greetingFallback = "Hello! Ask me anything about your products, customers, or orders."
)

type Composer struct {
	client     llm.Client
	sampleRows int
}

func NewComposer(client llm.Client, sampleRows int) *Composer {
	if sampleRows <= 0 {
		sampleRows = 5
	}
	return &Composer{client: client, sampleRows: sampleRows}
}

// Compose summarizes a query result for the user. Empty results short-circuit
// to a fixed message without a model call.
func (c *Composer) Compose(ctx context.Context, query string, result dbexec.Result) string {
	if len(result.Rows) == 0 {
		return noResultsMessage
	}

	response, err := c.client.Generate(ctx, c.buildResultPrompt(query, result))
	if err == nil {
		if content := strings.TrimSpace(response); content != "" {
			return content
		}
	}
	observability.ObserveStageFallback("compose")
	return deterministicSummary(result)
}

// Conversational answers small talk with the recent exchange as context.
func (c *Composer) Conversational(ctx context.Context, query, historyText string) string {
	var b strings.Builder
	b.WriteString("You are a friendly assistant for a retail analytics service. Reply briefly to the user's message.\n")
	if historyText != "" {
		b.WriteString("\nRecent conversation:\n")
		b.WriteString(historyText)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nUser message: %s\n", strings.TrimSpace(query))

	response, err := c.client.Generate(ctx, b.String())
	if err == nil {
		if content := strings.TrimSpace(response); content != "" {
			return content
		}
	}
	observability.ObserveStageFallback("compose")
	return greetingFallback
}

func (c *Composer) buildResultPrompt(query string, result dbexec.Result) string {
	sample := result.Records()
	if len(sample) > c.sampleRows {
		sample = sample[:c.sampleRows]
	}
	encoded, err := json.Marshal(sample)
	if err != nil {
		encoded = []byte("[]")
	}

	var b strings.Builder
	b.WriteString("Answer the user's question from the query results below. Be concise, report concrete values, and do not mention SQL.\n\n")
	fmt.Fprintf(&b, "Question: %s\n", strings.TrimSpace(query))
	fmt.Fprintf(&b, "Total rows: %d\n", len(result.Rows))
	fmt.Fprintf(&b, "Sample rows (first %d): %s\n", len(sample), encoded)
	return b.String()
}

// deterministicSummary renders results without the model. A single-row,
// single-column result reads as an aggregate; anything else reports the row
// count with a small sample.
func deterministicSummary(result dbexec.Result) string {
	if len(result.Rows) == 1 && len(result.Columns) == 1 {
		return fmt.Sprintf("%s: %v", result.Columns[0], result.Rows[0][0])
	}

	sample := result.Records()
	if len(sample) > 3 {
		sample = sample[:3]
	}
	encoded, err := json.Marshal(sample)
	if err != nil {
		return fmt.Sprintf("The query returned %d rows.", len(result.Rows))
	}
	return fmt.Sprintf("The query returned %d rows. First results: %s", len(result.Rows), encoded)
}

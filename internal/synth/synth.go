// Package synth turns a free-form question into a single read-only SQL
// statement against the live schema.
package synth

import (
	"context"
	"fmt"
	"strings"

	"github.com/datachat/datachat/internal/dbexec"
	"github.com/datachat/datachat/internal/llm"
	"github.com/datachat/datachat/internal/schema"
)

// Mention is an entity the client resolved ahead of time, letting the model
// filter by a stable id instead of a fuzzy name.
type Mention struct {
	Type string `json:"type"`
	Name string `json:"name"`
	ID   string `json:"id"`
}

// shortcuts answer common phrasings without a model round trip. Keys are
// lowercased with trailing punctuation trimmed.
var shortcuts = map[string]string{
	"list all products":  "SELECT id, name, category, price, stock_quantity FROM products ORDER BY name",
	"show all products":  "SELECT id, name, category, price, stock_quantity FROM products ORDER BY name",
	"list all customers": "SELECT id, name, email, created_at FROM customers ORDER BY name",
	"show all customers": "SELECT id, name, email, created_at FROM customers ORDER BY name",
	"list all orders":    "SELECT id, customer_id, status, total, created_at FROM orders ORDER BY created_at DESC",
	"show all orders":    "SELECT id, customer_id, status, total, created_at FROM orders ORDER BY created_at DESC",
}

type Synthesizer struct {
	client   llm.Client
	rowLimit int
}

func NewSynthesizer(client llm.Client, rowLimit int) *Synthesizer {
	if rowLimit <= 0 {
		rowLimit = 100
	}
	return &Synthesizer{client: client, rowLimit: rowLimit}
}

// Synthesize produces one SELECT statement for the question. The statement is
// cleaned of fences and terminators but not validated here; execution applies
// the read-only guard.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, snapshot schema.Snapshot, mentions []Mention) (string, error) {
	if sqlText, ok := shortcuts[normalizeQuestion(query)]; ok {
		return sqlText, nil
	}

	response, err := s.client.Generate(ctx, s.buildPrompt(query, snapshot, mentions))
	if err != nil {
		return "", fmt.Errorf("synthesize sql: %w", err)
	}

	sqlText := dbexec.StripTerminators(stripFences(response))
	if sqlText == "" {
		return "", fmt.Errorf("synthesize sql: model returned no statement")
	}
	return sqlText, nil
}

func (s *Synthesizer) buildPrompt(query string, snapshot schema.Snapshot, mentions []Mention) string {
	description := snapshot.Description()
	if description == "" {
		description = schema.FallbackDescription
	}

	var b strings.Builder
	b.WriteString("Write one SQL query that answers the user's question. Reply with only the SQL.\n\nSchema:\n")
	b.WriteString(description)
	b.WriteString("\n\nRules:\n")
	b.WriteString("- Use only the tables and columns listed above.\n")
	b.WriteString("- SELECT statements only, never modify data.\n")
	fmt.Fprintf(&b, "- Add LIMIT %d unless the question asks for a specific count.\n", s.rowLimit)
	b.WriteString("- No trailing semicolon.\n")

	if len(mentions) > 0 {
		b.WriteString("\nResolved entities, filter by id when one applies:\n")
		for _, m := range mentions {
			fmt.Fprintf(&b, "- %s %q has id %s\n", m.Type, m.Name, m.ID)
		}
	}

	fmt.Fprintf(&b, "\nQuestion: %s\n", strings.TrimSpace(query))
	return b.String()
}

func normalizeQuestion(query string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(query)), "?!. ")
}

func stripFences(response string) string {
	cleaned := strings.TrimSpace(response)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```sql")
		cleaned = strings.TrimPrefix(cleaned, "```SQL")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	}
	return strings.TrimSpace(cleaned)
}

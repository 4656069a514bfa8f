package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/datachat/datachat/internal/llm"
	"github.com/datachat/datachat/internal/schema"
)

// CompletionChecker judges whether a question carries enough detail to turn
// into a query at all, before any SQL is written. Implementations must treat
// their own failures as "complete" so the check can only catch vague
// questions, never block good ones.
type CompletionChecker interface {
	Complete(ctx context.Context, query string, snapshot schema.Snapshot) bool
}

type ModelCompletionChecker struct {
	client llm.Client
}

func NewModelCompletionChecker(client llm.Client) *ModelCompletionChecker {
	return &ModelCompletionChecker{client: client}
}

func (c *ModelCompletionChecker) Complete(ctx context.Context, query string, snapshot schema.Snapshot) bool {
	description := snapshot.Description()
	if description == "" {
		description = schema.FallbackDescription
	}

	var b strings.Builder
	b.WriteString("Can the question below be answered with a single read-only SQL query against this schema, without asking the user for more detail? Reply with only \"complete\" or \"incomplete\".\n\nSchema:\n")
	b.WriteString(description)
	fmt.Fprintf(&b, "\n\nQuestion: %s\n", strings.TrimSpace(query))

	response, err := c.client.Generate(ctx, b.String())
	if err != nil {
		return true
	}
	normalized := strings.ToLower(response)
	// "incomplete" contains "complete", check it first.
	if strings.Contains(normalized, "incomplete") {
		return false
	}
	return true
}

// Package intent labels an incoming question so the pipeline can route it to
// small talk, a catalog operation, or ad-hoc query synthesis. A keyword scan
// backs the model call so classification degrades instead of failing.
package intent

import (
	"context"
	"fmt"
	"strings"

	"github.com/datachat/datachat/internal/llm"
	"github.com/datachat/datachat/internal/observability"
)

type Label string

const (
	LabelConversational Label = "conversational"
	LabelOperationCall  Label = "operation_call"
	LabelAdHocQuery     Label = "ad_hoc_query"

	// LabelDataQuery is the collapsed data label used in two-tier mode.
	LabelDataQuery Label = "data_query"
)

type Mode string

const (
	ModeThreeTier Mode = "three_tier"
	ModeTwoTier   Mode = "two_tier"
)

type Turn struct {
	Sender  string
	Content string
}

// dataKeywords route a query to the data path when the model call fails. The
// bias is deliberate: a wrong data label costs one lookup, a wrong
// conversational label silently drops a real question.
var dataKeywords = []string{
	"show", "list", "total", "how many", "count", "top", "average", "sum",
	"revenue", "sales", "sold", "orders", "order", "products", "product",
	"customers", "customer", "stock", "inventory", "most", "least", "recent",
}

type Classifier struct {
	client        llm.Client
	mode          Mode
	historyWindow int
}

func NewClassifier(client llm.Client, mode Mode, historyWindow int) *Classifier {
	if historyWindow <= 0 {
		historyWindow = 4
	}
	return &Classifier{client: client, mode: mode, historyWindow: historyWindow}
}

// Classify never fails: model errors and unparseable responses fall back to
// the keyword scan.
func (c *Classifier) Classify(ctx context.Context, query string, history []Turn) Label {
	response, err := c.client.Generate(ctx, c.buildPrompt(query, history))
	if err == nil {
		if label, ok := parseLabel(response, c.mode); ok {
			observability.ObserveClassification(string(label), "model")
			return label
		}
	}
	observability.ObserveStageFallback("classification")
	label := keywordLabel(query, c.mode)
	observability.ObserveClassification(string(label), "keyword")
	return label
}

func (c *Classifier) buildPrompt(query string, history []Turn) string {
	var b strings.Builder
	b.WriteString("Classify the user's message into exactly one category. Reply with only the category name.\n\n")

	switch c.mode {
	case ModeTwoTier:
		b.WriteString("Categories:\n")
		b.WriteString("- conversational: greetings, thanks, chit-chat. Examples: \"Hello\", \"thanks a lot\", \"who are you?\"\n")
		b.WriteString("- data_query: any question about business data. Examples: \"show me all products\", \"how many orders came in today?\", \"total revenue for March\"\n")
	default:
		b.WriteString("Categories:\n")
		b.WriteString("- conversational: greetings, thanks, chit-chat. Examples: \"Hello\", \"thanks a lot\", \"who are you?\"\n")
		b.WriteString("- operation_call: a question answerable by a predefined report. Examples: \"what are the top selling products?\", \"how many customers do we have?\", \"show recent orders\"\n")
		b.WriteString("- ad_hoc_query: a data question needing a custom query. Examples: \"average order value by country last quarter\", \"which customers bought both widgets and gadgets?\"\n")
	}

	if window := boundedHistory(history, c.historyWindow); len(window) > 0 {
		b.WriteString("\nRecent conversation:\n")
		for _, turn := range window {
			fmt.Fprintf(&b, "%s: %s\n", turn.Sender, turn.Content)
		}
	}

	fmt.Fprintf(&b, "\nUser message: %s\n", strings.TrimSpace(query))
	return b.String()
}

// parseLabel scans the response for known labels in priority order, most
// specific category first, so a response mentioning several labels resolves
// deterministically.
func parseLabel(response string, mode Mode) (Label, bool) {
	normalized := strings.ToLower(response)
	var priority []Label
	switch mode {
	case ModeTwoTier:
		priority = []Label{LabelDataQuery, LabelConversational}
	default:
		priority = []Label{LabelOperationCall, LabelAdHocQuery, LabelConversational}
	}
	for _, label := range priority {
		if strings.Contains(normalized, string(label)) {
			return label, true
		}
	}
	return "", false
}

func keywordLabel(query string, mode Mode) Label {
	normalized := strings.ToLower(query)
	for _, keyword := range dataKeywords {
		if strings.Contains(normalized, keyword) {
			if mode == ModeTwoTier {
				return LabelDataQuery
			}
			return LabelAdHocQuery
		}
	}
	return LabelConversational
}

func boundedHistory(history []Turn, window int) []Turn {
	if len(history) <= window {
		return history
	}
	return history[len(history)-window:]
}

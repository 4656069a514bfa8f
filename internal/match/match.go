// Package match selects a catalog operation for a question and extracts its
// parameters from free text.
package match

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/datachat/datachat/internal/catalog"
	"github.com/datachat/datachat/internal/llm"
	"github.com/datachat/datachat/internal/observability"
)

// noneSentinel is what the model replies when no catalog operation fits.
const noneSentinel = "none"

// MissingParamsError reports required parameters the matcher could not
// extract from the question. The pipeline turns it into a clarification.
type MissingParamsError struct {
	Operation string
	Names     []string
}

func (e *MissingParamsError) Error() string {
	return fmt.Sprintf("operation %s missing required parameters: %s", e.Operation, strings.Join(e.Names, ", "))
}

type Matcher struct {
	client   llm.Client
	registry *catalog.Registry
}

func NewMatcher(client llm.Client, registry *catalog.Registry) *Matcher {
	return &Matcher{client: client, registry: registry}
}

// Match returns the catalog operation the question maps to, or found=false
// when nothing fits. Hallucinated operation names count as no match.
func (m *Matcher) Match(ctx context.Context, query string) (catalog.Operation, bool, error) {
	response, err := m.client.Generate(ctx, m.buildMatchPrompt(query))
	if err != nil {
		return catalog.Operation{}, false, fmt.Errorf("match operation: %w", err)
	}
	name := strings.Trim(strings.TrimSpace(response), "`\"'")
	if name == "" || strings.EqualFold(name, noneSentinel) {
		return catalog.Operation{}, false, nil
	}
	op, ok := m.registry.Lookup(name)
	if !ok {
		observability.ObserveStageFallback("match")
		return catalog.Operation{}, false, nil
	}
	return op, true, nil
}

// BuildSQL renders the operation's statement for the extracted parameters.
func (m *Matcher) BuildSQL(op catalog.Operation, params map[string]any) (string, error) {
	return m.registry.BuildSQL(op.Name, params)
}

// ExtractParameters resolves the operation's parameter values from the
// question. Operations without parameters never hit the model.
func (m *Matcher) ExtractParameters(ctx context.Context, op catalog.Operation, query string) (map[string]any, error) {
	if len(op.Parameters) == 0 {
		return map[string]any{}, nil
	}

	response, err := m.client.Generate(ctx, buildExtractPrompt(op, query))
	if err != nil {
		return nil, fmt.Errorf("extract parameters: %w", err)
	}

	raw, err := parseJSONObject(response)
	if err != nil {
		return nil, fmt.Errorf("extract parameters: %w", err)
	}

	params := make(map[string]any, len(raw))
	for _, p := range op.Parameters {
		value, ok := raw[p.Name]
		if !ok || value == nil {
			continue
		}
		coerced, err := catalog.CoerceValue(p.Type, value)
		if err != nil {
			return nil, fmt.Errorf("extract parameters: %s: %w", p.Name, err)
		}
		params[p.Name] = coerced
	}

	params = op.ApplyDefaults(params)
	if missing := op.MissingRequired(params); len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingParamsError{Operation: op.Name, Names: missing}
	}
	return params, nil
}

func (m *Matcher) buildMatchPrompt(query string) string {
	var b strings.Builder
	b.WriteString("Pick the one operation below that answers the user's question. Reply with only the operation name, or \"none\" if no operation fits.\n\nOperations:\n")
	for _, op := range m.registry.List() {
		fmt.Fprintf(&b, "- %s: %s", op.Name, op.Description)
		if len(op.Examples) > 0 {
			fmt.Fprintf(&b, " (e.g. %s)", strings.Join(op.Examples, "; "))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nQuestion: %s\n", strings.TrimSpace(query))
	return b.String()
}

func buildExtractPrompt(op catalog.Operation, query string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Extract the parameters for the %s operation from the user's question. Reply with a single JSON object. Omit parameters the question does not mention.\n\nParameters:\n", op.Name)
	for _, p := range op.Parameters {
		requirement := "optional"
		if p.Required {
			requirement = "required"
		}
		fmt.Fprintf(&b, "- %s (%s, %s): %s\n", p.Name, p.Type, requirement, p.Description)
	}
	fmt.Fprintf(&b, "\nQuestion: %s\n", strings.TrimSpace(query))
	return b.String()
}

// parseJSONObject digs the first JSON object out of a response that may be
// wrapped in prose or markdown fences.
func parseJSONObject(response string) (map[string]any, error) {
	cleaned := response
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("parse parameter JSON: %w", err)
	}
	return raw, nil
}

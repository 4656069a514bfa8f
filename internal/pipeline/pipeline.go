// Package pipeline coordinates the chat flow: classify the question, route it
// to a catalog operation or ad-hoc SQL synthesis, execute, and compose a
// natural-language answer.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/datachat/datachat/internal/catalog"
	"github.com/datachat/datachat/internal/compose"
	"github.com/datachat/datachat/internal/dbexec"
	"github.com/datachat/datachat/internal/intent"
	"github.com/datachat/datachat/internal/match"
	"github.com/datachat/datachat/internal/observability"
	"github.com/datachat/datachat/internal/schema"
	"github.com/datachat/datachat/internal/synth"
)

type Kind string

const (
	KindConversational Kind = "conversational"
	KindOperation      Kind = "operation"
	KindAdHoc          Kind = "ad_hoc"
	KindError          Kind = "error"
)

type ConversationTurn struct {
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

type EntityMention struct {
	Type string `json:"type"`
	Name string `json:"name"`
	ID   string `json:"id"`
}

type Request struct {
	Query    string
	History  []ConversationTurn
	Mentions []EntityMention
}

type Result struct {
	Content       string
	Kind          Kind
	OperationUsed string
}

const (
	noOperationMessage = "I couldn't find a matching report for that question. Try rephrasing, or ask me what I can look up."

	incompleteQueryMessage = "I need a bit more detail to answer that. Could you say which records you mean, or what you'd like to see?"
)

func executionFailureMessage(err error) string {
	return fmt.Sprintf("I wasn't able to run that query against the database: %v", err)
}

type Dependencies struct {
	Classifier        *intent.Classifier
	Matcher           *match.Matcher
	Synthesizer       *synth.Synthesizer
	Composer          *compose.Composer
	Executor          dbexec.Executor
	Introspector      schema.Introspector
	CompletionChecker CompletionChecker
	HistoryWindow     int
}

type Coordinator struct {
	classifier    *intent.Classifier
	matcher       *match.Matcher
	synthesizer   *synth.Synthesizer
	composer      *compose.Composer
	executor      dbexec.Executor
	introspector  schema.Introspector
	checker       CompletionChecker
	historyWindow int
}

func NewCoordinator(deps Dependencies) (*Coordinator, error) {
	if deps.Classifier == nil || deps.Matcher == nil || deps.Synthesizer == nil || deps.Composer == nil {
		return nil, fmt.Errorf("pipeline: classifier, matcher, synthesizer, and composer are required")
	}
	if deps.Executor == nil {
		return nil, fmt.Errorf("pipeline: executor is required")
	}
	window := deps.HistoryWindow
	if window <= 0 {
		window = 4
	}
	return &Coordinator{
		classifier:    deps.Classifier,
		matcher:       deps.Matcher,
		synthesizer:   deps.Synthesizer,
		composer:      deps.Composer,
		executor:      deps.Executor,
		introspector:  deps.Introspector,
		checker:       deps.CompletionChecker,
		historyWindow: window,
	}, nil
}

// Resolve answers one chat message. It never returns a transport error;
// failures surface as a Result with KindError or an apologetic message on the
// path's own kind, so the HTTP layer stays a thin mapping.
func (c *Coordinator) Resolve(ctx context.Context, req Request) Result {
	start := time.Now()
	result := c.resolve(ctx, req)
	observability.ObservePipelineResult(string(result.Kind), time.Since(start))
	return result
}

func (c *Coordinator) resolve(ctx context.Context, req Request) Result {
	label := c.classifier.Classify(ctx, req.Query, intentHistory(req.History))

	switch label {
	case intent.LabelConversational:
		content := c.composer.Conversational(ctx, req.Query, c.renderHistory(req.History))
		return Result{Content: content, Kind: KindConversational}
	case intent.LabelOperationCall:
		return c.resolveOperation(ctx, req)
	case intent.LabelAdHocQuery:
		return c.resolveAdHoc(ctx, req)
	case intent.LabelDataQuery:
		// Two-tier mode: everything non-conversational is synthesized.
		return c.resolveAdHoc(ctx, req)
	default:
		return Result{Content: "I didn't understand that request.", Kind: KindError}
	}
}

func (c *Coordinator) resolveOperation(ctx context.Context, req Request) Result {
	op, found, err := c.matcher.Match(ctx, req.Query)
	if err != nil {
		return Result{Content: "I couldn't process that question right now.", Kind: KindError}
	}
	if !found {
		return Result{Content: noOperationMessage, Kind: KindOperation}
	}

	params, err := c.matcher.ExtractParameters(ctx, op, req.Query)
	if err != nil {
		var missing *match.MissingParamsError
		if errors.As(err, &missing) {
			return Result{Content: clarificationMessage(op, missing.Names), Kind: KindConversational}
		}
		return Result{Content: "I couldn't work out the details of that question.", Kind: KindError}
	}

	sqlText, err := c.matcher.BuildSQL(op, params)
	if err != nil {
		return Result{Content: "I couldn't prepare that report.", Kind: KindError}
	}

	result, err := c.executor.Execute(ctx, sqlText)
	if err != nil {
		return Result{Content: executionFailureMessage(err), Kind: KindOperation, OperationUsed: op.Name}
	}

	content := c.composer.Compose(ctx, req.Query, result)
	return Result{Content: content, Kind: KindOperation, OperationUsed: op.Name}
}

func (c *Coordinator) resolveAdHoc(ctx context.Context, req Request) Result {
	snapshot := c.describeSchema(ctx)

	if c.checker != nil && !c.checker.Complete(ctx, req.Query, snapshot) {
		observability.ObserveStageFallback("completeness")
		return Result{Content: incompleteQueryMessage, Kind: KindConversational}
	}

	sqlText, err := c.synthesizer.Synthesize(ctx, req.Query, snapshot, synthMentions(req.Mentions))
	if err != nil {
		return Result{Content: fmt.Sprintf("I couldn't turn that question into a query: %v", err), Kind: KindError}
	}

	result, err := c.executor.Execute(ctx, sqlText)
	if err != nil {
		return Result{Content: executionFailureMessage(err), Kind: KindAdHoc}
	}

	content := c.composer.Compose(ctx, req.Query, result)
	return Result{Content: content, Kind: KindAdHoc}
}

// describeSchema falls back to an empty snapshot so synthesis can still run
// off the static schema description when introspection is unavailable.
func (c *Coordinator) describeSchema(ctx context.Context) schema.Snapshot {
	if c.introspector == nil {
		return schema.Snapshot{}
	}
	snapshot, err := c.introspector.Describe(ctx)
	if err != nil {
		observability.ObserveStageFallback("schema")
		return schema.Snapshot{}
	}
	return snapshot
}

func (c *Coordinator) renderHistory(history []ConversationTurn) string {
	if len(history) > c.historyWindow {
		history = history[len(history)-c.historyWindow:]
	}
	var b strings.Builder
	for _, turn := range history {
		fmt.Fprintf(&b, "%s: %s\n", turn.Sender, turn.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

func clarificationMessage(op catalog.Operation, names []string) string {
	return fmt.Sprintf("To run %s I still need: %s. Could you provide that?", op.Name, strings.Join(names, ", "))
}

func intentHistory(history []ConversationTurn) []intent.Turn {
	turns := make([]intent.Turn, 0, len(history))
	for _, t := range history {
		turns = append(turns, intent.Turn{Sender: t.Sender, Content: t.Content})
	}
	return turns
}

func synthMentions(mentions []EntityMention) []synth.Mention {
	converted := make([]synth.Mention, 0, len(mentions))
	for _, m := range mentions {
		converted = append(converted, synth.Mention{Type: m.Type, Name: m.Name, ID: m.ID})
	}
	return converted
}

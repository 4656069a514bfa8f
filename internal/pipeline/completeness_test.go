package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/datachat/datachat/internal/schema"
)

func TestModelCompletionChecker(t *testing.T) {
	snapshot := schema.Snapshot{Tables: map[string][]schema.Column{
		"products": {{Name: "name", DataType: "text"}},
	}}

	cases := []struct {
		name     string
		response string
		err      error
		want     bool
	}{
		{name: "complete", response: "complete", want: true},
		{name: "incomplete", response: "This looks incomplete.", want: false},
		{name: "unparseable counts as complete", response: "maybe?", want: true},
		{name: "model error counts as complete", err: errors.New("down"), want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			checker := NewModelCompletionChecker(&fakeLLM{responses: []string{tc.response}, err: tc.err})
			if got := checker.Complete(context.Background(), "product names?", snapshot); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestModelCompletionCheckerPromptMentionsSchemaAndQuestion(t *testing.T) {
	client := &fakeLLM{responses: []string{"complete"}}
	checker := NewModelCompletionChecker(client)

	snapshot := schema.Snapshot{Tables: map[string][]schema.Column{
		"orders": {{Name: "total", DataType: "numeric"}},
	}}
	checker.Complete(context.Background(), "total revenue last week?", snapshot)

	prompt := client.prompts[0]
	if !strings.Contains(prompt, "orders") {
		t.Fatalf("expected schema in prompt, got %q", prompt)
	}
	if !strings.Contains(prompt, "total revenue last week?") {
		t.Fatalf("expected question in prompt, got %q", prompt)
	}
}

func TestModelCompletionCheckerFallsBackToStaticSchema(t *testing.T) {
	client := &fakeLLM{responses: []string{"complete"}}
	checker := NewModelCompletionChecker(client)

	checker.Complete(context.Background(), "anything", schema.Snapshot{})

	if !strings.Contains(client.prompts[0], schema.FallbackDescription) {
		t.Fatalf("expected static schema description in prompt, got %q", client.prompts[0])
	}
}

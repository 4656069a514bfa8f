package intent

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeClient) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeClient) Name() string { return "fake" }

func TestClassifyModelLabels(t *testing.T) {
	cases := []struct {
		name     string
		mode     Mode
		response string
		want     Label
	}{
		{name: "operation call", mode: ModeThreeTier, response: "operation_call", want: LabelOperationCall},
		{name: "ad hoc", mode: ModeThreeTier, response: "This is an ad_hoc_query.", want: LabelAdHocQuery},
		{name: "conversational", mode: ModeThreeTier, response: "conversational", want: LabelConversational},
		{name: "two tier data", mode: ModeTwoTier, response: "data_query", want: LabelDataQuery},
		{name: "two tier chat", mode: ModeTwoTier, response: "conversational", want: LabelConversational},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			classifier := NewClassifier(&fakeClient{response: tc.response}, tc.mode, 4)
			got := classifier.Classify(context.Background(), "hi", nil)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// A rambling response naming several labels must resolve to the most
	// specific one.
	classifier := NewClassifier(&fakeClient{response: "could be conversational or an operation_call"}, ModeThreeTier, 4)
	got := classifier.Classify(context.Background(), "top products", nil)
	if got != LabelOperationCall {
		t.Fatalf("expected operation_call, got %s", got)
	}
}

func TestClassifyKeywordFallbackOnError(t *testing.T) {
	classifier := NewClassifier(&fakeClient{err: errors.New("model down")}, ModeThreeTier, 4)

	if got := classifier.Classify(context.Background(), "show me all products", nil); got != LabelAdHocQuery {
		t.Fatalf("expected ad_hoc_query, got %s", got)
	}
	if got := classifier.Classify(context.Background(), "good morning!", nil); got != LabelConversational {
		t.Fatalf("expected conversational, got %s", got)
	}
}

func TestClassifyKeywordFallbackTwoTier(t *testing.T) {
	classifier := NewClassifier(&fakeClient{response: "no idea"}, ModeTwoTier, 4)
	if got := classifier.Classify(context.Background(), "how many customers signed up?", nil); got != LabelDataQuery {
		t.Fatalf("expected data_query, got %s", got)
	}
}

func TestClassifyHistoryWindow(t *testing.T) {
	client := &fakeClient{response: "conversational"}
	classifier := NewClassifier(client, ModeThreeTier, 2)

	history := []Turn{
		{Sender: "user", Content: "first"},
		{Sender: "assistant", Content: "second"},
		{Sender: "user", Content: "third"},
	}
	classifier.Classify(context.Background(), "hello", history)

	if len(client.prompts) != 1 {
		t.Fatalf("expected one model call, got %d", len(client.prompts))
	}
	prompt := client.prompts[0]
	if strings.Contains(prompt, "first") {
		t.Fatalf("expected oldest turn to be dropped from prompt")
	}
	if !strings.Contains(prompt, "second") || !strings.Contains(prompt, "third") {
		t.Fatalf("expected recent turns in prompt, got %q", prompt)
	}
}

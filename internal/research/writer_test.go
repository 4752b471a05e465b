// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/deep-research/pkg/types"
)

// fakeCompletion returns one canned response and records the last request.
type fakeCompletion struct {
	response string
	err      error

	messages  []types.Message
	maxTokens int
}

func (f *fakeCompletion) Complete(_ context.Context, messages []types.Message, maxTokens int) (string, error) {
	f.messages = messages
	f.maxTokens = maxTokens
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func userContent(t *testing.T, messages []types.Message) string {
	t.Helper()
	for _, msg := range messages {
		if msg.Role == types.RoleUser {
			return msg.Content
		}
	}
	t.Fatal("no user message in request")
	return ""
}

// --- report writing ---

func TestWriteBuildsReferenceBlock(t *testing.T) {
	long := strings.Repeat("x", 70)
	fake := &fakeCompletion{response: "# Report\n\nBody [Ref 1]."}
	w := &Writer{Completion: fake, Prompt: "write", ReportTokens: 512}

	report, err := w.Write(context.Background(), "deep sea mining", []string{"short summary", long})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if report != "# Report\n\nBody [Ref 1]." {
		t.Errorf("report = %q", report)
	}
	if fake.maxTokens != 512 {
		t.Errorf("maxTokens = %d, want 512", fake.maxTokens)
	}
	if fake.messages[0].Role != types.RoleSystem || fake.messages[0].Content != "write" {
		t.Errorf("system message = %+v", fake.messages[0])
	}

	content := userContent(t, fake.messages)
	if !strings.HasPrefix(content, "Research Topic: deep sea mining\n") {
		t.Errorf("content missing topic header: %q", content)
	}
	if !strings.Contains(content, "Sources:\nshort summary\n"+long+"\n") {
		t.Errorf("content missing sources block: %q", content)
	}
	if !strings.Contains(content, "References:\n[Ref 1] short summary...\n[Ref 2] "+long[:60]+"...") {
		t.Errorf("content missing reference block: %q", content)
	}
}

func TestWriteEmptySelectionStillWrites(t *testing.T) {
	fake := &fakeCompletion{response: "A report written from the topic alone."}
	w := &Writer{Completion: fake, Prompt: "write", ReportTokens: 256}

	report, err := w.Write(context.Background(), "topic", nil)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if report == "" {
		t.Error("report is empty")
	}

	content := userContent(t, fake.messages)
	if content != "Research Topic: topic\nSources:\n\nReferences:\n" {
		t.Errorf("content = %q", content)
	}
}

func TestWriteError(t *testing.T) {
	fake := &fakeCompletion{err: errors.New("model overloaded")}
	w := &Writer{Completion: fake, Prompt: "write", ReportTokens: 256}

	_, err := w.Write(context.Background(), "topic", []string{"s"})
	if err == nil {
		t.Fatal("Write() expected error")
	}
	if !strings.Contains(err.Error(), "writing report") {
		t.Errorf("error = %v, want writing context", err)
	}
}

// --- citation counting ---

func TestCountCitations(t *testing.T) {
	tests := []struct {
		name   string
		report string
		want   int
	}{
		{"no citations", "plain prose", 0},
		{"repeated marker counts each use", "a [Ref 1] b [Ref 2] c [Ref 1]", 3},
		{"extra whitespace inside marker", "[Ref  12]", 1},
		{"lowercase not counted", "[ref 1]", 0},
		{"non-numeric not counted", "[Ref X]", 0},
		{"empty report", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountCitations(tt.report); got != tt.want {
				t.Errorf("CountCitations(%q) = %d, want %d", tt.report, got, tt.want)
			}
		})
	}
}

package core

import (
	"errors"
	"testing"
)

func TestParseStrategy(t *testing.T) {
	for _, s := range []string{"collaborative", " Parallel ", "SEQUENTIAL", "competitive"} {
		if _, err := ParseStrategy(s); err != nil {
			t.Errorf("ParseStrategy(%q) unexpected error: %v", s, err)
		}
	}

	if _, err := ParseStrategy("democratic"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestParseMeetingType(t *testing.T) {
	got, err := ParseMeetingType("code_review")
	if err != nil || got != MeetingCodeReview {
		t.Fatalf("ParseMeetingType = %s, %v", got, err)
	}
	if _, err := ParseMeetingType("party"); err == nil {
		t.Error("expected error for unknown meeting type")
	}
}

func TestOrchestrationRequest_UserPrompt(t *testing.T) {
	plain := OrchestrationRequest{Prompt: "build a cache"}
	if plain.UserPrompt() != "build a cache" {
		t.Errorf("plain prompt changed: %q", plain.UserPrompt())
	}

	full := OrchestrationRequest{
		Prompt:  "build a cache",
		Context: "Go 1.24",
		Files:   []string{"cache.go", "cache_test.go"},
	}
	want := "build a cache\n\nContext:\nGo 1.24\n\nRelevant files:\n- cache.go\n- cache_test.go"
	if got := full.UserPrompt(); got != want {
		t.Errorf("UserPrompt() =\n%q\nwant\n%q", got, want)
	}
}

func TestConversation_SnapshotIsolated(t *testing.T) {
	c := NewConversation(NewUserMessage("hi"))
	snap := c.Snapshot()
	c.Append(NewAssistantMessage("claude", "architect", "hello"))

	if len(snap) != 1 {
		t.Errorf("snapshot should not observe later appends, len=%d", len(snap))
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	clone := c.Clone()
	clone.Messages[1].Content = "changed"
	if c.Messages[1].Content != "hello" {
		t.Error("Clone should copy messages")
	}
	if c.Messages[1].Agent != "claude" || c.Messages[1].Tag != "architect" {
		t.Error("assistant message attribution lost")
	}
}

func TestSumUsage(t *testing.T) {
	responses := []AgentResponse{
		{TokensUsed: TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}},
		{TokensUsed: TokenUsage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5}},
	}
	got := SumUsage(responses)
	want := TokenUsage{PromptTokens: 13, CompletionTokens: 7, TotalTokens: 20}
	if got != want {
		t.Errorf("SumUsage = %+v, want %+v", got, want)
	}
	if SumUsage(nil) != (TokenUsage{}) {
		t.Error("SumUsage(nil) should be zero")
	}
}

func TestCapabilities_SupportsRole(t *testing.T) {
	open := Capabilities{}
	if !open.SupportsRole(RoleCEO) {
		t.Error("empty role list should accept every role")
	}

	dev := Capabilities{Roles: []Role{RoleDeveloper}}
	if !dev.SupportsRole(RoleDeveloper) || dev.SupportsRole(RoleCEO) {
		t.Error("listed roles should restrict support")
	}
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(EventMeetingTurn, nil)
	if e.ID == "" || e.Timestamp.IsZero() {
		t.Error("event should carry id and timestamp")
	}
	if e.Data == nil {
		t.Error("event data should never be nil")
	}
	NopPublisher{}.Publish(e)
}

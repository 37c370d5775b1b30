package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewAgentCallError_Kind(t *testing.T) {
	tests := []struct {
		name string
		kind AgentErrorKind
		err  error
		want AgentErrorKind
	}{
		{"explicit", AgentErrorAuth, errors.New("401"), AgentErrorAuth},
		{"empty defaults to generic", "", errors.New("boom"), AgentErrorGeneric},
		{"deadline is timeout", "", context.DeadlineExceeded, AgentErrorTimeout},
		{"wrapped deadline is timeout", AgentErrorGeneric, fmt.Errorf("call: %w", context.DeadlineExceeded), AgentErrorTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAgentCallError("claude", tt.kind, tt.err)
			if got.Kind != tt.want {
				t.Errorf("kind = %s, want %s", got.Kind, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("AgentCallError should unwrap to the cause")
			}
		})
	}
}

func TestWrappedErrorsUnwrap(t *testing.T) {
	cause := NewAgentCallError("gpt", AgentErrorRateLimit, errors.New("429"))
	stage := &StageError{Stage: StageReview, Err: &MeetingError{MeetingID: "m1", Title: "Review", Err: cause}}

	var callErr *AgentCallError
	if !errors.As(stage, &callErr) {
		t.Fatal("StageError should unwrap to the AgentCallError")
	}
	if callErr.Agent != "gpt" {
		t.Errorf("agent = %s", callErr.Agent)
	}

	var meetingErr *MeetingError
	if !errors.As(stage, &meetingErr) || meetingErr.MeetingID != "m1" {
		t.Error("StageError should unwrap to the MeetingError")
	}
	if !strings.Contains(stage.Error(), "review") {
		t.Errorf("stage error should name the stage: %s", stage.Error())
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrNoAgentsAvailable, "No agents are available"},
		{fmt.Errorf("fan-out: %w", ErrAllAgentsFailed), "Every agent failed"},
		{ErrSessionBusy, "already running"},
		{ErrNoSession, "No session is active"},
		{NewAgentCallError("claude", AgentErrorAuth, errors.New("401")), "Authentication with claude failed"},
		{NewAgentCallError("gpt", AgentErrorRateLimit, errors.New("429")), "gpt is rate limited"},
		{NewAgentCallError("gpt", AgentErrorTimeout, errors.New("slow")), "did not answer in time"},
		{NewAgentCallError("gpt", "", errors.New("bad gateway")), "bad gateway"},
		{errors.New("plain"), "plain"},
	}

	for _, tt := range tests {
		got := Describe(tt.err)
		if !strings.Contains(got, tt.want) {
			t.Errorf("Describe(%v) = %q, want it to contain %q", tt.err, got, tt.want)
		}
	}
}

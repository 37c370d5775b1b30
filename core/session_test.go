package core

import "testing"

func TestSession_TryStart(t *testing.T) {
	s := NewSession("s1", StrategyParallel)
	if s.GetStatus() != SessionIdle {
		t.Fatalf("new session should be idle, got %s", s.GetStatus())
	}

	if !s.TryStart() {
		t.Fatal("first TryStart should succeed")
	}
	if s.TryStart() {
		t.Error("second TryStart should fail while running")
	}

	s.SetStatus(SessionError)
	if !s.TryStart() {
		t.Error("TryStart should succeed after an error")
	}
}

func TestSession_CloneIsIndependent(t *testing.T) {
	s := NewSession("s2", StrategySequential)
	s.SetAssignments(map[Role]string{RoleArchitect: "claude"})
	conv := NewConversation(NewUserMessage("hi"))
	s.AddConversation(conv.Clone())

	clone := s.Clone()
	if clone == s {
		t.Fatal("Clone should be a different pointer")
	}

	clone.Assignments[RoleDeveloper] = "gpt"
	clone.Conversations[0].Messages[0].Content = "changed"

	if _, ok := s.Assignments[RoleDeveloper]; ok {
		t.Error("original should not have clone's new assignment")
	}
	if s.Conversations[0].Messages[0].Content != "hi" {
		t.Error("conversations should be deep copied")
	}
}

func TestSession_SetAssignmentsCopies(t *testing.T) {
	in := map[Role]string{RoleCEO: "a"}
	s := NewSession("s3", "")
	s.SetAssignments(in)
	in[RoleCEO] = "b"

	if s.Clone().Assignments[RoleCEO] != "a" {
		t.Error("assignments should be copied on write")
	}
}

func TestSession_UpdatedAdvances(t *testing.T) {
	s := NewSession("s4", "")
	before := s.Clone().Updated
	s.SetPipeline(&PipelineResult{ID: "p"})

	after := s.Clone()
	if after.Updated.Before(before) {
		t.Error("Updated should never move backwards")
	}
	if after.Pipeline == nil || after.Pipeline.ID != "p" {
		t.Error("pipeline not recorded")
	}
}

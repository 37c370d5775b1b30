package core

import (
	"fmt"
	"time"
)

// Role identifies a company role played by an agent in a meeting.
type Role string

// Known roles.
const (
	RoleCEO              Role = "ceo"
	RoleCTO              Role = "cto"
	RoleProductManager   Role = "product_manager"
	RoleArchitect        Role = "architect"
	RoleTechLead         Role = "tech_lead"
	RoleDeveloper        Role = "developer"
	RoleQAEngineer       Role = "qa_engineer"
	RoleDesigner         Role = "designer"
	RoleDevOpsEngineer   Role = "devops_engineer"
	RoleSecurityEngineer Role = "security_engineer"
)

// MeetingType categorizes a meeting; it determines the pipeline stage its
// decisions are filed under.
type MeetingType string

// Known meeting types.
const (
	MeetingKickoff         MeetingType = "kickoff"
	MeetingRequirements    MeetingType = "requirements"
	MeetingArchitecture    MeetingType = "architecture"
	MeetingSprintPlanning  MeetingType = "sprint_planning"
	MeetingStandup         MeetingType = "standup"
	MeetingCodeReview      MeetingType = "code_review"
	MeetingRetrospective   MeetingType = "retrospective"
	MeetingReleasePlanning MeetingType = "release_planning"
)

// MeetingTypes lists every meeting type.
func MeetingTypes() []MeetingType {
	return []MeetingType{
		MeetingKickoff, MeetingRequirements, MeetingArchitecture, MeetingSprintPlanning,
		MeetingStandup, MeetingCodeReview, MeetingRetrospective, MeetingReleasePlanning,
	}
}

// ParseMeetingType validates a meeting type name.
func ParseMeetingType(s string) (MeetingType, error) {
	for _, t := range MeetingTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown meeting type %q", s)
}

// Stage is one phase of the fixed project pipeline.
type Stage string

// Pipeline stages in execution order.
const (
	StageRequirements   Stage = "requirements"
	StageArchitecture   Stage = "architecture"
	StageImplementation Stage = "implementation"
	StageReview         Stage = "review"
	StageRelease        Stage = "release"
)

// MeetingAgenda is constructed by callers to describe a meeting.
type MeetingAgenda struct {
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Type         MeetingType `json:"type"`
	Participants []Role      `json:"participants"`
	Leader       Role        `json:"leader"`
	MaxTurns     int         `json:"max_turns"`
	Context      string      `json:"context,omitempty"`
}

// MeetingTurn records one executed turn. Number is 1-based and contiguous.
type MeetingTurn struct {
	Number     int        `json:"number"`
	Role       Role       `json:"role"`
	Agent      string     `json:"agent"`
	Message    string     `json:"message"`
	Mentions   []Role     `json:"mentions,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
	TokensUsed TokenUsage `json:"tokens_used"`
}

// Artifact is a fenced code block extracted from a meeting turn.
type Artifact struct {
	ID       string `json:"id"`
	Language string `json:"language,omitempty"`
	Code     string `json:"code"`
	Role     Role   `json:"role"`
	Turn     int    `json:"turn"`
}

// Decision is a structured record mined from free-text meeting turns.
type Decision struct {
	ID           string    `json:"id"`
	MeetingID    string    `json:"meeting_id"`
	Stage        Stage     `json:"stage"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Rationale    string    `json:"rationale"`
	Alternatives []string  `json:"alternatives"`
	MadeBy       Role      `json:"made_by"`
	Timestamp    time.Time `json:"timestamp"`
}

// MeetingResult is the outcome of a completed meeting.
type MeetingResult struct {
	ID         string        `json:"id"`
	Agenda     MeetingAgenda `json:"agenda"`
	Turns      []MeetingTurn `json:"turns"`
	Decisions  []Decision    `json:"decisions"`
	Summary    string        `json:"summary"`
	Artifacts  []Artifact    `json:"artifacts"`
	Duration   time.Duration `json:"duration"`
	TokenUsage TokenUsage    `json:"token_usage"`
}

// StageResult pairs a pipeline stage with the meeting that realized it.
type StageResult struct {
	Stage   Stage          `json:"stage"`
	Meeting *MeetingResult `json:"meeting"`
}

// PipelineResult is the outcome of a full project pipeline run.
type PipelineResult struct {
	ID          string        `json:"id"`
	Project     string        `json:"project"`
	Description string        `json:"description"`
	Stages      []StageResult `json:"stages"`
	Decisions   []Decision    `json:"decisions"`
	Duration    time.Duration `json:"duration"`
	TokenUsage  TokenUsage    `json:"token_usage"`
}

// Package pipeline runs a project through the fixed sequence of stages,
// each realized as one meeting. Every stage receives the summaries of the
// stages before it as context.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/agentcouncil/core"
	"github.com/hupe1980/agentcouncil/logging"
)

// Stages returns the pipeline stages in execution order.
func Stages() []core.Stage {
	return []core.Stage{
		core.StageRequirements,
		core.StageArchitecture,
		core.StageImplementation,
		core.StageReview,
		core.StageRelease,
	}
}

type stageTemplate struct {
	meetingType  core.MeetingType
	title        string
	goal         string
	leader       core.Role
	participants []core.Role
}

var templates = map[core.Stage]stageTemplate{
	core.StageRequirements: {
		meetingType:  core.MeetingRequirements,
		title:        "Requirements",
		goal:         "Agree on the problem, target users, scope and acceptance criteria.",
		leader:       core.RoleProductManager,
		participants: []core.Role{core.RoleCEO, core.RoleCTO, core.RoleDesigner},
	},
	core.StageArchitecture: {
		meetingType:  core.MeetingArchitecture,
		title:        "Architecture",
		goal:         "Design the system: components, interfaces, data model and technology choices.",
		leader:       core.RoleArchitect,
		participants: []core.Role{core.RoleCTO, core.RoleTechLead, core.RoleSecurityEngineer},
	},
	core.StageImplementation: {
		meetingType:  core.MeetingSprintPlanning,
		title:        "Implementation",
		goal:         "Plan the work and write the core code. Put code in fenced code blocks.",
		leader:       core.RoleTechLead,
		participants: []core.Role{core.RoleDeveloper, core.RoleArchitect, core.RoleQAEngineer},
	},
	core.StageReview: {
		meetingType:  core.MeetingCodeReview,
		title:        "Review",
		goal:         "Review the implementation for correctness, quality, test coverage and security.",
		leader:       core.RoleTechLead,
		participants: []core.Role{core.RoleDeveloper, core.RoleQAEngineer, core.RoleSecurityEngineer},
	},
	core.StageRelease: {
		meetingType:  core.MeetingReleasePlanning,
		title:        "Release",
		goal:         "Plan the release: deployment, rollout, monitoring and rollback.",
		leader:       core.RoleCTO,
		participants: []core.Role{core.RoleDevOpsEngineer, core.RoleProductManager, core.RoleQAEngineer},
	},
}

// AgendaFor builds the meeting agenda of stage for project; prior carries the
// summaries of earlier stages. maxTurns <= 0 leaves the ceiling to the
// meeting scheduler.
func AgendaFor(stage core.Stage, project, description, prior string, maxTurns int) (core.MeetingAgenda, error) {
	tpl, ok := templates[stage]
	if !ok {
		return core.MeetingAgenda{}, fmt.Errorf("%w: %q", core.ErrUnknownStage, stage)
	}
	return core.MeetingAgenda{
		Title:        fmt.Sprintf("%s: %s", project, tpl.title),
		Description:  fmt.Sprintf("Project: %s\n%s\n\nGoal: %s", project, description, tpl.goal),
		Type:         tpl.meetingType,
		Participants: append([]core.Role{tpl.leader}, tpl.participants...),
		Leader:       tpl.leader,
		MaxTurns:     maxTurns,
		Context:      prior,
	}, nil
}

// MeetingRunner executes one meeting.
type MeetingRunner interface {
	Run(ctx context.Context, agenda core.MeetingAgenda) (*core.MeetingResult, error)
}

// Options configures a Runner.
type Options struct {
	// MaxTurns per stage meeting; zero uses the scheduler default.
	MaxTurns  int
	Publisher core.Publisher
	Logger    logging.Logger
	// OnStage is called after each completed stage.
	OnStage func(core.StageResult)
}

// Runner drives a project through every stage.
type Runner struct {
	meetings MeetingRunner
	opts     Options
}

// NewRunner creates a Runner executing stage meetings with meetings.
func NewRunner(meetings MeetingRunner, optFns ...func(o *Options)) *Runner {
	opts := Options{
		Publisher: core.NopPublisher{},
		Logger:    logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{meetings: meetings, opts: opts}
}

// Run executes every stage in order. A failed stage aborts the pipeline
// with a *core.StageError and no result.
func (r *Runner) Run(ctx context.Context, project, description string) (*core.PipelineResult, error) {
	result := &core.PipelineResult{
		ID:          core.NewID(),
		Project:     project,
		Description: description,
		Decisions:   []core.Decision{},
	}
	start := time.Now()

	r.publish(core.EventPipelineStarted, map[string]any{"pipeline_id": result.ID, "project": project})
	r.opts.Logger.Info("pipeline.start", "pipeline_id", result.ID, "project", project)

	var summaries []string
	for _, stage := range Stages() {
		agenda, err := AgendaFor(stage, project, description, strings.Join(summaries, "\n\n"), r.opts.MaxTurns)
		if err != nil {
			return nil, &core.StageError{Stage: stage, Err: err}
		}

		r.publish(core.EventPipelineStageStarted, map[string]any{"pipeline_id": result.ID, "stage": string(stage)})

		m, err := r.meetings.Run(ctx, agenda)
		if err != nil {
			r.opts.Logger.Error("pipeline.stage.failed", "pipeline_id", result.ID, "stage", stage, "error", err)
			return nil, &core.StageError{Stage: stage, Err: err}
		}

		sr := core.StageResult{Stage: stage, Meeting: m}
		result.Stages = append(result.Stages, sr)
		result.Decisions = append(result.Decisions, m.Decisions...)
		result.TokenUsage = result.TokenUsage.Add(m.TokenUsage)
		summaries = append(summaries, fmt.Sprintf("%s summary:\n%s", templates[stage].title, m.Summary))

		r.publish(core.EventPipelineStageCompleted, map[string]any{
			"pipeline_id": result.ID,
			"stage":       string(stage),
			"meeting_id":  m.ID,
			"decisions":   len(m.Decisions),
		})
		if r.opts.OnStage != nil {
			r.opts.OnStage(sr)
		}
	}

	result.Duration = time.Since(start)
	r.publish(core.EventPipelineCompleted, map[string]any{
		"pipeline_id": result.ID,
		"project":     project,
		"decisions":   len(result.Decisions),
		"tokens":      result.TokenUsage.TotalTokens,
	})
	r.opts.Logger.Info("pipeline.done", "pipeline_id", result.ID, "duration", result.Duration, "decisions", len(result.Decisions))
	return result, nil
}

func (r *Runner) publish(t core.EventType, data map[string]any) {
	r.opts.Publisher.Publish(core.NewEvent(t, data))
}

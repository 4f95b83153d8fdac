package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/voc-backend/internal/logger"
	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/domain"
)

// CompleteStep marks a workflow step done for a project. Progress and status
// are derived from the completed steps; repeating a step changes nothing.
func (s *ProjectService) CompleteStep(ctx context.Context, id, rawStep string) (MutationResult, error) {
	step := domain.Step(rawStep)
	if !step.Valid() {
		return MutationResult{}, domain.ErrInvalidStep
	}

	var changed bool
	p, err := s.store.Modify(id, func(p *domain.Project) (bool, error) {
		var err error
		changed, err = p.CompleteStep(step)
		return changed, err
	})
	if err != nil {
		return MutationResult{}, err
	}
	if !changed {
		return MutationResult{Project: p}, nil
	}

	logger.FromContext(ctx, s.log).Info("workflow step completed",
		zap.String("project_id", id),
		zap.String("step", string(step)),
		zap.Int("progress", p.Progress),
		zap.String("status", string(p.Status)),
	)
	return MutationResult{Project: p, Warning: s.persist(ctx, "complete_step")}, nil
}

// Steps returns the workflow with per-step completion for a project.
func (s *ProjectService) Steps(id string) ([]StepState, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	out := make([]StepState, 0, len(domain.WorkflowSteps))
	for _, step := range domain.WorkflowSteps {
		out = append(out, StepState{Step: step, Done: p.HasCompleted(step)})
	}
	return out, nil
}

// StepState is one row of a project's workflow checklist.
type StepState struct {
	Step domain.Step `json:"step"`
	Done bool        `json:"done"`
}

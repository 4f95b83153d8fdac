package domain

import (
	"fmt"
	"strings"
	"time"
)

// Project represents a single survey/research initiative with a lifecycle
// status and a completion percentage.
// It is intentionally storage-agnostic and used across store, service and HTTP layers.
type Project struct {
	ID             string    `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name"`
	Description    string    `json:"description" yaml:"description"`
	Progress       int       `json:"progress" yaml:"progress"`
	Status         Status    `json:"status" yaml:"status"`
	CompletedSteps []Step    `json:"completed_steps,omitempty" yaml:"completed_steps,omitempty"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" yaml:"updated_at"`
}

// Clone returns a deep copy so callers never share slices with the store.
func (p Project) Clone() Project {
	out := p
	if p.CompletedSteps != nil {
		out.CompletedSteps = append([]Step(nil), p.CompletedSteps...)
	}
	return out
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Name        *string
	Description *string
	Progress    *int
	Status      *Status
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Progress == nil && p.Status == nil
}

// Apply merges the patch into the project, enforcing progress and status rules.
// The project is left unchanged when an error is returned.
func (p *Project) Apply(patch Patch) error {
	next := p.Clone()

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return fmt.Errorf("%w: name required", ErrInvalidInput)
		}
		next.Name = name
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Progress != nil {
		if next.Status == StatusArchived && *patch.Progress != next.Progress {
			return ErrInvalidTransition
		}
		if err := CheckProgress(next.Progress, *patch.Progress); err != nil {
			return err
		}
		next.Progress = *patch.Progress
	}
	if patch.Status != nil {
		if err := CheckTransition(next.Status, *patch.Status); err != nil {
			return err
		}
		next.Status = *patch.Status
	}

	*p = next
	return nil
}

// CompleteStep records a finished workflow step and derives progress and
// status from the set of completed steps. Completing a step twice is a no-op.
func (p *Project) CompleteStep(step Step) (changed bool, err error) {
	if !step.Valid() {
		return false, ErrInvalidStep
	}
	if p.Status == StatusArchived {
		return false, ErrInvalidTransition
	}
	if p.HasCompleted(step) {
		return false, nil
	}

	p.CompletedSteps = append(p.CompletedSteps, step)
	if progress := ProgressFor(len(p.CompletedSteps)); progress > p.Progress {
		p.Progress = progress
	}

	switch {
	case len(p.CompletedSteps) == len(WorkflowSteps):
		p.Status = StatusCompleted
	case p.Status == StatusDraft:
		p.Status = StatusActive
	}
	return true, nil
}

// HasCompleted reports whether the step is already recorded.
func (p Project) HasCompleted(step Step) bool {
	for _, s := range p.CompletedSteps {
		if s == step {
			return true
		}
	}
	return false
}

// Normalize checks a project that did not come through Create, such as a
// seed entry or a persisted row. Blank status defaults to draft, missing
// timestamps become loadedAt and UpdatedAt is never earlier than CreatedAt.
func (p *Project) Normalize(loadedAt time.Time) error {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	if p.ID == "" || p.Name == "" {
		return fmt.Errorf("%w: id and name required", ErrInvalidInput)
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, p.Status)
	}
	if err := CheckProgress(0, p.Progress); err != nil {
		return err
	}
	seen := make(map[Step]struct{}, len(p.CompletedSteps))
	for _, s := range p.CompletedSteps {
		if !s.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidStep, s)
		}
		if _, dup := seen[s]; dup {
			return fmt.Errorf("%w: %q recorded twice", ErrInvalidStep, s)
		}
		seen[s] = struct{}{}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = loadedAt
	}
	if p.UpdatedAt.Before(p.CreatedAt) {
		p.UpdatedAt = p.CreatedAt
	}
	return nil
}

// CreateInput is the data needed to create a new project.
type CreateInput struct {
	Name        string
	Description string
}

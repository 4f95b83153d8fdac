package domain

// Step is one stage of the research workflow a project goes through.
type Step string

const (
	StepObjectives Step = "objectives"
	StepQuestions  Step = "questions"
	StepContacts   Step = "contacts"
	StepOutreach   Step = "outreach"
	StepAnalysis   Step = "analysis"
)

// WorkflowSteps lists the steps in the order the dashboard presents them.
var WorkflowSteps = []Step{
	StepObjectives,
	StepQuestions,
	StepContacts,
	StepOutreach,
	StepAnalysis,
}

// Valid reports whether s is a known workflow step.
func (s Step) Valid() bool {
	for _, known := range WorkflowSteps {
		if s == known {
			return true
		}
	}
	return false
}

// ProgressFor maps a number of completed steps to a 0..100 percentage.
func ProgressFor(completed int) int {
	if completed <= 0 {
		return 0
	}
	if completed >= len(WorkflowSteps) {
		return 100
	}
	return completed * 100 / len(WorkflowSteps)
}

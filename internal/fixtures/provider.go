// Package fixtures serves the canned research datasets (contacts, questions,
// responses) that dashboards display next to a project, plus the projects the
// store is seeded with on first start.
//
// Unknown project ids always yield empty, non-nil slices.
package fixtures

import "github.com/GoSim-25-26J-441/voc-backend/internal/projects/domain"

// Contact is a person who can be reached by an outreach campaign.
type Contact struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Email   string `json:"email" yaml:"email"`
	Company string `json:"company,omitempty" yaml:"company"`
	Segment string `json:"segment,omitempty" yaml:"segment"`
}

// QuestionType is the answer format of a survey question.
type QuestionType string

const (
	QuestionNPS    QuestionType = "nps"
	QuestionRating QuestionType = "rating"
	QuestionText   QuestionType = "text"
	QuestionChoice QuestionType = "choice"
)

// Question is one survey question.
type Question struct {
	ID      string       `json:"id" yaml:"id"`
	Text    string       `json:"text" yaml:"text"`
	Type    QuestionType `json:"type" yaml:"type"`
	Options []string     `json:"options,omitempty" yaml:"options"`
}

// Response is one contact's answer to one question.
type Response struct {
	ContactID  string `json:"contact_id" yaml:"contact_id"`
	QuestionID string `json:"question_id" yaml:"question_id"`
	Answer     string `json:"answer,omitempty" yaml:"answer"`
	Score      *int   `json:"score,omitempty" yaml:"score"`
}

// Provider is the read-only source of fixture data.
type Provider interface {
	SeedProjects() []domain.Project
	Contacts(projectID string) []Contact
	Questions(projectID string) []Question
	Responses(projectID string) []Response
}

// Empty is a Provider with no data at all.
type Empty struct{}

func (Empty) SeedProjects() []domain.Project { return []domain.Project{} }
func (Empty) Contacts(string) []Contact      { return []Contact{} }
func (Empty) Questions(string) []Question    { return []Question{} }
func (Empty) Responses(string) []Response    { return []Response{} }

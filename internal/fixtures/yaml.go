package fixtures

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/domain"
)

type dataset struct {
	Contacts  []Contact  `yaml:"contacts"`
	Questions []Question `yaml:"questions"`
	Responses []Response `yaml:"responses"`
}

type document struct {
	Projects []domain.Project   `yaml:"projects"`
	Datasets map[string]dataset `yaml:"datasets"`
}

// YAMLProvider serves fixtures parsed from a YAML document.
type YAMLProvider struct {
	projects []domain.Project
	datasets map[string]dataset
}

// LoadYAML reads and validates a fixture file.
func LoadYAML(path string) (*YAMLProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseYAML(data, time.Now().UTC())
}

// ParseYAML parses a fixture document. Seed projects without timestamps get
// loadedAt; missing statuses default to draft.
func ParseYAML(data []byte, loadedAt time.Time) (*YAMLProvider, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Projects))
	for i := range doc.Projects {
		p := &doc.Projects[i]
		if err := p.Normalize(loadedAt); err != nil {
			return nil, fmt.Errorf("project %d: %w", i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateID, p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	for projectID, ds := range doc.Datasets {
		if err := validateDataset(ds); err != nil {
			return nil, fmt.Errorf("dataset %s: %w", projectID, err)
		}
	}

	if doc.Datasets == nil {
		doc.Datasets = map[string]dataset{}
	}
	return &YAMLProvider{projects: doc.Projects, datasets: doc.Datasets}, nil
}

func validateDataset(ds dataset) error {
	contacts := make(map[string]struct{}, len(ds.Contacts))
	for _, c := range ds.Contacts {
		if c.ID == "" {
			return fmt.Errorf("contact without id")
		}
		contacts[c.ID] = struct{}{}
	}

	questions := make(map[string]struct{}, len(ds.Questions))
	for _, q := range ds.Questions {
		if q.ID == "" {
			return fmt.Errorf("question without id")
		}
		switch q.Type {
		case QuestionNPS, QuestionRating, QuestionText, QuestionChoice:
		default:
			return fmt.Errorf("question %s: unknown type %q", q.ID, q.Type)
		}
		questions[q.ID] = struct{}{}
	}

	for _, r := range ds.Responses {
		if _, ok := contacts[r.ContactID]; !ok {
			return fmt.Errorf("response references unknown contact %q", r.ContactID)
		}
		if _, ok := questions[r.QuestionID]; !ok {
			return fmt.Errorf("response references unknown question %q", r.QuestionID)
		}
	}
	return nil
}

// SeedProjects returns copies of the seed projects.
func (y *YAMLProvider) SeedProjects() []domain.Project {
	out := make([]domain.Project, 0, len(y.projects))
	for _, p := range y.projects {
		out = append(out, p.Clone())
	}
	return out
}

func (y *YAMLProvider) Contacts(projectID string) []Contact {
	return append([]Contact{}, y.datasets[projectID].Contacts...)
}

func (y *YAMLProvider) Questions(projectID string) []Question {
	return append([]Question{}, y.datasets[projectID].Questions...)
}

func (y *YAMLProvider) Responses(projectID string) []Response {
	return append([]Response{}, y.datasets[projectID].Responses...)
}

package fixtures

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `
projects:
  - id: p-1
    name: Churn
    status: active
    progress: 40
    completed_steps: [objectives, questions]
    created_at: 2025-01-01T00:00:00Z
    updated_at: 2025-01-02T00:00:00Z
  - id: p-2
    name: Draft study
datasets:
  p-1:
    contacts:
      - {id: c-1, name: Ann, email: ann@example.com}
    questions:
      - {id: q-1, text: Recommend us?, type: nps}
    responses:
      - {contact_id: c-1, question_id: q-1, score: 9}
`

var loadedAt = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

func TestParseYAML(t *testing.T) {
	prov, err := ParseYAML([]byte(sampleDoc), loadedAt)
	require.NoError(t, err)

	seeds := prov.SeedProjects()
	require.Len(t, seeds, 2)
	assert.Equal(t, domain.StatusActive, seeds[0].Status)
	assert.Equal(t, []domain.Step{domain.StepObjectives, domain.StepQuestions}, seeds[0].CompletedSteps)
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), seeds[0].UpdatedAt.UTC())

	assert.Equal(t, domain.StatusDraft, seeds[1].Status, "missing status defaults to draft")
	assert.Equal(t, loadedAt, seeds[1].CreatedAt)
	assert.Equal(t, loadedAt, seeds[1].UpdatedAt)

	require.Len(t, prov.Contacts("p-1"), 1)
	require.Len(t, prov.Questions("p-1"), 1)
	responses := prov.Responses("p-1")
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Score)
	assert.Equal(t, 9, *responses[0].Score)
}

func TestYAMLProvider_UnknownProjectIsEmpty(t *testing.T) {
	prov, err := ParseYAML([]byte(sampleDoc), loadedAt)
	require.NoError(t, err)

	for _, id := range []string{"p-2", "nope", ""} {
		assert.NotNil(t, prov.Contacts(id))
		assert.Empty(t, prov.Contacts(id))
		assert.NotNil(t, prov.Questions(id))
		assert.Empty(t, prov.Questions(id))
		assert.NotNil(t, prov.Responses(id))
		assert.Empty(t, prov.Responses(id))
	}
}

func TestYAMLProvider_ReturnsCopies(t *testing.T) {
	prov, err := ParseYAML([]byte(sampleDoc), loadedAt)
	require.NoError(t, err)

	prov.Contacts("p-1")[0].Name = "changed"
	assert.Equal(t, "Ann", prov.Contacts("p-1")[0].Name)

	prov.SeedProjects()[0].CompletedSteps[0] = domain.StepAnalysis
	assert.Equal(t, domain.StepObjectives, prov.SeedProjects()[0].CompletedSteps[0])
}

func TestParseYAML_Dataset(t *testing.T) {
	prov, err := ParseYAML([]byte(sampleDoc), loadedAt)
	require.NoError(t, err)

	score := 9
	want := []Response{{ContactID: "c-1", QuestionID: "q-1", Score: &score}}
	if diff := cmp.Diff(want, prov.Responses("p-1")); diff != "" {
		t.Errorf("Responses(p-1) mismatch (-want +got):\n%s", diff)
	}

	wantQuestions := []Question{{ID: "q-1", Text: "Recommend us?", Type: QuestionNPS}}
	if diff := cmp.Diff(wantQuestions, prov.Questions("p-1")); diff != "" {
		t.Errorf("Questions(p-1) mismatch (-want +got):\n%s", diff)
	}
}

func TestParseYAML_Invalid(t *testing.T) {
	cases := map[string]string{
		"duplicate id":     "projects:\n  - {id: a, name: A}\n  - {id: a, name: B}\n",
		"missing name":     "projects:\n  - {id: a}\n",
		"bad status":       "projects:\n  - {id: a, name: A, status: paused}\n",
		"bad progress":     "projects:\n  - {id: a, name: A, progress: 120}\n",
		"bad step":         "projects:\n  - {id: a, name: A, completed_steps: [launch]}\n",
		"bad question":     "datasets:\n  a:\n    questions:\n      - {id: q, text: x, type: slider}\n",
		"dangling contact": "datasets:\n  a:\n    questions:\n      - {id: q, text: x, type: text}\n    responses:\n      - {contact_id: c, question_id: q}\n",
		"not yaml":         "projects: [",
	}
	for name, doc := range cases {
		_, err := ParseYAML([]byte(doc), loadedAt)
		assert.Error(t, err, name)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o600))

	prov, err := LoadYAML(path)
	require.NoError(t, err)
	assert.Len(t, prov.SeedProjects(), 2)

	_, err = LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadYAML_RepositorySeed(t *testing.T) {
	prov, err := LoadYAML(filepath.Join("..", "..", "data", "seed.yaml"))
	require.NoError(t, err)
	assert.Len(t, prov.SeedProjects(), 3)
	assert.NotEmpty(t, prov.Responses("voc-20418-5531"))
	assert.Empty(t, prov.Contacts("voc-47720-3306"))
}

func TestEmpty(t *testing.T) {
	var p Provider = Empty{}
	assert.NotNil(t, p.SeedProjects())
	assert.Empty(t, p.Contacts("x"))
	assert.Empty(t, p.Questions("x"))
	assert.Empty(t, p.Responses("x"))
}

package main

import (
	"encoding/json"
	"io"

	"github.com/GoSim-25-26J-441/voc-backend/internal/fixtures"
	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/views"
)

type datasetCounts struct {
	Contacts  int `json:"contacts"`
	Questions int `json:"questions"`
	Responses int `json:"responses"`
}

type validateReport struct {
	Summary  views.Summary            `json:"summary"`
	Datasets map[string]datasetCounts `json:"datasets"`
}

// validateFile parses a fixture file and prints its derived summary as JSON.
func validateFile(path string, w io.Writer) error {
	prov, err := fixtures.LoadYAML(path)
	if err != nil {
		return err
	}

	seeds := prov.SeedProjects()
	out := validateReport{
		Summary:  views.Summarize(seeds),
		Datasets: make(map[string]datasetCounts, len(seeds)),
	}
	for _, p := range seeds {
		out.Datasets[p.ID] = datasetCounts{
			Contacts:  len(prov.Contacts(p.ID)),
			Questions: len(prov.Questions(p.ID)),
			Responses: len(prov.Responses(p.ID)),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Package views holds pure projections of the project collection used by
// dashboards, sidebars and progress trackers. Nothing here is cached; call
// the functions again after every store change.
package views

import (
	"sort"

	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/domain"
)

// Summary is the dashboard header.
type Summary struct {
	Total           int     `json:"total"`
	Draft           int     `json:"draft"`
	Active          int     `json:"active"`
	Completed       int     `json:"completed"`
	Archived        int     `json:"archived"`
	AverageProgress float64 `json:"average_progress"`
}

// Summarize counts projects per status and averages progress over the
// non-archived ones. With no non-archived projects the average is 0.
func Summarize(ps []domain.Project) Summary {
	var (
		s       Summary
		sum     int
		counted int
	)
	s.Total = len(ps)
	for _, p := range ps {
		switch p.Status {
		case domain.StatusDraft:
			s.Draft++
		case domain.StatusActive:
			s.Active++
		case domain.StatusCompleted:
			s.Completed++
		case domain.StatusArchived:
			s.Archived++
			continue
		}
		sum += p.Progress
		counted++
	}
	if counted > 0 {
		s.AverageProgress = float64(sum) / float64(counted)
	}
	return s
}

// NonArchived returns the projects still in play.
func NonArchived(ps []domain.Project) []domain.Project {
	return filter(ps, func(p domain.Project) bool { return p.Status != domain.StatusArchived })
}

// Archived returns archived projects only.
func Archived(ps []domain.Project) []domain.Project {
	return filter(ps, func(p domain.Project) bool { return p.Status == domain.StatusArchived })
}

// ByStatus returns projects with the given status.
func ByStatus(ps []domain.Project, status domain.Status) []domain.Project {
	return filter(ps, func(p domain.Project) bool { return p.Status == status })
}

// SortByUpdated returns a copy ordered newest first, id breaking ties.
func SortByUpdated(ps []domain.Project) []domain.Project {
	out := append([]domain.Project(nil), ps...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Recent returns up to n non-archived projects, most recently updated first.
func Recent(ps []domain.Project, n int) []domain.Project {
	sorted := SortByUpdated(NonArchived(ps))
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func filter(ps []domain.Project, keep func(domain.Project) bool) []domain.Project {
	out := make([]domain.Project, 0, len(ps))
	for _, p := range ps {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

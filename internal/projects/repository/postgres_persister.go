package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/domain"
)

const projectsSchema = `
CREATE TABLE IF NOT EXISTS voc_projects (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	progress        INTEGER NOT NULL DEFAULT 0,
	status          TEXT NOT NULL,
	completed_steps JSONB NOT NULL DEFAULT '[]',
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);
`

// PostgresPersister stores the project collection in the voc_projects table.
type PostgresPersister struct {
	db *sql.DB
}

// NewPostgresPersister creates a new PostgresPersister
func NewPostgresPersister(db *sql.DB) *PostgresPersister {
	return &PostgresPersister{db: db}
}

func (r *PostgresPersister) Name() string { return "postgres" }

// EnsureSchema creates the projects table if it does not exist.
func (r *PostgresPersister) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, projectsSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Load reads every stored project ordered by creation time.
func (r *PostgresPersister) Load(ctx context.Context) ([]domain.Project, error) {
	const q = `
SELECT id, name, description, progress, status, completed_steps, created_at, updated_at
FROM voc_projects
ORDER BY created_at, id;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		var (
			p         domain.Project
			status    string
			stepsJSON []byte
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Progress, &status, &stepsJSON, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		p.Status = domain.Status(status)
		if len(stepsJSON) > 0 {
			if err := json.Unmarshal(stepsJSON, &p.CompletedSteps); err != nil {
				return nil, fmt.Errorf("failed to unmarshal steps for %s: %w", p.ID, err)
			}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Save replaces the table contents inside one transaction.
func (r *PostgresPersister) Save(ctx context.Context, projects []domain.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM voc_projects`); err != nil {
		return fmt.Errorf("failed to clear projects: %w", err)
	}

	if len(projects) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO voc_projects (id, name, description, progress, status, completed_steps, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, p := range projects {
			steps := p.CompletedSteps
			if steps == nil {
				steps = []domain.Step{}
			}
			stepsJSON, err := json.Marshal(steps)
			if err != nil {
				return fmt.Errorf("failed to marshal steps for %s: %w", p.ID, err)
			}
			if _, err := stmt.ExecContext(ctx,
				p.ID, p.Name, p.Description, p.Progress, string(p.Status), stepsJSON, p.CreatedAt, p.UpdatedAt,
			); err != nil {
				return fmt.Errorf("failed to insert project %s: %w", p.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit projects: %w", err)
	}
	return nil
}

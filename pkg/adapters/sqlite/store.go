// Package sqlite provides a SQLite-backed project store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/aretw0/intake/pkg/adapters/sqlite/migrations"
	"github.com/aretw0/intake/pkg/domain"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// ProjectStore persists project records in SQLite.
type ProjectStore struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite project store and applies embedded migrations.
func Open(path string) (*ProjectStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := MemoryPath
	if path != MemoryPath {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == MemoryPath {
		// Every connection to :memory: is its own database.
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &ProjectStore{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *ProjectStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateProject inserts one project row.
func (s *ProjectStore) CreateProject(ctx context.Context, sub domain.Submission) (*domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(sub.ClientID) == "" {
		return nil, fmt.Errorf("client id is required")
	}

	data, err := json.Marshal(sub.ProjectData)
	if err != nil {
		return nil, fmt.Errorf("encode project data: %w", err)
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	p := &domain.Project{
		ID:          uuid.NewString(),
		ClientID:    sub.ClientID,
		Name:        sub.Name,
		Description: sub.Description,
		Goal:        sub.Goal,
		Status:      sub.Status,
		Progress:    sub.Progress,
		Price:       sub.EstimatedPrice,
		ProjectData: sub.ProjectData.Clone(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO projects (
		   id,
		   client_id,
		   name,
		   description,
		   goal,
		   status,
		   progress,
		   estimated_price,
		   project_data,
		   created_at,
		   updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.ClientID,
		p.Name,
		p.Description,
		p.Goal,
		p.Status,
		p.Progress,
		p.Price,
		string(data),
		toMillis(p.CreatedAt),
		toMillis(p.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

// ListProjects returns the client's projects, newest first.
func (s *ProjectStore) ListProjects(ctx context.Context, clientID string) ([]*domain.Project, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, client_id, name, description, goal, status, progress,
		        estimated_price, project_data, created_at, updated_at
		   FROM projects
		  WHERE client_id = ?
		  ORDER BY created_at DESC, rowid DESC`,
		clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []*domain.Project
	for rows.Next() {
		var (
			p                domain.Project
			data             string
			created, updated int64
		)
		if err := rows.Scan(
			&p.ID, &p.ClientID, &p.Name, &p.Description, &p.Goal, &p.Status,
			&p.Progress, &p.Price, &data, &created, &updated,
		); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &p.ProjectData); err != nil {
			return nil, fmt.Errorf("decode project %s: %w", p.ID, err)
		}
		p.CreatedAt = fromMillis(created)
		p.UpdatedAt = fromMillis(updated)
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return out, nil
}
